package version_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/release_prep/release/version"
)

// writeFile creates a file under dir with the given
// relative path and content.
func writeFile(
	t *testing.T,
	dir string,
	rel string,
	content string,
) {
	t.Helper()

	path := filepath.Join(dir, rel)

	err := os.MkdirAll(filepath.Dir(path), 0o750)
	require.NoError(t, err)

	//nolint:gosec // test file
	err = os.WriteFile(
		path, []byte(content), 0o600,
	)
	require.NoError(t, err)
}

func readFile(
	t *testing.T,
	dir string,
	rel string,
) string {
	t.Helper()

	//nolint:gosec // test file
	by, err := os.ReadFile(filepath.Join(dir, rel))
	require.NoError(t, err)

	return string(by)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ver     string
		wantErr bool
	}{
		{
			name: "plain release",
			ver:  "1.2.3",
		},
		{
			name: "prerelease",
			ver:  "2.0.0-rc.1",
		},
		{
			name: "build metadata",
			ver:  "1.2.3+build.7",
		},
		{
			name:    "leading v",
			ver:     "v1.2.3",
			wantErr: true,
		},
		{
			name:    "two components",
			ver:     "1.2",
			wantErr: true,
		},
		{
			name:    "garbage",
			ver:     "latest",
			wantErr: true,
		},
		{
			name:    "empty",
			ver:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := version.Validate(tt.ver)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBump_rewrites_targets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(
		t, dir, "pkg/__init__.py",
		"name = \"pkg\"\n"+
			"__version__ = \"1.2.2\"\n",
	)
	writeFile(
		t, dir, "pyproject.toml",
		"[project]\nversion = \"1.2.2\"\n",
	)

	changed, err := version.Bump(
		dir,
		[]version.Target{
			{
				Path:     "pkg/__init__.py",
				Template: `__version__ = "{version}"`,
			},
			{
				Path:     "pyproject.toml",
				Template: `version = "{version}"`,
			},
		},
		"1.2.3",
	)

	require.NoError(t, err)
	assert.Equal(
		t,
		[]string{"pkg/__init__.py", "pyproject.toml"},
		changed,
	)

	assert.Contains(
		t,
		readFile(t, dir, "pkg/__init__.py"),
		`__version__ = "1.2.3"`,
	)
	assert.Contains(
		t,
		readFile(t, dir, "pyproject.toml"),
		`version = "1.2.3"`,
	)
}

func TestBump_prerelease_source(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(
		t, dir, "VERSION",
		"version: 2.0.0-rc.1\n",
	)

	changed, err := version.Bump(
		dir,
		[]version.Target{
			{
				Path:     "VERSION",
				Template: "version: {version}",
			},
		},
		"2.0.0",
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"VERSION"}, changed)
	assert.Equal(
		t,
		"version: 2.0.0\n",
		readFile(t, dir, "VERSION"),
	)
}

func TestBump_already_current(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(
		t, dir, "VERSION",
		"version: 1.2.3\n",
	)

	changed, err := version.Bump(
		dir,
		[]version.Target{
			{
				Path:     "VERSION",
				Template: "version: {version}",
			},
		},
		"1.2.3",
	)

	// No modification, no error: the commit step
	// decides whether an unchanged tree is fatal.
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestBump_no_match_fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(
		t, dir, "VERSION", "no version here\n",
	)

	_, err := version.Bump(
		dir,
		[]version.Target{
			{
				Path:     "VERSION",
				Template: "version: {version}",
			},
		},
		"1.2.3",
	)

	require.Error(t, err)
	assert.ErrorContains(t, err, "matches nothing")
}

func TestBump_invalid_version_fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := version.Bump(
		dir,
		[]version.Target{
			{
				Path:     "VERSION",
				Template: "version: {version}",
			},
		},
		"not-a-version",
	)

	require.Error(t, err)
	assert.ErrorContains(t, err, "validating version")
}

func TestBump_no_targets_fails(t *testing.T) {
	t.Parallel()

	_, err := version.Bump(t.TempDir(), nil, "1.2.3")

	require.Error(t, err)
	assert.ErrorContains(t, err, "no version targets")
}

func TestBump_missing_placeholder_fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "VERSION", "version: 1.0.0\n")

	_, err := version.Bump(
		dir,
		[]version.Target{
			{
				Path:     "VERSION",
				Template: "version: 1.0.0",
			},
		},
		"1.2.3",
	)

	require.Error(t, err)
	assert.ErrorContains(t, err, "placeholder")
}
