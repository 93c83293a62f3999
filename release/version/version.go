package version

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/blang/semver/v4"
)

// placeholder marks the spot in a target template where
// the version string lives.
const placeholder = "{version}"

// semverPattern matches a semver version with optional
// pre-release and build suffixes.
const semverPattern = `[0-9]+\.[0-9]+\.[0-9]+` +
	`(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?`

// Target names a version-bearing file and the line
// template used to locate and rewrite the version in it.
type Target struct {
	// Path is the file path relative to the
	// repository root.
	Path string `yaml:"path"`
	// Template is the version-bearing text with a
	// {version} placeholder, e.g.
	// `__version__ = "{version}"`.
	Template string `yaml:"template"`
}

// Validate parses ver as strict semver.
func Validate(ver string) error {
	const errCtx = "validating version"

	if _, err := semver.Parse(ver); err != nil {
		return fmt.Errorf(
			"%s: %q: %w", errCtx, ver, err,
		)
	}

	return nil
}

// Bump rewrites the version in every target under root
// and returns the list of modified files. The new
// version is validated first; a target whose template
// matches nothing in its file is an error, since the
// file then carries no version to update.
func Bump(
	root string,
	targets []Target,
	newVersion string,
) ([]string, error) {
	const errCtx = "bumping version"

	if err := Validate(newVersion); err != nil {
		return nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf(
			"%s: no version targets configured",
			errCtx,
		)
	}

	var changed []string

	for _, tgt := range targets {
		ok, err := bumpFile(root, tgt, newVersion)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %s: %w", errCtx, tgt.Path, err,
			)
		}

		if ok {
			changed = append(changed, tgt.Path)
		}
	}

	return changed, nil
}

// bumpFile rewrites one target file. Returns false when
// the file already carried the new version verbatim.
func bumpFile(
	root string,
	tgt Target,
	newVersion string,
) (bool, error) {
	re, err := targetPattern(tgt.Template)
	if err != nil {
		return false, err
	}

	path := filepath.Join(root, tgt.Path)

	data, err := os.ReadFile(path) //nolint:gosec // paths come from run config
	if err != nil {
		return false, fmt.Errorf("read: %w", err)
	}

	content := string(data)

	if !re.MatchString(content) {
		return false, fmt.Errorf(
			"template %q matches nothing",
			tgt.Template,
		)
	}

	replacement := strings.ReplaceAll(
		tgt.Template, placeholder, newVersion,
	)

	updated := re.ReplaceAllLiteralString(
		content, replacement,
	)

	if updated == content {
		slog.Info(
			"version already current",
			"file", tgt.Path,
			"version", newVersion,
		)

		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat: %w", err)
	}

	if err := os.WriteFile(
		path, []byte(updated), info.Mode().Perm(),
	); err != nil {
		return false, fmt.Errorf("write: %w", err)
	}

	slog.Info(
		"updated version",
		"file", tgt.Path,
		"version", newVersion,
	)

	return true, nil
}

// targetPattern compiles a target template into a
// regexp locating the current version occurrence.
func targetPattern(
	template string,
) (*regexp.Regexp, error) {
	if !strings.Contains(template, placeholder) {
		return nil, fmt.Errorf(
			"template %q has no %s placeholder",
			template, placeholder,
		)
	}

	quoted := regexp.QuoteMeta(template)

	expr := strings.ReplaceAll(
		quoted,
		regexp.QuoteMeta(placeholder),
		semverPattern,
	)

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf(
			"compile pattern: %w", err,
		)
	}

	return re, nil
}
