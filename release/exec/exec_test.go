package exec_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/release_prep/release/exec"
)

func TestEx_success(t *testing.T) {
	t.Parallel()

	out, err := exec.Ex(
		context.Background(), "", "echo", "hello",
	)

	require.NoError(t, err)
	assert.Contains(t, out, "hello")
}

func TestEx_with_dir(t *testing.T) {
	t.Parallel()

	out, err := exec.Ex(
		context.Background(), "/tmp", "pwd",
	)

	require.NoError(t, err)
	assert.Contains(t, out, "/tmp")
}

func TestEx_failure(t *testing.T) {
	t.Parallel()

	_, err := exec.Ex(
		context.Background(), "", "false",
	)

	assert.Error(t, err)
}

func TestEx_failure_masks_auth_header(t *testing.T) {
	t.Parallel()

	// The failing command's error message must not
	// contain the credential value.
	_, err := exec.Ex(
		context.Background(),
		"",
		"false",
		"-c",
		"http.extraheader=AUTHORIZATION: basic c2VjcmV0",
	)

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "c2VjcmV0")
	assert.Contains(t, err.Error(), "***")
}

func TestMaskAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "plain args untouched",
			args: []string{"status", "--porcelain"},
			want: []string{"status", "--porcelain"},
		},
		{
			name: "auth header masked",
			args: []string{
				"-c",
				"http.extraheader=AUTHORIZATION: basic abc",
				"fetch",
			},
			want: []string{
				"-c",
				"http.extraheader=AUTHORIZATION: ***",
				"fetch",
			},
		},
		{
			name: "empty args",
			args: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := exec.MaskAuthForTest(tt.args)
			assert.Equal(t, tt.want, got)
		})
	}
}
