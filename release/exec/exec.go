// Package exec provides shell command execution helpers.
package exec

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// authHeaderPrefix marks git config arguments that carry a
// credential. Values after the prefix are masked in logs.
const authHeaderPrefix = "http.extraheader=AUTHORIZATION:"

// Ex executes the named command in the given directory and
// returns combined stdout+stderr output. Pass empty dir to
// use the current working directory. Arguments carrying an
// authorization header are masked before logging.
func Ex(
	ctx context.Context,
	dir string,
	name string,
	arg ...string,
) (string, error) {
	const errCtx = "executing command"

	slog.Info(
		"executing",
		"cmd", name,
		"args", strings.Join(maskAuth(arg), " "),
	)

	cmd := exec.CommandContext(ctx, name, arg...)
	if dir != "" {
		cmd.Dir = dir
	}

	by, err := cmd.CombinedOutput()

	slog.Info("output", "result", string(by))

	if err != nil {
		return string(by), fmt.Errorf(
			"%s: %s %s: %w",
			errCtx,
			name,
			strings.Join(maskAuth(arg), " "),
			err,
		)
	}

	return string(by), nil
}

// maskAuth replaces the value of any authorization header
// argument so credentials never reach the log stream.
func maskAuth(args []string) []string {
	masked := make([]string, len(args))

	for i, a := range args {
		if strings.HasPrefix(a, authHeaderPrefix) {
			masked[i] = authHeaderPrefix + " ***"

			continue
		}

		masked[i] = a
	}

	return masked
}
