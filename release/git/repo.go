package git

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/byte4ever/release_prep/release/exec"
)

// Repo is a local clone of a git repository. Create
// with Clone, and call Clean when done.
type Repo struct {
	// Dir is the filesystem location of the clone.
	Dir string
	// RemoteName is the name of the upstream remote.
	RemoteName string

	// authHeader is the credential header passed to
	// each remote operation. Held in memory only.
	authHeader string
}

// Clone clones a repository into dir at the given branch.
// Pass the full repository URL as repo (e.g.
// "https://github.com/org/repo.git"). A non-empty token is
// turned into a basic-auth header supplied per invocation,
// so the credential never lands in the clone's config.
//
//nolint:gosec // file paths originate from CLI flags
func Clone(
	ctx context.Context,
	repo string,
	dir string,
	branch string,
	token string,
) (*Repo, error) {
	const errCtx = "cloning repository"

	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf(
			"%s: remove dir: %w", errCtx, err,
		)
	}

	rp := &Repo{
		Dir:        dir,
		RemoteName: "origin",
		authHeader: authHeader(token),
	}

	args := rp.authArgs()
	args = append(args,
		"clone",
		"--single-branch",
		"--branch", branch,
		"--no-tags",
		"--origin", rp.RemoteName,
		repo,
		dir,
	)

	if _, err := exec.Ex(
		ctx, "", "git", args...,
	); err != nil {
		return nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return rp, nil
}

// Clean removes the local clone directory.
func (r *Repo) Clean() error {
	const errCtx = "cleaning repository"

	if err := os.RemoveAll(r.Dir); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// CheckoutCommit detaches the working tree at the given
// commit. The commit must be reachable from the cloned
// branch.
func (r *Repo) CheckoutCommit(
	ctx context.Context,
	sha string,
) error {
	const errCtx = "checking out commit"

	if _, err := exec.Ex(
		ctx, r.Dir, "git",
		"checkout", "--detach", sha,
	); err != nil {
		return fmt.Errorf(
			"%s: %s: %w", errCtx, sha, err,
		)
	}

	return nil
}

// CreateBranch creates and switches to a new branch at
// the current HEAD.
func (r *Repo) CreateBranch(
	ctx context.Context,
	branch string,
) error {
	const errCtx = "creating branch"

	if _, err := exec.Ex(
		ctx, r.Dir, "git",
		"switch", "-c", branch,
	); err != nil {
		return fmt.Errorf(
			"%s: %s: %w", errCtx, branch, err,
		)
	}

	return nil
}

// ConfigureIdentity sets the committer name and email in
// the local repository configuration. Values must be
// non-empty and free of control characters.
func (r *Repo) ConfigureIdentity(
	ctx context.Context,
	name string,
	email string,
) error {
	const errCtx = "configuring identity"

	if err := validIdentity(name); err != nil {
		return fmt.Errorf(
			"%s: name: %w", errCtx, err,
		)
	}

	if err := validIdentity(email); err != nil {
		return fmt.Errorf(
			"%s: email: %w", errCtx, err,
		)
	}

	if _, err := exec.Ex(
		ctx, r.Dir, "git",
		"config", "--local", "user.name", name,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if _, err := exec.Ex(
		ctx, r.Dir, "git",
		"config", "--local", "user.email", email,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// CommitAll stages every change in the working tree and
// commits it with the given message. A clean tree is an
// error: the release steps assume modifications exist.
func (r *Repo) CommitAll(
	ctx context.Context,
	message string,
) error {
	const errCtx = "committing changes"

	if _, err := exec.Ex(
		ctx, r.Dir, "git", "add", "-A",
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	clean, err := r.IsClean(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if clean {
		return fmt.Errorf(
			"%s: nothing to commit", errCtx,
		)
	}

	if _, err := exec.Ex(
		ctx, r.Dir, "git",
		"commit", "-m", message,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// IsClean reports whether the working tree has no
// uncommitted changes.
func (r *Repo) IsClean(
	ctx context.Context,
) (bool, error) {
	const errCtx = "checking repo status"

	out, err := exec.Ex(
		ctx, r.Dir, "git",
		"status", "--porcelain",
	)
	if err != nil {
		return false, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return strings.TrimSpace(out) == "", nil
}

// LastCommitMessage returns the most recent commit
// message on the current branch. Returns empty string
// on error.
func (r *Repo) LastCommitMessage(
	ctx context.Context,
) string {
	msg, err := exec.Ex(
		ctx, r.Dir, "git",
		"log", "-1", "--pretty=%B",
	)
	if err != nil {
		return ""
	}

	return msg
}

// DeleteRemoteBranch deletes the branch on the remote.
// A branch that does not exist remotely is not an error:
// the caller only needs the name to be free.
func (r *Repo) DeleteRemoteBranch(
	ctx context.Context,
	branch string,
) error {
	const errCtx = "deleting remote branch"

	args := r.authArgs()
	args = append(args,
		"push", r.RemoteName,
		"--delete", branch,
	)

	out, err := exec.Ex(
		ctx, r.Dir, "git", args...,
	)
	if err != nil {
		if strings.Contains(
			out, "remote ref does not exist",
		) {
			return nil
		}

		return fmt.Errorf(
			"%s: %s: %w", errCtx, branch, err,
		)
	}

	return nil
}

// PushBranch pushes the given branch to the remote and
// sets its upstream. All changes should be committed
// before calling PushBranch.
func (r *Repo) PushBranch(
	ctx context.Context,
	branch string,
) error {
	const errCtx = "pushing branch"

	args := r.authArgs()
	args = append(args,
		"push", "--set-upstream",
		r.RemoteName, branch,
	)

	if _, err := exec.Ex(
		ctx, r.Dir, "git", args...,
	); err != nil {
		return fmt.Errorf(
			"%s: %s: %w", errCtx, branch, err,
		)
	}

	return nil
}

// authArgs returns per-invocation config overrides that
// carry the credential. Empty when no token was given
// (e.g. file:// remotes in tests).
func (r *Repo) authArgs() []string {
	if r.authHeader == "" {
		return nil
	}

	return []string{
		"-c",
		"http.extraheader=" + r.authHeader,
	}
}

// authHeader builds the basic-auth header value used by
// GitHub App installation tokens.
func authHeader(token string) string {
	if token == "" {
		return ""
	}

	cred := base64.StdEncoding.EncodeToString(
		[]byte("x-access-token:" + token),
	)

	return "AUTHORIZATION: basic " + cred
}

// validIdentity rejects empty identity values and values
// containing control characters, which git would mangle.
func validIdentity(val string) error {
	if strings.TrimSpace(val) == "" {
		return fmt.Errorf("must not be empty")
	}

	if strings.ContainsAny(val, "\n\r\x00") {
		return fmt.Errorf(
			"contains control characters",
		)
	}

	return nil
}
