package prep

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/byte4ever/release_prep/release/appauth"
	"github.com/byte4ever/release_prep/release/changelog"
	"github.com/byte4ever/release_prep/release/exec"
	"github.com/byte4ever/release_prep/release/git"
	"github.com/byte4ever/release_prep/release/version"
)

// Config holds all settings for a release preparation
// run. Use a Config struct instead of many arguments.
type Config struct {
	// Version is the version being released.
	Version string

	// Actor is the user who dispatched the run. It
	// appears in the PR body and becomes the PR
	// assignee.
	Actor string

	// Commit is the SHA the run was triggered from.
	// Empty means the head of the default branch.
	Commit string

	// RunID identifies the run for the PR back-link.
	RunID string

	// ServerURL is the host base URL used in the PR
	// back-link (e.g. "https://github.com").
	ServerURL string

	// Repository is the "owner/name" slug used in
	// the PR back-link.
	Repository string

	// RepoURL is the remote repository clone URL.
	RepoURL string

	// DefaultBranch is the branch the PR targets.
	DefaultBranch string

	// CommitterName and CommitterEmail identify the
	// author of the release commits.
	CommitterName  string
	CommitterEmail string

	// TmpDir is the directory for temporary clones.
	TmpDir string

	// Token is a pre-minted repository credential.
	// When set, the auth step uses it directly.
	Token string

	// App is the GitHub App identity used to mint a
	// token when Token is empty.
	App appauth.Config

	// EnvSetup is an optional command preparing the
	// language runtime, run inside the clone.
	EnvSetup []string

	// DepsInstall is an optional command installing
	// the toolchain needed by later steps, run
	// inside the clone.
	DepsInstall []string

	// VersionTargets lists the version-bearing files
	// to rewrite.
	VersionTargets []version.Target

	// Changelog controls fragment consumption and
	// section rendering.
	Changelog changelog.Config

	// PRLabel is attached to the created PR.
	PRLabel string

	// DryRun stops before branch deletion, push, and
	// PR creation when true.
	DryRun bool

	// Provider creates the pull request on a git
	// hosting platform.
	Provider git.Provider
}

// state carries values produced by one step and
// consumed by later ones.
type state struct {
	token string
	repo  *git.Repo
}

// step is one stage of the release chain. Steps run
// strictly in order; the first error halts the run.
type step struct {
	name string
	run  func(ctx context.Context) error
}

// Run executes the full release preparation workflow:
// credential, checkout, identity, environment,
// dependencies, version commit, changelog commit, and
// pull request.
func Run(ctx context.Context, cfg Config) error {
	const errCtx = "preparing release pull request"

	if err := cfg.validate(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	st := &state{}

	defer func() {
		if st.repo == nil {
			return
		}

		if cleanErr := st.repo.Clean(); cleanErr != nil {
			slog.Error(
				"failed to clean repo",
				"error", cleanErr,
			)
		}
	}()

	if err := runSteps(
		ctx, steps(cfg, st),
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"release pull request prepared",
		"version", cfg.Version,
		"branch", BranchName(cfg.Version),
	)

	return nil
}

// runSteps executes steps in order, halting on the
// first error and naming the failing step.
func runSteps(
	ctx context.Context,
	chain []step,
) error {
	for _, st := range chain {
		slog.Info("running step", "step", st.name)

		if err := st.run(ctx); err != nil {
			return fmt.Errorf(
				"step %s: %w", st.name, err,
			)
		}
	}

	return nil
}

// steps builds the ordered release chain. The version
// commit must precede the changelog commit: changelog
// generation may read the just-updated version.
func steps(cfg Config, st *state) []step {
	return []step{
		{
			name: "auth",
			run: func(ctx context.Context) error {
				return authStep(ctx, cfg, st)
			},
		},
		{
			name: "checkout",
			run: func(ctx context.Context) error {
				return checkoutStep(ctx, cfg, st)
			},
		},
		{
			name: "configure identity",
			run: func(ctx context.Context) error {
				return st.repo.ConfigureIdentity(
					ctx,
					cfg.CommitterName,
					cfg.CommitterEmail,
				)
			},
		},
		{
			name: "prepare environment",
			run: func(ctx context.Context) error {
				return commandStep(
					ctx, st, cfg.EnvSetup,
				)
			},
		},
		{
			name: "install dependencies",
			run: func(ctx context.Context) error {
				return commandStep(
					ctx, st, cfg.DepsInstall,
				)
			},
		},
		{
			name: "update version",
			run: func(ctx context.Context) error {
				return versionStep(ctx, cfg, st)
			},
		},
		{
			name: "build changelog",
			run: func(ctx context.Context) error {
				return changelogStep(ctx, cfg, st)
			},
		},
		{
			name: "create pull request",
			run: func(ctx context.Context) error {
				return prStep(ctx, cfg, st)
			},
		},
	}
}

// authStep obtains the repository credential. A
// pre-supplied token wins; otherwise the GitHub App
// identity is exchanged for an installation token.
// With neither, the run relies on ambient git
// credentials (e.g. local or ssh remotes).
func authStep(
	ctx context.Context,
	cfg Config,
	st *state,
) error {
	if cfg.Token != "" {
		st.token = cfg.Token

		return nil
	}

	if cfg.App.AppID == "" {
		slog.Warn(
			"no credential material, relying on " +
				"ambient git auth",
		)

		return nil
	}

	token, err := appauth.MintToken(ctx, cfg.App)
	if err != nil {
		return err
	}

	st.token = token

	return nil
}

// checkoutStep clones the repository, detaches at the
// triggering commit when one is given, and creates the
// local release branch.
func checkoutStep(
	ctx context.Context,
	cfg Config,
	st *state,
) error {
	cloneDir := filepath.Join(
		cfg.TmpDir, "release_prep",
	)

	repo, err := git.Clone(
		ctx,
		cfg.RepoURL,
		cloneDir,
		cfg.DefaultBranch,
		st.token,
	)
	if err != nil {
		return err
	}

	st.repo = repo

	if cfg.Commit != "" {
		if err := repo.CheckoutCommit(
			ctx, cfg.Commit,
		); err != nil {
			return err
		}
	}

	return repo.CreateBranch(
		ctx, BranchName(cfg.Version),
	)
}

// commandStep runs an optional configured command
// inside the clone. An empty command is a no-op.
func commandStep(
	ctx context.Context,
	st *state,
	command []string,
) error {
	if len(command) == 0 {
		slog.Info("no command configured, skipping")

		return nil
	}

	_, err := exec.Ex(
		ctx,
		st.repo.Dir,
		command[0],
		command[1:]...,
	)

	return err
}

// versionStep rewrites the version targets and commits
// the result. An unchanged tree fails the commit: the
// release assumes the version actually moved.
func versionStep(
	ctx context.Context,
	cfg Config,
	st *state,
) error {
	if _, err := version.Bump(
		st.repo.Dir,
		cfg.VersionTargets,
		cfg.Version,
	); err != nil {
		return err
	}

	return st.repo.CommitAll(
		ctx, VersionCommitMessage(cfg.Version),
	)
}

// changelogStep consumes pending fragments into a new
// changelog section and commits the result.
func changelogStep(
	ctx context.Context,
	cfg Config,
	st *state,
) error {
	if err := changelog.Build(
		st.repo.Dir,
		cfg.Changelog,
		cfg.Version,
		time.Now(),
	); err != nil {
		return err
	}

	return st.repo.CommitAll(
		ctx, ChangelogCommitMessage(),
	)
}

// prStep replaces the remote release branch and opens
// the pull request. A prior run's branch is deleted
// first: last run wins.
func prStep(
	ctx context.Context,
	cfg Config,
	st *state,
) error {
	branch := BranchName(cfg.Version)

	if cfg.DryRun {
		slog.Info(
			"dry run: skipping push and PR creation",
			"branch", branch,
		)

		return nil
	}

	if err := st.repo.DeleteRemoteBranch(
		ctx, branch,
	); err != nil {
		return err
	}

	if err := st.repo.PushBranch(
		ctx, branch,
	); err != nil {
		return err
	}

	pr := git.PullRequest{
		Head:  branch,
		Base:  cfg.DefaultBranch,
		Title: PRTitle(cfg.Version),
		Body: PRBody(
			cfg.Version,
			cfg.Actor,
			cfg.Commit,
			cfg.ServerURL,
			cfg.Repository,
			cfg.RunID,
		),
	}

	if cfg.PRLabel != "" {
		pr.Labels = []string{cfg.PRLabel}
	}

	if cfg.Actor != "" {
		pr.Assignees = []string{cfg.Actor}
	}

	return cfg.Provider.CreatePR(ctx, pr)
}

// validate rejects configurations the chain cannot run
// with.
func (c Config) validate() error {
	const errCtx = "validating config"

	if c.Version == "" {
		return fmt.Errorf(
			"%s: version must be set", errCtx,
		)
	}

	if c.RepoURL == "" {
		return fmt.Errorf(
			"%s: repo url must be set", errCtx,
		)
	}

	if c.DefaultBranch == "" {
		return fmt.Errorf(
			"%s: default branch must be set", errCtx,
		)
	}

	if c.TmpDir == "" {
		return fmt.Errorf(
			"%s: tmp dir must be set", errCtx,
		)
	}

	if c.Provider == nil && !c.DryRun {
		return fmt.Errorf(
			"%s: provider must be set", errCtx,
		)
	}

	return nil
}
