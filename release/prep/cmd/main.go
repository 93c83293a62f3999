// Command create_release_pr prepares a release pull
// request: it mints a repository credential, checks out
// the repository, bumps the version, rebuilds the
// changelog, and opens a PR on the configured git
// hosting platform.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/byte4ever/release_prep/release/appauth"
	"github.com/byte4ever/release_prep/release/git"
	"github.com/byte4ever/release_prep/release/git/bitbucket"
	"github.com/byte4ever/release_prep/release/git/github"
	"github.com/byte4ever/release_prep/release/git/gitlab"
	"github.com/byte4ever/release_prep/release/prep"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // CLI flag setup is inherently long
func run() error {
	const errCtx = "running create_release_pr"

	// Dispatch flags.
	releaseVersion := flag.String(
		"version", "",
		"Version to release (required)",
	)
	actor := flag.String(
		"actor", "",
		"User who dispatched the run; becomes the "+
			"PR assignee",
	)
	commit := flag.String(
		"commit", "",
		"Commit SHA the run was triggered from",
	)
	runID := flag.String(
		"run_id", "",
		"Run identifier for the PR back-link",
	)
	serverURL := flag.String(
		"server_url", "https://github.com",
		"Host base URL for the PR back-link",
	)
	repository := flag.String(
		"repository", "",
		"Repository slug (owner/name) for the PR "+
			"back-link",
	)

	// Run configuration flags.
	configPath := flag.String(
		"config", ".github/release.yaml",
		"Path to the YAML run configuration",
	)
	repoURL := flag.String(
		"repo_url", "",
		"Remote repository URL (overrides config)",
	)
	defaultBranch := flag.String(
		"default_branch", "",
		"Branch the PR targets (overrides config)",
	)
	committerName := flag.String(
		"committer_name", "",
		"Committer name (overrides config)",
	)
	committerEmail := flag.String(
		"committer_email", "",
		"Committer email (overrides config)",
	)
	tmpDir := flag.String(
		"tmp_dir", os.TempDir(),
		"Temporary directory for clones",
	)
	dryRun := flag.Bool(
		"dry_run", false,
		"Skip branch push and PR creation",
	)

	// Git provider selection.
	gitServer := flag.String(
		"git_server", "github",
		"Git hosting platform: github, gitlab, "+
			"or bitbucket",
	)

	// GitHub-specific flags.
	ghRepoOwner := flag.String(
		"github_repo_owner", "",
		"GitHub repository owner",
	)
	ghRepo := flag.String(
		"github_repo", "",
		"GitHub repository name",
	)
	ghToken := flag.String(
		"github_access_token", "",
		"GitHub access token (skips app token "+
			"minting)",
	)
	ghAppID := flag.String(
		"github_app_id", "",
		"GitHub App identifier",
	)
	ghAppKey := flag.String(
		"github_app_private_key", "",
		"Path to the GitHub App RSA private key",
	)
	ghEnterprise := flag.String(
		"github_enterprise_host", "",
		"GitHub Enterprise hostname",
	)

	// GitLab-specific flags.
	glHost := flag.String(
		"gitlab_host", "",
		"GitLab instance URL",
	)
	glRepo := flag.String(
		"gitlab_repo", "",
		"GitLab project path (org/project)",
	)
	glToken := flag.String(
		"gitlab_access_token", "",
		"GitLab personal access token",
	)

	// Bitbucket-specific flags.
	bbEndpoint := flag.String(
		"bitbucket_api_endpoint", "",
		"Bitbucket Server REST API URL",
	)
	bbProject := flag.String(
		"bitbucket_project", "",
		"Bitbucket project key",
	)
	bbRepo := flag.String(
		"bitbucket_repo", "",
		"Bitbucket repository slug",
	)
	bbUser := flag.String(
		"bitbucket_user", "",
		"Bitbucket API username",
	)
	bbPassword := flag.String(
		"bitbucket_password", "",
		"Bitbucket API password or token",
	)

	flag.Parse()

	ctx := context.Background()

	// Resolve the credential material first: the
	// same token authenticates the clone/push and
	// the PR creation.
	app, err := appIdentity(
		*ghAppID,
		*ghAppKey,
		*ghRepoOwner,
		*ghRepo,
		*ghEnterprise,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	token := *ghToken

	if token == "" && app.AppID != "" {
		token, err = appauth.MintToken(ctx, app)
		if err != nil {
			return fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}
	}

	// Build git provider from flags.
	provider, err := newGitProvider(
		*gitServer,
		providerFlags{
			ghRepoOwner:  *ghRepoOwner,
			ghRepo:       *ghRepo,
			ghToken:      token,
			ghEnterprise: *ghEnterprise,
			glHost:       *glHost,
			glRepo:       *glRepo,
			glToken:      *glToken,
			bbEndpoint:   *bbEndpoint,
			bbProject:    *bbProject,
			bbRepo:       *bbRepo,
			bbUser:       *bbUser,
			bbPassword:   *bbPassword,
		},
		*dryRun,
	)
	if err != nil {
		return fmt.Errorf(
			"%s: create provider: %w", errCtx, err,
		)
	}

	fc, err := prep.LoadFileConfig(*configPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	cfg := fc.Apply(prep.Config{
		Version:        *releaseVersion,
		Actor:          *actor,
		Commit:         *commit,
		RunID:          *runID,
		ServerURL:      *serverURL,
		Repository:     *repository,
		RepoURL:        *repoURL,
		DefaultBranch:  *defaultBranch,
		CommitterName:  *committerName,
		CommitterEmail: *committerEmail,
		TmpDir:         *tmpDir,
		Token:          token,
		DryRun:         *dryRun,
		Provider:       provider,
	})

	if err := prep.Run(ctx, cfg); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// appIdentity assembles the GitHub App config from
// flags, reading the private key file when one is
// named.
func appIdentity(
	appID string,
	keyPath string,
	repoOwner string,
	repo string,
	enterpriseHost string,
) (appauth.Config, error) {
	const errCtx = "reading app identity"

	cfg := appauth.Config{
		AppID:          appID,
		RepoOwner:      repoOwner,
		Repo:           repo,
		EnterpriseHost: enterpriseHost,
	}

	if keyPath == "" {
		return cfg, nil
	}

	pemBytes, err := os.ReadFile(keyPath) //nolint:gosec // path comes from a CLI flag
	if err != nil {
		return cfg, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	cfg.PrivateKeyPEM = pemBytes

	return cfg, nil
}

// providerFlags bundles provider-specific flag values
// to keep newGitProvider small.
type providerFlags struct {
	ghRepoOwner  string
	ghRepo       string
	ghToken      string
	ghEnterprise string
	glHost       string
	glRepo       string
	glToken      string
	bbEndpoint   string
	bbProject    string
	bbRepo       string
	bbUser       string
	bbPassword   string
}

// newGitProvider creates a git.Provider based on the
// server name. Pattern: Factory -- selects platform
// implementation at runtime. Dry runs never create a
// PR, so no provider is built for them.
func newGitProvider(
	server string,
	pf providerFlags,
	dryRun bool,
) (git.Provider, error) {
	const errCtx = "creating git provider"

	if dryRun {
		return nil, nil
	}

	switch server {
	case "github":
		p, err := github.NewProvider(github.Config{
			RepoOwner:      pf.ghRepoOwner,
			Repo:           pf.ghRepo,
			AccessToken:    pf.ghToken,
			EnterpriseHost: pf.ghEnterprise,
		})
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return p, nil

	case "gitlab":
		p, err := gitlab.NewProvider(gitlab.Config{
			Host:        pf.glHost,
			Repo:        pf.glRepo,
			AccessToken: pf.glToken,
		})
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return p, nil

	case "bitbucket":
		p, err := bitbucket.NewProvider(
			bitbucket.Config{
				APIEndpoint: pf.bbEndpoint,
				Project:     pf.bbProject,
				Repo:        pf.bbRepo,
				User:        pf.bbUser,
				Password:    pf.bbPassword,
			},
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return p, nil

	default:
		return nil, fmt.Errorf(
			"%s: unknown server %q", errCtx, server,
		)
	}
}
