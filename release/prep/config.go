package prep

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/byte4ever/release_prep/release/changelog"
	"github.com/byte4ever/release_prep/release/version"
)

// FileConfig is the repository-side run configuration,
// loaded from a YAML file. It describes the parts of a
// run that belong to the repository rather than to the
// dispatch: which files carry the version, how the
// changelog is laid out, and which commands prepare the
// build environment.
type FileConfig struct {
	// RepoURL is the remote repository clone URL.
	RepoURL string `yaml:"repo_url"`

	// DefaultBranch is the branch PRs target.
	// Defaults to "main".
	DefaultBranch string `yaml:"default_branch"`

	// Committer identifies the author of the release
	// commits.
	Committer struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"committer"`

	// EnvSetup is the optional runtime preparation
	// command.
	EnvSetup []string `yaml:"env_setup"`

	// DepsInstall is the optional dependency
	// installation command.
	DepsInstall []string `yaml:"deps_install"`

	// VersionTargets lists the version-bearing files.
	VersionTargets []version.Target `yaml:"version_targets"`

	// Changelog controls fragment consumption and
	// section rendering.
	Changelog changelog.Config `yaml:"changelog"`

	// PRLabel is attached to the created PR.
	// Defaults to "t: release".
	PRLabel string `yaml:"pr_label"`
}

// LoadFileConfig reads and parses the YAML run
// configuration at path, filling defaults for omitted
// fields.
func LoadFileConfig(path string) (FileConfig, error) {
	const errCtx = "loading run config"

	var fc FileConfig

	data, err := os.ReadFile(path) //nolint:gosec // path comes from a CLI flag
	if err != nil {
		return fc, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf(
			"%s: parse yaml: %w", errCtx, err,
		)
	}

	if fc.DefaultBranch == "" {
		fc.DefaultBranch = "main"
	}

	if fc.PRLabel == "" {
		fc.PRLabel = "t: release"
	}

	return fc, nil
}

// Apply copies the file configuration into a run
// Config, leaving fields already set on cfg untouched
// so that CLI flags override the file.
func (fc FileConfig) Apply(cfg Config) Config {
	if cfg.RepoURL == "" {
		cfg.RepoURL = fc.RepoURL
	}

	if cfg.DefaultBranch == "" {
		cfg.DefaultBranch = fc.DefaultBranch
	}

	if cfg.CommitterName == "" {
		cfg.CommitterName = fc.Committer.Name
	}

	if cfg.CommitterEmail == "" {
		cfg.CommitterEmail = fc.Committer.Email
	}

	if len(cfg.EnvSetup) == 0 {
		cfg.EnvSetup = fc.EnvSetup
	}

	if len(cfg.DepsInstall) == 0 {
		cfg.DepsInstall = fc.DepsInstall
	}

	if len(cfg.VersionTargets) == 0 {
		cfg.VersionTargets = fc.VersionTargets
	}

	if cfg.Changelog.Dir == "" {
		cfg.Changelog = fc.Changelog
	}

	if cfg.PRLabel == "" {
		cfg.PRLabel = fc.PRLabel
	}

	return cfg
}
