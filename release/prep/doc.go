// Package prep orchestrates the preparation of a release pull request. Given
// a version string it mints a short-lived repository credential, checks out
// the repository at the triggering commit, configures the committer identity,
// prepares the build environment, installs dependencies, rewrites the version
// string and commits, rebuilds the changelog from pending fragments and
// commits, then pushes a deterministic release branch and opens a pull
// request via a git.Provider.
//
// The main entry point is Run, which accepts a Config struct with all
// parameters for the workflow. The eight steps execute strictly in order;
// the first failing step aborts the run and is named in the returned error.
// There is no retry and no rollback: a failed run leaves any local commits
// unpushed, and re-dispatching with the same version replaces the remote
// branch.
package prep
