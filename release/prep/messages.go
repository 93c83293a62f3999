package prep

import "fmt"

// Deterministic naming shared by every run: the branch,
// title, and commit messages depend only on the version
// so re-dispatching the same version targets the same
// branch and PR.

// BranchName returns the release branch name for a
// version.
func BranchName(version string) string {
	return "auto/release-v" + version
}

// PRTitle returns the pull request title for a version.
func PRTitle(version string) string {
	return "chore(release): v" + version
}

// VersionCommitMessage returns the message of the
// version-bump commit.
func VersionCommitMessage(version string) string {
	return fmt.Sprintf(
		"chore: update version to %s", version,
	)
}

// ChangelogCommitMessage returns the message of the
// changelog-build commit.
func ChangelogCommitMessage() string {
	return "docs: build changelog"
}
