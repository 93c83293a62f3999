// Package github implements a git.Provider that creates pull requests on
// GitHub (cloud or enterprise). Configure with a Config containing the
// repository owner, name, and an access token (typically a GitHub App
// installation token minted by the appauth package). Set EnterpriseHost for
// GitHub Enterprise installations. Labels and assignees are attached through
// the issues API after the pull request is created.
package github
