package git

import "context"

// Pattern: Strategy -- swap git platform without
// changing PR creation logic.

// PullRequest describes the pull request to open once
// the release branch has been pushed.
type PullRequest struct {
	// Head is the source branch name.
	Head string
	// Base is the target branch name.
	Base string
	// Title is the pull request title.
	Title string
	// Body is the pull request description.
	Body string
	// Labels are attached to the pull request.
	// Platforms without label support ignore them.
	Labels []string
	// Assignees are user names assigned to the pull
	// request.
	Assignees []string
}

// Provider creates pull requests on a git hosting
// platform.
type Provider interface {
	CreatePR(
		ctx context.Context,
		pr PullRequest,
	) error
}

// ProviderFunc adapts a plain function to the Provider
// interface. When the body is empty the title is used
// as body.
type ProviderFunc func(
	ctx context.Context,
	pr PullRequest,
) error

// CreatePR delegates to the wrapped function. If the
// body is empty, the title is substituted.
func (f ProviderFunc) CreatePR(
	ctx context.Context,
	pr PullRequest,
) error {
	if pr.Body == "" {
		pr.Body = pr.Title
	}

	return f(ctx, pr)
}
