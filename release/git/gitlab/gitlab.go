// Package gitlab implements a git.Provider that creates merge requests on
// GitLab. Labels are set at creation time; assignees are resolved from user
// names to IDs through the users API.
package gitlab

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/byte4ever/release_prep/release/git"
)

// Config holds the settings needed to create a GitLab
// merge request provider.
type Config struct {
	// Host is the base URL of the GitLab instance
	// (e.g. "https://gitlab.com").
	Host string
	// Repo is the full project path
	// (e.g. "org/project").
	Repo string
	// AccessToken is a personal or project access
	// token used for authentication.
	AccessToken string
}

// Provider creates merge requests on GitLab.
//
// Pattern: Strategy -- implements git.Provider.
type Provider struct {
	client *gl.Client
	repo   string
}

// NewProvider validates cfg and returns a Provider
// ready to create merge requests.
func NewProvider(cfg Config) (*Provider, error) {
	const errCtx = "creating gitlab provider"

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	if cfg.Repo == "" {
		return nil, fmt.Errorf(
			"%s: repo must be set", errCtx,
		)
	}

	host := cfg.Host
	if host == "" {
		host = "https://gitlab.com"
	}

	client, err := gl.NewClient(
		cfg.AccessToken,
		gl.WithBaseURL(host),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new client: %w", errCtx, err,
		)
	}

	return &Provider{
		client: client,
		repo:   cfg.Repo,
	}, nil
}

// CreatePR creates a merge request carrying the labels
// and assignees of pr. If a MR already exists for the
// source branch (HTTP 409) it is reused.
func (p *Provider) CreatePR(
	ctx context.Context,
	pr git.PullRequest,
) error {
	const errCtx = "creating gitlab merge request"

	opts := gl.CreateMergeRequestOptions{
		Title:        &pr.Title,
		Description:  &pr.Body,
		SourceBranch: &pr.Head,
		TargetBranch: &pr.Base,
	}

	if len(pr.Labels) > 0 {
		labels := gl.LabelOptions(pr.Labels)
		opts.Labels = &labels
	}

	ids, err := p.assigneeIDs(pr.Assignees)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if len(ids) > 0 {
		opts.AssigneeIDs = &ids
	}

	created, resp, err :=
		p.client.MergeRequests.CreateMergeRequest(
			p.repo,
			&opts,
			gl.WithContext(ctx),
		)
	if err == nil {
		slog.Info(
			"created merge request",
			"url", created.WebURL,
		)

		return nil
	}

	// HTTP 409: MR already exists for this source
	// branch.
	if resp != nil &&
		resp.StatusCode == http.StatusConflict {
		slog.Info(
			"reusing existing merge request",
		)

		return nil
	}

	// Log the response body for debugging.
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close() //nolint:errcheck

		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			slog.Warn(
				"cannot read response body",
				"error", readErr,
			)
		} else {
			slog.Warn(
				"gitlab response",
				"body", string(rb),
			)
		}
	}

	return fmt.Errorf("%s: %w", errCtx, err)
}

// assigneeIDs resolves user names to GitLab user IDs.
// Unknown users are skipped with a warning rather than
// failing the whole run.
func (p *Provider) assigneeIDs(
	names []string,
) ([]int, error) {
	const errCtx = "resolving assignees"

	var ids []int

	for _, name := range names {
		users, _, err := p.client.Users.ListUsers(
			&gl.ListUsersOptions{
				Username: &name,
			},
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %s: %w", errCtx, name, err,
			)
		}

		if len(users) == 0 {
			slog.Warn(
				"assignee not found",
				"user", name,
			)

			continue
		}

		ids = append(ids, users[0].ID)
	}

	return ids, nil
}
