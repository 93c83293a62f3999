package bitbucket_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/release_prep/release/git"
	bb "github.com/byte4ever/release_prep/release/git/bitbucket"
)

func validConfig(endpoint string) bb.Config {
	return bb.Config{
		APIEndpoint: endpoint,
		Project:     "REL",
		Repo:        "project",
		User:        "admin",
		Password:    "secret",
	}
}

func TestNewProvider_valid(t *testing.T) {
	t.Parallel()

	pv, err := bb.NewProvider(
		validConfig("https://bb.example.com/rest"),
	)

	require.NoError(t, err)
	assert.NotNil(t, pv)
}

func TestNewProvider_missing_endpoint(t *testing.T) {
	t.Parallel()

	cfg := validConfig("")

	pv, err := bb.NewProvider(cfg)

	assert.Nil(t, pv)
	assert.ErrorContains(t, err, "api endpoint")
}

func TestNewProvider_missing_project(t *testing.T) {
	t.Parallel()

	cfg := validConfig("https://bb.example.com/rest")
	cfg.Project = ""

	pv, err := bb.NewProvider(cfg)

	assert.Nil(t, pv)
	assert.ErrorContains(t, err, "project must be set")
}

func TestNewProvider_missing_repo(t *testing.T) {
	t.Parallel()

	cfg := validConfig("https://bb.example.com/rest")
	cfg.Repo = ""

	pv, err := bb.NewProvider(cfg)

	assert.Nil(t, pv)
	assert.ErrorContains(t, err, "repo must be set")
}

func TestNewProvider_missing_user(t *testing.T) {
	t.Parallel()

	cfg := validConfig("https://bb.example.com/rest")
	cfg.User = ""

	pv, err := bb.NewProvider(cfg)

	assert.Nil(t, pv)
	assert.ErrorContains(t, err, "user must be set")
}

func TestNewProvider_missing_password(t *testing.T) {
	t.Parallel()

	cfg := validConfig("https://bb.example.com/rest")
	cfg.Password = ""

	pv, err := bb.NewProvider(cfg)

	assert.Nil(t, pv)
	assert.ErrorContains(t, err, "password")
}

func TestProvider_CreatePR_created(t *testing.T) {
	t.Parallel()

	var gotBody string

	ts := httptest.NewServer(
		http.HandlerFunc(
			func(
				w http.ResponseWriter,
				r *http.Request,
			) {
				by, _ := io.ReadAll(r.Body)
				gotBody = string(by)

				w.WriteHeader(http.StatusCreated)
			},
		),
	)
	defer ts.Close()

	pv, err := bb.NewProvider(validConfig(ts.URL))
	require.NoError(t, err)

	err = pv.CreatePR(
		context.Background(),
		git.PullRequest{
			Head:      "auto/release-v1.2.3",
			Base:      "main",
			Title:     "chore(release): v1.2.3",
			Body:      "body",
			Assignees: []string{"alice"},
		},
	)

	require.NoError(t, err)
	assert.Contains(
		t, gotBody, `refs/heads/auto/release-v1.2.3`,
	)
	assert.Contains(t, gotBody, `"slug":"project"`)
	assert.Contains(t, gotBody, `"key":"REL"`)
	assert.Contains(t, gotBody, `"name":"alice"`)
}

func TestProvider_CreatePR_conflict(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(
		http.HandlerFunc(
			func(
				w http.ResponseWriter,
				_ *http.Request,
			) {
				w.WriteHeader(http.StatusConflict)
			},
		),
	)
	defer ts.Close()

	pv, err := bb.NewProvider(validConfig(ts.URL))
	require.NoError(t, err)

	err = pv.CreatePR(
		context.Background(),
		git.PullRequest{
			Head:  "a",
			Base:  "b",
			Title: "t",
			Body:  "d",
		},
	)

	assert.NoError(t, err)
}

func TestProvider_CreatePR_unexpected_status(
	t *testing.T,
) {
	t.Parallel()

	ts := httptest.NewServer(
		http.HandlerFunc(
			func(
				w http.ResponseWriter,
				_ *http.Request,
			) {
				w.WriteHeader(
					http.StatusInternalServerError,
				)
			},
		),
	)
	defer ts.Close()

	pv, err := bb.NewProvider(validConfig(ts.URL))
	require.NoError(t, err)

	err = pv.CreatePR(
		context.Background(),
		git.PullRequest{
			Head:  "a",
			Base:  "b",
			Title: "t",
			Body:  "d",
		},
	)

	assert.ErrorContains(t, err, "unexpected status")
}
