package appauth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gh "github.com/google/go-github/v68/github"
)

// jwtLifetime is the validity window of the app JWT.
// GitHub caps it at ten minutes; one is plenty for a
// single token exchange and limits replay exposure.
const jwtLifetime = time.Minute

// clockDrift backdates the JWT issue time to tolerate
// clock skew between this host and the issuer.
const clockDrift = time.Minute

// Config holds the GitHub App identity material and the
// repository the minted token must be scoped to.
type Config struct {
	// AppID is the GitHub App identifier.
	AppID string
	// PrivateKeyPEM is the app's RSA private key in
	// PEM format.
	PrivateKeyPEM []byte
	// RepoOwner is the owner of the target
	// repository.
	RepoOwner string
	// Repo is the target repository name (without
	// owner).
	Repo string
	// EnterpriseHost is an optional GitHub Enterprise
	// hostname. Leave empty for github.com.
	EnterpriseHost string
}

// MintToken exchanges the app identity for an
// installation token scoped to the configured
// repository. The token is valid for about an hour and
// must not outlive the run.
func MintToken(
	ctx context.Context,
	cfg Config,
) (string, error) {
	const errCtx = "minting installation token"

	if cfg.AppID == "" {
		return "", fmt.Errorf(
			"%s: app id must be set", errCtx,
		)
	}

	if len(cfg.PrivateKeyPEM) == 0 {
		return "", fmt.Errorf(
			"%s: private key must be set", errCtx,
		)
	}

	if cfg.RepoOwner == "" || cfg.Repo == "" {
		return "", fmt.Errorf(
			"%s: repository must be set", errCtx,
		)
	}

	appJWT, err := newAppJWT(
		cfg.AppID, cfg.PrivateKeyPEM, time.Now(),
	)
	if err != nil {
		return "", fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	client, err := newClient(
		appJWT, cfg.EnterpriseHost,
	)
	if err != nil {
		return "", fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	inst, _, err :=
		client.Apps.FindRepositoryInstallation(
			ctx, cfg.RepoOwner, cfg.Repo,
		)
	if err != nil {
		return "", fmt.Errorf(
			"%s: find installation for %s/%s: %w",
			errCtx, cfg.RepoOwner, cfg.Repo, err,
		)
	}

	tok, _, err := client.Apps.CreateInstallationToken(
		ctx,
		inst.GetID(),
		&gh.InstallationTokenOptions{
			Repositories: []string{cfg.Repo},
		},
	)
	if err != nil {
		return "", fmt.Errorf(
			"%s: create token: %w", errCtx, err,
		)
	}

	slog.Info(
		"minted installation token",
		"installation", inst.GetID(),
		"expires", tok.GetExpiresAt().Format(
			time.RFC3339,
		),
	)

	return tok.GetToken(), nil
}

// newAppJWT signs a short-lived RS256 JWT identifying
// the app. The issue time is backdated by clockDrift.
func newAppJWT(
	appID string,
	keyPEM []byte,
	now time.Time,
) (string, error) {
	const errCtx = "signing app jwt"

	key, err := jwt.ParseRSAPrivateKeyFromPEM(keyPEM)
	if err != nil {
		return "", fmt.Errorf(
			"%s: parse key: %w", errCtx, err,
		)
	}

	claims := jwt.RegisteredClaims{
		Issuer: appID,
		IssuedAt: jwt.NewNumericDate(
			now.Add(-clockDrift),
		),
		ExpiresAt: jwt.NewNumericDate(
			now.Add(jwtLifetime),
		),
	}

	token := jwt.NewWithClaims(
		jwt.SigningMethodRS256, claims,
	)

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return signed, nil
}

// newClient builds a go-github client authenticated
// with the app JWT.
func newClient(
	appJWT string,
	enterpriseHost string,
) (*gh.Client, error) {
	const errCtx = "creating app client"

	client := gh.NewClient(nil).
		WithAuthToken(appJWT)

	if enterpriseHost == "" {
		return client, nil
	}

	baseURL := "https://" +
		enterpriseHost + "/api/v3/"
	uploadURL := "https://" +
		enterpriseHost + "/api/uploads/"

	client, err := client.WithEnterpriseURLs(
		baseURL, uploadURL,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: enterprise urls: %w", errCtx, err,
		)
	}

	return client, nil
}
