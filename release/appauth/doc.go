// Package appauth mints short-lived GitHub App installation tokens. The app
// identity (app ID + RSA private key) is exchanged for a token scoped to a
// single repository: an RS256-signed JWT authenticates the app, the
// installation covering the repository is looked up, and an installation
// token restricted to that repository is created. The token expires with the
// run and is never persisted.
package appauth
