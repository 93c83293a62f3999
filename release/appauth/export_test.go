package appauth

// Exported aliases for testing internal functions from
// the appauth_test package.

// NewAppJWTForTest exposes newAppJWT.
var NewAppJWTForTest = newAppJWT
