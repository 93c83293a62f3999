package git

// Exported aliases for testing internal functions from
// the git_test package.

// AuthHeaderForTest exposes authHeader.
var AuthHeaderForTest = authHeader

// ValidIdentityForTest exposes validIdentity.
var ValidIdentityForTest = validIdentity
