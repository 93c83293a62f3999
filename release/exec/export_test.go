package exec

// Exported aliases for testing internal functions from
// the exec_test package.

// MaskAuthForTest exposes maskAuth.
var MaskAuthForTest = maskAuth
