package changelog

// Exported aliases for testing internal functions from
// the changelog_test package.

// ParseFragmentNameForTest exposes parseFragmentName.
var ParseFragmentNameForTest = parseFragmentName

// SortFragmentsForTest exposes sortFragments.
var SortFragmentsForTest = sortFragments

// EntryLineForTest exposes entryLine.
var EntryLineForTest = entryLine
