// Package changelog assembles a release section from pending fragment files
// and inserts it into the changelog, non-interactively. Fragments are named
// "<id>.<category>.md" and live in a dedicated directory; each file body is
// one changelog entry. Build groups fragments by category, renders a version
// section below the changelog's start marker, and deletes the consumed
// fragments. A release without fragments still produces a section with a
// single "No significant changes." entry.
package changelog
