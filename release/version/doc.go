// Package version rewrites the project version string in place. Each target
// names a file and a line template containing a {version} placeholder; the
// placeholder is compiled to a semver-matching pattern so the current version
// is located inside the file and replaced with the new one. The new version
// is validated as semver before any file is touched.
package version
