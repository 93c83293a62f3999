package changelog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// fragmentExt is the file extension of changelog
// fragments.
const fragmentExt = ".md"

// Fragment is one pending changelog entry.
type Fragment struct {
	// ID is the change identifier, usually an issue
	// or PR number.
	ID string
	// Category is the fragment category key.
	Category string
	// Text is the entry text, trimmed.
	Text string
	// path is the source file, kept for removal.
	path string
}

// scanFragments reads every fragment in dir. Dotfiles
// and files without the "<id>.<category>.md" shape are
// ignored; a fragment naming an unknown category is an
// error. A missing directory yields no fragments.
func scanFragments(
	dir string,
	categories []Category,
) ([]Fragment, error) {
	const errCtx = "scanning fragments"

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	known := make(
		map[string]struct{}, len(categories),
	)
	for _, cat := range categories {
		known[cat.Key] = struct{}{}
	}

	var frags []Fragment

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		id, category, ok := parseFragmentName(name)
		if !ok {
			continue
		}

		if _, found := known[category]; !found {
			return nil, fmt.Errorf(
				"%s: %s: unknown category %q",
				errCtx, name, category,
			)
		}

		path := filepath.Join(dir, name)

		//nolint:gosec // path is inside the fragment dir
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %s: %w", errCtx, name, err,
			)
		}

		frags = append(frags, Fragment{
			ID:       id,
			Category: category,
			Text: strings.TrimSpace(
				string(body),
			),
			path: path,
		})
	}

	sortFragments(frags)

	return frags, nil
}

// parseFragmentName splits "<id>.<category>.md" into
// its parts. Dotfiles and other shapes report ok=false.
func parseFragmentName(
	name string,
) (id, category string, ok bool) {
	if strings.HasPrefix(name, ".") {
		return "", "", false
	}

	if !strings.HasSuffix(name, fragmentExt) {
		return "", "", false
	}

	stem := strings.TrimSuffix(name, fragmentExt)

	parts := strings.Split(stem, ".")
	if len(parts) != 2 {
		return "", "", false
	}

	if parts[0] == "" || parts[1] == "" {
		return "", "", false
	}

	return parts[0], parts[1], true
}

// sortFragments orders fragments by numeric ID when
// both are numeric, falling back to string order.
func sortFragments(frags []Fragment) {
	sort.SliceStable(frags, func(i, j int) bool {
		ni, iErr := strconv.Atoi(frags[i].ID)
		nj, jErr := strconv.Atoi(frags[j].ID)

		if iErr == nil && jErr == nil {
			return ni < nj
		}

		return frags[i].ID < frags[j].ID
	})
}

// entryLine renders one fragment as a markdown list
// item, referencing numeric IDs as "(#<id>)".
func entryLine(frag Fragment) string {
	if _, err := strconv.Atoi(frag.ID); err == nil {
		return fmt.Sprintf(
			"- %s (#%s)", frag.Text, frag.ID,
		)
	}

	return "- " + frag.Text
}

// removeFragments deletes consumed fragment files.
func removeFragments(frags []Fragment) error {
	const errCtx = "removing fragments"

	for _, frag := range frags {
		if err := os.Remove(frag.path); err != nil {
			return fmt.Errorf(
				"%s: %s: %w",
				errCtx, frag.path, err,
			)
		}
	}

	return nil
}
