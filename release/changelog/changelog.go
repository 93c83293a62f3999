package changelog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/valyala/fasttemplate"
)

// Defaults used when the run configuration leaves the
// corresponding field empty.
const (
	DefaultDir         = "changelog.d"
	DefaultFile        = "CHANGELOG.md"
	DefaultStartMarker = "<!-- changelog start -->"
	DefaultTitle       = "## v{version} ({date})"
)

// emptyEntry is written when a release has no pending
// fragments, so the changelog commit is never empty.
const emptyEntry = "- No significant changes."

// Category maps a fragment key to its section heading.
type Category struct {
	// Key is the category part of fragment names.
	Key string `yaml:"key"`
	// Title is the rendered section heading.
	Title string `yaml:"title"`
}

// Config controls where fragments live and how the
// release section is rendered.
type Config struct {
	// Dir is the fragment directory, relative to the
	// repository root.
	Dir string `yaml:"dir"`
	// File is the changelog file, relative to the
	// repository root.
	File string `yaml:"file"`
	// StartMarker is the line below which new
	// sections are inserted.
	StartMarker string `yaml:"start_marker"`
	// Title is the section title template with
	// {version} and {date} placeholders.
	Title string `yaml:"title"`
	// Categories lists fragment categories in
	// rendering order.
	Categories []Category `yaml:"categories"`
}

// DefaultCategories returns the category set used when
// the run configuration declares none.
func DefaultCategories() []Category {
	return []Category{
		{Key: "breaking", Title: "Breaking Changes"},
		{Key: "deprecate", Title: "Deprecations"},
		{Key: "feature", Title: "New Features"},
		{Key: "fix", Title: "Bug Fixes"},
		{Key: "docs", Title: "Documentation"},
		{Key: "misc", Title: "Miscellaneous"},
	}
}

// withDefaults fills empty fields from the package
// defaults.
func (c Config) withDefaults() Config {
	if c.Dir == "" {
		c.Dir = DefaultDir
	}

	if c.File == "" {
		c.File = DefaultFile
	}

	if c.StartMarker == "" {
		c.StartMarker = DefaultStartMarker
	}

	if c.Title == "" {
		c.Title = DefaultTitle
	}

	if len(c.Categories) == 0 {
		c.Categories = DefaultCategories()
	}

	return c
}

// Build consumes pending fragments under root, inserts
// a section for ver below the changelog start marker,
// and deletes the consumed fragments. The date stamps
// the section title.
func Build(
	root string,
	cfg Config,
	ver string,
	date time.Time,
) error {
	const errCtx = "building changelog"

	cfg = cfg.withDefaults()

	fragDir := filepath.Join(root, cfg.Dir)

	frags, err := scanFragments(
		fragDir, cfg.Categories,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	section := renderSection(cfg, frags, ver, date)

	clPath := filepath.Join(root, cfg.File)

	if err := insertSection(
		clPath, cfg.StartMarker, section,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := removeFragments(frags); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"built changelog",
		"version", ver,
		"fragments", len(frags),
	)

	return nil
}

// renderSection produces the markdown block for one
// release, ending with a trailing newline.
func renderSection(
	cfg Config,
	frags []Fragment,
	ver string,
	date time.Time,
) string {
	var sb strings.Builder

	title := fasttemplate.ExecuteStringStd(
		cfg.Title, "{", "}",
		map[string]any{
			"version": ver,
			"date":    date.Format("2006-01-02"),
		},
	)

	sb.WriteString(title)
	sb.WriteString("\n")

	if len(frags) == 0 {
		sb.WriteString("\n")
		sb.WriteString(emptyEntry)
		sb.WriteString("\n")

		return sb.String()
	}

	for _, cat := range cfg.Categories {
		var lines []string

		for _, frag := range frags {
			if frag.Category == cat.Key {
				lines = append(
					lines, entryLine(frag),
				)
			}
		}

		if len(lines) == 0 {
			continue
		}

		sb.WriteString("\n### ")
		sb.WriteString(cat.Title)
		sb.WriteString("\n\n")
		sb.WriteString(
			strings.Join(lines, "\n"),
		)
		sb.WriteString("\n")
	}

	return sb.String()
}

// insertSection places the rendered section directly
// below the start marker line of the changelog file.
// A missing file or marker is an error: the changelog
// layout is part of the repository contract.
func insertSection(
	path string,
	marker string,
	section string,
) error {
	const errCtx = "inserting section"

	data, err := os.ReadFile(path) //nolint:gosec // path comes from run config
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	content := string(data)

	lines := strings.Split(content, "\n")

	idx := -1

	for i, line := range lines {
		if strings.TrimSpace(line) == marker {
			idx = i

			break
		}
	}

	if idx < 0 {
		return fmt.Errorf(
			"%s: start marker %q not found in %s",
			errCtx, marker, path,
		)
	}

	var sb strings.Builder

	sb.WriteString(
		strings.Join(lines[:idx+1], "\n"),
	)
	sb.WriteString("\n\n")
	sb.WriteString(section)
	sb.WriteString(
		strings.Join(lines[idx+1:], "\n"),
	)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := os.WriteFile(
		path,
		[]byte(sb.String()),
		info.Mode().Perm(),
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}
