// Package seed loads built-in record sets from YAML files. Seeds are
// fixed at build time (typically embedded with go:embed) and are never
// mutated at runtime; edits to them travel as overrides.
package seed

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/stromabio/stroma/pkg/core"
)

// Load parses one YAML document containing a list of records.
func Load(r io.Reader) ([]core.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses YAML bytes containing a list of records.
func Parse(data []byte) ([]core.Record, error) {
	var records []core.Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid seed yaml: %w", err)
	}
	if err := validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadFile parses a seed file from disk.
func LoadFile(path string) ([]core.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// LoadGlob collects records from every file in fsys matching the
// doublestar pattern (e.g. "seeds/**/*.yaml"), in lexical path order so
// the result is stable across platforms.
func LoadGlob(fsys fs.FS, pattern string) ([]core.Record, error) {
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("bad seed pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)

	var records []core.Record
	for _, path := range matches {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
		}
		var batch []core.Record
		if err := yaml.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("invalid seed yaml in %s: %w", path, err)
		}
		records = append(records, batch...)
	}
	if err := validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

func validate(records []core.Record) error {
	ids := make(map[int64]bool, len(records))
	slugs := make(map[string]bool, len(records))
	for _, r := range records {
		if r.ID == 0 {
			return fmt.Errorf("seed record %q has no id", r.Slug)
		}
		if ids[r.ID] {
			return fmt.Errorf("duplicate seed id %d", r.ID)
		}
		ids[r.ID] = true

		slug := core.NormalizeSlug(r.Slug)
		if slug == "" {
			return fmt.Errorf("seed record %d has no slug", r.ID)
		}
		if slugs[slug] {
			return fmt.Errorf("duplicate seed slug %q", slug)
		}
		slugs[slug] = true
	}
	return nil
}
