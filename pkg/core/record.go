package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Fields holds the content-type-specific attributes of a record
// (e.g. price and SKU for a product). The reconciler treats them as opaque.
type Fields map[string]any

// Record is the central entity of the domain.
// It represents one content item (a blog post, a product, ...) identified
// by a numeric ID that is unique within its content type.
type Record struct {
	ID          int64     `json:"id" yaml:"id"`
	Slug        string    `json:"slug" yaml:"slug"`
	Title       string    `json:"title" yaml:"title"`
	Excerpt     string    `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Body        string    `json:"body,omitempty" yaml:"body,omitempty"`
	Image       string    `json:"image,omitempty" yaml:"image,omitempty"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	PublishedAt time.Time `json:"date" yaml:"date"`
	Fields      Fields    `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	if r.Tags != nil {
		out.Tags = append([]string(nil), r.Tags...)
	}
	if r.Fields != nil {
		out.Fields = make(Fields, len(r.Fields))
		for k, v := range r.Fields {
			out.Fields[k] = v
		}
	}
	return out
}

// Patch is a typed partial update for a Record.
// Nil pointers mean "unchanged". Fields is a per-key overlay.
// The ID of a record is immutable and therefore not part of the patch.
type Patch struct {
	Slug        *string    `json:"slug,omitempty" yaml:"slug,omitempty"`
	Title       *string    `json:"title,omitempty" yaml:"title,omitempty"`
	Excerpt     *string    `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Body        *string    `json:"body,omitempty" yaml:"body,omitempty"`
	Image       *string    `json:"image,omitempty" yaml:"image,omitempty"`
	// Tags has no omitempty: an empty slice means "clear the tags" and
	// must survive serialization, while nil means "unchanged".
	Tags        []string   `json:"tags" yaml:"tags"`
	PublishedAt *time.Time `json:"date,omitempty" yaml:"date,omitempty"`
	Fields      Fields     `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Slug == nil && p.Title == nil && p.Excerpt == nil &&
		p.Body == nil && p.Image == nil && p.Tags == nil &&
		p.PublishedAt == nil && len(p.Fields) == 0
}

// Apply returns a copy of r with the patch overlaid.
// Scalar fields are overwritten; Fields entries are merged per key.
func (p Patch) Apply(r Record) Record {
	out := r.Clone()
	if p.Slug != nil {
		out.Slug = *p.Slug
	}
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Excerpt != nil {
		out.Excerpt = *p.Excerpt
	}
	if p.Body != nil {
		out.Body = *p.Body
	}
	if p.Image != nil {
		out.Image = *p.Image
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	if p.PublishedAt != nil {
		out.PublishedAt = *p.PublishedAt
	}
	if len(p.Fields) > 0 {
		if out.Fields == nil {
			out.Fields = make(Fields, len(p.Fields))
		}
		for k, v := range p.Fields {
			out.Fields[k] = v
		}
	}
	return out
}

// Diff computes the minimal patch that turns base into changed.
// Only differing fields are recorded, so applying the result to base
// reproduces changed (modulo removed Fields keys, which are not
// representable in an overlay).
func Diff(base, changed Record) Patch {
	var p Patch
	if changed.Slug != base.Slug {
		p.Slug = ptr(changed.Slug)
	}
	if changed.Title != base.Title {
		p.Title = ptr(changed.Title)
	}
	if changed.Excerpt != base.Excerpt {
		p.Excerpt = ptr(changed.Excerpt)
	}
	if changed.Body != base.Body {
		p.Body = ptr(changed.Body)
	}
	if changed.Image != base.Image {
		p.Image = ptr(changed.Image)
	}
	if !equalTags(base.Tags, changed.Tags) {
		// Non-nil even when empty, so clearing the tags is representable.
		p.Tags = append([]string{}, changed.Tags...)
	}
	if !changed.PublishedAt.Equal(base.PublishedAt) {
		t := changed.PublishedAt
		p.PublishedAt = &t
	}
	for k, v := range changed.Fields {
		if bv, ok := base.Fields[k]; !ok || bv != v {
			if p.Fields == nil {
				p.Fields = make(Fields)
			}
			p.Fields[k] = v
		}
	}
	return p
}

func ptr(s string) *string { return &s }

func equalTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- Slug helpers ---

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeSlug lowercases and trims a slug.
func NormalizeSlug(s string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(s)), "-")
}

// Slugify derives a URL-safe slug from free text (typically a title).
func Slugify(text string) string {
	s := slugUnsafe.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(s, "-")
}

// SlugBase strips a trailing numeric disambiguation suffix ("intro-2" -> "intro").
func SlugBase(s string) string {
	i := strings.LastIndex(s, "-")
	if i <= 0 {
		return s
	}
	if _, err := strconv.Atoi(s[i+1:]); err != nil {
		return s
	}
	return s[:i]
}
