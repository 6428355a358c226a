package core

import "fmt"

// Schema declares the validation rules for one content type. Patches and
// new records are validated against it before they reach the merge,
// so a rejected mutation leaves no partial state behind.
type Schema struct {
	// Name of the content type, e.g. "blog" or "products".
	Name string

	// Required lists Fields keys that every record must carry
	// (e.g. "price" and "sku" for products).
	Required []string
}

// ValidateRecord checks a full record against the schema.
func (s *Schema) ValidateRecord(r Record) error {
	if s == nil {
		return nil
	}
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	for _, key := range s.Required {
		if v, ok := r.Fields[key]; !ok || v == nil || v == "" {
			return fmt.Errorf("%w: field %q is required", ErrValidation, key)
		}
	}
	return nil
}

// ValidatePatch rejects patches that would blank out mandatory fields.
func (s *Schema) ValidatePatch(p Patch) error {
	if s == nil {
		return nil
	}
	if p.Title != nil && *p.Title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	if p.Slug != nil && NormalizeSlug(*p.Slug) == "" {
		return fmt.Errorf("%w: slug cannot be empty", ErrValidation)
	}
	for _, key := range s.Required {
		if v, ok := p.Fields[key]; ok && (v == nil || v == "") {
			return fmt.Errorf("%w: field %q cannot be cleared", ErrValidation, key)
		}
	}
	return nil
}
