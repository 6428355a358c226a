package core

import (
	"errors"
	"testing"
)

func TestSchemaValidateRecord(t *testing.T) {
	s := &Schema{Name: "products", Required: []string{"sku", "price_cents"}}

	ok := Record{Title: "Scaffold", Fields: Fields{"sku": "S-1", "price_cents": 100}}
	if err := s.ValidateRecord(ok); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	if err := s.ValidateRecord(Record{Fields: Fields{"sku": "S-1", "price_cents": 100}}); !errors.Is(err, ErrValidation) {
		t.Errorf("missing title should fail validation, got %v", err)
	}
	if err := s.ValidateRecord(Record{Title: "X", Fields: Fields{"sku": "S-1"}}); !errors.Is(err, ErrValidation) {
		t.Errorf("missing required field should fail validation, got %v", err)
	}
	if err := s.ValidateRecord(Record{Title: "X", Fields: Fields{"sku": "", "price_cents": 1}}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty required field should fail validation, got %v", err)
	}
}

func TestSchemaValidatePatch(t *testing.T) {
	s := &Schema{Name: "products", Required: []string{"sku"}}

	empty := ""
	if err := s.ValidatePatch(Patch{Title: &empty}); !errors.Is(err, ErrValidation) {
		t.Errorf("blanking the title should fail, got %v", err)
	}
	if err := s.ValidatePatch(Patch{Slug: &empty}); !errors.Is(err, ErrValidation) {
		t.Errorf("blanking the slug should fail, got %v", err)
	}
	if err := s.ValidatePatch(Patch{Fields: Fields{"sku": ""}}); !errors.Is(err, ErrValidation) {
		t.Errorf("clearing a required field should fail, got %v", err)
	}

	title := "ok"
	if err := s.ValidatePatch(Patch{Title: &title, Fields: Fields{"sku": "S-2"}}); err != nil {
		t.Errorf("valid patch rejected: %v", err)
	}
}

func TestNilSchemaAcceptsEverything(t *testing.T) {
	var s *Schema
	if err := s.ValidateRecord(Record{}); err != nil {
		t.Errorf("nil schema must accept any record, got %v", err)
	}
	if err := s.ValidatePatch(Patch{}); err != nil {
		t.Errorf("nil schema must accept any patch, got %v", err)
	}
}
