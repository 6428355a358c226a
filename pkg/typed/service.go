// Package typed provides a type-safe view over a content service.
// The reconciler treats content-type-specific attributes as an opaque
// Fields map; this wrapper converts that map to and from a concrete
// struct per content type (e.g. a Product with Price and SKU).
package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stromabio/stroma/pkg/core"
)

// RecordModel pairs a raw record with the typed view of its Fields.
type RecordModel[T any] struct {
	Record core.Record
	Data   T
}

// Service wraps a core.Service to provide type-safe access to Fields.
type Service[T any] struct {
	svc *core.Service
}

// NewService creates a type-safe wrapper around an existing service.
func NewService[T any](svc *core.Service) *Service[T] {
	return &Service[T]{svc: svc}
}

// Records returns the merged view converted to the typed model.
func (s *Service[T]) Records(ctx context.Context) ([]*RecordModel[T], error) {
	records, err := s.svc.Records(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*RecordModel[T], 0, len(records))
	for _, r := range records {
		model, err := fromCore[T](r)
		if err != nil {
			return nil, fmt.Errorf("failed to process record %d: %w", r.ID, err)
		}
		result = append(result, model)
	}
	return result, nil
}

// Get retrieves one record by id.
func (s *Service[T]) Get(ctx context.Context, id int64) (*RecordModel[T], error) {
	rec, err := s.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromCore[T](rec)
}

// GetBySlug retrieves one record by slug.
func (s *Service[T]) GetBySlug(ctx context.Context, slug string) (*RecordModel[T], error) {
	rec, err := s.svc.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return fromCore[T](rec)
}

// Create adds a record whose Fields are produced from the typed data.
func (s *Service[T]) Create(ctx context.Context, rec core.Record, data T) (*RecordModel[T], error) {
	fields, err := toFields(data)
	if err != nil {
		return nil, err
	}
	rec.Fields = fields
	stored, err := s.svc.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	return fromCore[T](stored)
}

// UpdateData overlays the typed data onto the record's Fields.
func (s *Service[T]) UpdateData(ctx context.Context, id int64, data T) (*RecordModel[T], error) {
	fields, err := toFields(data)
	if err != nil {
		return nil, err
	}
	updated, err := s.svc.Update(ctx, id, core.Patch{Fields: fields})
	if err != nil {
		return nil, err
	}
	return fromCore[T](updated)
}

// Helper to convert a core.Record to the typed model.
func fromCore[T any](rec core.Record) (*RecordModel[T], error) {
	dataBytes, err := json.Marshal(rec.Fields)
	if err != nil {
		return nil, fmt.Errorf("fields marshal failed: %w", err)
	}

	var data T
	if err := json.Unmarshal(dataBytes, &data); err != nil {
		return nil, fmt.Errorf("unmarshal to target type failed: %w", err)
	}

	return &RecordModel[T]{Record: rec, Data: data}, nil
}

func toFields[T any](data T) (core.Fields, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed data: %w", err)
	}
	var fields core.Fields
	if err := json.Unmarshal(dataBytes, &fields); err != nil {
		return nil, fmt.Errorf("failed to convert typed data to map: %w", err)
	}
	return fields, nil
}
