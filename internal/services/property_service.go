package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"kulutus/internal/core"
)

// PropertyService fronts the property registry: required fields are
// checked here, before anything touches storage.
type PropertyService struct {
	store PropertyStore
}

func NewPropertyService(store PropertyStore) *PropertyService {
	return &PropertyService{store: store}
}

func (s *PropertyService) Create(ctx context.Context, p core.Property) (core.Property, error) {
	if err := p.Validate(); err != nil {
		return core.Property{}, err
	}
	created, err := s.store.CreateProperty(ctx, p)
	if err != nil {
		return core.Property{}, fmt.Errorf("create property: %w", err)
	}
	slog.InfoContext(ctx, "Property registered", "property_id", created.ID)
	return created, nil
}

func (s *PropertyService) Update(ctx context.Context, key string, p core.Property) (core.Property, error) {
	if strings.TrimSpace(key) == "" {
		return core.Property{}, core.Validationf("property id is required")
	}
	if err := p.Validate(); err != nil {
		return core.Property{}, err
	}
	updated, err := s.store.UpdateProperty(ctx, key, p)
	if err != nil {
		return core.Property{}, fmt.Errorf("update property: %w", err)
	}
	slog.InfoContext(ctx, "Property updated", "property_id", updated.ID, "lookup_key", key)
	return updated, nil
}

func (s *PropertyService) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return core.Validationf("property id is required")
	}
	if err := s.store.DeleteProperty(ctx, key); err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	slog.InfoContext(ctx, "Property deleted", "property_id", key)
	return nil
}

func (s *PropertyService) List(ctx context.Context) ([]core.Property, error) {
	props, err := s.store.ListProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return props, nil
}
