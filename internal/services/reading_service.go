package services

import (
	"context"
	"fmt"
	"log/slog"

	"kulutus/internal/core"
)

// ReadingService fronts the raw reading store for one utility-agnostic
// API: handlers pass the utility, the service validates and forwards.
type ReadingService struct {
	store ReadingStore
}

func NewReadingService(store ReadingStore) *ReadingService {
	return &ReadingService{store: store}
}

func (s *ReadingService) Insert(ctx context.Context, u core.Utility, r core.Reading) (core.Reading, error) {
	if err := r.Validate(u); err != nil {
		return core.Reading{}, err
	}
	created, err := s.store.InsertReading(ctx, u, r)
	if err != nil {
		return core.Reading{}, fmt.Errorf("insert reading: %w", err)
	}
	slog.InfoContext(ctx, "Reading recorded",
		"utility", string(u),
		"reading_id", created.ID,
		"property_id", created.PropertyID,
		"year", created.Year,
		"month", created.Month)
	return created, nil
}

func (s *ReadingService) Update(ctx context.Context, u core.Utility, id int64, r core.Reading) (core.Reading, error) {
	if err := r.Validate(u); err != nil {
		return core.Reading{}, err
	}
	updated, err := s.store.UpdateReading(ctx, u, id, r)
	if err != nil {
		return core.Reading{}, fmt.Errorf("update reading: %w", err)
	}
	slog.InfoContext(ctx, "Reading updated", "utility", string(u), "reading_id", id)
	return updated, nil
}

func (s *ReadingService) Delete(ctx context.Context, u core.Utility, id int64) error {
	if err := s.store.DeleteReading(ctx, u, id); err != nil {
		return fmt.Errorf("delete reading: %w", err)
	}
	slog.InfoContext(ctx, "Reading deleted", "utility", string(u), "reading_id", id)
	return nil
}
