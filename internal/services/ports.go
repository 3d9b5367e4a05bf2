package services

import (
	"context"

	"kulutus/internal/core"
)

// PropertyStore is the persistence boundary for the property registry.
type PropertyStore interface {
	CreateProperty(ctx context.Context, p core.Property) (core.Property, error)
	UpdateProperty(ctx context.Context, key string, p core.Property) (core.Property, error)
	DeleteProperty(ctx context.Context, key string) error
	GetProperty(ctx context.Context, key string) (core.Property, error)
	ListProperties(ctx context.Context) ([]core.Property, error)
}

// ReadingStore is the persistence boundary for raw meter readings.
type ReadingStore interface {
	InsertReading(ctx context.Context, u core.Utility, r core.Reading) (core.Reading, error)
	UpdateReading(ctx context.Context, u core.Utility, id int64, r core.Reading) (core.Reading, error)
	DeleteReading(ctx context.Context, u core.Utility, id int64) error
	ListReadings(ctx context.Context, u core.Utility) ([]core.Reading, error)
}
