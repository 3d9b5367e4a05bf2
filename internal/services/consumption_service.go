package services

import (
	"context"
	"fmt"
	"sort"

	"kulutus/internal/core"
)

// ConsumptionRow is a derived consumption entry joined with the display
// attributes of its property. Property is nil when the reading references
// a key that is no longer registered; the row is still returned.
type ConsumptionRow struct {
	core.Consumption
	Property *core.Property
}

// ConsumptionService derives month-over-month consumption on the fly:
// nothing is persisted, every list recomputes from the raw readings.
type ConsumptionService struct {
	readings   ReadingStore
	properties PropertyStore
	policy     core.DeltaPolicy
}

func NewConsumptionService(readings ReadingStore, properties PropertyStore, policy core.DeltaPolicy) *ConsumptionService {
	if !policy.IsValid() {
		policy = core.DeltaAllow
	}
	return &ConsumptionService{readings: readings, properties: properties, policy: policy}
}

// List returns one row per (property, year, month) group of the utility,
// joined with property attributes and sorted by reading date descending
// (newest first, ties broken by highest id).
func (s *ConsumptionService) List(ctx context.Context, u core.Utility) ([]ConsumptionRow, error) {
	if !u.IsValid() {
		return nil, core.Validationf("unknown utility %q", string(u))
	}

	raw, err := s.readings.ListReadings(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("list %s readings: %w", u, err)
	}

	props, err := s.properties.ListProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	byKey := make(map[string]core.Property, len(props))
	for _, p := range props {
		byKey[p.ID] = p
	}

	derived := core.Derive(raw, s.policy)
	rows := make([]ConsumptionRow, 0, len(derived))
	for _, c := range derived {
		row := ConsumptionRow{Consumption: c}
		if p, ok := byKey[c.PropertyID]; ok {
			row.Property = &p
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.ID > b.ID
	})
	return rows, nil
}
