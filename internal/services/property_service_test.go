package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"kulutus/internal/core"
)

func TestPropertyServiceValidatesBeforeStorage(t *testing.T) {
	f := newFakeStore()
	f.failWith = errors.New("storage must not be reached")
	svc := NewPropertyService(f)

	_, err := svc.Create(context.Background(), core.Property{Address: "Osoite 1"})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	_, err = svc.Update(context.Background(), "", core.Property{})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty key, got %v", err)
	}

	if err := svc.Delete(context.Background(), "  "); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank key, got %v", err)
	}
}

func TestPropertyServiceRoundTrip(t *testing.T) {
	f := newFakeStore()
	svc := NewPropertyService(f)
	ctx := context.Background()

	p := core.Property{ID: "P1", Address: "Osoite 1", OwnerName: "Matti"}
	created, err := svc.Create(ctx, p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "P1" {
		t.Fatalf("unexpected created property: %+v", created)
	}

	_, err = svc.Create(ctx, p)
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate, got %v", err)
	}

	p.OwnerName = "Maija"
	updated, err := svc.Update(ctx, "P1", p)
	if err != nil || updated.OwnerName != "Maija" {
		t.Fatalf("update: %v %+v", err, updated)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v, %d entries", err, len(list))
	}

	if err := svc.Delete(ctx, "P1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "P1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadingServiceValidatesBeforeStorage(t *testing.T) {
	f := newFakeStore()
	f.failWith = errors.New("storage must not be reached")
	svc := NewReadingService(f)

	bad := core.Reading{PropertyID: "P1", Year: 2024, Month: "January",
		Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	_, err := svc.Insert(context.Background(), core.Heat, bad)
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown month, got %v", err)
	}

	_, err = svc.Update(context.Background(), core.Heat, 1, core.Reading{})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty payload, got %v", err)
	}
}

func TestReadingServiceRoundTrip(t *testing.T) {
	f := newFakeStore()
	svc := NewReadingService(f)
	ctx := context.Background()

	r := core.Reading{PropertyID: "P1", Year: 2024, Month: "Tammi",
		Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Value: 100}
	created, err := svc.Insert(ctx, core.Heat, r)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.ID == 0 || created.MonthNum != 1 {
		t.Fatalf("unexpected created reading: %+v", created)
	}

	created.Value = 110
	updated, err := svc.Update(ctx, core.Heat, created.ID, created)
	if err != nil || updated.Value != 110 {
		t.Fatalf("update: %v %+v", err, updated)
	}

	if err := svc.Delete(ctx, core.Heat, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, core.Heat, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
