package reviews

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/doeshing/foodscan/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "reviews.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	tick := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return store
}

func TestSQLiteStoreInsertAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first, err := store.Insert(ctx, domain.Review{DeviceID: "dev-a", Barcode: "73513537", Content: "first review", StarCount: 4})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamps, got %+v", first)
	}
	second, err := store.Insert(ctx, domain.Review{DeviceID: "dev-b", Barcode: "73513537", Content: "second review", StarCount: 2})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := store.Insert(ctx, domain.Review{DeviceID: "dev-a", Barcode: "4006381333931", Content: "other product", StarCount: 5}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	byBarcode, err := store.ListByBarcode(ctx, "73513537")
	if err != nil {
		t.Fatalf("ListByBarcode: %v", err)
	}
	if len(byBarcode) != 2 || byBarcode[0].ID != second.ID || byBarcode[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", byBarcode)
	}

	byDevice, err := store.ListByDevice(ctx, "dev-a")
	if err != nil {
		t.Fatalf("ListByDevice: %v", err)
	}
	if len(byDevice) != 2 || byDevice[0].Barcode != "4006381333931" {
		t.Fatalf("unexpected device reviews %+v", byDevice)
	}

	empty, err := store.ListByBarcode(ctx, "00000000")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %v, %v", empty, err)
	}
}

func TestSQLiteStoreOneReviewPerDeviceAndProduct(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	in := domain.Review{DeviceID: "dev-a", Barcode: "73513537", Content: "first review", StarCount: 4}
	if _, err := store.Insert(ctx, in); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := store.Insert(ctx, in); !errors.Is(err, domain.ErrReviewExists) {
		t.Fatalf("expected ErrReviewExists, got %v", err)
	}
}

func TestSQLiteStoreOtherConstraintsAreNotDuplicates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Insert(ctx, domain.Review{DeviceID: "dev-a", Barcode: "73513537", Content: "out of range", StarCount: 9})
	if err == nil {
		t.Fatal("expected check constraint error")
	}
	if errors.Is(err, domain.ErrReviewExists) {
		t.Fatalf("check violation reported as duplicate: %v", err)
	}
}

func TestSQLiteStoreFindByDeviceAndBarcode(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	got, err := store.FindByDeviceAndBarcode(ctx, "dev-a", "73513537")
	if err != nil || got != nil {
		t.Fatalf("expected nil review, got %+v, %v", got, err)
	}

	created, err := store.Insert(ctx, domain.Review{DeviceID: "dev-a", Barcode: "73513537", Content: "first review", StarCount: 4})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, err = store.FindByDeviceAndBarcode(ctx, "dev-a", "73513537")
	if err != nil || got == nil || got.ID != created.ID {
		t.Fatalf("expected %s, got %+v, %v", created.ID, got, err)
	}
}

func TestSQLiteStoreUpdateScopedToDevice(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.Insert(ctx, domain.Review{DeviceID: "dev-a", Barcode: "73513537", Content: "first review", StarCount: 4})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	stars := 1
	if _, err := store.Update(ctx, created.ID, "dev-b", domain.ReviewUpdate{StarCount: &stars}); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound for foreign device, got %v", err)
	}

	updated, err := store.Update(ctx, created.ID, "dev-a", domain.ReviewUpdate{StarCount: &stars})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.StarCount != 1 || updated.Content != "first review" {
		t.Fatalf("partial update lost fields: %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("updated_at not advanced: %v <= %v", updated.UpdatedAt, created.UpdatedAt)
	}
}

func TestSQLiteStoreDeleteScopedToDevice(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.Insert(ctx, domain.Review{DeviceID: "dev-a", Barcode: "73513537", Content: "first review", StarCount: 4})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := store.Delete(ctx, created.ID, "dev-b"); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
	if err := store.Delete(ctx, created.ID, "dev-a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, created.ID, "dev-a"); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound on second delete, got %v", err)
	}
}
