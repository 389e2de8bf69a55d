package reviews

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/doeshing/foodscan/internal/domain"
)

// Integration test against a real database; set TEST_DATABASE_URL to run it.
func TestPostgresStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("database unavailable: %v", err)
	}
	defer pool.Close()

	if err := EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if _, err := pool.Exec(ctx, "TRUNCATE reviews"); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	store := NewPostgresStore(pool)

	created, err := store.Insert(ctx, domain.Review{DeviceID: "dev-a", Barcode: "73513537", Content: "first review", StarCount: 4})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := store.Insert(ctx, domain.Review{DeviceID: "dev-a", Barcode: "73513537", Content: "again review", StarCount: 3}); !errors.Is(err, domain.ErrReviewExists) {
		t.Fatalf("expected ErrReviewExists, got %v", err)
	}

	content := "changed my mind"
	updated, err := store.Update(ctx, created.ID, "dev-a", domain.ReviewUpdate{Content: &content})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Content != content || updated.StarCount != 4 {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if _, err := store.Update(ctx, created.ID, "dev-b", domain.ReviewUpdate{Content: &content}); !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}

	mine, err := store.FindByDeviceAndBarcode(ctx, "dev-a", "73513537")
	if err != nil || mine == nil || mine.ID != created.ID {
		t.Fatalf("FindByDeviceAndBarcode = %+v, %v", mine, err)
	}

	if err := store.Delete(ctx, created.ID, "dev-a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, err := store.ListByBarcode(ctx, "73513537")
	if err != nil || len(list) != 0 {
		t.Fatalf("expected no reviews, got %+v, %v", list, err)
	}
}
