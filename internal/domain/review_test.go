package domain_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/foodscan/internal/domain"
)

// TestValidateReviewContent tests the trimmed length bounds
func TestValidateReviewContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "empty", content: "   ", want: domain.ErrReviewEmpty},
		{name: "too short", content: "  tasty  ", want: domain.ErrReviewTooShort},
		{name: "exactly ten", content: "0123456789"},
		{name: "exactly five hundred", content: strings.Repeat("a", 500)},
		{name: "too long", content: strings.Repeat("a", 501), want: domain.ErrReviewTooLong},
		{name: "multibyte counted as characters", content: strings.Repeat("é", 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateReviewContent(tt.content)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ValidateReviewContent() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateStarCount(t *testing.T) {
	for stars := 0; stars <= 6; stars++ {
		err := domain.ValidateStarCount(stars)
		valid := stars >= 1 && stars <= 5
		if valid && err != nil {
			t.Errorf("stars=%d unexpected error %v", stars, err)
		}
		if !valid && !errors.Is(err, domain.ErrInvalidStarCount) {
			t.Errorf("stars=%d expected ErrInvalidStarCount, got %v", stars, err)
		}
	}
}

func TestSummarize(t *testing.T) {
	if got := domain.Summarize(nil); got != (domain.RatingSummary{}) {
		t.Fatalf("empty summary = %+v", got)
	}
	got := domain.Summarize([]domain.Review{{StarCount: 5}, {StarCount: 4}, {StarCount: 3}, {StarCount: 4}})
	if got.Count != 4 || got.Average != 4 {
		t.Fatalf("Summarize() = %+v", got)
	}
}

func TestProductReviewsOthers(t *testing.T) {
	mine := domain.Review{ID: "b"}
	overview := domain.ProductReviews{
		Reviews: []domain.Review{{ID: "a"}, mine, {ID: "c"}},
		Mine:    &mine,
	}
	others := overview.Others()
	if len(others) != 2 || others[0].ID != "a" || others[1].ID != "c" {
		t.Fatalf("Others() = %+v", others)
	}
}

func TestProductScanRecord(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := domain.Product{
		Code:          "4006381333931",
		Name:          " Pencil ",
		Brands:        "Stabilo",
		ImageFrontURL: "https://img/front.jpg",
		NutriScore:    domain.GradeB,
	}
	rec := p.ScanRecord(at)
	if rec.Name != "Pencil" || rec.Brand != "Stabilo" || rec.ImageURL != "https://img/front.jpg" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Key() != "4006381333931|2024-05-01T12:00:00Z" {
		t.Fatalf("Key() = %q", rec.Key())
	}
}
