package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Review content bounds, counted in characters after trimming.
const (
	MinReviewLength = 10
	MaxReviewLength = 500
	MinStarCount    = 1
	MaxStarCount    = 5
)

// Review is a star rating with text, owned by one device.
type Review struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"device_id"`
	Barcode   string    `json:"barcode"`
	Content   string    `json:"content"`
	StarCount int       `json:"star_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewInput is the payload for a new review.
type ReviewInput struct {
	Barcode   string `json:"barcode"`
	Content   string `json:"content"`
	StarCount int    `json:"star_count"`
}

// ReviewUpdate changes only the fields that are set.
type ReviewUpdate struct {
	Content   *string `json:"content,omitempty"`
	StarCount *int    `json:"star_count,omitempty"`
}

// Empty reports whether the update carries no changes.
func (u ReviewUpdate) Empty() bool {
	return u.Content == nil && u.StarCount == nil
}

// RatingSummary aggregates star counts for one product.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// ProductReviews bundles everything a product's review section shows.
type ProductReviews struct {
	Barcode string        `json:"barcode"`
	Reviews []Review      `json:"reviews"`
	Mine    *Review       `json:"mine,omitempty"`
	Rating  RatingSummary `json:"rating"`
}

// Others returns reviews written by other devices.
func (p ProductReviews) Others() []Review {
	if p.Mine == nil {
		return p.Reviews
	}
	out := make([]Review, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		if r.ID != p.Mine.ID {
			out = append(out, r)
		}
	}
	return out
}

// NormalizeReviewContent trims surrounding whitespace.
func NormalizeReviewContent(content string) string {
	return strings.TrimSpace(content)
}

// ValidateReviewContent checks the trimmed length bounds.
func ValidateReviewContent(content string) error {
	n := utf8.RuneCountInString(NormalizeReviewContent(content))
	switch {
	case n == 0:
		return ErrReviewEmpty
	case n < MinReviewLength:
		return ErrReviewTooShort
	case n > MaxReviewLength:
		return ErrReviewTooLong
	}
	return nil
}

// ValidateStarCount checks the 1..5 range.
func ValidateStarCount(stars int) error {
	if stars < MinStarCount || stars > MaxStarCount {
		return ErrInvalidStarCount
	}
	return nil
}

// Summarize computes the mean star count.
func Summarize(reviews []Review) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.StarCount
	}
	return RatingSummary{
		Average: float64(sum) / float64(len(reviews)),
		Count:   len(reviews),
	}
}
