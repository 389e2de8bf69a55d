// Package review implements device-scoped product reviews.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/ports"
)

// Metric labels for review mutations.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ErrNothingToUpdate is returned when an update carries no fields.
var ErrNothingToUpdate = errors.New("review update has no changes")

// Service reads and mutates reviews on behalf of the current device.
type Service struct {
	Repository ports.ReviewRepository
	Devices    ports.DeviceIDProvider
	Logger     ports.Logger
	Metrics    ports.Metrics
}

// ForProduct lists every review for a barcode, newest first.
func (s *Service) ForProduct(ctx context.Context, barcode string) ([]domain.Review, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	code, err := barcodeArg(barcode)
	if err != nil {
		return nil, err
	}
	reviews, err := s.Repository.ListByBarcode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("list reviews for %s: %w", code, err)
	}
	return reviews, nil
}

// Mine returns this device's review for barcode, or nil when there is none.
func (s *Service) Mine(ctx context.Context, barcode string) (*domain.Review, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	code, err := barcodeArg(barcode)
	if err != nil {
		return nil, err
	}
	device, err := s.Devices.DeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve device id: %w", err)
	}
	rev, err := s.Repository.FindByDeviceAndBarcode(ctx, device, code)
	if err != nil {
		return nil, fmt.Errorf("find review for %s: %w", code, err)
	}
	return rev, nil
}

// AllMine lists every review written by this device, newest first.
func (s *Service) AllMine(ctx context.Context) ([]domain.Review, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	device, err := s.Devices.DeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve device id: %w", err)
	}
	reviews, err := s.Repository.ListByDevice(ctx, device)
	if err != nil {
		return nil, fmt.Errorf("list device reviews: %w", err)
	}
	return reviews, nil
}

// Create stores a new review. A device may review each product once.
func (s *Service) Create(ctx context.Context, input domain.ReviewInput) (domain.Review, error) {
	if err := s.ready(); err != nil {
		return domain.Review{}, err
	}
	code, err := barcodeArg(input.Barcode)
	if err != nil {
		return domain.Review{}, err
	}
	if err := domain.ValidateReviewContent(input.Content); err != nil {
		return domain.Review{}, err
	}
	if err := domain.ValidateStarCount(input.StarCount); err != nil {
		return domain.Review{}, err
	}
	device, err := s.Devices.DeviceID(ctx)
	if err != nil {
		return domain.Review{}, fmt.Errorf("resolve device id: %w", err)
	}

	created, err := s.Repository.Insert(ctx, domain.Review{
		DeviceID:  device,
		Barcode:   code,
		Content:   domain.NormalizeReviewContent(input.Content),
		StarCount: input.StarCount,
	})
	if err != nil {
		if errors.Is(err, domain.ErrReviewExists) {
			return domain.Review{}, fmt.Errorf("review for %s: %w", code, err)
		}
		return domain.Review{}, fmt.Errorf("create review: %w", err)
	}
	s.mutated(ActionCreate)
	s.Logger.Info("review created", map[string]interface{}{"id": created.ID, "barcode": code})
	return created, nil
}

// Update applies the set fields of update to a review owned by this device.
func (s *Service) Update(ctx context.Context, id string, update domain.ReviewUpdate) (domain.Review, error) {
	if err := s.ready(); err != nil {
		return domain.Review{}, err
	}
	if update.Empty() {
		return domain.Review{}, ErrNothingToUpdate
	}
	if update.Content != nil {
		if err := domain.ValidateReviewContent(*update.Content); err != nil {
			return domain.Review{}, err
		}
		trimmed := domain.NormalizeReviewContent(*update.Content)
		update.Content = &trimmed
	}
	if update.StarCount != nil {
		if err := domain.ValidateStarCount(*update.StarCount); err != nil {
			return domain.Review{}, err
		}
	}
	device, err := s.Devices.DeviceID(ctx)
	if err != nil {
		return domain.Review{}, fmt.Errorf("resolve device id: %w", err)
	}

	updated, err := s.Repository.Update(ctx, id, device, update)
	if err != nil {
		return domain.Review{}, fmt.Errorf("update review %s: %w", id, err)
	}
	s.mutated(ActionUpdate)
	s.Logger.Info("review updated", map[string]interface{}{"id": id})
	return updated, nil
}

// Delete removes a review owned by this device.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	device, err := s.Devices.DeviceID(ctx)
	if err != nil {
		return fmt.Errorf("resolve device id: %w", err)
	}
	if err := s.Repository.Delete(ctx, id, device); err != nil {
		return fmt.Errorf("delete review %s: %w", id, err)
	}
	s.mutated(ActionDelete)
	s.Logger.Info("review deleted", map[string]interface{}{"id": id})
	return nil
}

// Submit creates the device's review for a product or, when one exists,
// overwrites its content and stars.
func (s *Service) Submit(ctx context.Context, input domain.ReviewInput) (domain.Review, error) {
	existing, err := s.Mine(ctx, input.Barcode)
	if err != nil {
		return domain.Review{}, err
	}
	if existing == nil {
		return s.Create(ctx, input)
	}
	if err := domain.ValidateStarCount(input.StarCount); err != nil {
		return domain.Review{}, err
	}
	content := input.Content
	stars := input.StarCount
	return s.Update(ctx, existing.ID, domain.ReviewUpdate{Content: &content, StarCount: &stars})
}

// AverageRating summarizes the star counts for a product.
func (s *Service) AverageRating(ctx context.Context, barcode string) (domain.RatingSummary, error) {
	reviews, err := s.ForProduct(ctx, barcode)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	return domain.Summarize(reviews), nil
}

// Overview loads the reviews, this device's own review and the rating in one call.
func (s *Service) Overview(ctx context.Context, barcode string) (domain.ProductReviews, error) {
	reviews, err := s.ForProduct(ctx, barcode)
	if err != nil {
		return domain.ProductReviews{}, err
	}
	out := domain.ProductReviews{
		Barcode: domain.NormalizeBarcode(barcode),
		Reviews: reviews,
		Rating:  domain.Summarize(reviews),
	}
	if out.Reviews == nil {
		out.Reviews = []domain.Review{}
	}

	device, err := s.Devices.DeviceID(ctx)
	if err != nil {
		return domain.ProductReviews{}, fmt.Errorf("resolve device id: %w", err)
	}
	for i := range reviews {
		if reviews[i].DeviceID == device {
			mine := reviews[i]
			out.Mine = &mine
			break
		}
	}
	return out, nil
}

func (s *Service) ready() error {
	if s.Repository == nil || s.Devices == nil || s.Logger == nil {
		return errors.New("review.Service dependencies not satisfied")
	}
	return nil
}

func (s *Service) mutated(action string) {
	if s.Metrics != nil {
		s.Metrics.ReviewMutated(action)
	}
}

func barcodeArg(raw string) (string, error) {
	code := domain.NormalizeBarcode(raw)
	if err := domain.ValidateBarcode(code); err != nil {
		return "", err
	}
	return code, nil
}
