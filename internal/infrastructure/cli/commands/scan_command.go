package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/foodscan/internal/app"
	"github.com/doeshing/foodscan/internal/infrastructure/cli/helpers"
)

// NewScanCommand creates the scan command
func NewScanCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <barcode>",
		Short: "Look up a barcode and record it in the scan history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ScanService == nil {
				return fmt.Errorf(ErrScanServiceUnavailable)
			}
			product, err := container.ScanService.Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			helpers.RenderProduct(cmd.OutOrStdout(), product)
			return nil
		},
	}
}

// NewProductCommand creates the product command which shows the card with its reviews
func NewProductCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "product <barcode>",
		Short: "Show a product with its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ScanService == nil {
				return fmt.Errorf(ErrScanServiceUnavailable)
			}
			if container.ReviewService == nil {
				return fmt.Errorf(ErrReviewServiceUnavailable)
			}
			out := cmd.OutOrStdout()
			product, err := container.ScanService.Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			helpers.RenderProduct(out, product)

			overview, err := container.ReviewService.Overview(cmd.Context(), product.Code)
			if err != nil {
				return fmt.Errorf("load reviews: %w", err)
			}
			helpers.RenderReviews(out, overview)
			return nil
		},
	}
}
