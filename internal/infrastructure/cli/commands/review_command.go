package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/foodscan/internal/app"
	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/infrastructure/cli/helpers"
)

// NewReviewCommand creates the review command with all subcommands
func NewReviewCommand(container *app.Container) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Read and write product reviews",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if container.ReviewService == nil {
				return fmt.Errorf(ErrReviewServiceUnavailable)
			}
			return nil
		},
	}

	reviewCmd.AddCommand(
		newReviewListCommand(container),
		newReviewMineCommand(container),
		newReviewAddCommand(container),
		newReviewEditCommand(container),
		newReviewDeleteCommand(container),
		newReviewRatingCommand(container),
	)

	return reviewCmd
}

// newReviewListCommand creates the 'review list' subcommand
func newReviewListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list <barcode>",
		Short: "List reviews for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overview, err := container.ReviewService.Overview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			helpers.RenderReviews(cmd.OutOrStdout(), overview)
			return nil
		},
	}
}

// newReviewMineCommand creates the 'review mine' subcommand
func newReviewMineCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List reviews written on this device",
		RunE: func(cmd *cobra.Command, args []string) error {
			reviews, err := container.ReviewService.AllMine(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(reviews) == 0 {
				fmt.Fprintln(out, MsgNoReviews)
				return nil
			}
			for _, r := range reviews {
				fmt.Fprintf(out, "%s\n", r.Barcode)
				helpers.RenderReview(out, r)
			}
			return nil
		},
	}
}

// newReviewAddCommand creates the 'review add' subcommand
func newReviewAddCommand(container *app.Container) *cobra.Command {
	var (
		stars   int
		content string
	)

	cmd := &cobra.Command{
		Use:   "add <barcode>",
		Short: "Write a review for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := collectReviewInput(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], stars, content)
			if err != nil {
				return err
			}
			created, err := container.ReviewService.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Review saved.")
			helpers.RenderReview(cmd.OutOrStdout(), created)
			return nil
		},
	}

	cmd.Flags().IntVar(&stars, "stars", 0, "Star rating 1-5 (prompted when omitted)")
	cmd.Flags().StringVar(&content, "content", "", "Review text (prompted when omitted)")
	return cmd
}

// newReviewEditCommand creates the 'review edit' subcommand
func newReviewEditCommand(container *app.Container) *cobra.Command {
	var (
		stars   int
		content string
	)

	cmd := &cobra.Command{
		Use:   "edit <barcode>",
		Short: "Change this device's review for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			existing, err := container.ReviewService.Mine(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if existing == nil {
				return fmt.Errorf("no review for %s on this device: %w", args[0], domain.ErrReviewNotFound)
			}

			var update domain.ReviewUpdate
			if cmd.Flags().Changed("stars") {
				update.StarCount = &stars
			}
			if cmd.Flags().Changed("content") {
				update.Content = &content
			}
			if update.Empty() {
				reader := bufio.NewReader(cmd.InOrStdin())
				out := cmd.OutOrStdout()
				newStars, err := helpers.PromptForStars(out, reader, existing.StarCount)
				if err != nil {
					return err
				}
				newContent := helpers.PromptForString(out, reader, "Review", existing.Content)
				update = domain.ReviewUpdate{StarCount: &newStars, Content: &newContent}
			}

			updated, err := container.ReviewService.Update(cmd.Context(), existing.ID, update)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Review updated.")
			helpers.RenderReview(cmd.OutOrStdout(), updated)
			return nil
		},
	}

	cmd.Flags().IntVar(&stars, "stars", 0, "New star rating 1-5")
	cmd.Flags().StringVar(&content, "content", "", "New review text")
	return cmd
}

// newReviewDeleteCommand creates the 'review delete' subcommand
func newReviewDeleteCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <review-id>",
		Short: "Delete one of this device's reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.ReviewService.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgReviewDeleted)
			return nil
		},
	}
}

// newReviewRatingCommand creates the 'review rating' subcommand
func newReviewRatingCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rating <barcode>",
		Short: "Show the average rating and star distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviews, err := container.ReviewService.ForProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			displayRating(cmd.OutOrStdout(), reviews)
			return nil
		},
	}
}

// displayRating prints the summary followed by one bar per star value
func displayRating(out io.Writer, reviews []domain.Review) {
	summary := domain.Summarize(reviews)
	fmt.Fprintln(out, helpers.FormatRating(summary))
	if summary.Count == 0 {
		return
	}
	for _, bucket := range helpers.StarDistribution(reviews) {
		pct := helpers.Percentage(bucket.Count, summary.Count)
		fmt.Fprintf(out, "  %s %-20s %3d (%.0f%%)\n",
			helpers.Stars(bucket.Stars),
			strings.Repeat("#", int(pct/5)),
			bucket.Count,
			pct)
	}
}

// collectReviewInput fills missing flag values from interactive prompts
func collectReviewInput(in io.Reader, out io.Writer, barcode string, stars int, content string) (domain.ReviewInput, error) {
	var reader *bufio.Reader
	if stars == 0 || strings.TrimSpace(content) == "" {
		reader = bufio.NewReader(in)
	}
	if stars == 0 {
		var err error
		stars, err = helpers.PromptForStars(out, reader, 0)
		if err != nil {
			return domain.ReviewInput{}, err
		}
	}
	if strings.TrimSpace(content) == "" {
		content = helpers.PromptForString(out, reader, "Review", "")
	}
	return domain.ReviewInput{Barcode: barcode, Content: content, StarCount: stars}, nil
}
