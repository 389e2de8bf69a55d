package helpers

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/doeshing/foodscan/internal/domain"
)

// RenderProduct prints a product card in a friendly, ASCII-only format.
func RenderProduct(out io.Writer, p domain.Product) {
	fmt.Fprintf(out, "%s\n", orPlaceholder(p.Name))
	fmt.Fprintf(out, "Barcode: %s\n", p.Code)
	fmt.Fprintf(out, "Brand: %s\n", orPlaceholder(p.Brands))
	if p.Quantity != "" {
		fmt.Fprintf(out, "Quantity: %s\n", p.Quantity)
	}

	fmt.Fprintf(out, "\nNutri-Score: %s  Eco-Score: %s  NOVA: %s\n",
		p.NutriScore.Display(domain.Placeholder),
		p.EcoScore.Display(domain.Placeholder),
		novaLabel(p.NovaGroup))

	fmt.Fprintln(out, "\nNutrition per 100g:")
	rows := []struct {
		label string
		value *float64
		unit  string
		level string
	}{
		{"Energy", p.Nutrition.EnergyKcal, "kcal", ""},
		{"Fat", p.Nutrition.Fat, "g", p.NutrientLevels.Fat},
		{"  Saturated", p.Nutrition.SaturatedFat, "g", p.NutrientLevels.SaturatedFat},
		{"Carbohydrates", p.Nutrition.Carbs, "g", ""},
		{"  Sugars", p.Nutrition.Sugars, "g", p.NutrientLevels.Sugars},
		{"Fiber", p.Nutrition.Fiber, "g", ""},
		{"Proteins", p.Nutrition.Proteins, "g", ""},
		{"Salt", p.Nutrition.Salt, "g", p.NutrientLevels.Salt},
	}
	for _, row := range rows {
		line := fmt.Sprintf("  %-14s %s", row.label, FormatAmount(row.value, row.unit))
		if row.level != "" {
			line += fmt.Sprintf(" (%s)", row.level)
		}
		fmt.Fprintln(out, line)
	}

	if len(p.Allergens) > 0 {
		fmt.Fprintf(out, "\nAllergens: %s\n", strings.Join(p.Allergens, ", "))
	}
	if len(p.Traces) > 0 {
		fmt.Fprintf(out, "May contain: %s\n", strings.Join(p.Traces, ", "))
	}
	if p.Ingredients != "" {
		fmt.Fprintf(out, "\nIngredients: %s\n", p.Ingredients)
	}
	if img := p.DisplayImage(); img != "" {
		fmt.Fprintf(out, "Image: %s\n", img)
	}
}

// RenderHistory prints scan records newest first.
func RenderHistory(out io.Writer, records []domain.ScanRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No scans yet.")
		return
	}
	for i, r := range records {
		fmt.Fprintf(out, "%2d. %-13s %s (%s) Nutri-Score %s  %s\n",
			i+1,
			r.Code,
			orPlaceholder(r.Name),
			orPlaceholder(r.Brand),
			r.NutriScore.Display(domain.Placeholder),
			r.ScannedAt.Local().Format("2006-01-02 15:04"))
	}
}

// RenderReviews prints the review section for a product.
func RenderReviews(out io.Writer, overview domain.ProductReviews) {
	fmt.Fprintf(out, "\nReviews: %s\n", FormatRating(overview.Rating))
	if overview.Mine != nil {
		fmt.Fprintln(out, "Your review:")
		RenderReview(out, *overview.Mine)
	}
	others := overview.Others()
	if len(others) == 0 && overview.Mine == nil {
		fmt.Fprintln(out, "No reviews yet.")
		return
	}
	for _, r := range others {
		RenderReview(out, r)
	}
}

// RenderReview prints one review.
func RenderReview(out io.Writer, r domain.Review) {
	fmt.Fprintf(out, "  %s %s  [%s]\n", Stars(r.StarCount), r.UpdatedAt.Local().Format("2006-01-02"), r.ID)
	fmt.Fprintf(out, "    %s\n", r.Content)
}

// Stars renders a 1..5 rating as filled and empty stars.
func Stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > domain.MaxStarCount {
		n = domain.MaxStarCount
	}
	return strings.Repeat("*", n) + strings.Repeat(".", domain.MaxStarCount-n)
}

// FormatRating renders an average rating.
func FormatRating(s domain.RatingSummary) string {
	if s.Count == 0 {
		return "no ratings"
	}
	noun := "reviews"
	if s.Count == 1 {
		noun = "review"
	}
	return fmt.Sprintf("%.1f/5 from %d %s", s.Average, s.Count, noun)
}

// FormatAmount renders a nutrient amount, or the placeholder when unknown.
func FormatAmount(v *float64, unit string) string {
	if v == nil {
		return domain.Placeholder
	}
	return strconv.FormatFloat(math.Round(*v*100)/100, 'f', -1, 64) + " " + unit
}

func novaLabel(group *int) string {
	if group == nil {
		return domain.Placeholder
	}
	return fmt.Sprintf("%d", *group)
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return domain.Placeholder
	}
	return s
}
