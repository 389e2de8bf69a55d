package helpers

import (
	"github.com/doeshing/foodscan/internal/domain"
)

// StarBucket counts reviews with one star value.
type StarBucket struct {
	Stars int
	Count int
}

// StarDistribution returns one bucket per star value, five stars first.
func StarDistribution(reviews []domain.Review) []StarBucket {
	counts := make(map[int]int, domain.MaxStarCount)
	for _, r := range reviews {
		counts[r.StarCount]++
	}
	buckets := make([]StarBucket, 0, domain.MaxStarCount)
	for stars := domain.MaxStarCount; stars >= domain.MinStarCount; stars-- {
		buckets = append(buckets, StarBucket{Stars: stars, Count: counts[stars]})
	}
	return buckets
}

// Percentage returns part as a percentage of total.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(part) / float64(total) * 100.0
}
