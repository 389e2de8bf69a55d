package domain

import (
	"strings"
	"time"
)

// Product is the nutrition data returned by a product lookup. Empty strings
// and nil pointers mean the upstream database had no value.
type Product struct {
	Code              string         `json:"code"`
	Name              string         `json:"name,omitempty"`
	GenericName       string         `json:"generic_name,omitempty"`
	Brands            string         `json:"brands,omitempty"`
	Quantity          string         `json:"quantity,omitempty"`
	ServingSize       string         `json:"serving_size,omitempty"`
	Categories        string         `json:"categories,omitempty"`
	Labels            string         `json:"labels,omitempty"`
	Allergens         []string       `json:"allergens,omitempty"`
	Traces            []string       `json:"traces,omitempty"`
	NutriScore        Grade          `json:"nutri_score,omitempty"`
	NovaGroup         *int           `json:"nova_group,omitempty"`
	EcoScore          Grade          `json:"eco_score,omitempty"`
	Ingredients       string         `json:"ingredients,omitempty"`
	FoodGroups        string         `json:"food_groups,omitempty"`
	Nutrition         Nutrition      `json:"nutrition"`
	NutrientLevels    NutrientLevels `json:"nutrient_levels"`
	ImageURL          string         `json:"image_url,omitempty"`
	ImageFrontURL     string         `json:"image_front_url,omitempty"`
	ImageNutritionURL string         `json:"image_nutrition_url,omitempty"`
}

// Nutrition holds per-100g values.
type Nutrition struct {
	EnergyKcal   *float64 `json:"energy_kcal,omitempty"`
	Fat          *float64 `json:"fat,omitempty"`
	SaturatedFat *float64 `json:"saturated_fat,omitempty"`
	Carbs        *float64 `json:"carbohydrates,omitempty"`
	Sugars       *float64 `json:"sugars,omitempty"`
	Fiber        *float64 `json:"fiber,omitempty"`
	Proteins     *float64 `json:"proteins,omitempty"`
	Salt         *float64 `json:"salt,omitempty"`
}

// NutrientLevels are the low/moderate/high labels for the traffic-light nutrients.
type NutrientLevels struct {
	Fat          string `json:"fat,omitempty"`
	SaturatedFat string `json:"saturated_fat,omitempty"`
	Sugars       string `json:"sugars,omitempty"`
	Salt         string `json:"salt,omitempty"`
}

// DisplayImage returns the best available picture URL.
func (p Product) DisplayImage() string {
	if p.ImageURL != "" {
		return p.ImageURL
	}
	return p.ImageFrontURL
}

// ScanRecord captures the product as a history entry at the given time.
func (p Product) ScanRecord(scannedAt time.Time) ScanRecord {
	return ScanRecord{
		Code:       p.Code,
		Name:       strings.TrimSpace(p.Name),
		Brand:      strings.TrimSpace(p.Brands),
		ImageURL:   p.DisplayImage(),
		NutriScore: p.NutriScore,
		ScannedAt:  scannedAt,
	}
}
