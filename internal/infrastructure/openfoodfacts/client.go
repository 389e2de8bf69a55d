// Package openfoodfacts looks products up in the Open Food Facts database.
package openfoodfacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/ports"
)

// Client talks to the v0 product endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient builds a client. Empty values fall back to package defaults.
func NewClient(baseURL, userAgent string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultDuration(timeout, domain.DefaultLookupTimeout)}
	}
	return &Client{
		baseURL:    strings.TrimRight(defaultString(baseURL, domain.DefaultLookupBaseURL), "/"),
		userAgent:  defaultString(userAgent, "foodscan"),
		httpClient: httpClient,
	}
}

// Lookup fetches one product by barcode.
func (c *Client) Lookup(ctx context.Context, code string) (domain.Product, error) {
	endpoint := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(code))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Product{}, err
	}
	httpReq.Header.Set("accept", "application/json")
	httpReq.Header.Set("user-agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.Product{}, fmt.Errorf("openfoodfacts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if resp.StatusCode >= 400 {
		return domain.Product{}, fmt.Errorf("openfoodfacts: %s", resp.Status)
	}

	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		return domain.Product{}, err
	}
	return parseProductResponse(body.Bytes(), code)
}

type productResponse struct {
	Status  int         `json:"status"`
	Product *apiProduct `json:"product"`
}

type apiProduct struct {
	Code              string            `json:"code"`
	ProductName       string            `json:"product_name"`
	GenericName       string            `json:"generic_name"`
	Brands            string            `json:"brands"`
	Quantity          string            `json:"quantity"`
	ServingSize       string            `json:"serving_size"`
	Categories        string            `json:"categories"`
	Labels            string            `json:"labels"`
	AllergensTags     []string          `json:"allergens_tags"`
	TracesTags        []string          `json:"traces_tags"`
	NutriscoreGrade   string            `json:"nutriscore_grade"`
	NutritionGradeFr  string            `json:"nutrition_grade_fr"`
	NovaGroup         any               `json:"nova_group"`
	EcoscoreGrade     string            `json:"ecoscore_grade"`
	IngredientsText   string            `json:"ingredients_text"`
	FoodGroups        string            `json:"food_groups"`
	Nutriments        map[string]any    `json:"nutriments"`
	NutrientLevels    map[string]string `json:"nutrient_levels"`
	ImageURL          string            `json:"image_url"`
	ImageFrontURL     string            `json:"image_front_url"`
	ImageNutritionURL string            `json:"image_nutrition_url"`
}

func parseProductResponse(body []byte, requested string) (domain.Product, error) {
	var response productResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return domain.Product{}, fmt.Errorf("openfoodfacts: decode: %w", err)
	}
	if response.Status != 1 || response.Product == nil {
		return domain.Product{}, domain.ErrProductNotFound
	}

	p := response.Product
	n := p.Nutriments
	product := domain.Product{
		Code:        defaultString(p.Code, requested),
		Name:        strings.TrimSpace(p.ProductName),
		GenericName: strings.TrimSpace(p.GenericName),
		Brands:      strings.TrimSpace(p.Brands),
		Quantity:    strings.TrimSpace(p.Quantity),
		ServingSize: strings.TrimSpace(p.ServingSize),
		Categories:  strings.TrimSpace(p.Categories),
		Labels:      strings.TrimSpace(p.Labels),
		Allergens:   stripTagPrefixes(p.AllergensTags),
		Traces:      stripTagPrefixes(p.TracesTags),
		NutriScore:  domain.ParseGrade(defaultString(p.NutriscoreGrade, p.NutritionGradeFr)),
		NovaGroup:   parseNova(p.NovaGroup),
		EcoScore:    domain.ParseGrade(p.EcoscoreGrade),
		Ingredients: strings.TrimSpace(p.IngredientsText),
		FoodGroups:  strings.TrimSpace(p.FoodGroups),
		Nutrition: domain.Nutrition{
			EnergyKcal:   nutriment(n, "energy-kcal_100g"),
			Fat:          nutriment(n, "fat_100g"),
			SaturatedFat: nutriment(n, "saturated-fat_100g"),
			Carbs:        nutriment(n, "carbohydrates_100g"),
			Sugars:       nutriment(n, "sugars_100g"),
			Fiber:        nutriment(n, "fiber_100g"),
			Proteins:     nutriment(n, "proteins_100g"),
			Salt:         nutriment(n, "salt_100g"),
		},
		NutrientLevels: domain.NutrientLevels{
			Fat:          p.NutrientLevels["fat"],
			SaturatedFat: p.NutrientLevels["saturated-fat"],
			Sugars:       p.NutrientLevels["sugars"],
			Salt:         p.NutrientLevels["salt"],
		},
		ImageURL:          p.ImageURL,
		ImageFrontURL:     p.ImageFrontURL,
		ImageNutritionURL: p.ImageNutritionURL,
	}
	return product, nil
}

// stripTagPrefixes turns "en:milk" into "milk".
func stripTagPrefixes(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, strings.TrimPrefix(tag, "en:"))
	}
	return out
}

// nutriment reads a numeric value that upstream sometimes encodes as a string.
// Zero is treated as absent.
func nutriment(values map[string]any, key string) *float64 {
	raw, ok := values[key]
	if !ok {
		return nil
	}
	var v float64
	switch typed := raw.(type) {
	case float64:
		v = typed
	case string:
		if _, err := fmt.Sscanf(typed, "%g", &v); err != nil {
			return nil
		}
	default:
		return nil
	}
	if v == 0 {
		return nil
	}
	return &v
}

func parseNova(raw any) *int {
	v := nutriment(map[string]any{"nova": raw}, "nova")
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func defaultDuration(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}

var _ ports.ProductLookup = (*Client)(nil)
