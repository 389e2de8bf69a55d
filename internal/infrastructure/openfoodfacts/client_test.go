package openfoodfacts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/foodscan/internal/domain"
)

const nutellaJSON = `{
  "status": 1,
  "product": {
    "code": "3017620422003",
    "product_name": "Nutella",
    "brands": "Ferrero",
    "quantity": "400 g",
    "allergens_tags": ["en:milk", "en:nuts", "fr:soja"],
    "nutriscore_grade": "e",
    "nova_group": 4,
    "ecoscore_grade": "not-applicable",
    "nutriments": {"energy-kcal_100g": 539, "fat_100g": "30.9", "fiber_100g": 0},
    "nutrient_levels": {"fat": "high", "saturated-fat": "high"},
    "image_front_url": "https://images.example/front.jpg"
  }
}`

func TestLookupMapsProduct(t *testing.T) {
	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(nutellaJSON))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", "foodscan-test", time.Second, nil)
	product, err := client.Lookup(context.Background(), "3017620422003")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}

	if gotPath != "/api/v0/product/3017620422003.json" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotUA != "foodscan-test" {
		t.Fatalf("unexpected user agent %q", gotUA)
	}
	if product.Name != "Nutella" || product.Brands != "Ferrero" {
		t.Fatalf("unexpected product %+v", product)
	}
	if product.NutriScore != domain.GradeE || product.EcoScore != domain.GradeUnknown {
		t.Fatalf("unexpected grades %q %q", product.NutriScore, product.EcoScore)
	}
	if product.NovaGroup == nil || *product.NovaGroup != 4 {
		t.Fatalf("unexpected nova group %v", product.NovaGroup)
	}
	if diff := cmp.Diff([]string{"milk", "nuts", "fr:soja"}, product.Allergens); diff != "" {
		t.Fatalf("allergens mismatch (-want +got):\n%s", diff)
	}
	if product.Nutrition.EnergyKcal == nil || *product.Nutrition.EnergyKcal != 539 {
		t.Fatalf("unexpected energy %v", product.Nutrition.EnergyKcal)
	}
	if product.Nutrition.Fat == nil || *product.Nutrition.Fat != 30.9 {
		t.Fatalf("string nutriment not parsed: %v", product.Nutrition.Fat)
	}
	if product.Nutrition.Fiber != nil || product.Nutrition.Salt != nil {
		t.Fatal("zero and missing nutriments should be absent")
	}
	if product.DisplayImage() != "https://images.example/front.jpg" {
		t.Fatalf("unexpected image %q", product.DisplayImage())
	}
}

func TestLookupFallbacks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":1,"product":{"nutrition_grade_fr":"b"}}`))
	}))
	defer srv.Close()

	product, err := NewClient(srv.URL, "", 0, nil).Lookup(context.Background(), "73513537")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if product.Code != "73513537" {
		t.Fatalf("expected requested code fallback, got %q", product.Code)
	}
	if product.NutriScore != domain.GradeB {
		t.Fatalf("expected nutrition_grade_fr fallback, got %q", product.NutriScore)
	}
	if product.NovaGroup != nil {
		t.Fatalf("expected nil nova group, got %v", *product.NovaGroup)
	}
}

func TestLookupErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		notFound bool
	}{
		{name: "status zero", status: http.StatusOK, body: `{"status":0,"status_verbose":"product not found"}`, notFound: true},
		{name: "http 404", status: http.StatusNotFound, body: `{}`, notFound: true},
		{name: "server error", status: http.StatusBadGateway, body: `oops`},
		{name: "bad json", status: http.StatusOK, body: `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "", 0, nil).Lookup(context.Background(), "73513537")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, domain.ErrProductNotFound); got != tt.notFound {
				t.Fatalf("errors.Is(ErrProductNotFound) = %v, err = %v", got, err)
			}
		})
	}
}
