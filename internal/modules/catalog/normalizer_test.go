package catalog

import (
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func testPage(products ...RawProduct) Page {
	edges := make([]RawProductEdge, 0, len(products))
	for _, p := range products {
		edges = append(edges, RawProductEdge{Node: p})
	}
	return Page{Products: &ProductConnection{Edges: edges}}
}

func TestNormalizeFlattensPagesInOrder(t *testing.T) {
	pages := []Page{
		testPage(
			RawProduct{ID: "gid://shopify/Product/1", Title: "First", Status: "ACTIVE"},
			RawProduct{ID: "gid://shopify/Product/2", Title: "Second", Status: "DRAFT"},
		),
		testPage(
			RawProduct{ID: "gid://shopify/Product/3", Title: "Third", Status: "ACTIVE"},
		),
	}

	products, err := Normalize(pages)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if products[i].Title != want {
			t.Errorf("product %d: expected title %q, got %q", i, want, products[i].Title)
		}
	}
	if products[1].Status != StatusDraft {
		t.Errorf("expected DRAFT status to survive, got %q", products[1].Status)
	}
}

func TestNormalizeOptionalFields(t *testing.T) {
	raw := RawProduct{
		ID:             "gid://shopify/Product/10",
		Title:          "Widget",
		Description:    strPtr("A fine widget"),
		Vendor:         "Acme",
		ProductType:    "Tools",
		Handle:         "widget",
		Status:         "ACTIVE",
		OnlineStoreURL: strPtr("https://shop.example/products/widget"),
		Images: RawImageConn{Edges: []RawImageEdge{
			{Node: RawImage{URL: "https://cdn.example/a.jpg"}},
			{Node: RawImage{URL: "https://cdn.example/b.jpg"}},
		}},
		Variants: RawVariantConn{Edges: []RawVariantEdge{
			{Node: RawVariant{
				ID:                "gid://shopify/ProductVariant/100",
				Title:             "Large",
				Price:             "19.99",
				CompareAtPrice:    strPtr("29.99"),
				SKU:               strPtr("WID-L"),
				Barcode:           strPtr("1234567890123"),
				AvailableForSale:  true,
				InventoryQuantity: 5,
				Image:             &RawImage{URL: "https://cdn.example/l.jpg"},
				Weight:            &RawWeight{Value: 500, Unit: "GRAMS"},
			}},
		}},
	}

	products, err := Normalize([]Page{testPage(raw)})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	p := products[0]
	if p.Description != "A fine widget" {
		t.Errorf("description not carried: %q", p.Description)
	}
	if p.OnlineStoreURL != "https://shop.example/products/widget" {
		t.Errorf("onlineStoreUrl not carried: %q", p.OnlineStoreURL)
	}
	if len(p.Images) != 2 || p.Images[0] != "https://cdn.example/a.jpg" {
		t.Errorf("images not flattened: %v", p.Images)
	}
	if len(p.Variants) != 1 {
		t.Fatalf("expected 1 variant, got %d", len(p.Variants))
	}
	v := p.Variants[0]
	if v.CompareAtPrice != "29.99" || v.SKU != "WID-L" || v.Barcode != "1234567890123" {
		t.Errorf("optional variant fields not carried: %+v", v)
	}
	if v.ImageURL != "https://cdn.example/l.jpg" {
		t.Errorf("variant image not carried: %q", v.ImageURL)
	}
	if v.WeightValue != 500 || v.WeightUnit != "GRAMS" {
		t.Errorf("weight not carried: %v %s", v.WeightValue, v.WeightUnit)
	}
}

func TestNormalizeMissingOptionalsBecomeZeroValues(t *testing.T) {
	raw := RawProduct{
		ID:     "gid://shopify/Product/11",
		Title:  "Bare",
		Status: "ACTIVE",
		Variants: RawVariantConn{Edges: []RawVariantEdge{
			{Node: RawVariant{ID: "gid://shopify/ProductVariant/110", Title: "Default Title", Price: "5.00"}},
		}},
	}

	products, err := Normalize([]Page{testPage(raw)})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	p := products[0]
	if p.Description != "" || p.OnlineStoreURL != "" || len(p.Images) != 0 {
		t.Errorf("missing product optionals should be zero values: %+v", p)
	}
	v := p.Variants[0]
	if v.CompareAtPrice != "" || v.SKU != "" || v.Barcode != "" || v.ImageURL != "" || v.WeightValue != 0 {
		t.Errorf("missing variant optionals should be zero values: %+v", v)
	}
}

func TestNormalizeEmptyCatalog(t *testing.T) {
	products, err := Normalize([]Page{testPage()})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected empty product list, got %d", len(products))
	}
}

func TestNormalizeMalformedPage(t *testing.T) {
	var formatErr *FormatError

	_, err := Normalize([]Page{{Products: nil}})
	if !errors.As(err, &formatErr) {
		t.Errorf("missing products container should be a *FormatError, got %v", err)
	}

	_, err = Normalize([]Page{{Products: &ProductConnection{Edges: nil}}})
	if !errors.As(err, &formatErr) {
		t.Errorf("nil edges should be a *FormatError, got %v", err)
	}
}
