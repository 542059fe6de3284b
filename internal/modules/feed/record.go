package feed

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/catalog"
)

// Shared per-record field derivation. Every renderer family goes through
// these helpers so the formats differ only in tag names, container syntax
// and vocabulary.

// displayName appends the variant title unless it is the upstream sentinel.
func displayName(p catalog.Product, v catalog.Variant) string {
	if v.Title == catalog.DefaultVariantTitle {
		return p.Title
	}
	return fmt.Sprintf("%s - %s", p.Title, v.Title)
}

// productLink prefers the storefront URL and synthesizes one otherwise.
func productLink(p catalog.Product, req Request) string {
	if p.OnlineStoreURL != "" {
		return p.OnlineStoreURL
	}
	return fmt.Sprintf("https://%s/products/%s", req.Shop, p.Handle)
}

// recordImage prefers the variant image, then the product's first image.
func recordImage(p catalog.Product, v catalog.Variant) string {
	if v.ImageURL != "" {
		return v.ImageURL
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// trailingID reduces a namespaced identifier to its last path segment.
func trailingID(id string) string {
	parts := strings.Split(id, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return id
	}
	return last
}

// recordDescription strips markup from the description, falling back to the
// product title when the description is empty.
func recordDescription(p catalog.Product) string {
	if p.Description != "" {
		return stripHTML(p.Description)
	}
	return stripHTML(p.Title)
}

// onSale reports whether the compare-at price is numerically above the
// price. Display always uses the raw strings; decimals exist only for this
// comparison. Unparseable prices never flag a sale.
func onSale(v catalog.Variant) bool {
	if v.CompareAtPrice == "" {
		return false
	}
	price, err := decimal.NewFromString(v.Price)
	if err != nil {
		return false
	}
	compare, err := decimal.NewFromString(v.CompareAtPrice)
	if err != nil {
		return false
	}
	return compare.GreaterThan(price)
}

// discountPercent is the rounded percentage saved against the compare-at
// price. Callers must have established onSale first.
func discountPercent(v catalog.Variant) int {
	price, err := decimal.NewFromString(v.Price)
	if err != nil {
		return 0
	}
	compare, err := decimal.NewFromString(v.CompareAtPrice)
	if err != nil || compare.IsZero() {
		return 0
	}
	pct := compare.Sub(price).Div(compare).Mul(decimal.NewFromInt(100))
	return int(pct.Round(0).IntPart())
}

// unitPriceKg computes price per kilogram for formats that require a base
// price. Weight is normalized to kilograms; an unrecognized unit or a
// non-positive weight yields no unit price.
func unitPriceKg(v catalog.Variant) (string, bool) {
	if v.WeightValue <= 0 {
		return "", false
	}
	var kg decimal.Decimal
	switch v.WeightUnit {
	case "GRAMS":
		kg = decimal.NewFromFloat(v.WeightValue).Div(decimal.NewFromInt(1000))
	case "KILOGRAMS":
		kg = decimal.NewFromFloat(v.WeightValue)
	default:
		return "", false
	}
	if kg.IsZero() {
		return "", false
	}
	price, err := decimal.NewFromString(v.Price)
	if err != nil {
		return "", false
	}
	return price.DivRound(kg, 2).StringFixed(2), true
}

// stockCount clamps upstream inventory (which may be negative) at zero.
func stockCount(v catalog.Variant) int {
	if v.InventoryQuantity < 0 {
		return 0
	}
	return v.InventoryQuantity
}
