package feed

import (
	"strings"

	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/catalog"
)

// The delimited formats share one structure: a literal header line, then one
// semicolon-joined row per (product, variant). Field values are emitted
// as-is; the delimiter is never escaped, matching what the consuming
// aggregators ingest today.

type csvColumn struct {
	Source        fieldSource
	Truncate      int    // applies to srcDescription
	Fixed         string // applies to srcFixed
	Default       string // substituted when the derived value is empty
	DefaultToShop bool   // substitute the shop domain when empty
}

type csvFormatSpec struct {
	Header            string
	InStock           string
	OutOfStock        string
	DescFallbackTitle bool
	Columns           []csvColumn
}

var delimitedSpecs = map[string]csvFormatSpec{
	"ceneo": {
		Header:            "id;product_name;price;delivery_cost;product_url;image_url;category;producer;description;stock",
		InStock:           "Dostępny",
		OutOfStock:        "Niedostępny",
		DescFallbackTitle: true,
		Columns: []csvColumn{
			{Source: srcID},
			{Source: srcName},
			{Source: srcPrice},
			{Source: srcFixed, Fixed: "0"},
			{Source: srcURL},
			{Source: srcImage},
			{Source: srcCategory, Default: "Inne"},
			{Source: srcBrand, DefaultToShop: true},
			{Source: srcDescription, Truncate: 500},
			{Source: srcAvailability},
		},
	},
	"idealo": {
		Header:            "sku;product_name;brand;price;shipping_costs;product_url;image_url;category;description;availability",
		InStock:           "auf Lager",
		OutOfStock:        "nicht verfügbar",
		DescFallbackTitle: true,
		Columns: []csvColumn{
			{Source: srcSKUOrID},
			{Source: srcName},
			{Source: srcBrand},
			{Source: srcPrice},
			{Source: srcFixed, Fixed: "0.00"},
			{Source: srcURL},
			{Source: srcImage},
			{Source: srcCategory},
			{Source: srcDescription, Truncate: 500},
			{Source: srcAvailability},
		},
	},
	"bol": {
		Header:            "ean;title;price;delivery;url;image;category;brand;stock",
		InStock:           "Ja",
		OutOfStock:        "Nee",
		DescFallbackTitle: true,
		Columns: []csvColumn{
			{Source: srcSKUOrID},
			{Source: srcName},
			{Source: srcPrice},
			{Source: srcFixed, Fixed: "0.00"},
			{Source: srcURL},
			{Source: srcImage},
			{Source: srcCategory},
			{Source: srcBrand},
			{Source: srcAvailability},
		},
	},
	"prisjakt": {
		Header:            "sku;name;price;url;image;brand;category;stock",
		InStock:           "I lager",
		OutOfStock:        "Ej i lager",
		DescFallbackTitle: true,
		Columns: []csvColumn{
			{Source: srcSKUOrID},
			{Source: srcName},
			{Source: srcPrice},
			{Source: srcURL},
			{Source: srcImage},
			{Source: srcBrand},
			{Source: srcCategory},
			{Source: srcAvailability},
		},
	},
}

func columnValue(c csvColumn, spec csvFormatSpec, p catalog.Product, v catalog.Variant, req Request) string {
	var value string
	switch c.Source {
	case srcID:
		value = trailingID(v.ID)
	case srcSKUOrID:
		value = v.SKU
		if value == "" {
			value = trailingID(v.ID)
		}
	case srcName:
		value = displayName(p, v)
	case srcPrice:
		value = v.Price
	case srcURL:
		value = productLink(p, req)
	case srcImage:
		value = recordImage(p, v)
	case srcDescription:
		if p.Description == "" && !spec.DescFallbackTitle {
			value = ""
		} else {
			value = recordDescription(p)
		}
		value = truncate(value, c.Truncate)
	case srcBrand:
		value = p.Vendor
	case srcCategory:
		value = p.ProductType
	case srcAvailability:
		if v.AvailableForSale {
			value = spec.InStock
		} else {
			value = spec.OutOfStock
		}
	case srcFixed:
		value = c.Fixed
	}
	if value == "" {
		if c.DefaultToShop {
			return req.Shop
		}
		return c.Default
	}
	return value
}

// renderDelimited builds a renderer from a delimited format table.
func renderDelimited(spec csvFormatSpec) renderFunc {
	return func(products []catalog.Product, req Request) (string, int, int, error) {
		rows := []string{spec.Header}
		productsCount := 0
		variantsCount := 0

		for _, p := range products {
			if req.FilterByStatus && p.Status != catalog.StatusActive {
				continue
			}
			productsCount++

			for _, v := range p.Variants {
				if req.FilterByAvailability && !v.AvailableForSale {
					continue
				}
				variantsCount++

				fields := make([]string, len(spec.Columns))
				for i, c := range spec.Columns {
					fields[i] = columnValue(c, spec, p, v, req)
				}
				rows = append(rows, strings.Join(fields, ";"))
			}
		}

		return strings.Join(rows, "\n"), productsCount, variantsCount, nil
	}
}
