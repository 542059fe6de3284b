package feed

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/catalog"
)

// The marketplace XML formats share one structure (a root element wrapping
// one record element per product-variant pair) and differ only in tag names,
// field order, truncation budgets and availability vocabulary. Each format
// is a table interpreted by renderMarketplaceXML; behavioral differences
// live in the tables, not in code branches.

type fieldSource int

const (
	srcID fieldSource = iota // trailing segment of the variant ID
	srcSKUOrID               // SKU, else trailing ID
	srcName                  // product title, variant title appended unless sentinel
	srcProductTitle          // bare product title
	srcPrice                 // raw decimal string
	srcURL
	srcImage
	srcDescription // stripped + truncated
	srcBrand       // vendor
	srcCategory    // product type
	srcSKU
	srcAvailability // format vocabulary pair
	srcStockCount   // inventory clamped at zero
	srcUnitPrice    // price per kilogram, when computable
	srcFixed        // literal value
)

type xmlField struct {
	Tag          string
	Source       fieldSource
	Truncate     int    // applies to srcDescription
	Fixed        string // applies to srcFixed
	Default      string // substituted when the derived value is empty
	OmitEmpty    bool   // drop the element when the derived value is empty
	CurrencyAttr bool   // add currency="..." (request currency or format default)
}

type xmlFormatSpec struct {
	Root              string
	RootAttrs         [][2]string
	Record            string
	RecordIDAttr      bool // record carries id="<trailing variant id>"
	InStock           string
	OutOfStock        string
	DefaultCurrency   string
	DescFallbackTitle bool // fall back to the title when the description is empty
	Fields            []xmlField
}

var marketplaceSpecs = map[string]xmlFormatSpec{
	"allegro": {
		Root:              "offers",
		RootAttrs:         [][2]string{{"xmlns", "http://www.allegro.pl/offer/standard"}},
		Record:            "offer",
		InStock:           "1",
		OutOfStock:        "0",
		DefaultCurrency:   "PLN",
		DescFallbackTitle: true,
		Fields: []xmlField{
			{Tag: "id", Source: srcID},
			{Tag: "name", Source: srcName},
			{Tag: "price", Source: srcPrice, CurrencyAttr: true},
			{Tag: "stock", Source: srcAvailability},
			{Tag: "url", Source: srcURL},
			{Tag: "image", Source: srcImage, OmitEmpty: true},
			{Tag: "description", Source: srcDescription, Truncate: 1000},
			{Tag: "vendor", Source: srcBrand, OmitEmpty: true},
			{Tag: "category", Source: srcCategory, OmitEmpty: true},
			{Tag: "ean", Source: srcSKU, OmitEmpty: true},
		},
	},
	"empik": {
		Root:         "offers",
		Record:       "offer",
		RecordIDAttr: true,
		InStock:      "true",
		OutOfStock:   "false",
		Fields: []xmlField{
			{Tag: "name", Source: srcName},
			{Tag: "price", Source: srcPrice},
			{Tag: "url", Source: srcURL},
			{Tag: "image", Source: srcImage, OmitEmpty: true},
			{Tag: "category", Source: srcCategory, Default: "Inne"},
			{Tag: "available", Source: srcAvailability},
		},
	},
	"kaufland": {
		Root:              "products",
		Record:            "product",
		InStock:           "in stock",
		OutOfStock:        "out of stock",
		DescFallbackTitle: true,
		Fields: []xmlField{
			{Tag: "id", Source: srcID},
			{Tag: "title", Source: srcName},
			{Tag: "price", Source: srcPrice},
			{Tag: "link", Source: srcURL},
			{Tag: "image_link", Source: srcImage, OmitEmpty: true},
			{Tag: "availability", Source: srcAvailability},
			{Tag: "description", Source: srcDescription, Truncate: 1000},
			{Tag: "brand", Source: srcBrand, OmitEmpty: true},
			{Tag: "product_type", Source: srcCategory, OmitEmpty: true},
			{Tag: "sku", Source: srcSKU, OmitEmpty: true},
			{Tag: "count", Source: srcStockCount},
			{Tag: "base_price", Source: srcUnitPrice, OmitEmpty: true},
		},
	},
	"heureka": {
		Root:       "shop",
		Record:     "shopitem",
		InStock:    "1",
		OutOfStock: "0",
		Fields: []xmlField{
			{Tag: "item_id", Source: srcID},
			{Tag: "productname", Source: srcName},
			{Tag: "product", Source: srcProductTitle},
			{Tag: "description", Source: srcDescription, Truncate: 500},
			{Tag: "url", Source: srcURL},
			{Tag: "price_vat", Source: srcPrice},
			{Tag: "imgurl", Source: srcImage, OmitEmpty: true},
			{Tag: "manufacturer", Source: srcBrand, OmitEmpty: true},
		},
	},
	"kelkoo": {
		Root:              "products",
		Record:            "product",
		InStock:           "1",
		OutOfStock:        "0",
		DescFallbackTitle: true,
		Fields: []xmlField{
			{Tag: "offerId", Source: srcID},
			{Tag: "title", Source: srcName},
			{Tag: "price", Source: srcPrice},
			{Tag: "url", Source: srcURL},
			{Tag: "image", Source: srcImage, OmitEmpty: true},
			{Tag: "description", Source: srcDescription, Truncate: 500},
			{Tag: "availability", Source: srcAvailability},
		},
	},
	"glami": {
		Root:              "glami",
		Record:            "item",
		InStock:           "in stock",
		OutOfStock:        "out of stock",
		DescFallbackTitle: true,
		Fields: []xmlField{
			{Tag: "id", Source: srcID},
			{Tag: "name", Source: srcName},
			{Tag: "price", Source: srcPrice},
			{Tag: "url", Source: srcURL},
			{Tag: "image_url", Source: srcImage, OmitEmpty: true},
			{Tag: "description", Source: srcDescription, Truncate: 500},
			{Tag: "brand", Source: srcBrand, OmitEmpty: true},
			{Tag: "category", Source: srcCategory, OmitEmpty: true},
			{Tag: "availability", Source: srcAvailability},
		},
	},
	"trovaprezzi": {
		Root:              "products",
		Record:            "product",
		InStock:           "Y",
		OutOfStock:        "N",
		DescFallbackTitle: true,
		Fields: []xmlField{
			{Tag: "id", Source: srcID},
			{Tag: "name", Source: srcName},
			{Tag: "price", Source: srcPrice},
			{Tag: "link", Source: srcURL},
			{Tag: "image", Source: srcImage, OmitEmpty: true},
			{Tag: "description", Source: srcDescription, Truncate: 500},
			{Tag: "brand", Source: srcBrand, OmitEmpty: true},
			{Tag: "category", Source: srcCategory, OmitEmpty: true},
			{Tag: "availability", Source: srcAvailability},
		},
	},
	"pricerunner": {
		Root:              "products",
		Record:            "product",
		InStock:           "In Stock",
		OutOfStock:        "Out of Stock",
		DescFallbackTitle: true,
		Fields: []xmlField{
			{Tag: "sku", Source: srcSKUOrID},
			{Tag: "name", Source: srcName},
			{Tag: "price", Source: srcPrice},
			{Tag: "url", Source: srcURL},
			{Tag: "image", Source: srcImage, OmitEmpty: true},
			{Tag: "description", Source: srcDescription, Truncate: 300},
			{Tag: "manufacturer", Source: srcBrand, OmitEmpty: true},
			{Tag: "category", Source: srcCategory, OmitEmpty: true},
			{Tag: "stock", Source: srcAvailability},
		},
	},
	"twenga": {
		Root:              "catalog",
		Record:            "product",
		InStock:           "in stock",
		OutOfStock:        "out of stock",
		DescFallbackTitle: true,
		Fields: []xmlField{
			{Tag: "ProductId", Source: srcID},
			{Tag: "ProductName", Source: srcName},
			{Tag: "Price", Source: srcPrice},
			{Tag: "ProductUrl", Source: srcURL},
			{Tag: "ImageUrl", Source: srcImage, OmitEmpty: true},
			{Tag: "Description", Source: srcDescription, Truncate: 500},
			{Tag: "Brand", Source: srcBrand, OmitEmpty: true},
			{Tag: "Category", Source: srcCategory, OmitEmpty: true},
			{Tag: "Availability", Source: srcAvailability},
		},
	},
}

// fieldValue derives one field's value. The second return reports whether
// the field should be emitted at all.
func fieldValue(f xmlField, spec xmlFormatSpec, p catalog.Product, v catalog.Variant, req Request) (string, bool) {
	var value string
	switch f.Source {
	case srcID:
		value = trailingID(v.ID)
	case srcSKUOrID:
		value = v.SKU
		if value == "" {
			value = trailingID(v.ID)
		}
	case srcName:
		value = displayName(p, v)
	case srcProductTitle:
		value = p.Title
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
		value = truncate(value, f.Truncate)
	case srcBrand:
		value = p.Vendor
	case srcCategory:
		value = p.ProductType
	case srcSKU:
		value = v.SKU
	case srcAvailability:
		if v.AvailableForSale {
			value = spec.InStock
		} else {
			value = spec.OutOfStock
		}
	case srcStockCount:
		value = strconv.Itoa(stockCount(v))
	case srcUnitPrice:
		unit, ok := unitPriceKg(v)
		if !ok {
			return "", false
		}
		value = unit
	case srcFixed:
		value = f.Fixed
	}
	if value == "" {
		if f.Default != "" {
			return f.Default, true
		}
		if f.OmitEmpty {
			return "", false
		}
	}
	return value, true
}

// renderMarketplaceXML builds a renderer from a format table.
func renderMarketplaceXML(spec xmlFormatSpec) renderFunc {
	return func(products []catalog.Product, req Request) (string, int, int, error) {
		doc := etree.NewDocument()
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
		root := doc.CreateElement(spec.Root)
		for _, attr := range spec.RootAttrs {
			root.CreateAttr(attr[0], attr[1])
		}

		currency := req.Currency
		if currency == "" {
			currency = spec.DefaultCurrency
		}

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

				rec := root.CreateElement(spec.Record)
				if spec.RecordIDAttr {
					rec.CreateAttr("id", trailingID(v.ID))
				}
				for _, f := range spec.Fields {
					value, ok := fieldValue(f, spec, p, v, req)
					if !ok {
						continue
					}
					el := rec.CreateElement(f.Tag)
					if f.CurrencyAttr {
						el.CreateAttr("currency", currency)
					}
					el.SetText(value)
				}
			}
		}

		doc.Indent(2)
		content, err := doc.WriteToString()
		if err != nil {
			return "", 0, 0, err
		}
		return content, productsCount, variantsCount, nil
	}
}
