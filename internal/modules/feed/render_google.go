package feed

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/catalog"
)

const googleDescriptionLimit = 5000

// renderGoogleShopping emits the RSS 2.0 channel layout used by Google
// Merchant Center. Several ad networks and marketplaces accept this layout
// verbatim, so the registry aliases them onto this renderer.
func renderGoogleShopping(products []catalog.Product, req Request) (string, int, int, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")
	rss.CreateAttr("xmlns:g", "http://base.google.com/ns/1.0")
	channel := rss.CreateElement("channel")

	title := req.Title
	if title == "" {
		title = fmt.Sprintf("%s Product Feed", req.Shop)
	}
	link := req.Link
	if link == "" {
		link = fmt.Sprintf("https://%s", req.Shop)
	}
	description := req.Description
	if description == "" {
		description = "Product feed for price aggregators"
	}
	channel.CreateElement("title").SetText(title)
	channel.CreateElement("link").SetText(link)
	channel.CreateElement("description").SetText(description)

	currency := req.Currency
	if currency == "" {
		currency = "USD"
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

			item := channel.CreateElement("item")
			item.CreateElement("g:id").SetText(trailingID(v.ID))
			item.CreateElement("g:title").SetText(displayName(p, v))
			item.CreateElement("g:description").SetText(truncate(recordDescription(p), googleDescriptionLimit))
			item.CreateElement("g:link").SetText(productLink(p, req))

			if img := recordImage(p, v); img != "" {
				item.CreateElement("g:image_link").SetText(img)
			}

			availability := "out of stock"
			if v.AvailableForSale {
				availability = "in stock"
			}
			item.CreateElement("g:availability").SetText(availability)

			item.CreateElement("g:price").SetText(fmt.Sprintf("%s %s", v.Price, currency))
			if onSale(v) {
				item.CreateElement("g:sale_price").SetText(fmt.Sprintf("%s %s", v.Price, currency))
			}

			if p.Vendor != "" {
				item.CreateElement("g:brand").SetText(p.Vendor)
			}
			if p.ProductType != "" {
				item.CreateElement("g:product_type").SetText(p.ProductType)
			}
			if v.SKU != "" {
				item.CreateElement("g:mpn").SetText(v.SKU)
			}
			item.CreateElement("g:condition").SetText("new")
			if v.Barcode != "" {
				item.CreateElement("g:gtin").SetText(v.Barcode)
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
