package feed

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/feedbuilderly/feedbuilder-backend/internal/modules/catalog"
)

// renderYandexYML emits the Yandex Market Language catalog tree. Categories
// are derived from product types across the whole catalog (before status
// filtering) so category IDs stay stable regardless of filters.
func renderYandexYML(products []catalog.Product, req Request) (string, int, int, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("yml_catalog")
	root.CreateAttr("date", time.Now().Format("2006-01-02"))
	shop := root.CreateElement("shop")

	name := req.Title
	if name == "" {
		name = req.Shop
	}
	link := req.Link
	if link == "" {
		link = fmt.Sprintf("https://%s", req.Shop)
	}
	shop.CreateElement("name").SetText(name)
	shop.CreateElement("company").SetText(req.Shop)
	shop.CreateElement("url").SetText(link)

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	currencies := shop.CreateElement("currencies")
	cur := currencies.CreateElement("currency")
	cur.CreateAttr("id", currency)
	cur.CreateAttr("rate", "1")

	categories := shop.CreateElement("categories")
	categoryIDs := make(map[string]int)
	nextCategoryID := 1
	for _, p := range products {
		if p.ProductType == "" {
			continue
		}
		if _, seen := categoryIDs[p.ProductType]; seen {
			continue
		}
		categoryIDs[p.ProductType] = nextCategoryID
		cat := categories.CreateElement("category")
		cat.CreateAttr("id", strconv.Itoa(nextCategoryID))
		cat.SetText(p.ProductType)
		nextCategoryID++
	}

	offers := shop.CreateElement("offers")
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

			offer := offers.CreateElement("offer")
			offer.CreateAttr("id", trailingID(v.ID))
			offer.CreateAttr("available", strconv.FormatBool(v.AvailableForSale))

			offer.CreateElement("url").SetText(productLink(p, req))
			offer.CreateElement("price").SetText(v.Price)
			offer.CreateElement("currencyId").SetText(currency)
			if id, ok := categoryIDs[p.ProductType]; ok && p.ProductType != "" {
				offer.CreateElement("categoryId").SetText(strconv.Itoa(id))
			}
			if img := recordImage(p, v); img != "" {
				offer.CreateElement("picture").SetText(img)
			}
			offer.CreateElement("name").SetText(displayName(p, v))

			vendor := p.Vendor
			if vendor == "" {
				vendor = req.Shop
			}
			offer.CreateElement("vendor").SetText(vendor)
			offer.CreateElement("description").SetText(recordDescription(p))

			if onSale(v) {
				offer.CreateElement("sales_notes").SetText(fmt.Sprintf("Скидка %d%%", discountPercent(v)))
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
