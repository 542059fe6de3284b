package catalog

// Normalize flattens raw upstream pages into an ordered product list.
// Order is preserved exactly as received; no filtering happens here.
// Missing optional fields become zero values. The only failure mode is a
// page without its products container, which yields a *FormatError.
func Normalize(pages []Page) ([]Product, error) {
	var products []Product
	for _, page := range pages {
		if page.Products == nil {
			return nil, &FormatError{Detail: "page missing products container"}
		}
		if page.Products.Edges == nil {
			// A shop with zero products still returns an empty edges list;
			// a null edges list means the payload shape changed upstream.
			return nil, &FormatError{Detail: "products container missing edges"}
		}
		for _, edge := range page.Products.Edges {
			products = append(products, normalizeProduct(edge.Node))
		}
	}
	return products, nil
}

func normalizeProduct(raw RawProduct) Product {
	p := Product{
		ID:          raw.ID,
		Title:       raw.Title,
		Vendor:      raw.Vendor,
		ProductType: raw.ProductType,
		Handle:      raw.Handle,
		Status:      ProductStatus(raw.Status),
	}
	if raw.Description != nil {
		p.Description = *raw.Description
	}
	if raw.OnlineStoreURL != nil {
		p.OnlineStoreURL = *raw.OnlineStoreURL
	}
	for _, img := range raw.Images.Edges {
		p.Images = append(p.Images, img.Node.URL)
	}
	for _, ve := range raw.Variants.Edges {
		p.Variants = append(p.Variants, normalizeVariant(ve.Node))
	}
	return p
}

func normalizeVariant(raw RawVariant) Variant {
	v := Variant{
		ID:                raw.ID,
		Title:             raw.Title,
		Price:             raw.Price,
		AvailableForSale:  raw.AvailableForSale,
		InventoryQuantity: raw.InventoryQuantity,
	}
	if raw.CompareAtPrice != nil {
		v.CompareAtPrice = *raw.CompareAtPrice
	}
	if raw.SKU != nil {
		v.SKU = *raw.SKU
	}
	if raw.Barcode != nil {
		v.Barcode = *raw.Barcode
	}
	if raw.Image != nil {
		v.ImageURL = raw.Image.URL
	}
	if raw.Weight != nil {
		v.WeightValue = raw.Weight.Value
		v.WeightUnit = raw.Weight.Unit
	}
	return v
}
