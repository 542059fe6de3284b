package catalog

import "fmt"

// ProductStatus is the upstream lifecycle state of a product.
type ProductStatus string

const (
	StatusActive   ProductStatus = "ACTIVE"
	StatusDraft    ProductStatus = "DRAFT"
	StatusArchived ProductStatus = "ARCHIVED"
)

// DefaultVariantTitle is the upstream placeholder meaning the product has no
// real variation; renderers never append it to the product title.
const DefaultVariantTitle = "Default Title"

// Product is one normalized catalog item with its variants flattened.
type Product struct {
	ID             string
	Title          string
	Description    string
	Vendor         string
	ProductType    string
	Handle         string
	Status         ProductStatus
	OnlineStoreURL string
	Images         []string
	Variants       []Variant
}

// Variant is one purchasable SKU of a product. Price fields keep the
// upstream decimal string; they are never round-tripped through floats
// for display.
type Variant struct {
	ID                string
	Title             string
	Price             string
	CompareAtPrice    string
	SKU               string
	Barcode           string
	AvailableForSale  bool
	InventoryQuantity int
	ImageURL          string
	WeightValue       float64
	WeightUnit        string // "GRAMS" or "KILOGRAMS"
}

// FormatError reports a malformed upstream catalog payload.
type FormatError struct {
	Detail string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed catalog payload: %s", e.Detail)
}

// ── Raw wire types ────────────────────────────────────────────────────────────
// These mirror the upstream GraphQL response shape; the normalizer flattens
// them into Product/Variant.

// Page is one page of the upstream products query.
type Page struct {
	Products *ProductConnection `json:"products"`
}

// ProductConnection is the paginated products container.
type ProductConnection struct {
	PageInfo PageInfo         `json:"pageInfo"`
	Edges    []RawProductEdge `json:"edges"`
}

// PageInfo carries upstream cursor state.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type RawProductEdge struct {
	Node RawProduct `json:"node"`
}

type RawProduct struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    *string        `json:"description"`
	Vendor         string         `json:"vendor"`
	ProductType    string         `json:"productType"`
	Handle         string         `json:"handle"`
	Status         string         `json:"status"`
	OnlineStoreURL *string        `json:"onlineStoreUrl"`
	Variants       RawVariantConn `json:"variants"`
	Images         RawImageConn   `json:"images"`
}

type RawVariantConn struct {
	Edges []RawVariantEdge `json:"edges"`
}

type RawVariantEdge struct {
	Node RawVariant `json:"node"`
}

type RawVariant struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Price             string     `json:"price"`
	CompareAtPrice    *string    `json:"compareAtPrice"`
	SKU               *string    `json:"sku"`
	Barcode           *string    `json:"barcode"`
	AvailableForSale  bool       `json:"availableForSale"`
	InventoryQuantity int        `json:"inventoryQuantity"`
	Image             *RawImage  `json:"image"`
	Weight            *RawWeight `json:"weight"`
}

type RawWeight struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type RawImageConn struct {
	Edges []RawImageEdge `json:"edges"`
}

type RawImageEdge struct {
	Node RawImage `json:"node"`
}

type RawImage struct {
	URL string `json:"url"`
}
