package catalog

import "github.com/shopspring/decimal"

// Product is the listing projection of a catalog product.
type Product struct {
	ID            string          `json:"id"`
	Slug          string          `json:"slug"`
	Name          string          `json:"name"`
	CategorySlug  string          `json:"category_slug,omitempty"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"original_price,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	InStock       bool            `json:"in_stock"`
}

// Facet is one server-defined filter dimension with its selectable values.
// The gateway discovers facets from listing responses and passes them
// through untouched.
type Facet struct {
	Key    string   `json:"key"`
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// Listing is one page of products with the facets and price bounds the
// platform computed for the current filter state.
type Listing struct {
	Products []Product       `json:"products"`
	Facets   []Facet         `json:"facets,omitempty"`
	PriceMin decimal.Decimal `json:"price_min"`
	PriceMax decimal.Decimal `json:"price_max"`
	Total    int             `json:"total"`
	Offset   int             `json:"offset"`
	HasMore  bool            `json:"has_more"`
}
