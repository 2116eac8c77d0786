package upstream

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shopfront/gateway/internal/domain/catalog"
)

// listingQueryValues flattens catalog filters into the platform's
// query parameters. Specification sets use repeated spec.<key> params.
func listingQueryValues(filters catalog.Filters, offset, limit int) url.Values {
	values := url.Values{}
	if filters.CategorySlug != "" {
		values.Set("category", filters.CategorySlug)
	}
	if filters.Query != "" {
		values.Set("q", filters.Query)
	}
	if filters.Price.Min != nil {
		values.Set("price_min", filters.Price.Min.String())
	}
	if filters.Price.Max != nil {
		values.Set("price_max", filters.Price.Max.String())
	}
	for key, set := range filters.Specifications {
		for _, value := range set {
			values.Add("spec."+key, value)
		}
	}
	if filters.Sort != "" {
		values.Set("sort", filters.Sort)
	}
	values.Set("offset", strconv.Itoa(offset))
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	return values
}

// ListProducts fetches a filtered product listing page from the
// platform, including facet metadata for the filter sidebar
func (c *Client) ListProducts(ctx context.Context, filters catalog.Filters, offset, limit int) (*catalog.Listing, error) {
	var listing catalog.Listing
	if _, err := c.get(ctx, "/store/products", listingQueryValues(filters, offset, limit), "", &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetProduct fetches a single product by slug
func (c *Client) GetProduct(ctx context.Context, slug string) (*catalog.Product, error) {
	var product catalog.Product
	if _, err := c.get(ctx, "/store/products/"+url.PathEscape(slug), nil, "", &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Category is a catalog category node
type Category struct {
	ID       string     `json:"id"`
	Slug     string     `json:"slug"`
	Name     string     `json:"name"`
	Children []Category `json:"children,omitempty"`
}

// ListCategories fetches the category tree
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if _, err := c.get(ctx, "/store/categories", nil, "", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
