package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopfront/gateway/internal/domain/shared"
)

// PageSize is the fixed listing page size. "Load more" fetches the next
// PageSize products at the current offset and appends them.
const PageSize = 25

// PriceRange is a committed price filter. Nil bounds are open.
type PriceRange struct {
	Min *decimal.Decimal `json:"min,omitempty"`
	Max *decimal.Decimal `json:"max,omitempty"`
}

// IsZero reports whether no bound is set.
func (r PriceRange) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

// ParsePriceRange validates staged min/max input and produces a committed
// range. Rules: each bound, when present, must be a non-negative number;
// min must not exceed max when both are set. Two empty strings clear the
// range. On error the caller keeps its previously committed range.
func ParsePriceRange(rawMin, rawMax string) (PriceRange, error) {
	var out PriceRange

	rawMin = strings.TrimSpace(rawMin)
	rawMax = strings.TrimSpace(rawMax)

	if rawMin != "" {
		min, err := decimal.NewFromString(rawMin)
		if err != nil {
			return PriceRange{}, shared.NewDomainError("INVALID_PRICE_RANGE", "Minimum price must be a number")
		}
		if min.IsNegative() {
			return PriceRange{}, shared.NewDomainError("INVALID_PRICE_RANGE", "Minimum price cannot be negative")
		}
		out.Min = &min
	}

	if rawMax != "" {
		max, err := decimal.NewFromString(rawMax)
		if err != nil {
			return PriceRange{}, shared.NewDomainError("INVALID_PRICE_RANGE", "Maximum price must be a number")
		}
		if max.IsNegative() {
			return PriceRange{}, shared.NewDomainError("INVALID_PRICE_RANGE", "Maximum price cannot be negative")
		}
		out.Max = &max
	}

	if out.Min != nil && out.Max != nil && out.Min.GreaterThan(*out.Max) {
		return PriceRange{}, shared.NewDomainError("INVALID_PRICE_RANGE", "Minimum price cannot exceed maximum price")
	}

	return out, nil
}

// Filters is the committed filter state for one product listing. The
// specification dimension is entirely server-defined: keys and values come
// from the facets the platform returns with each listing page, so no schema
// is assumed here.
type Filters struct {
	CategorySlug   string              `json:"category_slug,omitempty"`
	Query          string              `json:"query,omitempty"`
	Price          PriceRange          `json:"price,omitempty"`
	Specifications map[string][]string `json:"specifications,omitempty"`
	Sort           string              `json:"sort,omitempty"`
}

// NewFilters returns an empty committed filter state.
func NewFilters() Filters {
	return Filters{}
}

// Clone returns a deep copy safe to use concurrently with further
// mutations of the original.
func (f Filters) Clone() Filters {
	out := f
	if f.Specifications != nil {
		out.Specifications = make(map[string][]string, len(f.Specifications))
		for k, v := range f.Specifications {
			out.Specifications[k] = append([]string(nil), v...)
		}
	}
	return out
}

// ToggleSpecification adds or removes a single value under a facet key.
// A key whose value set becomes empty is removed outright, so empty sets
// never persist in the committed state.
func (f *Filters) ToggleSpecification(key, value string, selected bool) {
	if selected {
		for _, v := range f.Specifications[key] {
			if v == value {
				return
			}
		}
		if f.Specifications == nil {
			f.Specifications = make(map[string][]string)
		}
		f.Specifications[key] = append(f.Specifications[key], value)
		return
	}

	values := f.Specifications[key]
	for idx, v := range values {
		if v == value {
			values = append(values[:idx], values[idx+1:]...)
			break
		}
	}
	if len(values) == 0 {
		delete(f.Specifications, key)
		return
	}
	f.Specifications[key] = values
}

// ClearSpecifications drops every specification filter.
func (f *Filters) ClearSpecifications() {
	f.Specifications = nil
}

// CacheKey returns a deterministic normalized representation of the filter
// state, used to key the listing cache. Specification keys and values are
// sorted so logically equal states share an entry.
func (f Filters) CacheKey() string {
	var b strings.Builder
	b.WriteString("cat=")
	b.WriteString(f.CategorySlug)
	b.WriteString("|q=")
	b.WriteString(f.Query)
	b.WriteString("|sort=")
	b.WriteString(f.Sort)

	b.WriteString("|price=")
	if f.Price.Min != nil {
		b.WriteString(f.Price.Min.String())
	}
	b.WriteString(":")
	if f.Price.Max != nil {
		b.WriteString(f.Price.Max.String())
	}

	keys := make([]string, 0, len(f.Specifications))
	for k := range f.Specifications {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values := append([]string(nil), f.Specifications[k]...)
		sort.Strings(values)
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(strings.Join(values, ","))
	}

	return b.String()
}
