package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceRange(t *testing.T) {
	tests := []struct {
		name    string
		rawMin  string
		rawMax  string
		wantErr bool
		wantMin string
		wantMax string
	}{
		{"both empty clears range", "", "", false, "", ""},
		{"valid pair", "10", "20", false, "10", "20"},
		{"min only", "10", "", false, "10", ""},
		{"max only", "", "150.50", false, "", "150.5"},
		{"whitespace trimmed", " 10 ", " 20 ", false, "10", "20"},
		{"non-numeric min", "abc", "10", true, "", ""},
		{"non-numeric max", "10", "x", true, "", ""},
		{"min above max", "20", "10", true, "", ""},
		{"negative min", "-5", "", true, "", ""},
		{"negative max", "", "-1", true, "", ""},
		{"equal bounds allowed", "15", "15", false, "15", "15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParsePriceRange(tt.rawMin, tt.rawMax)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantMin == "" {
				assert.Nil(t, r.Min)
			} else {
				require.NotNil(t, r.Min)
				assert.True(t, r.Min.Equal(decimal.RequireFromString(tt.wantMin)))
			}
			if tt.wantMax == "" {
				assert.Nil(t, r.Max)
			} else {
				require.NotNil(t, r.Max)
				assert.True(t, r.Max.Equal(decimal.RequireFromString(tt.wantMax)))
			}
		})
	}
}

func TestFilters_ToggleSpecification(t *testing.T) {
	var f Filters

	f.ToggleSpecification("material", "oak", true)
	assert.Equal(t, []string{"oak"}, f.Specifications["material"])

	f.ToggleSpecification("material", "walnut", true)
	assert.Equal(t, []string{"oak", "walnut"}, f.Specifications["material"])

	// toggling an already-selected value on is a no-op
	f.ToggleSpecification("material", "oak", true)
	assert.Equal(t, []string{"oak", "walnut"}, f.Specifications["material"])

	f.ToggleSpecification("material", "oak", false)
	assert.Equal(t, []string{"walnut"}, f.Specifications["material"])

	// removing the last value removes the key entirely
	f.ToggleSpecification("material", "walnut", false)
	_, exists := f.Specifications["material"]
	assert.False(t, exists, "empty value sets must not persist")

	// removing from an absent key is a no-op
	f.ToggleSpecification("color", "blue", false)
	_, exists = f.Specifications["color"]
	assert.False(t, exists)
}

func TestFilters_ClearSpecifications(t *testing.T) {
	var f Filters
	f.ToggleSpecification("material", "oak", true)
	f.ToggleSpecification("color", "blue", true)

	f.ClearSpecifications()
	assert.Empty(t, f.Specifications)
}

func TestFilters_CacheKey(t *testing.T) {
	min := decimal.RequireFromString("10")
	a := Filters{
		CategorySlug: "sofas",
		Price:        PriceRange{Min: &min},
		Specifications: map[string][]string{
			"color":    {"blue", "red"},
			"material": {"oak"},
		},
	}
	b := Filters{
		CategorySlug: "sofas",
		Price:        PriceRange{Min: &min},
		Specifications: map[string][]string{
			"material": {"oak"},
			"color":    {"red", "blue"},
		},
	}
	assert.Equal(t, a.CacheKey(), b.CacheKey(), "logically equal states must share a cache key")

	c := a
	c.Sort = "price_asc"
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())
}
