package catalog

import (
	"slices"
	"sort"

	"github.com/fairyhunter13/stylist-storefront/internal/model"
	"github.com/shopspring/decimal"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
)

// FilterOptions constrains a Filter query. Zero-valued fields impose no
// constraint.
type FilterOptions struct {
	Category model.Category
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	// Color matches case-insensitively as a substring of any color.
	Color    string
	Season   string
	Occasion string
	SortBy   SortKey
}

// Filter returns the products satisfying every supplied option, sorted by
// opts.SortBy. Unknown sort keys leave catalog order unchanged.
func (s *Store) Filter(opts FilterOptions) []model.Product {
	color := Normalize(opts.Color)
	out := s.where(func(p model.Product) bool {
		if opts.Category != "" && p.Category != opts.Category {
			return false
		}
		if opts.MinPrice != nil && p.Price.LessThan(*opts.MinPrice) {
			return false
		}
		if opts.MaxPrice != nil && p.Price.GreaterThan(*opts.MaxPrice) {
			return false
		}
		if color != "" && !anyContainsFold(p.Colors, color) {
			return false
		}
		if opts.Season != "" && !slices.Contains(p.Seasons, opts.Season) {
			return false
		}
		if opts.Occasion != "" && !slices.Contains(p.Occasions, opts.Occasion) {
			return false
		}
		return true
	})
	sortProducts(out, opts.SortBy)
	return out
}

func sortProducts(ps []model.Product, key SortKey) {
	var less func(a, b model.Product) bool
	switch key {
	case SortPriceLow:
		less = func(a, b model.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceHigh:
		less = func(a, b model.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortRating:
		less = func(a, b model.Product) bool { return a.Rating > b.Rating }
	case SortNewest:
		less = func(a, b model.Product) bool { return a.New && !b.New }
	default:
		return
	}
	sort.SliceStable(ps, func(i, j int) bool { return less(ps[i], ps[j]) })
}
