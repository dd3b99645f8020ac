package catalog

import (
	"slices"

	"github.com/fairyhunter13/stylist-storefront/internal/model"
	"github.com/shopspring/decimal"
)

// DefaultRelatedLimit caps Related when the caller passes a non-positive limit.
const DefaultRelatedLimit = 4

type priceRange struct {
	min *decimal.Decimal
	max *decimal.Decimal
}

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

var priceBuckets = map[string]priceRange{
	"under50":  {min: bound(0), max: bound(50)},
	"50to100":  {min: bound(50), max: bound(100)},
	"100to200": {min: bound(100), max: bound(200)},
	"over200":  {min: bound(200)},
}

// PriceBucket resolves a named price range to inclusive bounds. A nil bound
// is open. ok is false for unknown names.
func PriceBucket(name string) (lo, hi *decimal.Decimal, ok bool) {
	r, ok := priceBuckets[name]
	if !ok {
		return nil, nil, false
	}
	return r.min, r.max, true
}

// ListingOptions describes the shop page query.
type ListingOptions struct {
	Category model.Category
	SortBy   SortKey
	// PriceBucket is one of under50, 50to100, 100to200 or over200.
	PriceBucket string
	Query       string
	Color       string
	Season      string
	Occasion    string
}

// Listing runs Filter for the structured options and then narrows the result
// by Query, which is matched against name, description and tags only.
func (s *Store) Listing(opts ListingOptions) []model.Product {
	fo := FilterOptions{
		Category: opts.Category,
		Color:    opts.Color,
		Season:   opts.Season,
		Occasion: opts.Occasion,
		SortBy:   opts.SortBy,
	}
	if lo, hi, ok := PriceBucket(opts.PriceBucket); ok {
		fo.MinPrice, fo.MaxPrice = lo, hi
	}
	out := s.Filter(fo)
	if opts.Query == "" {
		return out
	}
	q := Normalize(opts.Query)
	return slices.DeleteFunc(out, func(p model.Product) bool {
		return !containsFold(p.Name, q) &&
			!containsFold(p.Description, q) &&
			!anyContainsFold(p.Tags, q)
	})
}

// Related returns up to limit other products that share the category or at
// least one occasion with product id.
func (s *Store) Related(id int64, limit int) []model.Product {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	base, ok := s.ByID(id)
	if !ok {
		return []model.Product{}
	}
	out := s.where(func(p model.Product) bool {
		if p.ID == base.ID {
			return false
		}
		if p.Category == base.Category {
			return true
		}
		for _, o := range p.Occasions {
			if slices.Contains(base.Occasions, o) {
				return true
			}
		}
		return false
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CategoryCounts returns the number of products in each known category.
func (s *Store) CategoryCounts() map[model.Category]int {
	counts := make(map[model.Category]int, len(model.Categories))
	for _, c := range model.Categories {
		counts[c] = 0
	}
	for _, p := range s.products {
		counts[p.Category]++
	}
	return counts
}
