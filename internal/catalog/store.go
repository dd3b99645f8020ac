// Package catalog holds the fixed product list and answers queries over it.
package catalog

import (
	"slices"
	"strings"

	"github.com/fairyhunter13/stylist-storefront/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Store is a read-only product catalog. It is safe for concurrent use
// because nothing mutates it after New returns.
type Store struct {
	products []model.Product
	byID     map[int64]int
}

// New builds a Store over a copy of products, preserving their order.
func New(products []model.Product) *Store {
	s := &Store{
		products: slices.Clone(products),
		byID:     make(map[int64]int, len(products)),
	}
	for i, p := range s.products {
		s.byID[p.ID] = i
	}
	return s
}

// Normalize folds s to lower case for keyword and substring matching.
func Normalize(s string) string {
	return cases.Lower(language.Und).String(s)
}

// All returns every product in catalog order.
func (s *Store) All() []model.Product {
	return slices.Clone(s.products)
}

// Len returns the number of products.
func (s *Store) Len() int { return len(s.products) }

// ByID looks up a product by its identifier.
func (s *Store) ByID(id int64) (model.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Product{}, false
	}
	return s.products[i], true
}

// ByCategory returns products of the given category.
func (s *Store) ByCategory(c model.Category) []model.Product {
	return s.where(func(p model.Product) bool { return p.Category == c })
}

// Featured returns products flagged as featured.
func (s *Store) Featured() []model.Product {
	return s.where(func(p model.Product) bool { return p.Featured })
}

// NewArrivals returns products flagged as new.
func (s *Store) NewArrivals() []model.Product {
	return s.where(func(p model.Product) bool { return p.New })
}

// Search matches query case-insensitively as a substring of the name,
// description, any tag, the category, the subcategory or any occasion.
// Results keep catalog order; there is no ranking.
func (s *Store) Search(query string) []model.Product {
	q := Normalize(query)
	return s.where(func(p model.Product) bool {
		return containsFold(p.Name, q) ||
			containsFold(p.Description, q) ||
			anyContainsFold(p.Tags, q) ||
			containsFold(string(p.Category), q) ||
			containsFold(p.Subcategory, q) ||
			anyContainsFold(p.Occasions, q)
	})
}

// Where returns the products satisfying keep, in catalog order.
func (s *Store) Where(keep func(model.Product) bool) []model.Product {
	return s.where(keep)
}

func (s *Store) where(keep func(model.Product) bool) []model.Product {
	out := make([]model.Product, 0)
	for _, p := range s.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// containsFold reports whether the folded form of s contains q, which must
// already be folded.
func containsFold(s, q string) bool {
	return strings.Contains(Normalize(s), q)
}

func anyContainsFold(values []string, q string) bool {
	for _, v := range values {
		if containsFold(v, q) {
			return true
		}
	}
	return false
}
