// Package model defines domain types used by the service.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the closed set of catalog departments.
type Category string

const (
	CategoryClothing    Category = "clothing"
	CategoryAccessories Category = "accessories"
	CategoryFootwear    Category = "footwear"
)

// Categories lists every known category in display order.
var Categories = []Category{CategoryClothing, CategoryFootwear, CategoryAccessories}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryClothing, CategoryAccessories, CategoryFootwear:
		return true
	}
	return false
}

// Gender tags who a product is cut for.
type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderUnisex Gender = "unisex"
)

// Product is an immutable catalog entry.
type Product struct {
	ID          int64           `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Price       decimal.Decimal `json:"price" yaml:"price"`
	Category    Category        `json:"category" yaml:"category"`
	Subcategory string          `json:"subcategory" yaml:"subcategory"`
	Gender      Gender          `json:"gender" yaml:"gender"`
	Colors      []string        `json:"colors" yaml:"colors"`
	Sizes       []string        `json:"sizes" yaml:"sizes"`
	Materials   []string        `json:"materials" yaml:"materials"`
	Tags        []string        `json:"tags" yaml:"tags"`
	Occasions   []string        `json:"occasions" yaml:"occasions"`
	Seasons     []string        `json:"seasons" yaml:"seasons"`
	Stock       int64           `json:"stock" yaml:"stock"`
	Rating      float64         `json:"rating" yaml:"rating"`
	Reviews     int64           `json:"reviews" yaml:"reviews"`
	ImageURL    string          `json:"image_url" yaml:"image_url"`
	Featured    bool            `json:"featured,omitempty" yaml:"featured"`
	New         bool            `json:"new,omitempty" yaml:"new"`
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat log. Messages are never mutated after
// they are appended.
type Message struct {
	ID        string    `json:"id"`
	Sequence  uint64    `json:"sequence"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Products  []Product `json:"products,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
