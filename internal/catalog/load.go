package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fairyhunter13/stylist-storefront/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// ErrInvalidProduct is returned when a catalog document contains a product
// that breaks a catalog invariant.
var ErrInvalidProduct = errors.New("invalid product")

type document struct {
	Products []model.Product `yaml:"products"`
}

// Default returns a Store built from the embedded catalog.
func Default() (*Store, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile reads a catalog document from path. An empty path selects the
// embedded catalog.
func LoadFile(path string) (*Store, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a YAML catalog document and validates every product.
func Load(r io.Reader) (*Store, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validate(doc.Products); err != nil {
		return nil, err
	}
	return New(doc.Products), nil
}

func validate(products []model.Product) error {
	seen := make(map[int64]struct{}, len(products))
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidProduct, p.ID)
		}
		seen[p.ID] = struct{}{}
		switch {
		case p.Name == "":
			return fmt.Errorf("%w: id %d has no name", ErrInvalidProduct, p.ID)
		case p.Price.IsNegative():
			return fmt.Errorf("%w: id %d has negative price", ErrInvalidProduct, p.ID)
		case p.Stock < 0:
			return fmt.Errorf("%w: id %d has negative stock", ErrInvalidProduct, p.ID)
		case p.Rating < 0 || p.Rating > 5:
			return fmt.Errorf("%w: id %d rating %v out of range", ErrInvalidProduct, p.ID, p.Rating)
		case !p.Category.Valid():
			return fmt.Errorf("%w: id %d has unknown category %q", ErrInvalidProduct, p.ID, p.Category)
		}
	}
	return nil
}
