package httpapi

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/fairyhunter13/stylist-storefront/internal/cart"
	"github.com/fairyhunter13/stylist-storefront/internal/model"
)

type addItemRequest struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

type setQuantityRequest struct {
	Quantity int    `json:"quantity"`
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
}

type cartLineView struct {
	cart.Line
	LineTotal string `json:"line_total"`
}

type cartView struct {
	Lines     []cartLineView `json:"lines"`
	ItemCount int            `json:"item_count"`
	Subtotal  string         `json:"subtotal"`
}

func (a *App) cartView() cartView {
	lines := a.Cart.Lines()
	v := cartView{
		Lines:     make([]cartLineView, 0, len(lines)),
		ItemCount: a.Cart.ItemCount(),
		Subtotal:  a.Cart.Subtotal().StringFixed(2),
	}
	for _, ln := range lines {
		v.Lines = append(v.Lines, cartLineView{Line: ln, LineTotal: ln.Total().StringFixed(2)})
	}
	return v
}

// validVariant checks a requested size or color against the product's
// options. Empty selections are always allowed.
func validVariant(p model.Product, size, color string) error {
	if size != "" && !slices.Contains(p.Sizes, size) {
		return fmt.Errorf("size %q not offered for product %d", size, p.ID)
	}
	if color != "" && !slices.Contains(p.Colors, color) {
		return fmt.Errorf("color %q not offered for product %d", color, p.ID)
	}
	return nil
}

func (a *App) getCartHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.cartView())
}

func (a *App) addItemHandler(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "product_id must be positive")
		return
	}
	if req.Quantity < 0 || req.Quantity > a.Cfg.MaxCartQty {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", fmt.Sprintf("quantity must be between 1 and %d", a.Cfg.MaxCartQty))
		return
	}
	p, ok := a.Catalog.ByID(req.ProductID)
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err := validVariant(p, req.Size, req.Color); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_variant", err.Error())
		return
	}
	a.Cart.Add(p, req.Quantity, req.Size, req.Color)
	writeJSON(w, http.StatusCreated, a.cartView())
}

func (a *App) setQuantityHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	var req setQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity > a.Cfg.MaxCartQty {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", fmt.Sprintf("quantity must be at most %d", a.Cfg.MaxCartQty))
		return
	}
	a.Cart.SetQuantity(cart.Key{ProductID: id, Size: req.Size, Color: req.Color}, req.Quantity)
	writeJSON(w, http.StatusOK, a.cartView())
}

func (a *App) removeItemHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	a.Cart.Remove(cart.Key{ProductID: id, Size: q.Get("size"), Color: q.Get("color")})
	writeJSON(w, http.StatusOK, a.cartView())
}

func (a *App) removeProductHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	a.Cart.RemoveProduct(id)
	writeJSON(w, http.StatusOK, a.cartView())
}

func (a *App) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	a.Cart.Clear()
	writeJSON(w, http.StatusOK, a.cartView())
}
