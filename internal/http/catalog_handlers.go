package httpapi

import (
	"net/http"
	"strconv"

	"github.com/fairyhunter13/stylist-storefront/internal/catalog"
	"github.com/fairyhunter13/stylist-storefront/internal/model"
	"github.com/go-chi/chi/v5"
)

type productList struct {
	Count    int             `json:"count"`
	Products []model.Product `json:"products"`
}

type productDetail struct {
	Product model.Product   `json:"product"`
	Related []model.Product `json:"related"`
}

type categoryCount struct {
	Category model.Category `json:"category"`
	Count    int            `json:"count"`
}

func listOf(ps []model.Product) productList {
	if ps == nil {
		ps = []model.Product{}
	}
	return productList{Count: len(ps), Products: ps}
}

// productIDParam parses the {id} URL parameter, writing a 400 on failure.
func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (a *App) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := catalog.ListingOptions{
		Category:    model.Category(q.Get("category")),
		SortBy:      catalog.SortKey(q.Get("sort")),
		PriceBucket: q.Get("price"),
		Query:       q.Get("q"),
		Color:       q.Get("color"),
		Season:      q.Get("season"),
		Occasion:    q.Get("occasion"),
	}
	if opts.Category != "" && !opts.Category.Valid() {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "unknown category")
		return
	}
	writeJSON(w, http.StatusOK, listOf(a.Catalog.Listing(opts)))
}

func (a *App) featuredHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listOf(a.Catalog.Featured()))
}

func (a *App) newArrivalsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listOf(a.Catalog.NewArrivals()))
}

func (a *App) getProductHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	p, ok := a.Catalog.ByID(id)
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	writeJSON(w, http.StatusOK, productDetail{Product: p, Related: a.Catalog.Related(id, a.Cfg.RelatedLimit)})
}

func (a *App) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	counts := a.Catalog.CategoryCounts()
	out := make([]categoryCount, 0, len(model.Categories))
	for _, c := range model.Categories {
		out = append(out, categoryCount{Category: c, Count: counts[c]})
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *App) searchHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listOf(a.Catalog.Search(r.URL.Query().Get("q"))))
}
