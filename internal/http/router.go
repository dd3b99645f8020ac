package httpapi

import (
	"expvar"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if app.Cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(app.Cfg.RequestTimeout))
	}

	r.Route("/products", func(r chi.Router) {
		r.Get("/", app.listProductsHandler)
		r.Get("/featured", app.featuredHandler)
		r.Get("/new", app.newArrivalsHandler)
		r.Get("/{id}", app.getProductHandler)
	})
	r.Get("/categories", app.categoriesHandler)
	r.Get("/search", app.searchHandler)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", app.getCartHandler)
		r.Delete("/", app.clearCartHandler)
		r.Post("/items", app.addItemHandler)
		r.Put("/items/{id}", app.setQuantityHandler)
		r.Delete("/items/{id}", app.removeItemHandler)
		r.Delete("/products/{id}", app.removeProductHandler)
	})

	r.Route("/chat", func(r chi.Router) {
		r.Post("/respond", app.respondHandler)
		r.Post("/sessions", app.createSessionHandler)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/messages", app.getMessagesHandler)
			r.Post("/messages", app.sendMessageHandler)
			r.Post("/reset", app.resetSessionHandler)
			r.Delete("/", app.deleteSessionHandler)
		})
	})

	r.Get("/healthz", app.healthHandler)
	r.Get("/debug/metrics", app.metricsHandler)
	r.Handle("/debug/vars", expvar.Handler())
	r.Get("/openapi.yaml", app.openapiHandler)
	r.Get("/docs", app.docsHandler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	})
	return WithRequestID(WithLogging(r))
}
