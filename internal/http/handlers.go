package httpapi

import (
	"expvar"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/stylist-storefront/internal/cart"
	"github.com/fairyhunter13/stylist-storefront/internal/catalog"
	"github.com/fairyhunter13/stylist-storefront/internal/chat"
	"github.com/fairyhunter13/stylist-storefront/internal/config"
	"github.com/fairyhunter13/stylist-storefront/internal/dialogue"
	httpopenapi "github.com/fairyhunter13/stylist-storefront/internal/http/openapi"
	"github.com/fairyhunter13/stylist-storefront/internal/obs"
	"golang.org/x/time/rate"
)

var (
	cartMutations = expvar.NewInt("cart_mutations")
	chatTurns     = expvar.NewInt("chat_turns")
)

// App holds the engine components the handlers call into.
type App struct {
	Cfg       config.Config
	Catalog   *catalog.Store
	Cart      *cart.Ledger
	Responder *dialogue.Responder
	Sessions  *chat.Registry
	Scheduler *chat.Scheduler

	limiter     *rate.Limiter
	closing     atomic.Bool
	cartChanges atomic.Uint64
	unsubscribe func()
	started     time.Time
}

// NewApp wires the handlers to the engine and subscribes to cart changes.
func NewApp(cfg config.Config, cat *catalog.Store, ledger *cart.Ledger, responder *dialogue.Responder, sessions *chat.Registry, sched *chat.Scheduler) *App {
	limit := rate.Limit(cfg.ChatRatePerSec)
	if cfg.ChatRatePerSec <= 0 {
		limit = rate.Inf
	}
	a := &App{
		Cfg:       cfg,
		Catalog:   cat,
		Cart:      ledger,
		Responder: responder,
		Sessions:  sessions,
		Scheduler: sched,
		limiter:   rate.NewLimiter(limit, max(cfg.ChatRateBurst, 1)),
		started:   time.Now(),
	}
	a.unsubscribe = ledger.Subscribe(a.onCartChange)
	return a
}

// StartShutdown rejects new chat messages.
func (a *App) StartShutdown() {
	a.closing.Store(true)
}

// Close detaches the app from the cart ledger.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func (a *App) onCartChange(c cart.Change) {
	a.cartChanges.Add(1)
	cartMutations.Add(1)
	obs.Logger.Info("cart_changed",
		"op", string(c.Op),
		"product_id", c.Key.ProductID,
		"size", c.Key.Size,
		"color", c.Key.Color,
		"item_count", c.ItemCount,
		"subtotal", c.Subtotal.StringFixed(2),
	)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	scheduled, delivered, discarded, pending := a.Scheduler.Metrics()
	m := map[string]any{
		"catalog_size":         a.Catalog.Len(),
		"cart_lines":           a.Cart.Len(),
		"cart_item_count":      a.Cart.ItemCount(),
		"cart_subtotal":        a.Cart.Subtotal().StringFixed(2),
		"cart_changes":         a.cartChanges.Load(),
		"chat_sessions":        a.Sessions.Len(),
		"chat_replies_pending": pending,
		"chat_replies_sched":   scheduled,
		"chat_replies_sent":    delivered,
		"chat_replies_dropped": discarded,
		"uptime_sec":           time.Since(a.started).Seconds(),
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Storefront API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
