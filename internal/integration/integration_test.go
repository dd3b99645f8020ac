package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fairyhunter13/stylist-storefront/internal/cart"
	"github.com/fairyhunter13/stylist-storefront/internal/catalog"
	"github.com/fairyhunter13/stylist-storefront/internal/chat"
	"github.com/fairyhunter13/stylist-storefront/internal/config"
	"github.com/fairyhunter13/stylist-storefront/internal/dialogue"
	httpapi "github.com/fairyhunter13/stylist-storefront/internal/http"
	"github.com/fairyhunter13/stylist-storefront/internal/model"
	"github.com/fairyhunter13/stylist-storefront/internal/obs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storefront struct {
	h      http.Handler
	ledger *cart.Ledger
	sched  *chat.Scheduler
}

func newStorefront(t *testing.T) storefront {
	t.Helper()
	cfg := config.Load()
	cfg.ChatRatePerSec = 0
	obs.InitLogger()
	cat, err := catalog.LoadFile("")
	require.NoError(t, err)
	ledger := cart.NewLedger()
	responder := dialogue.NewResponder(cat, dialogue.WithLimit(cfg.RecommendLimit))
	sched := chat.NewScheduler(chat.RandomDelay(5*time.Millisecond, 10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	sched.Start(ctx)
	t.Cleanup(sched.Stop)
	sessions := chat.NewRegistry(responder, sched)
	t.Cleanup(sessions.CloseAll)
	app := httpapi.NewApp(cfg, cat, ledger, responder, sessions, sched)
	t.Cleanup(app.Close)
	return storefront{h: httpapi.NewRouter(app), ledger: ledger, sched: sched}
}

func (s storefront) call(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == nil {
		r = httptest.NewRequest(method, path, nil)
	} else {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = httptest.NewRequest(method, path, bytes.NewReader(b))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.h.ServeHTTP(w, r)
	return w
}

// Browse, add the stylist's suggestions to the cart, then check out totals.
func TestIntegration_ChatSuggestionsIntoCart(t *testing.T) {
	sf := newStorefront(t)

	var changes []cart.Change
	var mu sync.Mutex
	unsubscribe := sf.ledger.Subscribe(func(c cart.Change) {
		mu.Lock()
		changes = append(changes, c)
		mu.Unlock()
	})
	defer unsubscribe()

	w := sf.call(t, http.MethodPost, "/chat/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var session struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	w = sf.call(t, http.MethodPost, "/chat/sessions/"+session.SessionID+"/messages", map[string]string{"text": "build me an outfit"})
	require.Equal(t, http.StatusAccepted, w.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	require.True(t, sf.sched.DrainUntil(ctx), "drain timeout")

	w = sf.call(t, http.MethodGet, "/chat/sessions/"+session.SessionID+"/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var log struct {
		Messages []model.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &log))
	require.Len(t, log.Messages, 3)
	reply := log.Messages[2]
	require.Equal(t, model.RoleAssistant, reply.Role)
	require.Len(t, reply.Products, 4)

	for _, p := range reply.Products {
		w = sf.call(t, http.MethodPost, "/cart/items", map[string]any{"product_id": p.ID, "quantity": 1})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = sf.call(t, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var c struct {
		ItemCount int    `json:"item_count"`
		Subtotal  string `json:"subtotal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.Equal(t, 4, c.ItemCount)
	assert.Equal(t, "559.96", c.Subtotal)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, changes, 4)
	assert.Equal(t, "559.96", changes[3].Subtotal.StringFixed(2))
}

func TestIntegration_ConcurrentCartAdds(t *testing.T) {
	sf := newStorefront(t)
	const n = 40
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			sf.call(t, http.MethodPost, "/cart/items", map[string]any{"product_id": 2, "quantity": 1})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, sf.ledger.Len())
	assert.Equal(t, n, sf.ledger.ItemCount())
}
