// Package main boots the stylist storefront HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/stylist-storefront/internal/cart"
	"github.com/fairyhunter13/stylist-storefront/internal/catalog"
	"github.com/fairyhunter13/stylist-storefront/internal/chat"
	"github.com/fairyhunter13/stylist-storefront/internal/config"
	"github.com/fairyhunter13/stylist-storefront/internal/dialogue"
	httpapi "github.com/fairyhunter13/stylist-storefront/internal/http"
	"github.com/fairyhunter13/stylist-storefront/internal/obs"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	cat, err := catalog.LoadFile(cfg.CatalogFile)
	if err != nil {
		obs.Logger.Error("catalog_load_error", "file", cfg.CatalogFile, "error", err)
		os.Exit(1)
	}
	obs.Logger.Info("catalog_loaded", "products", cat.Len())

	ledger := cart.NewLedger()
	responder := dialogue.NewResponder(cat, dialogue.WithLimit(cfg.RecommendLimit))
	sched := chat.NewScheduler(chat.RandomDelay(cfg.ChatDelayMin, cfg.ChatDelayJitter))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched.Start(ctx)
	sessions := chat.NewRegistry(responder, sched)

	app := httpapi.NewApp(cfg, cat, ledger, responder, sessions, sched)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	app.StartShutdown()
	obs.Logger.Info("shutdown_drain_begin", "chat_replies_pending", sched.Pending(), "chat_sessions", sessions.Len())

	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if drained := sched.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warn("shutdown_drain_timeout")
	} else {
		obs.Logger.Info("shutdown_drain_complete")
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	sessions.CloseAll()
	sched.Stop()
	app.Close()
	obs.Logger.Info("service_stopped", "cart_lines", ledger.Len())
}
