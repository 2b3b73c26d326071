// cmd/api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scratchmint/internal/infra/config"
	"scratchmint/internal/platform/di"
)

// activationInterval は countdown の完了チェック間隔。
const activationInterval = time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─────────────────────────────────────────────────────────────
	// Lightweight healthz first so PORT is LISTENed quickly
	// ─────────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// ─────────────────────────────────────────────────────────────
	// Config & DI container; keep /healthz even on failure
	// ─────────────────────────────────────────────────────────────
	var cont *di.Container
	cfg, err := config.Load()
	if err != nil {
		log.Printf("[boot] WARN: config load failed: %v (serving /healthz only)", err)
	} else if c, err := di.Build(ctx, cfg); err != nil {
		log.Printf("[boot] WARN: di init failed: %v (serving /healthz only)", err)
	} else {
		cont = c
		defer func() {
			if err := cont.Close(); err != nil {
				log.Printf("[boot] WARN: close container: %v", err)
			}
		}()

		// Attach app router under "/"
		mux.Handle("/", cont.Router)

		// countdown → isActive
		go cont.Controller.RunActivation(ctx, activationInterval)
	}

	// ─────────────────────────────────────────────────────────────
	// Port resolution: config → env:PORT → 8080
	// ─────────────────────────────────────────────────────────────
	port := ""
	if cfg != nil && cfg.Port != "" {
		port = cfg.Port
	}
	if port == "" {
		if p := os.Getenv("PORT"); p != "" {
			port = p
		} else {
			port = "8080"
		}
	}

	// mint リクエストは確認待ち（TX_TIMEOUT）まで戻らないため、その分 WriteTimeout を延ばす
	writeTimeout := 10 * time.Second
	if cfg != nil {
		writeTimeout += cfg.TxTimeout
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// ─────────────────────────────────────────────────────────────
	// Graceful shutdown
	// ─────────────────────────────────────────────────────────────
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c
		log.Printf("[boot] received signal: %v; shutting down...", sig)
		cancel()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), writeTimeout+5*time.Second)
		defer cancelShutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[boot] server shutdown error: %v", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("[boot] listening on :%s", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[boot] server error: %v", err)
	}

	<-idleConnsClosed
	log.Printf("[boot] server stopped")
}
