// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scratchmint/internal/adapters/in/http/handlers"
	"scratchmint/internal/adapters/in/http/handlers/common"
	"scratchmint/internal/adapters/in/http/middleware"
	assetdom "scratchmint/internal/domain/asset"
	"scratchmint/internal/domain/mintattempt"
	"scratchmint/internal/domain/wallet"
)

// RouterDeps collects the dependencies injected from the DI container.
type RouterDeps struct {
	Controller handlers.MintController
	Keys       wallet.KeySource
	Attempts   mintattempt.Repository // optional
	Assets     assetdom.Store         // optional
	// Auth guards the routes that sign with the payer key. nil closes them (503).
	Auth *middleware.AuthMiddleware

	Title         string
	PriceLamports uint64
	AllowedOrigin string
}

// NewRouter sets up HTTP routing for the mint page and its API.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS を外側、Recover を内側に置く（panic 時のレスポンスにも CORS ヘッダを付ける）
	r.Use(middleware.CORS(deps.AllowedOrigin))
	r.Use(middleware.Recover)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		common.MethodNotAllowed(w)
	})

	// Health check (always on)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Method(http.MethodGet, "/assets/{name}", handlers.NewAssetHandler(deps.Assets))

	if deps.Controller == nil {
		return r
	}

	page := handlers.NewPageHandler(deps.Controller, deps.Title, deps.PriceLamports)
	r.Method(http.MethodGet, "/", page)

	mh := handlers.NewMintHandler(deps.Controller, deps.Keys, deps.Attempts)
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", mh.GetState)
		r.Get("/attempts", mh.ListAttempts)

		// 状態を変更するルートは認証必須
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Handler)
			r.Post("/refresh", mh.Refresh)
			r.Post("/mint", mh.Mint)
			r.Post("/alert/dismiss", mh.DismissAlert)
			r.Post("/wallet/connect", mh.ConnectWallet)
			r.Post("/wallet/disconnect", mh.DisconnectWallet)
		})
	})

	return r
}
