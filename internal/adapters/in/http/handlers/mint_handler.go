// internal/adapters/in/http/handlers/mint_handler.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"scratchmint/internal/adapters/in/http/handlers/common"
	mintapp "scratchmint/internal/application/mint"
	"scratchmint/internal/domain/mintattempt"
	"scratchmint/internal/domain/wallet"
)

// MintController is what the handlers need from *mint.Controller.
type MintController interface {
	View() mintapp.View
	Refresh(ctx context.Context) error
	RefreshBalance(ctx context.Context) error
	Mint(ctx context.Context) (mintapp.View, error)
	DismissAlert() mintapp.View
	ConnectWallet(ctx context.Context, src wallet.KeySource) (mintapp.View, error)
	DisconnectWallet() mintapp.View
}

var _ MintController = (*mintapp.Controller)(nil)

type MintHandler struct {
	ctrl     MintController
	keys     wallet.KeySource
	attempts mintattempt.Repository
}

// NewMintHandler wires the page API. attempts may be nil (history disabled).
func NewMintHandler(ctrl MintController, keys wallet.KeySource, attempts mintattempt.Repository) *MintHandler {
	return &MintHandler{ctrl: ctrl, keys: keys, attempts: attempts}
}

// GET /api/state
func (h *MintHandler) GetState(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, h.ctrl.View())
}

// POST /api/refresh
// balance と candy machine state を読み直す。
func (h *MintHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.ctrl.RefreshBalance(ctx); err != nil {
		log.Printf("[mint_handler] refresh balance: %v", err)
	}
	if err := h.ctrl.Refresh(ctx); err != nil {
		log.Printf("[mint_handler] refresh state: %v", err)
		common.WriteJSON(w, http.StatusBadGateway, common.ErrorBody{Error: "refresh_failed", View: h.ctrl.View()})
		return
	}
	common.WriteJSON(w, http.StatusOK, h.ctrl.View())
}

// POST /api/mint
// 失敗はアラートとして View に載るため 200。多重実行と無効時のみエラーコード。
func (h *MintHandler) Mint(w http.ResponseWriter, r *http.Request) {
	v, err := h.ctrl.Mint(r.Context())
	switch {
	case errors.Is(err, mintapp.ErrMintInProgress):
		common.WriteJSON(w, http.StatusConflict, common.ErrorBody{Error: "mint_in_progress", View: v})
	case errors.Is(err, mintapp.ErrMintUnavailable):
		common.WriteJSON(w, http.StatusLocked, common.ErrorBody{Error: "mint_unavailable", View: v})
	case err != nil:
		log.Printf("[mint_handler] mint: %v", err)
		common.WriteJSON(w, http.StatusInternalServerError, common.ErrorBody{Error: "mint_failed", View: v})
	default:
		common.WriteJSON(w, http.StatusOK, v)
	}
}

// POST /api/alert/dismiss
func (h *MintHandler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, h.ctrl.DismissAlert())
}

// POST /api/wallet/connect
func (h *MintHandler) ConnectWallet(w http.ResponseWriter, r *http.Request) {
	if h.keys == nil {
		common.WriteError(w, http.StatusServiceUnavailable, "wallet_not_configured")
		return
	}
	v, err := h.ctrl.ConnectWallet(r.Context(), h.keys)
	if err != nil {
		log.Printf("[mint_handler] connect wallet: %v", err)
		status := http.StatusInternalServerError
		if errors.Is(err, mintapp.ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		common.WriteError(w, status, "wallet_connect_failed")
		return
	}
	common.WriteJSON(w, http.StatusOK, v)
}

// POST /api/wallet/disconnect
func (h *MintHandler) DisconnectWallet(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, h.ctrl.DisconnectWallet())
}

// GET /api/attempts?limit=20
func (h *MintHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	if h.attempts == nil {
		common.WriteJSON(w, http.StatusOK, []mintattempt.Attempt{})
		return
	}
	limit := mintattempt.NormalizeLimit(parseIntDefault(r.URL.Query().Get("limit"), mintattempt.DefaultListLimit))
	items, err := h.attempts.ListRecent(r.Context(), limit)
	if err != nil {
		log.Printf("[mint_handler] list attempts: %v", err)
		common.WriteError(w, http.StatusInternalServerError, "list_attempts_failed")
		return
	}
	if items == nil {
		items = []mintattempt.Attempt{}
	}
	common.WriteJSON(w, http.StatusOK, items)
}
