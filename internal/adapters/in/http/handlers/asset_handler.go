// internal/adapters/in/http/handlers/asset_handler.go
package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"scratchmint/internal/adapters/in/http/handlers/common"
	assetdom "scratchmint/internal/domain/asset"
)

type AssetHandler struct {
	store assetdom.Store
}

// NewAssetHandler serves GET /assets/{name}. A nil store answers 404.
func NewAssetHandler(store assetdom.Store) *AssetHandler {
	return &AssetHandler{store: store}
}

func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		common.WriteError(w, http.StatusNotFound, "not_found")
		return
	}

	a, err := h.store.Open(r.Context(), chi.URLParam(r, "name"))
	switch {
	case errors.Is(err, assetdom.ErrInvalidName):
		common.WriteError(w, http.StatusBadRequest, "invalid_name")
		return
	case errors.Is(err, assetdom.ErrNotFound):
		common.WriteError(w, http.StatusNotFound, "not_found")
		return
	case err != nil:
		log.Printf("[asset_handler] open: %v", err)
		common.WriteError(w, http.StatusBadGateway, "asset_unavailable")
		return
	}
	defer a.Body.Close()

	if a.ContentType != "" {
		w.Header().Set("Content-Type", a.ContentType)
	}
	if a.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(a.Size, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, a.Body); err != nil {
		log.Printf("[asset_handler] copy: %v", err)
	}
}
