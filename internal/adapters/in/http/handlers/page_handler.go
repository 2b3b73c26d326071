// internal/adapters/in/http/handlers/page_handler.go
package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	mintapp "scratchmint/internal/application/mint"
	"scratchmint/internal/domain/alert"
	cmdom "scratchmint/internal/domain/candymachine"
)

//go:embed templates/page.html
var templatesFS embed.FS

var pageTemplate = template.Must(
	template.New("page.html").
		Funcs(template.FuncMap{"sol": formatSOL}).
		ParseFS(templatesFS, "templates/page.html"),
)

// PageData is what templates/page.html renders.
type PageData struct {
	Title         string
	PriceText     string
	View          mintapp.View
	AlertReloadMs int64
}

type PageHandler struct {
	ctrl      MintController
	title     string
	priceText string
	now       func() time.Time
}

// NewPageHandler serves GET /. priceLamports is the mint fee shown in the copy.
func NewPageHandler(ctrl MintController, title string, priceLamports uint64) *PageHandler {
	if title == "" {
		title = "Scratch A.I."
	}
	return &PageHandler{
		ctrl:      ctrl,
		title:     title,
		priceText: formatSOL(cmdom.ToSOL(priceLamports)) + " SOL",
		now:       time.Now,
	}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v := h.ctrl.View()
	data := PageData{
		Title:         h.title,
		PriceText:     h.priceText,
		View:          v,
		AlertReloadMs: alertReloadMs(v.Alert, h.now()),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		log.Printf("[page_handler] render: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// alertReloadMs is how long until an open alert hides itself.
func alertReloadMs(s alert.State, now time.Time) int64 {
	if !s.Open {
		return 0
	}
	left := alert.AutoHide - now.Sub(s.ShownAt)
	if left < 0 {
		left = 0
	}
	return left.Milliseconds() + 100
}

// formatSOL prints a SOL amount without trailing zeros.
func formatSOL(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
