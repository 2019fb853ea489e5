package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"github.com/langaas500/Hvemistua/internal/game"
	"github.com/langaas500/Hvemistua/internal/viewmodel"
	"github.com/langaas500/Hvemistua/internal/views"
)

const (
	productTitle = "Hvem i stua"
	qrSize       = 320
)

// Pages serves the HTML shells and the join QR code.
type Pages struct {
	live    *game.Live
	baseURL string
}

func NewPages(live *game.Live, baseURL string) *Pages {
	return &Pages{live: live, baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

func (h *Pages) RegisterRoutes(r chi.Router) {
	r.Get("/", h.tv)
	r.Get("/play", h.player)
	r.Get("/qr.png", h.qr)
	r.Get("/checkout/{id}", h.checkout)
}

func (h *Pages) shell(r *http.Request, role string) viewmodel.ShellPage {
	return viewmodel.ShellPage{
		Title:          productTitle,
		Role:           role,
		JoinURL:        h.joinURL(r),
		StatePath:      "/api/state",
		StreamPath:     "/api/stream",
		PollIntervalMs: h.live.Session().Rules().PollInterval.Milliseconds(),
	}
}

func (h *Pages) tv(w http.ResponseWriter, r *http.Request) {
	render(w, r, views.TVPage(h.shell(r, "tv")))
}

func (h *Pages) player(w http.ResponseWriter, r *http.Request) {
	render(w, r, views.PlayerPage(h.shell(r, "player")))
}

func (h *Pages) qr(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(h.joinURL(r), qrcode.Medium, qrSize)
	if err != nil {
		log.Printf("[pages] qr: %v", err)
		http.Error(w, "failed to encode QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(png)
}

func (h *Pages) checkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, ok := h.live.Session().Checkout()
	if !ok || c.ID != id {
		http.NotFound(w, r)
		return
	}
	render(w, r, views.CheckoutPage(viewmodel.CheckoutPage{
		Title:        productTitle + " - betaling",
		CheckoutID:   c.ID,
		Status:       string(c.Status),
		Open:         c.Status == game.CheckoutOpen,
		PaidPath:     "/api/checkout/" + c.ID + "/paid",
		CanceledPath: "/api/checkout/" + c.ID + "/canceled",
	}))
}

// joinURL is where phones land from the QR code.
func (h *Pages) joinURL(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL + "/play"
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/play"
}
