package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_promotions/internal/app"
)

type Handlers struct{ D *app.DiscountService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", h.greeting)
	s.mux.Get("/api/{id}", h.getDiscount)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Error().Err(err).Msg("write text response failed")
	}
}

func (h *Handlers) greeting(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, h.D.Greeting())
}

// getDiscount decodes the id segment first: chi hands back the escaped form when RawPath is set.
func (h *Handlers) getDiscount(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := url.PathUnescape(raw)
	if err != nil {
		writeText(w, http.StatusBadRequest, fmt.Sprintf("invalid hotel id %q: malformed escape", raw))
		return
	}
	status, body := h.D.ResolveDiscount(id)
	if status != http.StatusOK {
		log.Debug().Str("id", id).Int("status", status).Msg("rejected hotel id")
	}
	writeText(w, status, body)
}
