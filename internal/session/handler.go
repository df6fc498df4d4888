package session

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/inamate/chartlines/internal/charts"
	"github.com/inamate/chartlines/internal/typeid"
)

// Authorizer checks the token passed in the websocket URL.
type Authorizer interface {
	Authorize(token string) (subject string, ok bool)
}

type Handler struct {
	hub            *Hub
	auth           Authorizer
	originPatterns []string
}

func NewHandler(hub *Hub, auth Authorizer, originPatterns []string) *Handler {
	return &Handler{hub: hub, auth: auth, originPatterns: originPatterns}
}

// ServeHTTP upgrades /ws/charts/{chartId} and serves the client until it
// disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	chartID := mux.Vars(r)["chartId"]

	subject, ok := h.auth.Authorize(r.URL.Query().Get("token"))
	if !ok {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if _, err := h.hub.service.Frame(chartID); err != nil {
		if errors.Is(err, charts.ErrNotFound) {
			http.Error(w, "chart not found", http.StatusNotFound)
			return
		}
		slog.Error("load chart for websocket", "error", err, "chart", chartID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, conn, chartID, typeid.NewClientID(), subject)
	h.hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
