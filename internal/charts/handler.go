package charts

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inamate/chartlines/internal/annotation"
)

const maxChartSize = 8 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type sizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type linesRequest struct {
	Lines []annotation.Line `json:"lines"`
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.List())
}

func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	chartID := mux.Vars(r)["chartId"]

	data, err := io.ReadAll(io.LimitReader(r.Body, maxChartSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	summary, err := h.service.Load(chartID, data)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	chartID := mux.Vars(r)["chartId"]

	c, err := h.service.Get(chartID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	chartID := mux.Vars(r)["chartId"]

	if err := h.service.Delete(chartID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Frame(w http.ResponseWriter, r *http.Request) {
	chartID := mux.Vars(r)["chartId"]

	frame, err := h.service.Frame(chartID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, frame)
}

func (h *Handler) HitTest(w http.ResponseWriter, r *http.Request) {
	chartID := mux.Vars(r)["chartId"]

	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "x and y are required"})
		return
	}

	hover, err := h.service.Hover(chartID, x, y)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hover)
}

func (h *Handler) SetRange(w http.ResponseWriter, r *http.Request) {
	chartID := mux.Vars(r)["chartId"]

	var req RangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	frame, err := h.service.SetVisibleRange(chartID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, frame)
}

func (h *Handler) SetSize(w http.ResponseWriter, r *http.Request) {
	chartID := mux.Vars(r)["chartId"]

	var req sizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	frame, err := h.service.SetSize(chartID, req.Width, req.Height)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, frame)
}

func (h *Handler) SetLines(w http.ResponseWriter, r *http.Request) {
	chartID := mux.Vars(r)["chartId"]

	var req linesRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxChartSize)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	frame, err := h.service.SetLines(chartID, req.Lines)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, frame)
}

func (h *Handler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	chartID := mux.Vars(r)["chartId"]

	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	frame, err := h.service.SetSeriesVisible(chartID, req.Visible)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, frame)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrInvalidChart), errors.Is(err, ErrInvalidRange), errors.Is(err, ErrInvalidSize):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
