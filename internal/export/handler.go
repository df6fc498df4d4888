package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/inamate/chartlines/internal/charts"
)

const maxExportSide = 4096

// Renderer paints a chart as PNG. Zero width and height keep the chart's size.
type Renderer interface {
	RenderPNG(chartID string, w io.Writer, width, height int) error
}

type Handler struct {
	renderer Renderer
}

func NewHandler(renderer Renderer) *Handler {
	return &Handler{renderer: renderer}
}

// ExportPNG serves /export/charts/{chartId}.png with optional width and
// height query parameters.
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	chartID := mux.Vars(r)["chartId"]

	width, err := dimension(r, "width")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	height, err := dimension(r, "height")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if (width == 0) != (height == 0) {
		http.Error(w, "width and height must be given together", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.RenderPNG(chartID, &buf, width, height); err != nil {
		if errors.Is(err, charts.ErrNotFound) {
			http.Error(w, "chart not found", http.StatusNotFound)
			return
		}
		slog.Error("render png", "error", err, "chart", chartID)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.png"`, sanitize(chartID)))
	}
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)

	slog.Info("chart exported", "chart", chartID, "bytes", buf.Len())
}

func dimension(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > maxExportSide {
		return 0, fmt.Errorf("invalid %s: must be between 1 and %d", name, maxExportSide)
	}
	return v, nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
