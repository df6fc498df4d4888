package export

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/chartlines/internal/charts"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	svc := charts.NewService(charts.Options{Width: 120, Height: 80})
	svc.LoadSample("chart_sample")

	r := mux.NewRouter()
	r.HandleFunc("/export/charts/{chartId}.png", NewHandler(svc).ExportPNG).Methods("GET")
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", target, nil))
	return rec
}

func TestExportPNG(t *testing.T) {
	r := newTestRouter(t)

	rec := get(r, "/export/charts/chart_sample.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())
}

func TestExportPNGCustomSize(t *testing.T) {
	r := newTestRouter(t)

	rec := get(r, "/export/charts/chart_sample.png?width=60&height=40&download=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="chart_sample.png"`, rec.Header().Get("Content-Disposition"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())
}

func TestExportPNGErrors(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"missing chart", "/export/charts/nope.png", http.StatusNotFound},
		{"bad width", "/export/charts/chart_sample.png?width=abc&height=10", http.StatusBadRequest},
		{"too large", "/export/charts/chart_sample.png?width=99999&height=10", http.StatusBadRequest},
		{"width only", "/export/charts/chart_sample.png?width=10", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, get(r, tt.target).Code)
		})
	}
}
