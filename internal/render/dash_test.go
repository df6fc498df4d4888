package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inamate/chartlines/internal/annotation"
)

func TestDashPattern(t *testing.T) {
	tests := []struct {
		style annotation.LineStyle
		want  []float64
	}{
		{annotation.LineStyleSolid, []float64{}},
		{annotation.LineStyleDotted, []float64{2, 2}},
		{annotation.LineStyleDashed, []float64{4, 4}},
		{annotation.LineStyleLargeDashed, []float64{12, 12}},
		{annotation.LineStyleSparseDotted, []float64{2, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.style.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, DashPattern(tt.style, 2))
		})
	}
}
