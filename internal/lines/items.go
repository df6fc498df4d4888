package lines

import "github.com/inamate/chartlines/internal/annotation"

// RenderItem is the pixel-space projection of one line annotation for the
// current frame.
type RenderItem struct {
	X1, Y1, X2, Y2 float64

	Color    string
	Width    float64
	Style    annotation.LineStyle
	LeftTip  annotation.LineTip
	RightTip annotation.LineTip
	Text     string

	// InternalID is the item's index in the frame's item list.
	InternalID int
	ExternalID string
}

func (it *RenderItem) lineWidth() float64 {
	if it.Width > 0 {
		return it.Width
	}
	return 1
}

// RendererData is the item list a Renderer paints and hit-tests. The owning
// view replaces Items wholesale on every projection pass.
type RendererData struct {
	Items []RenderItem
}

// Hit identifies the annotation found under the pointer.
type Hit struct {
	InternalID int    `json:"internalId"`
	ExternalID string `json:"externalId,omitempty"`
}
