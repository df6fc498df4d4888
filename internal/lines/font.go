package lines

import (
	"strconv"

	"github.com/golang/groupcache/lru"

	"github.com/inamate/chartlines/internal/render"
)

const textWidthCacheSize = 50

func makeFont(size float64, family string) string {
	return strconv.FormatFloat(size, 'f', -1, 64) + "px " + family
}

// textWidthCache memoizes MeasureText results for the current font.
type textWidthCache struct {
	widths *lru.Cache
}

func newTextWidthCache() *textWidthCache {
	return &textWidthCache{widths: lru.New(textWidthCacheSize)}
}

func (c *textWidthCache) measure(s render.Surface, text string) float64 {
	if w, ok := c.widths.Get(text); ok {
		return w.(float64)
	}
	w := s.MeasureText(text)
	c.widths.Add(text, w)
	return w
}

func (c *textWidthCache) reset() {
	c.widths.Clear()
}

func (c *textWidthCache) len() int {
	return c.widths.Len()
}
