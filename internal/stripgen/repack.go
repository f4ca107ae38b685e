package stripgen

import (
	"fmt"
)

// Repack copies the glyphs into a new single-row texture.
//
// Every glyph occupies Width+1 columns: the glyph itself followed
// by its transparent separator. Synthesized glyphs keep their
// region zero-filled. The returned glyphs have PackedX set;
// the input slice is not modified.
//
// An empty glyph list results in a zero-size buffer.
func Repack(src *PixelBuffer, glyphs []Glyph) (*PixelBuffer, []Glyph, error) {
	if err := src.validate(); err != nil {
		return nil, nil, err
	}

	width := 0
	for _, g := range glyphs {
		if g.Width < 0 {
			return nil, nil, fmt.Errorf("%w: %s has negative width %d", ErrGeometry, g, g.Width)
		}
		if g.Backed() && (g.SourceX < 0 || g.SourceX+g.Width > src.Width) {
			return nil, nil, fmt.Errorf("%w: %s spans [%d, %d) outside of the %dpx wide strip",
				ErrGeometry, g, g.SourceX, g.SourceX+g.Width, src.Width)
		}
		width += g.Width + 1
	}

	height := src.Height
	if width == 0 {
		height = 0
	}
	dst := NewPixelBuffer(width, height)
	packed := make([]Glyph, len(glyphs))

	x := 0
	for i, g := range glyphs {
		g.PackedX = x
		packed[i] = g
		x += g.Width + 1
		if !g.Backed() {
			continue
		}
		// The separator is the gutter column right after the glyph.
		// It's absent only when the glyph touches the strip edge.
		numColumns := min(g.Width+1, src.Width-g.SourceX)
		rowBytes := numColumns * Channels
		for y := 0; y < height; y++ {
			from := src.PixOffset(g.SourceX, y)
			to := dst.PixOffset(g.PackedX, y)
			copy(dst.Pix[to:to+rowBytes], src.Pix[from:from+rowBytes])
		}
	}

	return dst, packed, nil
}
