package stripgen

import (
	"fmt"
	"slices"
)

// NoSource is the SourceX of glyphs that have no pixels in the strip.
const NoSource = -1

// Glyph describes one recognized character.
type Glyph struct {
	ID rune

	// SourceX is the first column of the glyph inside the strip
	// or NoSource for a synthesized glyph.
	SourceX int

	// PackedX is the first column inside the packed texture.
	// It's only meaningful for glyphs returned by Repack.
	PackedX int

	Width  int
	Height int
}

// Backed reports whether the glyph has pixels in the source strip.
func (g Glyph) Backed() bool { return g.SourceX != NoSource }

func (g Glyph) String() string {
	return fmt.Sprintf("%v(%q)", g.ID, g.ID)
}

// Segmentation is a Segment result.
type Segmentation struct {
	Glyphs []Glyph

	// Missing lists the declared chars that were not found
	// because the strip ran out of gutter columns.
	Missing []rune

	// Synthesized is true if a space glyph was appended.
	Synthesized bool
}

// Segment splits the strip into glyphs following opts.Chars order.
//
// Every char spans from the cursor up to the next gutter column,
// which is a non-ignored column with all alpha values equal to zero.
// Chars outside of opts.Charset still move the cursor.
func Segment(buf *PixelBuffer, opts Options) (Segmentation, error) {
	var result Segmentation
	if err := buf.validate(); err != nil {
		return result, err
	}

	gutters := findGutters(buf, opts.IgnoreColumns)

	x0 := 0
	for i, ch := range opts.Chars {
		boundary := -1
		for x := x0; x < buf.Width; x++ {
			if gutters[x] {
				boundary = x
				break
			}
		}
		if boundary == -1 {
			// The cursor can't move anymore, so none of the
			// remaining chars can be found either.
			result.Missing = slices.Clone(opts.Chars[i:])
			break
		}
		if opts.Charset.Has(ch) {
			result.Glyphs = append(result.Glyphs, Glyph{
				ID:      ch,
				SourceX: x0,
				Width:   boundary - x0,
				Height:  buf.Height,
			})
		}
		x0 = boundary + 1
	}

	if len(result.Missing) != 0 && opts.Exhaustion == StrictExhaustion {
		return result, fmt.Errorf("%w: %d of %d chars have no gutter column, starting from %q",
			ErrSegmentationExhausted, len(result.Missing), len(opts.Chars), result.Missing[0])
	}

	if opts.needsSpace() && len(result.Glyphs) != 0 {
		sum := 0
		for _, g := range result.Glyphs {
			sum += g.Width
		}
		result.Glyphs = append(result.Glyphs, Glyph{
			ID:      ' ',
			SourceX: NoSource,
			Width:   roundedMean(sum, len(result.Glyphs)),
			Height:  buf.Height,
		})
		result.Synthesized = true
	}

	return result, nil
}
