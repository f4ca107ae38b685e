package stripgen

import (
	"bytes"

	"github.com/bits-and-blooms/bitset"
)

// backgroundPixel is the expanded form of a transparent pixel.
// A column alpha line stores every alpha value as (a, a, a, 0xFF),
// so a gutter column is a line of backgroundPixel repeats.
var backgroundPixel = []byte{0x00, 0x00, 0x00, 0xFF}

func emptyLine(height int) []byte {
	return bytes.Repeat(backgroundPixel, height)
}

// alphaLine expands the alpha bytes of a column (see PixelBuffer.Column).
func alphaLine(column []byte, dst []byte) []byte {
	for i := alphaChannel; i < len(column); i += Channels {
		a := column[i]
		dst = append(dst, a, a, a, 0xFF)
	}
	return dst
}

// findGutters marks every column that can terminate a glyph.
func findGutters(b *PixelBuffer, ignore *bitset.BitSet) []bool {
	gutters := make([]bool, b.Width)
	empty := emptyLine(b.Height)
	line := make([]byte, 0, len(empty))
	column := make([]byte, 0, b.Height*b.Channels)
	for x := 0; x < b.Width; x++ {
		if ignore != nil && ignore.Test(uint(x)) {
			continue
		}
		column = b.Column(x, column[:0])
		line = alphaLine(column, line[:0])
		gutters[x] = bytes.Equal(line, empty)
	}
	return gutters
}

// roundedMean is round(sum/n) with halves rounded up.
func roundedMean(sum, n int) int {
	return (2*sum + n) / (2 * n)
}
