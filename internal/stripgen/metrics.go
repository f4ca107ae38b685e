package stripgen

import (
	"github.com/quasilyte/glyphstrip/bmfont"
)

// Emit builds the metrics document for the packed glyphs.
//
// The glyphs are expected to come from Repack.
// textureRef is the file name of the encoded packed texture.
func Emit(faceName string, lineHeight, sourceWidth int, glyphs []Glyph, textureRef string) bmfont.Font {
	chars := make([]bmfont.Char, len(glyphs))
	for i, g := range glyphs {
		chars[i] = bmfont.Char{
			ID:       g.ID,
			X:        g.PackedX,
			Y:        0,
			Width:    g.Width,
			Height:   lineHeight,
			XAdvance: g.Width + 1,
			Page:     0,
		}
	}

	return bmfont.Font{
		Info: bmfont.Info{
			Face: faceName,
			Size: lineHeight,
		},
		Common: bmfont.Common{
			LineHeight: lineHeight,
			Base:       lineHeight,
			ScaleW:     sourceWidth,
			ScaleH:     lineHeight,
			Pages:      1,
		},
		Pages: []bmfont.Page{
			{ID: 0, File: textureRef},
		},
		Chars: bmfont.Chars{
			Count: len(chars),
			List:  chars,
		},
	}
}
