// Package bmface implements font.Face over a packed glyph atlas
// and its metrics document.
package bmface

import (
	"fmt"
	"image"
	"io"
	"sort"
	"unicode"

	_ "image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/quasilyte/glyphstrip/bmfont"
)

// MissingGlyphAction decides what Face.Glyph does for
// a rune that is not present in the atlas.
type MissingGlyphAction int

const (
	// EmptyMaskOnMissingGlyph makes Glyph report ok=false.
	EmptyMaskOnMissingGlyph MissingGlyphAction = iota

	// StubOnMissingGlyph makes Glyph return a stub image.
	// A stub image is a hollow rectangle outline.
	StubOnMissingGlyph

	// PanicOnMissingGlyph makes Glyph panic.
	// Useful when testing/debugging.
	PanicOnMissingGlyph
)

func (a MissingGlyphAction) String() string {
	switch a {
	case EmptyMaskOnMissingGlyph:
		return "emptymask"
	case StubOnMissingGlyph:
		return "stub"
	case PanicOnMissingGlyph:
		return "panic"
	default:
		return "?"
	}
}

type Options struct {
	MissingGlyphAction MissingGlyphAction
}

type runeAndChar struct {
	r rune
	c bmfont.Char
}

// Face renders text with a glyphstrip atlas.
//
// Like most font.Face implementations, it's not safe for concurrent use.
type Face struct {
	texture    image.Image
	lineHeight int
	base       int
	onMissing  MissingGlyphAction

	runes []runeAndChar

	stub        *image.Alpha
	stubAdvance int

	xHeight   int
	capHeight int

	lastGlyphRune  rune
	lastGlyphIndex int
}

// New creates a face from the decoded metrics and texture.
func New(metrics bmfont.Font, texture image.Image, opts Options) (*Face, error) {
	if err := metrics.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metrics: %w", err)
	}
	if opts.MissingGlyphAction.String() == "?" {
		return nil, fmt.Errorf("unsupported missing glyph action %d", opts.MissingGlyphAction)
	}

	f := &Face{
		texture:    texture,
		lineHeight: metrics.Common.LineHeight,
		base:       metrics.Common.Base,
		onMissing:  opts.MissingGlyphAction,
	}

	bounds := texture.Bounds()
	// Duplicated ids are allowed; the last record wins.
	byRune := make(map[rune]bmfont.Char, len(metrics.Chars.List))
	for _, c := range metrics.Chars.List {
		r := image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height).Add(bounds.Min)
		if !r.In(bounds) {
			return nil, fmt.Errorf("%s: glyph rect %v is outside of the %v texture", c, r, bounds)
		}
		byRune[c.ID] = c
	}
	f.runes = make([]runeAndChar, 0, len(byRune))
	for r, c := range byRune {
		f.runes = append(f.runes, runeAndChar{r: r, c: c})
	}
	sort.Slice(f.runes, func(i, j int) bool {
		return f.runes[i].r < f.runes[j].r
	})

	f.initStub(byRune)
	f.xHeight = f.inkHeight(byRune, 'x')
	f.capHeight = f.inkHeight(byRune, 'H')

	return f, nil
}

// Load decodes the metrics document and the texture image.
func Load(metrics, texture io.Reader, opts Options) (*Face, error) {
	m, err := bmfont.Decode(metrics)
	if err != nil {
		return nil, fmt.Errorf("load metrics: %w", err)
	}
	img, _, err := image.Decode(texture)
	if err != nil {
		return nil, fmt.Errorf("load texture: %w", err)
	}
	return New(m, img, opts)
}

func (f *Face) initStub(byRune map[rune]bmfont.Char) {
	width := 0
	if space, ok := byRune[' ']; ok {
		width = space.Width
	} else if len(byRune) != 0 {
		sum := 0
		for _, c := range byRune {
			sum += c.Width
		}
		width = sum / len(byRune)
	}
	width = max(width, 1)
	f.stubAdvance = width + 1

	f.stub = image.NewAlpha(image.Rect(0, 0, width, f.lineHeight))
	for y := 0; y < f.lineHeight; y++ {
		for x := 0; x < width; x++ {
			if x == 0 || y == 0 || x == width-1 || y == f.lineHeight-1 {
				f.stub.Pix[f.stub.PixOffset(x, y)] = 0xff
			}
		}
	}
}

func (f *Face) inkHeight(byRune map[rune]bmfont.Char, r rune) int {
	c, ok := byRune[r]
	if !ok {
		return 0
	}
	rect := image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height).Add(f.texture.Bounds().Min)
	ink, ok := measureInk(f.texture, rect)
	if !ok {
		return 0
	}
	return f.base - (ink.Min.Y - rect.Min.Y)
}

func (f *Face) Close() error {
	return nil
}

func (f *Face) Glyph(dot fixed.Point26_6, r rune) (dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool) {
	dx := dot.X.Floor()
	dy := dot.Y.Floor() - f.base

	c, ok := f.lookup(r)
	if !ok {
		switch f.onMissing {
		case StubOnMissingGlyph:
			dr = image.Rect(dx, dy, dx+f.stub.Rect.Dx(), dy+f.lineHeight)
			return dr, f.stub, image.Point{}, fixed.I(f.stubAdvance), true
		case PanicOnMissingGlyph:
			panic(fmt.Sprintf("requesting an undefined rune %v (%q)", r, r))
		default:
			return dr, nil, maskp, 0, false
		}
	}

	dr = image.Rect(dx, dy+c.YOffset, dx+c.Width, dy+c.YOffset+c.Height).Add(image.Pt(c.XOffset, 0))
	maskp = f.texture.Bounds().Min.Add(image.Pt(c.X, c.Y))
	return dr, f.texture, maskp, fixed.I(c.XAdvance), true
}

func (f *Face) GlyphBounds(r rune) (bounds fixed.Rectangle26_6, advance fixed.Int26_6, ok bool) {
	c, ok := f.lookup(r)
	if !ok {
		if f.onMissing != StubOnMissingGlyph {
			return bounds, advance, false
		}
		c = bmfont.Char{Width: f.stub.Rect.Dx(), Height: f.lineHeight, XAdvance: f.stubAdvance}
	}
	bounds = fixed.Rectangle26_6{
		Min: fixed.P(c.XOffset, c.YOffset-f.base),
		Max: fixed.P(c.XOffset+c.Width, c.YOffset+c.Height-f.base),
	}
	return bounds, fixed.I(c.XAdvance), true
}

func (f *Face) GlyphAdvance(r rune) (advance fixed.Int26_6, ok bool) {
	c, ok := f.lookup(r)
	if !ok {
		if f.onMissing == StubOnMissingGlyph {
			return fixed.I(f.stubAdvance), true
		}
		return 0, false
	}
	return fixed.I(c.XAdvance), true
}

// Kern moves combining marks back over the previous glyph.
func (f *Face) Kern(r0, r1 rune) fixed.Int26_6 {
	if !unicode.Is(unicode.Mn, r1) {
		return 0
	}
	advance, ok := f.GlyphAdvance(r0)
	if !ok {
		return 0
	}
	return -advance
}

func (f *Face) Metrics() font.Metrics {
	return font.Metrics{
		Height:     fixed.I(f.lineHeight),
		Ascent:     fixed.I(f.base),
		Descent:    fixed.I(f.lineHeight - f.base),
		XHeight:    fixed.I(f.xHeight),
		CapHeight:  fixed.I(f.capHeight),
		CaretSlope: image.Point{X: 0, Y: 1},
	}
}

func (f *Face) lookup(r rune) (bmfont.Char, bool) {
	slice := f.runes

	// Consecutive lookups are usually for nearby runes.
	// If the runes between them are all present, the index
	// can be computed without a search.
	{
		delta := int(r) - int(f.lastGlyphRune)
		index := uint(f.lastGlyphIndex + delta)
		if index < uint(len(slice)) && slice[index].r == r {
			return slice[index].c, true
		}
	}

	i := sort.Search(len(slice), func(i int) bool {
		return slice[i].r >= r
	})
	if i < len(slice) && slice[i].r == r {
		f.lastGlyphRune = r
		f.lastGlyphIndex = i
		return slice[i].c, true
	}
	return bmfont.Char{}, false
}
