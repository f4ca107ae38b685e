package bmface

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/quasilyte/glyphstrip/bmfont"
	"github.com/quasilyte/glyphstrip/internal/stripgen"
)

// newTestAtlas packs a "Hx" strip with 8px line height.
//
//	H: columns 0-3, ink on rows 1-7
//	x: columns 5-7, ink on rows 4-7
func newTestAtlas(t *testing.T) (bmfont.Font, *image.NRGBA) {
	t.Helper()

	strip := image.NewNRGBA(image.Rect(0, 0, 9, 8))
	fill := func(x0, x1, y0, y1 int) {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				strip.SetNRGBA(x, y, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
			}
		}
	}
	fill(0, 3, 1, 7)
	fill(5, 7, 4, 7)

	buf := stripgen.PixelBufferFromImage(strip)
	opts, err := stripgen.NewOptions("Hx", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	seg, err := stripgen.Segment(buf, opts)
	if err != nil {
		t.Fatal(err)
	}
	packed, glyphs, err := stripgen.Repack(buf, seg.Glyphs)
	if err != nil {
		t.Fatal(err)
	}
	return stripgen.Emit("test", buf.Height, buf.Width, glyphs, "test.png"), packed.Image()
}

func newTestFace(t *testing.T, opts Options) *Face {
	t.Helper()
	metrics, texture := newTestAtlas(t)
	face, err := New(metrics, texture, opts)
	if err != nil {
		t.Fatal(err)
	}
	return face
}

func TestFaceDraw(t *testing.T) {
	face := newTestFace(t, Options{})
	dst := image.NewAlpha(image.Rect(0, 0, 20, 8))
	d := font.Drawer{
		Dst:  dst,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, 8),
	}
	d.DrawString("xH")

	tests := []struct {
		x, y int
		want uint8
	}{
		{1, 5, 0xff}, // x ink
		{1, 2, 0},    // above x
		{3, 5, 0},    // x separator
		{5, 1, 0xff}, // H ink
		{5, 0, 0},    // above H
		{7, 7, 0xff},
		{8, 4, 0},
	}
	for _, test := range tests {
		if have := dst.AlphaAt(test.x, test.y).A; have != test.want {
			t.Errorf("(%d, %d): have alpha %d, want %d", test.x, test.y, have, test.want)
		}
	}

	if have := d.Dot.X; have != fixed.I(9) {
		t.Errorf("have dot.X=%v after drawing, want 9", have)
	}
}

func TestFaceMeasure(t *testing.T) {
	face := newTestFace(t, Options{})

	// H=4+1, x=3+1, synthesized space=round(3.5)+1.
	if have := font.MeasureString(face, "xH "); have != fixed.I(14) {
		t.Errorf("have width %v, want 14", have)
	}

	bounds, advance, ok := face.GlyphBounds('H')
	if !ok {
		t.Fatal("no bounds for H")
	}
	if advance != fixed.I(5) {
		t.Errorf("have H advance %v, want 5", advance)
	}
	wantBounds := fixed.R(0, -8, 4, 0)
	if bounds != wantBounds {
		t.Errorf("have H bounds %v, want %v", bounds, wantBounds)
	}

	m := face.Metrics()
	if m.Height != fixed.I(8) || m.Ascent != fixed.I(8) || m.Descent != 0 {
		t.Errorf("unexpected metrics %+v", m)
	}
	if m.CapHeight != fixed.I(7) || m.XHeight != fixed.I(4) {
		t.Errorf("have cap height %v and x-height %v, want 7 and 4", m.CapHeight, m.XHeight)
	}

	if k := face.Kern('x', '\u0301'); k != -fixed.I(4) {
		t.Errorf("have combining mark kern %v, want -4", k)
	}
	if k := face.Kern('x', 'H'); k != 0 {
		t.Errorf("have kern %v, want 0", k)
	}
}

func TestFaceMissingGlyph(t *testing.T) {
	t.Run("emptymask", func(t *testing.T) {
		face := newTestFace(t, Options{})
		if _, _, _, _, ok := face.Glyph(fixed.P(0, 8), 'Q'); ok {
			t.Errorf("Glyph reports a missing rune")
		}
		if _, ok := face.GlyphAdvance('Q'); ok {
			t.Errorf("GlyphAdvance reports a missing rune")
		}
	})

	t.Run("stub", func(t *testing.T) {
		face := newTestFace(t, Options{MissingGlyphAction: StubOnMissingGlyph})
		dr, mask, _, advance, ok := face.Glyph(fixed.P(2, 8), 'Q')
		if !ok {
			t.Fatal("stub glyph is not returned")
		}
		stub, isAlpha := mask.(*image.Alpha)
		if !isAlpha {
			t.Fatalf("have %T mask, want a stub image", mask)
		}
		for _, p := range []image.Point{{0, 0}, {3, 0}, {0, 7}, {3, 7}, {2, 0}, {0, 4}} {
			if a := stub.AlphaAt(p.X, p.Y).A; a != 0xff {
				t.Errorf("stub outline at %v: have alpha %d", p, a)
			}
		}
		for _, p := range []image.Point{{1, 1}, {2, 6}, {1, 4}} {
			if a := stub.AlphaAt(p.X, p.Y).A; a != 0 {
				t.Errorf("stub interior at %v: have alpha %d", p, a)
			}
		}
		if dr != image.Rect(2, 0, 6, 8) {
			t.Errorf("have stub rect %v", dr)
		}
		if advance != fixed.I(5) {
			t.Errorf("have stub advance %v, want 5", advance)
		}
		if _, _, ok := face.GlyphBounds('Q'); !ok {
			t.Errorf("GlyphBounds doesn't report a stub")
		}
	})

	t.Run("panic", func(t *testing.T) {
		face := newTestFace(t, Options{MissingGlyphAction: PanicOnMissingGlyph})
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected a panic")
			}
		}()
		face.Glyph(fixed.P(0, 8), 'Q')
	})
}

func TestFaceDuplicateLastWins(t *testing.T) {
	metrics := bmfont.Font{
		Info:   bmfont.Info{Face: "dup", Size: 2},
		Common: bmfont.Common{LineHeight: 2, Base: 2, ScaleW: 8, ScaleH: 2, Pages: 1},
		Pages:  []bmfont.Page{{File: "dup.png"}},
		Chars: bmfont.Chars{
			Count: 2,
			List: []bmfont.Char{
				{ID: 'A', X: 0, Width: 1, Height: 2, XAdvance: 2},
				{ID: 'A', X: 2, Width: 3, Height: 2, XAdvance: 4},
			},
		},
	}
	face, err := New(metrics, image.NewNRGBA(image.Rect(0, 0, 6, 2)), Options{})
	if err != nil {
		t.Fatal(err)
	}
	advance, ok := face.GlyphAdvance('A')
	if !ok || advance != fixed.I(4) {
		t.Errorf("have advance %v (ok=%v), want 4", advance, ok)
	}
}

func TestFaceLookup(t *testing.T) {
	metrics := bmfont.Font{
		Common: bmfont.Common{LineHeight: 1, Base: 1, Pages: 1},
		Pages:  []bmfont.Page{{File: "lookup.png"}},
	}
	for _, r := range "abcdfgz" {
		metrics.Chars.List = append(metrics.Chars.List, bmfont.Char{ID: r, X: int(r - 'a'), Width: 1, Height: 1, XAdvance: int(r)})
	}
	metrics.Chars.Count = len(metrics.Chars.List)
	face, err := New(metrics, image.NewNRGBA(image.Rect(0, 0, 26, 1)), Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range "abcdzaefgdc" {
		advance, ok := face.GlyphAdvance(r)
		want := r != 'e'
		if ok != want {
			t.Errorf("%q: have ok=%v", r, ok)
			continue
		}
		if ok && advance != fixed.I(int(r)) {
			t.Errorf("%q: found a wrong glyph with advance %v", r, advance)
		}
	}
}

func TestLoad(t *testing.T) {
	metrics, texture := newTestAtlas(t)

	metricsData, err := bmfont.Marshal(&metrics, bmfont.FormatText)
	if err != nil {
		t.Fatal(err)
	}
	metricsData, err = bmfont.Compress(metricsData, bmfont.ZstdCompression)
	if err != nil {
		t.Fatal(err)
	}
	var textureData bytes.Buffer
	if err := png.Encode(&textureData, texture); err != nil {
		t.Fatal(err)
	}

	face, err := Load(bytes.NewReader(metricsData), &textureData, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if advance, ok := face.GlyphAdvance('x'); !ok || advance != fixed.I(4) {
		t.Errorf("have x advance %v (ok=%v), want 4", advance, ok)
	}

	if _, err := Load(bytes.NewReader(metricsData), bytes.NewReader([]byte("junk")), Options{}); err == nil {
		t.Errorf("expected a texture decoding error")
	}
}

func TestNewErrors(t *testing.T) {
	metrics, texture := newTestAtlas(t)

	small := image.NewNRGBA(image.Rect(0, 0, 4, 8))
	if _, err := New(metrics, small, Options{}); err == nil {
		t.Errorf("glyphs outside of the texture are not detected")
	}

	broken := metrics
	broken.Chars.Count++
	if _, err := New(broken, texture, Options{}); err == nil {
		t.Errorf("invalid metrics are not detected")
	}

	if _, err := New(metrics, texture, Options{MissingGlyphAction: 10}); err == nil {
		t.Errorf("unsupported missing glyph action is not detected")
	}
}
