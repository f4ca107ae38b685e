// Package bmfont describes the font metrics document that accompanies
// a packed glyph atlas.
//
// The document layout follows the AngelCode BMFont conventions:
// an info block, a common block, exactly one page and a list of chars.
package bmfont

import (
	"encoding/xml"
	"fmt"
)

// Font is a complete metrics document.
type Font struct {
	XMLName xml.Name `xml:"font"`
	Info    Info     `xml:"info"`
	Common  Common   `xml:"common"`
	Pages   []Page   `xml:"pages>page"`
	Chars   Chars    `xml:"chars"`
}

type Info struct {
	Face string `xml:"face,attr"`
	Size int    `xml:"size,attr"`
}

type Common struct {
	LineHeight int `xml:"lineHeight,attr"`
	Base       int `xml:"base,attr"`
	ScaleW     int `xml:"scaleW,attr"`
	ScaleH     int `xml:"scaleH,attr"`
	Pages      int `xml:"pages,attr"`
}

type Page struct {
	ID   int    `xml:"id,attr"`
	File string `xml:"file,attr"`
}

type Chars struct {
	Count int    `xml:"count,attr"`
	List  []Char `xml:"char"`
}

// Char is a single glyph record.
//
// X is the glyph offset inside the packed texture.
// XAdvance is always Width+1 for the documents produced by glyphstrip:
// the extra pixel is the transparent separator column.
type Char struct {
	ID       rune `xml:"id,attr"`
	X        int  `xml:"x,attr"`
	Y        int  `xml:"y,attr"`
	Width    int  `xml:"width,attr"`
	Height   int  `xml:"height,attr"`
	XOffset  int  `xml:"xoffset,attr"`
	YOffset  int  `xml:"yoffset,attr"`
	XAdvance int  `xml:"xadvance,attr"`
	Page     int  `xml:"page,attr"`
}

func (c Char) String() string {
	return fmt.Sprintf("%v(%q)@%d+%d", c.ID, c.ID, c.X, c.Width)
}

// Validate checks the document shape that runtime consumers rely on.
func (f *Font) Validate() error {
	if len(f.Pages) != 1 {
		return fmt.Errorf("expected exactly 1 page, found %d", len(f.Pages))
	}
	if f.Common.Pages != len(f.Pages) {
		return fmt.Errorf("common.pages=%d doesn't match %d page entries", f.Common.Pages, len(f.Pages))
	}
	if f.Chars.Count != len(f.Chars.List) {
		return fmt.Errorf("chars.count=%d doesn't match %d char entries", f.Chars.Count, len(f.Chars.List))
	}
	if f.Common.LineHeight <= 0 {
		return fmt.Errorf("invalid line height %d", f.Common.LineHeight)
	}
	for _, c := range f.Chars.List {
		if c.Width < 0 || c.Height < 0 {
			return fmt.Errorf("%s: negative glyph size", c)
		}
		if c.Page != 0 {
			return fmt.Errorf("%s: page %d is out of range", c, c.Page)
		}
	}
	return nil
}
