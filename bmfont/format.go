package bmfont

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format selects the metrics document syntax.
type Format int

const (
	// FormatXML is the attribute-rich markup form.
	FormatXML Format = iota

	// FormatText is the line-oriented AngelCode text form.
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatText:
		return "text"
	default:
		return "?"
	}
}

// Ext returns a file extension (without a dot) that suits the format.
func (f Format) Ext() string {
	if f == FormatText {
		return "fnt"
	}
	return "xml"
}

func ParseFormat(s string) (Format, error) {
	switch s {
	case "xml", "":
		return FormatXML, nil
	case "text", "fnt":
		return FormatText, nil
	default:
		return 0, fmt.Errorf("unsupported metrics format %q", s)
	}
}

// Encode writes the document to w using the selected format.
func Encode(w io.Writer, f *Font, format Format) error {
	switch format {
	case FormatXML:
		return encodeXML(w, f)
	case FormatText:
		return encodeText(w, f)
	default:
		return fmt.Errorf("unsupported metrics format %v", format)
	}
}

// Marshal is like Encode, but returns the document bytes.
func Marshal(f *Font, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, f, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeXML(w io.Writer, f *Font) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(f); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// quoteText wraps s in double quotes.
// The text format has no escapes, so s can't contain a quote or a line break.
func quoteText(key, s string) (string, error) {
	if strings.ContainsAny(s, "\"\r\n") {
		return "", fmt.Errorf("%s %q can't be written in text format", key, s)
	}
	return `"` + s + `"`, nil
}

func encodeText(w io.Writer, f *Font) error {
	face, err := quoteText("face", f.Info.Face)
	if err != nil {
		return err
	}
	files := make([]string, len(f.Pages))
	for i, p := range f.Pages {
		files[i], err = quoteText("page file", p.File)
		if err != nil {
			return err
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "info face=%s size=%d\n", face, f.Info.Size)
	fmt.Fprintf(bw, "common lineHeight=%d base=%d scaleW=%d scaleH=%d pages=%d\n",
		f.Common.LineHeight, f.Common.Base, f.Common.ScaleW, f.Common.ScaleH, f.Common.Pages)
	for i, p := range f.Pages {
		fmt.Fprintf(bw, "page id=%d file=%s\n", p.ID, files[i])
	}
	fmt.Fprintf(bw, "chars count=%d\n", f.Chars.Count)
	for _, c := range f.Chars.List {
		fmt.Fprintf(bw, "char id=%d x=%d y=%d width=%d height=%d xoffset=%d yoffset=%d xadvance=%d page=%d\n",
			c.ID, c.X, c.Y, c.Width, c.Height, c.XOffset, c.YOffset, c.XAdvance, c.Page)
	}
	return bw.Flush()
}

// Decode reads a metrics document in any supported format.
// Compressed documents (see Compress) are unwrapped automatically.
func Decode(r io.Reader) (Font, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Font{}, err
	}
	data, err = decompress(data)
	if err != nil {
		return Font{}, fmt.Errorf("decompress: %w", err)
	}

	var f Font
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("<")) {
		if err := xml.Unmarshal(trimmed, &f); err != nil {
			return Font{}, fmt.Errorf("decode xml: %w", err)
		}
		return f, nil
	}
	if err := decodeText(trimmed, &f); err != nil {
		return Font{}, fmt.Errorf("decode text: %w", err)
	}
	return f, nil
}

func decodeText(data []byte, f *Font) error {
	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		tag, attrs, err := splitTextLine(l)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		if err := applyTextLine(f, tag, attrs); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}

func applyTextLine(f *Font, tag string, attrs map[string]string) error {
	var err error
	num := func(key string) int {
		s, ok := attrs[key]
		if !ok || err != nil {
			return 0
		}
		v, parseErr := strconv.Atoi(s)
		if parseErr != nil {
			err = fmt.Errorf("%s.%s: %w", tag, key, parseErr)
		}
		return v
	}

	switch tag {
	case "info":
		f.Info = Info{Face: attrs["face"], Size: num("size")}
	case "common":
		f.Common = Common{
			LineHeight: num("lineHeight"),
			Base:       num("base"),
			ScaleW:     num("scaleW"),
			ScaleH:     num("scaleH"),
			Pages:      num("pages"),
		}
	case "page":
		f.Pages = append(f.Pages, Page{ID: num("id"), File: attrs["file"]})
	case "chars":
		f.Chars.Count = num("count")
	case "char":
		f.Chars.List = append(f.Chars.List, Char{
			ID:       rune(num("id")),
			X:        num("x"),
			Y:        num("y"),
			Width:    num("width"),
			Height:   num("height"),
			XOffset:  num("xoffset"),
			YOffset:  num("yoffset"),
			XAdvance: num("xadvance"),
			Page:     num("page"),
		})
	default:
		// Kerning pairs and other blocks are not produced by glyphstrip.
	}
	return err
}

var errUnterminatedQuote = errors.New("unterminated quoted value")

func splitTextLine(l string) (string, map[string]string, error) {
	tag, rest, _ := strings.Cut(l, " ")
	attrs := make(map[string]string)
	rest = strings.TrimSpace(rest)
	for rest != "" {
		key, tail, ok := strings.Cut(rest, "=")
		if !ok {
			return "", nil, fmt.Errorf("missing '=' in %q", rest)
		}
		key = strings.TrimSpace(key)
		var value string
		if strings.HasPrefix(tail, `"`) {
			end := strings.IndexByte(tail[1:], '"')
			if end == -1 {
				return "", nil, errUnterminatedQuote
			}
			value = tail[1 : end+1]
			tail = tail[end+2:]
		} else {
			end := strings.IndexByte(tail, ' ')
			if end == -1 {
				end = len(tail)
			}
			value = tail[:end]
			tail = tail[end:]
		}
		attrs[key] = value
		rest = strings.TrimSpace(tail)
	}
	return tag, attrs, nil
}
