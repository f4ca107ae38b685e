package stripgen

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/text/unicode/norm"
)

// Charset is a set of runes to keep in the output.
type Charset map[rune]struct{}

func NewCharset(runes ...rune) Charset {
	set := make(Charset, len(runes))
	for _, r := range runes {
		set[r] = struct{}{}
	}
	return set
}

func (s Charset) Has(r rune) bool {
	_, ok := s[r]
	return ok
}

func (s Charset) Len() int { return len(s) }

// MaxIgnoreColumn is the largest column index that can be ignored.
// It is far beyond any texture size a GPU accepts.
const MaxIgnoreColumn = 1<<20 - 1

// Options control the segmentation.
type Options struct {
	// Chars is the declared left-to-right glyph order.
	Chars []rune

	Charset Charset

	// IgnoreColumns are never treated as gutters.
	IgnoreColumns *bitset.BitSet

	Exhaustion ExhaustionPolicy
}

// NewOptions builds the segmentation options from their textual form.
// Empty chars and charset select the defaults.
// Both strings are NFC-normalized, so a precomposed and a decomposed
// accented letter declare the same glyph.
func NewOptions(chars, charset string, ignoreColumns []int) (Options, error) {
	if chars == "" {
		chars = DefaultChars
	}
	if charset == "" {
		charset = " " + chars
	}

	opts := Options{
		Chars:         []rune(norm.NFC.String(chars)),
		Charset:       NewCharset([]rune(norm.NFC.String(charset))...),
		IgnoreColumns: bitset.New(0),
	}
	for _, x := range ignoreColumns {
		if x < 0 {
			return opts, fmt.Errorf("%w: negative ignore column %d", ErrConfiguration, x)
		}
		if x > MaxIgnoreColumn {
			return opts, fmt.Errorf("%w: ignore column %d exceeds %d", ErrConfiguration, x, MaxIgnoreColumn)
		}
		opts.IgnoreColumns.Set(uint(x))
	}

	return opts, opts.Validate()
}

// Validate reports configurations that can't produce any glyph.
func (o Options) Validate() error {
	if len(o.Chars) == 0 {
		return fmt.Errorf("%w: chars can't be empty", ErrConfiguration)
	}
	retained := 0
	for _, ch := range o.Chars {
		if o.Charset.Has(ch) {
			retained++
		}
	}
	if retained == 0 {
		return fmt.Errorf("%w: none of the %d declared chars are in the charset", ErrConfiguration, len(o.Chars))
	}
	return nil
}

func (o Options) needsSpace() bool {
	return o.Charset.Has(' ') && !slices.Contains(o.Chars, ' ')
}

// ParseIgnoreColumns parses a comma-separated list of column indices.
// Inclusive ranges like "10-12" are accepted as well.
func ParseIgnoreColumns(s string) ([]int, error) {
	var columns []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("%w: parse ignore column %q: %w", ErrConfiguration, part, err)
		}
		last := first
		if isRange {
			last, err = strconv.Atoi(strings.TrimSpace(to))
			if err != nil {
				return nil, fmt.Errorf("%w: parse ignore column %q: %w", ErrConfiguration, part, err)
			}
			if last < first {
				return nil, fmt.Errorf("%w: empty ignore column range %q", ErrConfiguration, part)
			}
		}
		if last > MaxIgnoreColumn {
			return nil, fmt.Errorf("%w: ignore column %d exceeds %d", ErrConfiguration, last, MaxIgnoreColumn)
		}
		for x := first; x <= last; x++ {
			columns = append(columns, x)
		}
	}
	return columns, nil
}

type sourceParser struct {
	config Config
}

func (p *sourceParser) Read() ([]byte, error) {
	if p.config.SourceData != nil {
		return p.config.SourceData, nil
	}
	return os.ReadFile(p.config.Source)
}

func (p *sourceParser) Decode(data []byte) (*PixelBuffer, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	p.config.DebugPrint(fmt.Sprintf("decoded %s %dx%d image", format, img.Bounds().Dx(), img.Bounds().Dy()))
	return PixelBufferFromImage(img), nil
}
