package glyphstrip

import (
	"context"

	"github.com/quasilyte/glyphstrip/bmfont"
	"github.com/quasilyte/glyphstrip/internal/buildcache"
	"github.com/quasilyte/glyphstrip/internal/stripgen"
)

// Config contains all exported atlas generator options.
type Config = stripgen.Config

// ExhaustionPolicy decides what happens when a glyph strip has
// fewer glyphs than Config.Chars declares.
type ExhaustionPolicy = stripgen.ExhaustionPolicy

const (
	// LenientExhaustion drops the chars that were not found
	// and reports them in [GenerationResult.Warnings].
	LenientExhaustion = stripgen.LenientExhaustion

	// StrictExhaustion turns missing chars into an error.
	StrictExhaustion = stripgen.StrictExhaustion
)

// DefaultChars is the glyph order used when Config.Chars is empty.
const DefaultChars = stripgen.DefaultChars

// Default output file name templates.
// See [Config.TextureName] and [Config.MetricsName].
const (
	DefaultTextureName = stripgen.DefaultTextureName
	DefaultMetricsName = stripgen.DefaultMetricsName
)

type GenerationResult = stripgen.GenerationResult

// Errors reported by the generator.
// Use errors.Is to check for them.
var (
	ErrConfiguration         = stripgen.ErrConfiguration
	ErrSegmentationExhausted = stripgen.ErrSegmentationExhausted
	ErrGeometry              = stripgen.ErrGeometry
)

// PixelBuffer is a raw 4-channel image used by the core functions.
type PixelBuffer = stripgen.PixelBuffer

// Glyph is a single recognized character.
type Glyph = stripgen.Glyph

// Options control Segment.
type Options = stripgen.Options

type Segmentation = stripgen.Segmentation

// Cache makes repeated identical builds run at most once.
// It can be shared between several Generate calls.
type Cache = buildcache.Group[GenerationResult]

// NewCache creates an in-memory build cache.
func NewCache() *Cache {
	return buildcache.NewGroup[GenerationResult](buildcache.NewMemory[GenerationResult]())
}

// Generate creates a packed texture and a metrics document
// following the options specified in config.
//
// Its main output will be stored on a local filesystem.
// See [Config.OutDir].
func Generate(config Config) (GenerationResult, error) {
	return stripgen.Generate(config)
}

// GenerateAll runs several independent builds in parallel.
func GenerateAll(ctx context.Context, configs []Config) ([]GenerationResult, error) {
	return stripgen.GenerateAll(ctx, configs)
}

// NewOptions parses the textual segmentation options.
// Empty chars and charset select the defaults.
func NewOptions(chars, charset string, ignoreColumns []int) (Options, error) {
	return stripgen.NewOptions(chars, charset, ignoreColumns)
}

// ParseIgnoreColumns parses a list like "3,10-12".
func ParseIgnoreColumns(s string) ([]int, error) {
	return stripgen.ParseIgnoreColumns(s)
}

// Segment finds the glyphs inside the strip.
func Segment(strip *PixelBuffer, opts Options) (Segmentation, error) {
	return stripgen.Segment(strip, opts)
}

// Repack copies the glyphs into a new tightly packed texture.
func Repack(strip *PixelBuffer, glyphs []Glyph) (*PixelBuffer, []Glyph, error) {
	return stripgen.Repack(strip, glyphs)
}

// Emit builds the metrics document for the packed glyphs.
func Emit(faceName string, lineHeight, sourceWidth int, glyphs []Glyph, textureRef string) bmfont.Font {
	return stripgen.Emit(faceName, lineHeight, sourceWidth, glyphs, textureRef)
}
