package stripgen

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/quasilyte/glyphstrip/bmfont"
	"github.com/quasilyte/glyphstrip/internal/buildcache"
)

// DefaultChars is the glyph order assumed when Config.Chars is empty.
const DefaultChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789.,;:?!-_~#\"'&()[]|`/\\@°+=*%€$£¢<>©®"

const (
	DefaultTextureName = "[name].[hash:8].png"
	DefaultMetricsName = "[name].[hash:8].[ext]"
)

type Config struct {
	// Source is a path to the glyph strip image.
	Source string

	// SourceData, when not nil, is used instead of reading Source.
	// Source is still used to derive the face name.
	SourceData []byte

	// FaceName overrides the face name derived from Source.
	FaceName string

	// OutDir is where the texture and the metrics document are written.
	// An empty value means the Source directory.
	OutDir string

	// Chars is the left-to-right glyph order inside the strip.
	Chars string

	// Charset lists the glyphs to keep.
	// An empty value means Chars plus a space.
	Charset string

	IgnoreColumns []int

	TextureName string
	MetricsName string

	Format      bmfont.Format
	Compression bmfont.Compression

	Exhaustion ExhaustionPolicy

	// Cache makes identical builds run at most once.
	Cache *buildcache.Group[GenerationResult]

	DebugPrint func(message string)
}

// ExhaustionPolicy decides what happens when the strip runs out of
// gutter columns before every declared char is found.
type ExhaustionPolicy int

const (
	// LenientExhaustion silently drops the chars that could not be found.
	// The generator reports them as a warning.
	LenientExhaustion ExhaustionPolicy = iota

	// StrictExhaustion makes the segmentation fail with ErrSegmentationExhausted.
	StrictExhaustion
)

func (p ExhaustionPolicy) String() string {
	switch p {
	case LenientExhaustion:
		return "lenient"
	case StrictExhaustion:
		return "strict"
	default:
		return "?"
	}
}

type GenerationResult struct {
	Warnings []string

	Glyphs  []Glyph
	Metrics bmfont.Font

	TexturePath string
	TextureData []byte
	MetricsPath string
	MetricsData []byte

	// Cached reports that the result was produced by an earlier identical build.
	Cached bool
}

func Generate(config Config) (GenerationResult, error) {
	g := newGenerator(config)
	return g.Generate()
}

// GenerateAll runs independent builds in parallel.
// Builds that share the same input and options are computed once.
// The results are returned in the configs order.
func GenerateAll(ctx context.Context, configs []Config) ([]GenerationResult, error) {
	results := make([]GenerationResult, len(configs))
	shared := buildcache.NewGroup[GenerationResult](buildcache.NewMemory[GenerationResult]())

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range configs {
		i := i
		config := configs[i]
		if config.Cache == nil {
			config.Cache = shared
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := Generate(config)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
