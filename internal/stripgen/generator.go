package stripgen

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/quasilyte/glyphstrip/bmfont"
	"github.com/quasilyte/glyphstrip/internal/buildcache"
)

type generator struct {
	config Config

	opts     Options
	source   []byte
	strip    *PixelBuffer
	segments Segmentation
	packed   *PixelBuffer
	glyphs   []Glyph
	warnings []string

	result GenerationResult
}

func newGenerator(config Config) *generator {
	return &generator{config: config}
}

type step struct {
	name string
	fn   func() error
}

func runSteps(steps []step) error {
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (g *generator) Generate() (GenerationResult, error) {
	var result GenerationResult

	steps := []step{
		{"validate config", g.validateConfig},
		{"read source", g.readSource},
	}
	if err := runSteps(steps); err != nil {
		return result, err
	}

	if g.config.Cache == nil {
		return g.build()
	}
	result, cached, err := g.config.Cache.Do(g.cacheKey(), g.build)
	if err != nil {
		return result, err
	}
	if cached {
		g.config.DebugPrint(fmt.Sprintf("%s: re-use an identical build", g.faceName()))
		result.Cached = true
	}
	return result, nil
}

func (g *generator) build() (GenerationResult, error) {
	steps := []step{
		{"decode source", g.decodeSource},
		{"segment strip", g.segmentStrip},
		{"repack glyphs", g.repackGlyphs},
		{"encode texture", g.encodeTexture},
		{"emit metrics", g.emitMetrics},
		{"write files", g.writeFiles},
	}
	if err := runSteps(steps); err != nil {
		return GenerationResult{}, err
	}

	g.result.Warnings = g.warnings
	g.result.Glyphs = g.glyphs
	return g.result, nil
}

func (g *generator) validateConfig() error {
	if g.config.Source == "" && g.config.SourceData == nil {
		return fmt.Errorf("%w: Source can't be empty", ErrConfiguration)
	}

	if g.config.DebugPrint == nil {
		g.config.DebugPrint = func(message string) {}
	}
	if g.config.OutDir == "" {
		g.config.OutDir = filepath.Dir(g.config.Source)
	}
	if g.config.TextureName == "" {
		g.config.TextureName = DefaultTextureName
	}
	if g.config.MetricsName == "" {
		g.config.MetricsName = DefaultMetricsName
	}
	for _, template := range []string{g.config.TextureName, g.config.MetricsName} {
		if !filepath.IsLocal(template) {
			return fmt.Errorf("%w: output name %q leaves the output folder", ErrConfiguration, template)
		}
	}
	if hashPlaceholder.MatchString(filepath.Dir(g.config.MetricsName)) {
		return fmt.Errorf("%w: metrics folder %q can't depend on the content hash", ErrConfiguration, g.config.MetricsName)
	}
	if g.config.Format.String() == "?" {
		return fmt.Errorf("%w: unsupported metrics format %d", ErrConfiguration, g.config.Format)
	}
	if g.config.Compression.String() == "?" {
		return fmt.Errorf("%w: unsupported compression %d", ErrConfiguration, g.config.Compression)
	}

	opts, err := NewOptions(g.config.Chars, g.config.Charset, g.config.IgnoreColumns)
	if err != nil {
		return err
	}
	opts.Exhaustion = g.config.Exhaustion
	g.opts = opts

	return nil
}

func (g *generator) readSource() error {
	p := sourceParser{config: g.config}
	data, err := p.Read()
	g.source = data
	return err
}

func (g *generator) cacheKey() string {
	var ignored strings.Builder
	for _, x := range g.config.IgnoreColumns {
		ignored.WriteString(strconv.Itoa(x))
		ignored.WriteByte(',')
	}
	settings := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%v|%v|%v",
		g.faceName(), g.config.OutDir, g.config.TextureName, g.config.MetricsName,
		string(g.opts.Chars), ignored.String(),
		g.config.Format, g.config.Compression, g.config.Exhaustion)
	charset := make([]rune, 0, g.opts.Charset.Len())
	for r := range g.opts.Charset {
		charset = append(charset, r)
	}
	slices.Sort(charset)
	return buildcache.Fingerprint(g.source, []byte(settings), []byte(string(charset)))
}

func (g *generator) faceName() string {
	if g.config.FaceName != "" {
		return g.config.FaceName
	}
	if g.config.Source == "" {
		return "font"
	}
	base := filepath.Base(g.config.Source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (g *generator) decodeSource() error {
	p := sourceParser{config: g.config}
	strip, err := p.Decode(g.source)
	if err != nil {
		return err
	}
	g.strip = strip

	for _, x := range g.config.IgnoreColumns {
		if x >= strip.Width {
			g.warnings = append(g.warnings,
				fmt.Sprintf("ignore column %d is outside of the %dpx wide strip", x, strip.Width))
		}
	}
	return nil
}

func (g *generator) segmentStrip() error {
	segments, err := Segment(g.strip, g.opts)
	if err != nil {
		return err
	}
	g.segments = segments

	if len(segments.Missing) != 0 {
		g.warnings = append(g.warnings, fmt.Sprintf("%d declared chars have no gutter column and were dropped: %q",
			len(segments.Missing), string(segments.Missing)))
	}

	counts := make(map[rune]int, len(segments.Glyphs))
	for _, glyph := range segments.Glyphs {
		counts[glyph.ID]++
	}
	for _, glyph := range segments.Glyphs {
		if n := counts[glyph.ID]; n > 1 {
			g.warnings = append(g.warnings, fmt.Sprintf("%s: declared %d times", glyph, n))
			counts[glyph.ID] = 0
		}
	}

	g.config.DebugPrint(fmt.Sprintf("%s: found %d glyphs (%d missing, synthesized space=%v)",
		g.faceName(), len(segments.Glyphs), len(segments.Missing), segments.Synthesized))
	return nil
}

func (g *generator) repackGlyphs() error {
	packed, glyphs, err := Repack(g.strip, g.segments.Glyphs)
	if err != nil {
		return err
	}
	if packed.Empty() {
		return fmt.Errorf("%w: the packed texture is %dx%d", ErrGeometry, packed.Width, packed.Height)
	}
	g.packed = packed
	g.glyphs = glyphs

	g.config.DebugPrint(fmt.Sprintf("%s: packed %dx%d strip into %dx%d texture",
		g.faceName(), g.strip.Width, g.strip.Height, packed.Width, packed.Height))
	return nil
}

func (g *generator) encodeTexture() error {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, g.packed.Image()); err != nil {
		return err
	}
	g.result.TextureData = buf.Bytes()
	name := interpolateName(g.config.TextureName, g.faceName(), "png", g.result.TextureData)
	if !filepath.IsLocal(name) {
		return fmt.Errorf("%w: texture name %q leaves the output folder", ErrConfiguration, name)
	}
	g.result.TexturePath = filepath.Join(g.config.OutDir, name)
	return nil
}

func (g *generator) emitMetrics() error {
	// Pages reference the texture relative to the metrics file.
	metricsDir := interpolateName(filepath.Dir(g.config.MetricsName), g.faceName(), g.config.Format.Ext(), nil)
	textureRef, err := filepath.Rel(filepath.Join(g.config.OutDir, metricsDir), g.result.TexturePath)
	if err != nil {
		return err
	}
	textureRef = filepath.ToSlash(textureRef)
	g.result.Metrics = Emit(g.faceName(), g.strip.Height, g.strip.Width, g.glyphs, textureRef)

	data, err := bmfont.Marshal(&g.result.Metrics, g.config.Format)
	if err != nil {
		return err
	}
	name := interpolateName(g.config.MetricsName, g.faceName(), g.config.Format.Ext(), data)
	if !filepath.IsLocal(name) {
		return fmt.Errorf("%w: metrics name %q leaves the output folder", ErrConfiguration, name)
	}
	data, err = bmfont.Compress(data, g.config.Compression)
	if err != nil {
		return err
	}
	g.result.MetricsData = data
	g.result.MetricsPath = filepath.Join(g.config.OutDir, name+g.config.Compression.Ext())
	return nil
}

func (g *generator) writeFiles() error {
	files := []struct {
		path string
		data []byte
	}{
		{g.result.TexturePath, g.result.TextureData},
		{g.result.MetricsPath, g.result.MetricsData},
	}
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), os.ModePerm); err != nil {
			return err
		}
		if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
			return err
		}
	}
	g.config.DebugPrint(fmt.Sprintf("%s: wrote %s and %s", g.faceName(), g.result.TexturePath, g.result.MetricsPath))
	return nil
}
