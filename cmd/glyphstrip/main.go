package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/quasilyte/glyphstrip"
	"github.com/quasilyte/glyphstrip/bmfont"
)

func main() {
	var ignoreColumns string
	var format string
	var compression string
	var strict bool
	var debug bool
	var config glyphstrip.Config
	flag.StringVar(&config.OutDir, "out-dir", "",
		"where to put the texture and metrics files; if empty, the source image folder is used")
	flag.StringVar(&config.FaceName, "name", "",
		"a font face name; if empty, the source image file name is used")
	flag.StringVar(&config.Chars, "chars", "",
		"the left-to-right glyph order inside the strip;\nan empty value selects the default set")
	flag.StringVar(&config.Charset, "charset", "",
		"glyphs to keep in the result;\nan empty value keeps all chars and adds a space")
	flag.StringVar(&ignoreColumns, "ignore-columns", "",
		"a comma-separated list of columns that are never treated as gutters, like `3,10-12`")
	flag.StringVar(&config.TextureName, "texture-name", glyphstrip.DefaultTextureName,
		"the texture file name template, relative to out-dir")
	flag.StringVar(&config.MetricsName, "metrics-name", glyphstrip.DefaultMetricsName,
		"the metrics file name template, relative to out-dir")
	flag.StringVar(&format, "format", "xml",
		"the metrics file format (`xml` or `text`)")
	flag.StringVar(&compression, "compress", "none",
		"the metrics file compression (`none`, `gzip`, or `zstd`)")
	flag.BoolVar(&strict, "strict", false,
		"whether to fail when the strip has fewer glyphs than declared")
	flag.BoolVar(&debug, "v", false,
		"whether to enable verbose output")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: glyphstrip [flags] strip.png...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	var err error
	config.IgnoreColumns, err = glyphstrip.ParseIgnoreColumns(ignoreColumns)
	if err != nil {
		panic(fmt.Sprintf("error: %v", err))
	}
	config.Format, err = bmfont.ParseFormat(format)
	if err != nil {
		panic(fmt.Sprintf("error: %v", err))
	}
	config.Compression, err = bmfont.ParseCompression(compression)
	if err != nil {
		panic(fmt.Sprintf("error: %v", err))
	}
	if strict {
		config.Exhaustion = glyphstrip.StrictExhaustion
	}

	if debug {
		config.DebugPrint = func(message string) {
			fmt.Fprintf(os.Stderr, "info: %s\n", message)
		}
	}

	configs := make([]glyphstrip.Config, flag.NArg())
	for i, source := range flag.Args() {
		configs[i] = config
		configs[i].Source = source
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := glyphstrip.GenerateAll(ctx, configs)
	for i, r := range results {
		for _, w := range r.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s: %v\n", configs[i].Source, w)
		}
		if debug {
			fmt.Fprintf(os.Stderr, "info: %s: %s %s\n", configs[i].Source, r.TexturePath, r.MetricsPath)
		}
	}
	if err != nil {
		panic(fmt.Sprintf("error: %v", err))
	}
}
