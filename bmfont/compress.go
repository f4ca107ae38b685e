package bmfont

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression selects an optional wrapping for the encoded document.
type Compression int

const (
	NoCompression Compression = iota
	GzipCompression
	ZstdCompression
)

func (c Compression) String() string {
	switch c {
	case NoCompression:
		return "none"
	case GzipCompression:
		return "gzip"
	case ZstdCompression:
		return "zstd"
	default:
		return "?"
	}
}

// Ext returns a file extension suffix (including the dot)
// or an empty string for uncompressed documents.
func (c Compression) Ext() string {
	switch c {
	case GzipCompression:
		return ".gz"
	case ZstdCompression:
		return ".zst"
	default:
		return ""
	}
}

func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none", "":
		return NoCompression, nil
	case "gzip", "gz":
		return GzipCompression, nil
	case "zstd", "zst":
		return ZstdCompression, nil
	default:
		return 0, fmt.Errorf("unsupported compression %q", s)
	}
}

// Compress wraps the encoded document data.
func Compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case NoCompression:
		return data, nil

	case GzipCompression:
		var compressed bytes.Buffer
		gzw, err := gzip.NewWriterLevel(&compressed, gzip.BestCompression)
		if err != nil {
			return nil, err
		}
		if _, err := gzw.Write(data); err != nil {
			return nil, err
		}
		if err := gzw.Close(); err != nil {
			return nil, err
		}
		return compressed.Bytes(), nil

	case ZstdCompression:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil

	default:
		return nil, fmt.Errorf("unsupported compression %v", c)
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		gzr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer gzr.Close()
		return io.ReadAll(gzr)

	case bytes.HasPrefix(data, zstdMagic):
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)

	default:
		return data, nil
	}
}
