package stripgen

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Channels is the only channel layout the core works with:
// non-premultiplied R, G, B, A bytes.
const Channels = 4

const alphaChannel = Channels - 1

// PixelBuffer is a row-major raw pixel grid.
//
// Buffers passed to Segment and Repack are never modified.
type PixelBuffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// NewPixelBuffer allocates a zero-filled (fully transparent) buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:    width,
		Height:   height,
		Channels: Channels,
		Pix:      make([]byte, width*height*Channels),
	}
}

// PixelBufferFromImage converts any decoded image into a 4-channel buffer.
// Images without an alpha channel become fully opaque.
func PixelBufferFromImage(img image.Image) *PixelBuffer {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != b.Dx()*Channels || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	pix := make([]byte, len(nrgba.Pix))
	copy(pix, nrgba.Pix)
	return &PixelBuffer{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: Channels,
		Pix:      pix,
	}
}

// Image returns a copy of the buffer as an image.
func (b *PixelBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix)
	return img
}

func (b *PixelBuffer) Stride() int { return b.Width * b.Channels }

func (b *PixelBuffer) PixOffset(x, y int) int {
	return y*b.Stride() + x*b.Channels
}

// At returns the pixel bytes at (x, y).
func (b *PixelBuffer) At(x, y int) []byte {
	i := b.PixOffset(x, y)
	return b.Pix[i : i+b.Channels : i+b.Channels]
}

// Alpha returns the alpha value at (x, y).
func (b *PixelBuffer) Alpha(x, y int) byte {
	return b.Pix[b.PixOffset(x, y)+alphaChannel]
}

// Column appends the bytes of column x (top to bottom) to dst.
func (b *PixelBuffer) Column(x int, dst []byte) []byte {
	for y := 0; y < b.Height; y++ {
		dst = append(dst, b.At(x, y)...)
	}
	return dst
}

// Empty reports whether the buffer has no pixels at all.
func (b *PixelBuffer) Empty() bool {
	return b.Width == 0 || b.Height == 0
}

func (b *PixelBuffer) validate() error {
	if b.Channels != Channels {
		return fmt.Errorf("%w: %d channels buffer, expected %d", ErrGeometry, b.Channels, Channels)
	}
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("%w: negative buffer size %dx%d", ErrGeometry, b.Width, b.Height)
	}
	if len(b.Pix) != b.Width*b.Height*b.Channels {
		return fmt.Errorf("%w: %dx%d buffer has %d bytes, expected %d",
			ErrGeometry, b.Width, b.Height, len(b.Pix), b.Width*b.Height*b.Channels)
	}
	return nil
}
