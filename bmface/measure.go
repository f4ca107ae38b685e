package bmface

import (
	"image"
)

// measureInk returns the bounds of the visible pixels inside rect.
func measureInk(img image.Image, rect image.Rectangle) (image.Rectangle, bool) {
	minX, minY := rect.Max.X, rect.Max.Y
	maxX, maxY := rect.Min.X-1, rect.Min.Y-1

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}

	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
