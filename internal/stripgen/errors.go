package stripgen

import (
	"errors"
)

var (
	ErrConfiguration         = errors.New("configuration error")
	ErrSegmentationExhausted = errors.New("segmentation exhausted")
	ErrGeometry              = errors.New("geometry error")
)
