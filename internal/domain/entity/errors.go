package entity

import (
	"errors"
	"fmt"
)

var (
	ErrImageTooSmall         = errors.New("image is too small for tiling")
	ErrNoValidZones          = errors.New("no valid zones")
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	ErrAggregation           = errors.New("aggregation failed")
	ErrEmptyImage            = errors.New("empty image")
	ErrNotFound              = errors.New("not found")
)

// SizeError изображение или ячейка сетки меньше допустимого
type SizeError struct {
	Width      int
	Height     int
	CellWidth  int
	CellHeight int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("image %dx%d (cell %dx%d) is too small for tiling", e.Width, e.Height, e.CellWidth, e.CellHeight)
}

// Is позволяет сравнивать через errors.Is(err, ErrImageTooSmall)
func (e *SizeError) Is(target error) bool {
	return target == ErrImageTooSmall
}
