//go:build !gocv
// +build !gocv

package vision

import "errors"

// GoCVImageStore заглушка для сборки без OpenCV
type GoCVImageStore struct {
	*FileImageStore
}

// NewGoCVImageStore возвращает ошибку, если сборка без тега gocv.
func NewGoCVImageStore(dir string) (*GoCVImageStore, error) {
	_ = dir
	return nil, errors.New("gocv build tag is not enabled")
}
