package vision

import (
	"bytes"
	"fmt"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"

	"recognition-bot/internal/domain/port"
)

// DHashFingerprinter перцептивный отпечаток (difference hash).
// Похожие изображения дают близкие отпечатки, что позволяет находить повторные загрузки в истории.
type DHashFingerprinter struct{}

func NewDHashFingerprinter() *DHashFingerprinter {
	return &DHashFingerprinter{}
}

func (DHashFingerprinter) Fingerprint(imageData []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return "", fmt.Errorf("hash image: %w", err)
	}
	return hash.ToString(), nil
}

var _ port.Fingerprinter = (*DHashFingerprinter)(nil)
