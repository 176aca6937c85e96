package port

// Fingerprinter вычисляет перцептивный отпечаток изображения
type Fingerprinter interface {
	Fingerprint(imageData []byte) (string, error)
}
