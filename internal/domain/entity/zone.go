package entity

import "fmt"

// ImageHandle ссылка на изображение в хранилище
type ImageHandle string

// PixelBounds прямоугольник в пикселях исходного изображения
type PixelBounds struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area площадь области в пикселях
func (b PixelBounds) Area() int {
	return b.Width * b.Height
}

// ZoneDescriptor одна ячейка сетки
type ZoneDescriptor struct {
	Row    int
	Col    int
	Bounds PixelBounds
	Image  ImageHandle // временный артефакт, живёт до конца распознавания
}

// ID идентификатор зоны вида "r1c2"
func (z ZoneDescriptor) ID() string {
	return fmt.Sprintf("r%dc%d", z.Row, z.Col)
}

// ZoneResult отфильтрованные предсказания одной зоны.
// Zone == nil означает результат, восстановленный из прохода по всему изображению.
type ZoneResult struct {
	Zone        *ZoneDescriptor
	Predictions Predictions
}

// Origin идентификатор источника результата
func (r ZoneResult) Origin() string {
	if r.Zone == nil {
		return OriginWholeImage
	}
	return r.Zone.ID()
}
