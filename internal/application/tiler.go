package app

import (
	"context"
	"fmt"
	"log/slog"

	"recognition-bot/internal/domain/entity"
	"recognition-bot/internal/domain/port"
)

// ZoneTiler делит изображение на сетку G×G и сохраняет каждую ячейку отдельным изображением.
type ZoneTiler struct {
	store  port.ImageStore
	policy Policy
}

func NewZoneTiler(store port.ImageStore, policy Policy) *ZoneTiler {
	return &ZoneTiler{store: store, policy: policy}
}

// Tile нарезает изображение. Каждая созданная ячейка сразу регистрируется в artifacts,
// поэтому при ошибке на середине вызывающий всё равно может освободить уже созданное.
func (t *ZoneTiler) Tile(ctx context.Context, source entity.ImageHandle, grid int, artifacts *Artifacts) ([]entity.ZoneDescriptor, error) {
	if grid <= 0 {
		grid = t.policy.GridSize
	}

	width, height, err := t.store.Dimensions(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("read dimensions: %w", err)
	}

	cellW, cellH := width/grid, height/grid
	if width < t.policy.MinImageSide || height < t.policy.MinImageSide ||
		cellW < t.policy.MinCellSide || cellH < t.policy.MinCellSide {
		return nil, &entity.SizeError{Width: width, Height: height, CellWidth: cellW, CellHeight: cellH}
	}

	zones := make([]entity.ZoneDescriptor, 0, grid*grid)
	for row := 0; row < grid; row++ {
		for col := 0; col < grid; col++ {
			bounds := cellBounds(row, col, grid, width, height, cellW, cellH)
			if bounds.Width < t.policy.RejectCellSide || bounds.Height < t.policy.RejectCellSide {
				slog.Debug("tiler: cell skipped", "row", row, "col", col, "width", bounds.Width, "height", bounds.Height)
				continue
			}

			if err := ctx.Err(); err != nil {
				return nil, err
			}

			handle, err := t.store.Crop(ctx, source, bounds)
			if err != nil {
				return nil, fmt.Errorf("crop zone r%dc%d: %w", row, col, err)
			}
			artifacts.Track(handle)

			zones = append(zones, entity.ZoneDescriptor{
				Row:    row,
				Col:    col,
				Bounds: bounds,
				Image:  handle,
			})
		}
	}

	if len(zones) == 0 {
		return nil, entity.ErrNoValidZones
	}

	covered := 0
	for _, z := range zones {
		covered += z.Bounds.Area()
	}
	slog.Debug("tiler: zones ready", "zones", len(zones), "coverage", float64(covered)/float64(width*height))
	return zones, nil
}

// cellBounds последняя строка и столбец забирают остаток пикселей, сетка покрывает изображение без зазоров
func cellBounds(row, col, grid, width, height, cellW, cellH int) entity.PixelBounds {
	left, top := col*cellW, row*cellH
	w, h := cellW, cellH
	if col == grid-1 {
		w = width - left
	}
	if row == grid-1 {
		h = height - top
	}
	return entity.PixelBounds{Left: left, Top: top, Width: w, Height: h}
}
