package telegram

import (
	"fmt"
	"strings"

	"recognition-bot/internal/domain/entity"
)

const timeLayout = "02.01.2006 15:04"

// formatRecognition текст ответа пользователю по итогам распознавания
func formatRecognition(rec *entity.Recognition) string {
	var sb strings.Builder

	switch {
	case len(rec.Objects) == 0:
		sb.WriteString(msgNothingFound)

	case rec.Mode == entity.ModeSingle:
		obj := rec.Objects[0]
		if obj.IsUnknown {
			fmt.Fprintf(&sb, "❓ Объект не распознан уверенно.\nПохоже на: %s (%d%%)", obj.Category.DisplayName(), obj.Confidence)
		} else {
			fmt.Fprintf(&sb, "✅ На фото: %s\nУверенность: %d%%", obj.Category.DisplayName(), obj.Confidence)
		}

	default:
		fmt.Fprintf(&sb, "🔍 Найдено объектов: %d\n", len(rec.Objects))
		for i, obj := range rec.Objects {
			sb.WriteString("\n")
			sb.WriteString(formatObjectLine(i+1, obj))
		}
	}

	if rec.Fallback {
		sb.WriteString("\n\nℹ️ Изображение обработано как один объект.")
	}

	return sb.String()
}

func formatObjectLine(n int, obj entity.DetectedObject) string {
	mark := "•"
	if obj.IsUnknown {
		mark = "❓"
	}

	line := fmt.Sprintf("%d. %s %s — %d%%", n, mark, obj.Category.DisplayName(), obj.Confidence)
	if where := formatOrigins(obj.Origins); where != "" {
		line += " (" + where + ")"
	}
	return line
}

// formatOrigins "r0c1" → "ряд 1, столбец 2"
func formatOrigins(origins []string) string {
	parts := make([]string, 0, len(origins))
	for _, o := range origins {
		var row, col int
		if _, err := fmt.Sscanf(o, "r%dc%d", &row, &col); err == nil {
			parts = append(parts, fmt.Sprintf("ряд %d, столбец %d", row+1, col+1))
			continue
		}
		if o == entity.OriginWholeImage {
			parts = append(parts, "всё фото")
		}
	}
	return strings.Join(parts, "; ")
}

// formatHistory краткая история распознаваний пользователя
func formatHistory(recs []*entity.Recognition) string {
	if len(recs) == 0 {
		return msgHistoryEmpty
	}

	var sb strings.Builder
	sb.WriteString("🗂 Последние распознавания:\n")
	for _, rec := range recs {
		names := make([]string, 0, len(rec.Objects))
		for _, obj := range rec.KnownObjects() {
			names = append(names, obj.Category.DisplayName())
		}
		summary := strings.Join(names, ", ")
		if summary == "" {
			summary = "не распознано"
		}
		fmt.Fprintf(&sb, "\n%s — %s", rec.CreatedAt.Local().Format(timeLayout), summary)
	}
	return sb.String()
}
