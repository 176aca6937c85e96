package entity

// Category закрытый набор классов, которые знает классификатор
type Category int

const (
	CategoryBolt Category = iota + 1
	CategoryNut
	CategoryWasher
)

// AllCategories возвращает все известные категории в порядке объявления
func AllCategories() []Category {
	return []Category{CategoryBolt, CategoryNut, CategoryWasher}
}

var categoryCodes = map[Category]string{
	CategoryBolt:   "bolt",
	CategoryNut:    "nut",
	CategoryWasher: "washer",
}

var categoryNames = map[Category]string{
	CategoryBolt:   "Болт",
	CategoryNut:    "Гайка",
	CategoryWasher: "Шайба",
}

// IsKnown сообщает, входит ли категория в закрытый набор
func (c Category) IsKnown() bool {
	_, ok := categoryCodes[c]
	return ok
}

// String возвращает машинный код категории
func (c Category) String() string {
	if code, ok := categoryCodes[c]; ok {
		return code
	}
	return "unknown"
}

// DisplayName возвращает название категории для пользователя
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Неизвестный объект"
}

// ParseCategory переводит код категории из внешнего мира в перечисление
func ParseCategory(code string) (Category, bool) {
	for c, known := range categoryCodes {
		if known == code {
			return c, true
		}
	}
	return 0, false
}

// MarshalText кодирует категорию её кодом (JSON, jsonb).
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText декодирует категорию из кода.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, ok := ParseCategory(string(text))
	if !ok {
		*c = 0
		return nil
	}
	*c = parsed
	return nil
}
