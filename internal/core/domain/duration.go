package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// Токен вида PT3H25M; обе компоненты опциональны.
var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?$`)

// FormatISODuration переводит ISO 8601 токен длительности в человекочитаемый вид.
// "PT3H25M" -> "3h 25m", "PT45M" -> "0h 45m", "PT" -> "0h 0m".
// На любом некорректном токене возвращает "N/A" — это намеренный lossy fallback,
// ошибка наверх не поднимается.
func FormatISODuration(token string) string {
	m := isoDurationRe.FindStringSubmatch(token)
	if m == nil {
		return "N/A"
	}

	var hours, minutes int
	if m[1] != "" {
		h, err := strconv.Atoi(m[1])
		if err != nil {
			return "N/A"
		}
		hours = h
	}
	if m[2] != "" {
		mm, err := strconv.Atoi(m[2])
		if err != nil {
			return "N/A"
		}
		minutes = mm
	}

	return fmt.Sprintf("%dh %dm", hours, minutes)
}
