package domain

import "time"

// DatesInRange возвращает все календарные даты от start до end включительно,
// по одной на день, в порядке возрастания.
// Если end раньше start, возвращается пустой срез без ошибки — инвариант
// критериев обычно это исключает, но внешняя misconfiguration не должна
// ронять сервис.
func DatesInRange(start, end time.Time) []time.Time {
	start = truncateToDay(start)
	end = truncateToDay(end)

	if end.Before(start) {
		return nil
	}

	var dates []time.Time
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		dates = append(dates, current)
	}
	return dates
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
