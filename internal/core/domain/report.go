package domain

import "sort"

// Сколько лучших сделок попадает в выделенный список отчета.
const TopDealsLimit = 15

// DealReport — производная статистика одного прогона, считается один раз
// по полной коллекции сделок.
type DealReport struct {
	Deals           []Deal `json:"deals"` // отсортированы по цене, стабильно
	Top             []Deal `json:"top"`
	Remaining       int    `json:"remaining"` // сколько сделок за пределами топа
	Cheapest        Deal   `json:"cheapest"`
	AveragePrice    int    `json:"average_price"` // среднее, усеченное для отображения
	TopAirline      string `json:"top_airline"`
	TopAirlineCount int    `json:"top_airline_count"`
	NonStopCount    int    `json:"non_stop_count"`
}

// BuildDealReport считает сводную статистику по коллекции сделок.
// Исходный срез не мутируется. Для пустой коллекции возвращается пустой отчет —
// рендер сам решает, как его показать.
func BuildDealReport(deals []Deal) DealReport {
	if len(deals) == 0 {
		return DealReport{}
	}

	sorted := make([]Deal, len(deals))
	copy(sorted, deals)
	// Стабильная сортировка: при равной цене сохраняется порядок обнаружения.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})

	top := sorted
	if len(top) > TopDealsLimit {
		top = sorted[:TopDealsLimit]
	}

	report := DealReport{
		Deals:     sorted,
		Top:       top,
		Remaining: len(sorted) - len(top),
		Cheapest:  sorted[0],
	}

	sum := 0
	for _, d := range sorted {
		sum += d.Price
	}
	report.AveragePrice = int(float64(sum) / float64(len(sorted)))

	report.TopAirline, report.TopAirlineCount = mostFrequentAirline(sorted)

	for _, d := range sorted {
		if d.Stops == 0 {
			report.NonStopCount++
		}
	}

	return report
}

// mostFrequentAirline выбирает авиакомпанию с наибольшим числом сделок.
// Один проход слева направо; при равенстве побеждает встреченная раньше.
// Считается по отсортированному срезу, так что ничья уходит авиакомпании
// с более дешевой сделкой.
func mostFrequentAirline(deals []Deal) (string, int) {
	counts := make(map[string]int, len(deals))
	var order []string

	for _, d := range deals {
		if _, seen := counts[d.Airline]; !seen {
			order = append(order, d.Airline)
		}
		counts[d.Airline]++
	}

	best := ""
	bestCount := 0
	for _, airline := range order {
		if counts[airline] > bestCount {
			best = airline
			bestCount = counts[airline]
		}
	}
	return best, bestCount
}
