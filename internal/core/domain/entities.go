package domain

import "time"

// SearchCriteria — неизменяемая конфигурация одного мониторинга.
// Инвариант: StartDate <= EndDate, Passengers >= 1 (гарантируется слоем configs).
type SearchCriteria struct {
	FromCity   string
	FromCode   string
	ToCity     string
	ToCode     string
	StartDate  time.Time
	EndDate    time.Time
	Passengers int
	MaxPrice   int // бюджет на одного пассажира
	Currency   string
}

// RawOffer — одно сырое предложение из внешнего поиска.
// Живет только в рамках одного запроса, никуда не сохраняется.
type RawOffer struct {
	TotalPrice  float64
	Itineraries []Itinerary
}

// Itinerary — одно направление перелета (например, туда).
type Itinerary struct {
	Duration string // ISO 8601 токен, например "PT3H25M"
	Segments []Segment
}

// Segment — один перелет внутри направления.
type Segment struct {
	CarrierCode string
	Cabin       string
	DepartureAt string // timestamp вида "2026-02-01T06:30:00"
	ArrivalAt   string
}

// Deal — одно нормализованное предложение, прошедшее фильтр по бюджету.
type Deal struct {
	Date          time.Time `json:"date"`
	Price         int       `json:"price"`       // цена на одного, усеченная
	TotalPrice    int       `json:"total_price"` // полная цена предложения
	Airline       string    `json:"airline"`
	CarrierCode   string    `json:"carrier_code"`
	Duration      string    `json:"duration"` // "3h 25m"
	Stops         int       `json:"stops"`
	DepartureTime string    `json:"departure_time"` // "06:30" или "N/A"
	CabinClass    string    `json:"cabin_class"`
}

// Причины, по которым предложение не стало сделкой.
const (
	SkipOverBudget    = "over_budget"
	SkipNoItineraries = "no_itineraries"
	SkipNoSegments    = "no_segments"
)

// OfferOutcome — явный результат нормализации одного предложения.
// Вместо молчаливого проглатывания ошибок счетчики пропусков становятся
// наблюдаемыми и проверяемыми.
type OfferOutcome struct {
	Deal       Deal
	Qualified  bool
	SkipReason string
}

// ScanStats — сводка одного прогона сканирования.
type ScanStats struct {
	DatesScanned int            `json:"dates_scanned"`
	DatesFailed  int            `json:"dates_failed"`
	OffersSeen   int            `json:"offers_seen"`
	DealsFound   int            `json:"deals_found"`
	Skipped      map[string]int `json:"skipped"`
}
