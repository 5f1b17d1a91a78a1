package usecase

import (
	"strings"
	"time"

	"flight-monitor-service/internal/constants"
	"flight-monitor-service/internal/core/domain"
)

// NormalizeOffer превращает одно сырое предложение в сделку либо в явный
// пропуск с причиной. Паник и ошибок наружу нет: одно кривое предложение
// не должно терять остальные результаты дня.
//
// Репрезентативным считается первое направление (itinerary) — для round-trip
// поисков структура цены обратного плеча сознательно не моделируется.
func NormalizeOffer(offer domain.RawOffer, criteria domain.SearchCriteria, date time.Time) domain.OfferOutcome {
	// Passengers >= 1 гарантирует слой configs, деление безопасно.
	pricePerPerson := offer.TotalPrice / float64(criteria.Passengers)

	if pricePerPerson > float64(criteria.MaxPrice) {
		return domain.OfferOutcome{SkipReason: domain.SkipOverBudget}
	}

	if len(offer.Itineraries) == 0 {
		return domain.OfferOutcome{SkipReason: domain.SkipNoItineraries}
	}

	firstItinerary := offer.Itineraries[0]
	if len(firstItinerary.Segments) == 0 {
		return domain.OfferOutcome{SkipReason: domain.SkipNoSegments}
	}

	firstSegment := firstItinerary.Segments[0]

	carrierCode := firstSegment.CarrierCode
	if carrierCode == "" {
		carrierCode = "XX"
	}

	cabin := firstSegment.Cabin
	if cabin == "" {
		cabin = "ECONOMY"
	}

	deal := domain.Deal{
		Date:          date,
		Price:         int(pricePerPerson),
		TotalPrice:    int(offer.TotalPrice),
		Airline:       constants.AirlineName(carrierCode),
		CarrierCode:   carrierCode,
		Duration:      domain.FormatISODuration(firstItinerary.Duration),
		Stops:         len(firstItinerary.Segments) - 1,
		DepartureTime: extractDepartureTime(firstSegment.DepartureAt),
		CabinClass:    cabin,
	}

	return domain.OfferOutcome{Deal: deal, Qualified: true}
}

// extractDepartureTime берет "HH:MM" из timestamp вида "2026-02-01T06:30:00".
// Без 'T' в строке возвращает "N/A".
func extractDepartureTime(departureAt string) string {
	if len(departureAt) > 16 {
		departureAt = departureAt[:16]
	}
	idx := strings.Index(departureAt, "T")
	if idx < 0 {
		return "N/A"
	}
	return departureAt[idx+1:]
}
