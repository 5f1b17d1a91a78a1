package amadeus

import (
	"strconv"

	"flight-monitor-service/internal/core/domain"
	"flight-monitor-service/internal/core/port"
)

// mapOffers переводит DTO ответа в доменные RawOffer.
// Это важный шаг, который изолирует наше ядро от деталей внешнего API.
// Предложение с нечитаемой ценой пропускается с логом — одна кривая запись
// не должна терять остальные результаты дня.
func mapOffers(offers []flightOffer, logger port.LoggerPort) []domain.RawOffer {
	result := make([]domain.RawOffer, 0, len(offers))

	for _, dto := range offers {
		total, err := strconv.ParseFloat(dto.Price.Total, 64)
		if err != nil {
			logger.Warn("Skipping offer with unparsable total price", port.Fields{
				"total": dto.Price.Total,
			})
			continue
		}

		raw := domain.RawOffer{TotalPrice: total}
		for _, it := range dto.Itineraries {
			mapped := domain.Itinerary{Duration: it.Duration}
			for _, seg := range it.Segments {
				mapped.Segments = append(mapped.Segments, domain.Segment{
					CarrierCode: seg.CarrierCode,
					Cabin:       seg.Cabin,
					DepartureAt: seg.Departure.At,
					ArrivalAt:   seg.Arrival.At,
				})
			}
			raw.Itineraries = append(raw.Itineraries, mapped)
		}

		result = append(result, raw)
	}

	return result
}
