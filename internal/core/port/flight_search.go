package port

import (
	"context"
	"time"

	"flight-monitor-service/internal/core/domain"
)

// FlightSearchPort — порт внешнего поиска перелетов.
// Возвращает сырые предложения на конкретную дату вылета; cap ограничивает
// количество предложений в ответе.
type FlightSearchPort interface {
	SearchOffers(ctx context.Context, criteria domain.SearchCriteria, date time.Time, cap int) ([]domain.RawOffer, error)
}
