package port

import (
	"context"

	"flight-monitor-service/internal/core/domain"
)

// DealEventsPort — порт публикации события о завершенном прогоне
// для внешних потребителей.
type DealEventsPort interface {
	PublishDealsFound(ctx context.Context, event domain.DealsFoundEvent) error
}
