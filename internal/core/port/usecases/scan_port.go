package usecases_port

import (
	"context"

	"flight-monitor-service/internal/core/domain"

	"github.com/google/uuid"
)

// ScanDealsUseCase — контракт основного сценария: просканировать диапазон дат,
// собрать сделки, разослать отчет.
type ScanDealsUseCase interface {
	Execute(ctx context.Context) (domain.ScanRun, error)

	// StartBackground запускает прогон в фоне и сразу возвращает его ID.
	// Если прогон уже идет, возвращает ErrScanAlreadyRunning.
	StartBackground(ctx context.Context) (uuid.UUID, error)

	// LatestRun возвращает состояние последнего прогона (false — прогонов не было).
	LatestRun() (domain.ScanRun, bool)
}
