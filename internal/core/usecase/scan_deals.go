package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"flight-monitor-service/internal/constants"
	"flight-monitor-service/internal/contextkeys"
	"flight-monitor-service/internal/core/domain"
	"flight-monitor-service/internal/core/port"

	"github.com/google/uuid"
)

// ErrScanAlreadyRunning возвращается, когда фоновый прогон уже идет.
var ErrScanAlreadyRunning = errors.New("scan is already running")

type ScanDealsUseCase struct {
	criteria   domain.SearchCriteria
	search     port.FlightSearchPort
	notifier   port.NotifierPort
	dealEvents port.DealEventsPort // может быть nil, если публикация выключена
	pacer      port.PacerPort

	mu      sync.RWMutex
	running bool
	latest  *domain.ScanRun
}

func NewScanDealsUseCase(criteria domain.SearchCriteria,
	search port.FlightSearchPort,
	notifier port.NotifierPort,
	dealEvents port.DealEventsPort,
	pacer port.PacerPort) *ScanDealsUseCase {
	return &ScanDealsUseCase{
		criteria:   criteria,
		search:     search,
		notifier:   notifier,
		dealEvents: dealEvents,
		pacer:      pacer,
	}
}

// Execute - основной метод: один последовательный прогон по всем датам.
// После начала поиска фатальных ошибок нет: частичный результат всегда
// предпочтительнее прерванного прогона.
func (uc *ScanDealsUseCase) Execute(ctx context.Context) (domain.ScanRun, error) {
	return uc.executeRun(ctx, uuid.New())
}

func (uc *ScanDealsUseCase) executeRun(ctx context.Context, runID uuid.UUID) (domain.ScanRun, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ScanDeals",
		"run_id":   runID.String(),
	})

	run := domain.ScanRun{
		RunID:     runID,
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now(),
		Stats:     domain.ScanStats{Skipped: make(map[string]int)},
	}
	uc.storeRun(run)

	dates := domain.DatesInRange(uc.criteria.StartDate, uc.criteria.EndDate)
	ucLogger.Info("Starting flight scan", port.Fields{
		"route":       fmt.Sprintf("%s -> %s", uc.criteria.FromCode, uc.criteria.ToCode),
		"dates_count": len(dates),
		"passengers":  uc.criteria.Passengers,
		"max_price":   uc.criteria.MaxPrice,
	})

	var allDeals []domain.Deal

	for i, date := range dates {
		dateLogger := ucLogger.WithFields(port.Fields{"date": date.Format("2006-01-02")})
		dateLogger.Debug("Searching flights for date", port.Fields{"progress": fmt.Sprintf("%d/%d", i+1, len(dates))})

		run.Stats.DatesScanned++

		offers, err := uc.search.SearchOffers(ctx, uc.criteria, date, constants.AmadeusMaxOffers)
		if err != nil {
			// Ошибка провайдера локализуется на одной дате: ноль сделок,
			// прогон продолжается, ретраев нет.
			dateLogger.Error("Search failed for date, treating as zero deals", err, nil)
			run.Stats.DatesFailed++
		} else {
			batch := uc.normalizeBatch(offers, date, &run.Stats)
			if len(batch) > 0 {
				dateLogger.Info("Found deals for date", port.Fields{"deals_count": len(batch)})
			} else {
				dateLogger.Debug("No deals under budget for date", nil)
			}
			allDeals = append(allDeals, batch...)
		}

		// Пауза после каждого вызова, кроме последнего: внешний API
		// ограничен одним запросом в секунду.
		if i < len(dates)-1 {
			uc.pacer.Pause(ctx)
		}
	}

	run.Stats.DealsFound = len(allDeals)
	report := domain.BuildDealReport(allDeals)
	run.Report = report

	ucLogger.Info("Scan complete", port.Fields{
		"deals_found":  len(allDeals),
		"dates_failed": run.Stats.DatesFailed,
		"offers_seen":  run.Stats.OffersSeen,
	})

	message := RenderReportMessage(uc.criteria, report)
	if err := uc.notifier.Send(ctx, message); err != nil {
		// Ошибка доставки не влияет на корректность посчитанного отчета.
		ucLogger.Error("Failed to deliver report", err, nil)
	} else {
		run.MessageSent = true
	}

	uc.publishEvent(ctx, ucLogger, runID, report)

	now := time.Now()
	run.FinishedAt = &now
	run.Status = domain.RunStatusCompleted
	uc.storeRun(run)

	return run, nil
}

// StartBackground запускает прогон в фоновой горутине, чтобы немедленно
// вернуть ответ вызывающему. Одновременно идет не больше одного прогона.
func (uc *ScanDealsUseCase) StartBackground(ctx context.Context) (uuid.UUID, error) {
	uc.mu.Lock()
	if uc.running {
		uc.mu.Unlock()
		return uuid.Nil, ErrScanAlreadyRunning
	}
	uc.running = true
	uc.mu.Unlock()

	runID := uuid.New()

	// Переносим логгер и trace_id в независимый контекст фоновой работы.
	logger := contextkeys.LoggerFromContext(ctx)
	traceID := contextkeys.TraceIDFromContext(ctx)
	backgroundCtx := context.Background()
	backgroundCtx = contextkeys.ContextWithLogger(backgroundCtx, logger)
	backgroundCtx = contextkeys.ContextWithTraceID(backgroundCtx, traceID)

	go func() {
		defer func() {
			uc.mu.Lock()
			uc.running = false
			uc.mu.Unlock()
		}()
		if _, err := uc.executeRun(backgroundCtx, runID); err != nil {
			logger.Error("Background scan failed", err, port.Fields{"run_id": runID.String()})
		}
	}()

	return runID, nil
}

// LatestRun возвращает состояние последнего прогона.
func (uc *ScanDealsUseCase) LatestRun() (domain.ScanRun, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.latest == nil {
		return domain.ScanRun{}, false
	}
	return *uc.latest, true
}

// normalizeBatch прогоняет пачку предложений одной даты через нормализатор,
// сохраняя порядок прихода внутри пачки.
func (uc *ScanDealsUseCase) normalizeBatch(offers []domain.RawOffer, date time.Time, stats *domain.ScanStats) []domain.Deal {
	var deals []domain.Deal
	for _, offer := range offers {
		stats.OffersSeen++
		outcome := NormalizeOffer(offer, uc.criteria, date)
		if outcome.Qualified {
			deals = append(deals, outcome.Deal)
		} else {
			stats.Skipped[outcome.SkipReason]++
		}
	}
	return deals
}

func (uc *ScanDealsUseCase) publishEvent(ctx context.Context, logger port.LoggerPort, runID uuid.UUID, report domain.DealReport) {
	if uc.dealEvents == nil {
		return
	}

	event := domain.DealsFoundEvent{
		RunID:          runID,
		Route:          fmt.Sprintf("%s -> %s", uc.criteria.FromCode, uc.criteria.ToCode),
		DateRangeStart: uc.criteria.StartDate.Format("2006-01-02"),
		DateRangeEnd:   uc.criteria.EndDate.Format("2006-01-02"),
		Passengers:     uc.criteria.Passengers,
		MaxPrice:       uc.criteria.MaxPrice,
		Currency:       uc.criteria.Currency,
		DealsCount:     len(report.Deals),
		CompletedAt:    time.Now().UTC(),
	}
	if len(report.Deals) > 0 {
		event.CheapestPrice = report.Cheapest.Price
		event.CheapestDate = report.Cheapest.Date.Format("2006-01-02")
	}

	if err := uc.dealEvents.PublishDealsFound(ctx, event); err != nil {
		logger.Error("Failed to publish deals-found event", err, nil)
	}
}

// storeRun сохраняет независимый снимок прогона. Копируется не только
// структура, но и map счетчиков пропусков: цикл сканирования продолжает его
// мутировать, а читатели LatestRun работают конкурентно.
func (uc *ScanDealsUseCase) storeRun(run domain.ScanRun) {
	if run.Stats.Skipped != nil {
		skipped := make(map[string]int, len(run.Stats.Skipped))
		for reason, count := range run.Stats.Skipped {
			skipped[reason] = count
		}
		run.Stats.Skipped = skipped
	}

	uc.mu.Lock()
	uc.latest = &run
	uc.mu.Unlock()
}
