package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"flight-monitor-service/internal/adapters/pacing"
	"flight-monitor-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightSearch struct {
	mock.Mock
}

func (m *MockFlightSearch) SearchOffers(ctx context.Context, criteria domain.SearchCriteria, date time.Time, maxOffers int) ([]domain.RawOffer, error) {
	args := m.Called(ctx, criteria, date, maxOffers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawOffer), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

type MockDealEvents struct {
	mock.Mock
}

func (m *MockDealEvents) PublishDealsFound(ctx context.Context, event domain.DealsFoundEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func scanCriteria() domain.SearchCriteria {
	return domain.SearchCriteria{
		FromCity:   "Hyderabad",
		FromCode:   "HYD",
		ToCity:     "Varanasi",
		ToCode:     "VNS",
		StartDate:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
		Passengers: 5,
		MaxPrice:   1000,
		Currency:   "INR",
	}
}

func cheapOffer(totalPrice float64) domain.RawOffer {
	return domain.RawOffer{
		TotalPrice: totalPrice,
		Itineraries: []domain.Itinerary{
			{
				Duration: "PT1H25M",
				Segments: []domain.Segment{
					{CarrierCode: "6E", Cabin: "ECONOMY", DepartureAt: "2026-02-01T06:30:00"},
				},
			},
		},
	}
}

func TestScanDeals_Execute_HappyPath(t *testing.T) {
	mockSearch := &MockFlightSearch{}
	mockNotifier := &MockNotifier{}

	mockSearch.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.RawOffer{cheapOffer(2000), cheapOffer(9000)}, nil)
	mockNotifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	uc := NewScanDealsUseCase(scanCriteria(), mockSearch, mockNotifier, nil, pacing.NoopPacer{})

	run, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	require.NotNil(t, run.FinishedAt)
	assert.True(t, run.MessageSent)

	// 3 даты, по 2 предложения на каждую, по одному в бюджете.
	assert.Equal(t, 3, run.Stats.DatesScanned)
	assert.Equal(t, 0, run.Stats.DatesFailed)
	assert.Equal(t, 6, run.Stats.OffersSeen)
	assert.Equal(t, 3, run.Stats.DealsFound)
	assert.Equal(t, 3, run.Stats.Skipped[domain.SkipOverBudget])

	assert.Len(t, run.Report.Deals, 3)
	assert.Equal(t, 400, run.Report.Cheapest.Price)

	mockSearch.AssertNumberOfCalls(t, "SearchOffers", 3)
	mockNotifier.AssertNumberOfCalls(t, "Send", 1)
}

func TestScanDeals_Execute_ProviderFailureIsLocalizedToDate(t *testing.T) {
	mockSearch := &MockFlightSearch{}
	mockNotifier := &MockNotifier{}
	criteria := scanCriteria()

	day1 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	day3 := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	mockSearch.On("SearchOffers", mock.Anything, mock.Anything, day1, mock.Anything).
		Return([]domain.RawOffer{cheapOffer(2000)}, nil)
	mockSearch.On("SearchOffers", mock.Anything, mock.Anything, day2, mock.Anything).
		Return(nil, errors.New("rate limit exceeded"))
	mockSearch.On("SearchOffers", mock.Anything, mock.Anything, day3, mock.Anything).
		Return([]domain.RawOffer{cheapOffer(3000)}, nil)
	mockNotifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	uc := NewScanDealsUseCase(criteria, mockSearch, mockNotifier, nil, pacing.NoopPacer{})

	run, err := uc.Execute(context.Background())

	require.NoError(t, err)
	// Упавшая дата дает ноль сделок, остальные обрабатываются дальше.
	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	assert.Equal(t, 3, run.Stats.DatesScanned)
	assert.Equal(t, 1, run.Stats.DatesFailed)
	assert.Equal(t, 2, run.Stats.DealsFound)
	mockSearch.AssertNumberOfCalls(t, "SearchOffers", 3)
}

func TestScanDeals_Execute_DeliveryFailureDoesNotFailRun(t *testing.T) {
	mockSearch := &MockFlightSearch{}
	mockNotifier := &MockNotifier{}

	mockSearch.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.RawOffer{cheapOffer(2000)}, nil)
	mockNotifier.On("Send", mock.Anything, mock.Anything).Return(errors.New("telegram unreachable"))

	uc := NewScanDealsUseCase(scanCriteria(), mockSearch, mockNotifier, nil, pacing.NoopPacer{})

	run, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	assert.False(t, run.MessageSent)
	assert.Equal(t, 3, run.Stats.DealsFound)
}

func TestScanDeals_Execute_PublishesEvent(t *testing.T) {
	mockSearch := &MockFlightSearch{}
	mockNotifier := &MockNotifier{}
	mockEvents := &MockDealEvents{}

	mockSearch.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.RawOffer{cheapOffer(2000)}, nil)
	mockNotifier.On("Send", mock.Anything, mock.Anything).Return(nil)
	mockEvents.On("PublishDealsFound", mock.Anything, mock.MatchedBy(func(e domain.DealsFoundEvent) bool {
		return e.Route == "HYD -> VNS" &&
			e.DealsCount == 3 &&
			e.CheapestPrice == 400 &&
			e.Passengers == 5
	})).Return(nil)

	uc := NewScanDealsUseCase(scanCriteria(), mockSearch, mockNotifier, mockEvents, pacing.NoopPacer{})

	_, err := uc.Execute(context.Background())

	require.NoError(t, err)
	mockEvents.AssertExpectations(t)
}

func TestScanDeals_Execute_EventFailureDoesNotFailRun(t *testing.T) {
	mockSearch := &MockFlightSearch{}
	mockNotifier := &MockNotifier{}
	mockEvents := &MockDealEvents{}

	mockSearch.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.RawOffer{cheapOffer(2000)}, nil)
	mockNotifier.On("Send", mock.Anything, mock.Anything).Return(nil)
	mockEvents.On("PublishDealsFound", mock.Anything, mock.Anything).Return(errors.New("broker is down"))

	uc := NewScanDealsUseCase(scanCriteria(), mockSearch, mockNotifier, mockEvents, pacing.NoopPacer{})

	run, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	assert.True(t, run.MessageSent)
}

func TestScanDeals_Execute_NoDealsStillNotifies(t *testing.T) {
	mockSearch := &MockFlightSearch{}
	mockNotifier := &MockNotifier{}

	mockSearch.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.RawOffer{}, nil)
	mockNotifier.On("Send", mock.Anything, mock.MatchedBy(func(msg string) bool {
		return len(msg) > 0
	})).Return(nil)

	uc := NewScanDealsUseCase(scanCriteria(), mockSearch, mockNotifier, nil, pacing.NoopPacer{})

	run, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, run.Stats.DealsFound)
	// Отчет "ничего не найдено" все равно отправляется.
	mockNotifier.AssertNumberOfCalls(t, "Send", 1)
}

func TestScanDeals_StartBackground_RejectsConcurrentRun(t *testing.T) {
	mockSearch := &MockFlightSearch{}
	mockNotifier := &MockNotifier{}

	release := make(chan struct{})
	mockSearch.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { <-release }).
		Return([]domain.RawOffer{}, nil)
	mockNotifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	uc := NewScanDealsUseCase(scanCriteria(), mockSearch, mockNotifier, nil, pacing.NoopPacer{})

	runID, err := uc.StartBackground(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, runID.String(), "00000000-0000-0000-0000-000000000000")

	_, err = uc.StartBackground(context.Background())
	assert.ErrorIs(t, err, ErrScanAlreadyRunning)

	close(release)

	// После завершения фонового прогона сканер снова свободен.
	require.Eventually(t, func() bool {
		run, ok := uc.LatestRun()
		return ok && run.Status == domain.RunStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, err := uc.StartBackground(context.Background())
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScanDeals_StartBackground_RunIDMatchesLatestRun(t *testing.T) {
	mockSearch := &MockFlightSearch{}
	mockNotifier := &MockNotifier{}

	mockSearch.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.RawOffer{}, nil)
	mockNotifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	uc := NewScanDealsUseCase(scanCriteria(), mockSearch, mockNotifier, nil, pacing.NoopPacer{})

	runID, err := uc.StartBackground(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		run, ok := uc.LatestRun()
		return ok && run.Status == domain.RunStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	run, ok := uc.LatestRun()
	require.True(t, ok)
	assert.Equal(t, runID, run.RunID)
}

func TestScanDeals_LatestRun_SnapshotDoesNotShareSkippedMap(t *testing.T) {
	mockSearch := &MockFlightSearch{}
	mockNotifier := &MockNotifier{}

	mockSearch.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.RawOffer{cheapOffer(50000)}, nil)
	mockNotifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	uc := NewScanDealsUseCase(scanCriteria(), mockSearch, mockNotifier, nil, pacing.NoopPacer{})

	run, err := uc.Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, run.Stats.Skipped[domain.SkipOverBudget])

	// Счетчики возвращенного прогона живут отдельно от сохраненного снимка.
	run.Stats.Skipped[domain.SkipOverBudget] += 100

	latest, ok := uc.LatestRun()
	require.True(t, ok)
	assert.Equal(t, 3, latest.Stats.Skipped[domain.SkipOverBudget])
}

func TestScanDeals_LatestRun_SafeToReadDuringScan(t *testing.T) {
	mockSearch := &MockFlightSearch{}
	mockNotifier := &MockNotifier{}

	// Длинный диапазон, каждая дата дает пропуск по бюджету: цикл сканирования
	// постоянно пишет в счетчики, пока читатель сериализует снимки.
	criteria := scanCriteria()
	criteria.EndDate = criteria.StartDate.AddDate(0, 0, 199)

	mockSearch.On("SearchOffers", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.RawOffer{cheapOffer(50000)}, nil)
	mockNotifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	uc := NewScanDealsUseCase(criteria, mockSearch, mockNotifier, nil, pacing.NoopPacer{})

	_, err := uc.StartBackground(context.Background())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			run, ok := uc.LatestRun()
			if ok {
				_, err := json.Marshal(run)
				assert.NoError(t, err)
				if run.Status == domain.RunStatusCompleted {
					return
				}
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("background scan did not complete")
	}
}

func TestScanDeals_LatestRun_EmptyBeforeFirstScan(t *testing.T) {
	uc := NewScanDealsUseCase(scanCriteria(), &MockFlightSearch{}, &MockNotifier{}, nil, pacing.NoopPacer{})

	_, ok := uc.LatestRun()
	assert.False(t, ok)
}
