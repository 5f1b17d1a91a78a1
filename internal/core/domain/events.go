package domain

import (
	"time"

	"github.com/google/uuid"
)

// DealsFoundEvent — событие о завершенном прогоне сканирования,
// публикуется в RabbitMQ для внешних потребителей.
type DealsFoundEvent struct {
	RunID          uuid.UUID `json:"run_id"`
	Route          string    `json:"route"` // "HYD -> VNS"
	DateRangeStart string    `json:"date_range_start"`
	DateRangeEnd   string    `json:"date_range_end"`
	Passengers     int       `json:"passengers"`
	MaxPrice       int       `json:"max_price"`
	Currency       string    `json:"currency"`
	DealsCount     int       `json:"deals_count"`
	CheapestPrice  int       `json:"cheapest_price,omitempty"`
	CheapestDate   string    `json:"cheapest_date,omitempty"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Статусы прогона сканирования.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ScanRun — состояние одного прогона, отдается через REST API.
type ScanRun struct {
	RunID       uuid.UUID  `json:"run_id"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Stats       ScanStats  `json:"stats"`
	Report      DealReport `json:"report"`
	MessageSent bool       `json:"message_sent"`
}
