package pacing

import (
	"context"
	"time"
)

// FixedDelayPacer — фиксированная блокирующая пауза между внешними вызовами.
// Сознательно не отменяемая: прогон либо идет до конца, либо не начинается.
type FixedDelayPacer struct {
	delay time.Duration
}

func NewFixedDelayPacer(delay time.Duration) *FixedDelayPacer {
	return &FixedDelayPacer{delay: delay}
}

func (p *FixedDelayPacer) Pause(_ context.Context) {
	time.Sleep(p.delay)
}

// NoopPacer не ждет вовсе — для тестов.
type NoopPacer struct{}

func (NoopPacer) Pause(_ context.Context) {}
