package port

import "context"

// PacerPort — инъецируемая политика паузы между внешними вызовами.
// Вынесена в порт, чтобы тесты могли гонять оркестратор без реальных задержек.
type PacerPort interface {
	Pause(ctx context.Context)
}
