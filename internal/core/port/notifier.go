package port

import "context"

// NotifierPort — порт доставки итогового отчета оператору.
// Реализация сама отвечает за ограничения транспорта (лимит длины, нарезка).
type NotifierPort interface {
	Send(ctx context.Context, message string) error
}
