package port

// Fields — структурированные поля лога.
type Fields map[string]interface{}

// LoggerPort — порт логирования, чтобы ядро не зависело от конкретной
// реализации (slog, fluent, композит).
type LoggerPort interface {
	Info(msg string, fields Fields)

	Warn(msg string, fields Fields)

	Error(msg string, err error, fields Fields)

	Debug(msg string, fields Fields)

	// WithFields создает новый экземпляр логгера с уже добавленными полями
	WithFields(fields Fields) LoggerPort
}
