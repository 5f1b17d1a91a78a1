package rest

// ScanStartedDTO - ответ на запрос запуска сканирования.
type ScanStartedDTO struct {
	RunID string `json:"run_id"`
}

// HealthDTO - ответ для проверки живости сервиса.
type HealthDTO struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
