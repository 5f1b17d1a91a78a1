package rest

import (
	"errors"
	"net/http"

	"flight-monitor-service/internal/contextkeys"
	"flight-monitor-service/internal/core/port"
	usecases_port "flight-monitor-service/internal/core/port/usecases"
	"flight-monitor-service/internal/core/usecase"
)

type MonitorHandlers struct {
	scanUC usecases_port.ScanDealsUseCase
}

// NewMonitorHandlers - конструктор для наших обработчиков.
func NewMonitorHandlers(scanUC usecases_port.ScanDealsUseCase) *MonitorHandlers {
	return &MonitorHandlers{
		scanUC: scanUC,
	}
}

// HandleStartScan - обработчик для POST /api/v1/scan.
// Запускает прогон в фоне и сразу возвращает 202 с идентификатором.
func (h *MonitorHandlers) HandleStartScan(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleStartScan"})

	logger.Info("Received request to start flight scan", nil)

	runID, err := h.scanUC.StartBackground(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrScanAlreadyRunning) {
			logger.Warn("Scan already in progress, rejecting request", nil)
			WriteJSONError(w, http.StatusConflict, "Scan is already in progress")
			return
		}
		logger.Error("Use case execution failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to start scan")
		return
	}

	logger.Info("Successfully started scan run", port.Fields{"run_id": runID.String()})
	RespondWithJSON(w, http.StatusAccepted, ScanStartedDTO{RunID: runID.String()})
}

// HandleLatestReport - обработчик для GET /api/v1/report.
// Возвращает состояние и отчет последнего прогона.
func (h *MonitorHandlers) HandleLatestReport(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleLatestReport"})

	run, ok := h.scanUC.LatestRun()
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "No scan has been run yet")
		return
	}

	logger.Debug("Returning latest scan run", port.Fields{"run_id": run.RunID.String(), "status": run.Status})
	RespondWithJSON(w, http.StatusOK, run)
}

// HandleHealth - обработчик для GET /healthz.
func (h *MonitorHandlers) HandleHealth(appName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, HealthDTO{Status: "ok", Service: appName})
	}
}
