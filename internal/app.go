package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"flight-monitor-service/internal/adapters/amadeus"
	logger_adapter "flight-monitor-service/internal/adapters/logger"
	"flight-monitor-service/internal/adapters/pacing"
	rabbitmq_adapter "flight-monitor-service/internal/adapters/rabbitmq"
	"flight-monitor-service/internal/adapters/rest"
	"flight-monitor-service/internal/adapters/telegram"
	"flight-monitor-service/internal/configs"
	"flight-monitor-service/internal/constants"
	"flight-monitor-service/internal/contextkeys"
	"flight-monitor-service/internal/core/port"
	"flight-monitor-service/internal/core/usecase"
	fluentlogger "flight-monitor-service/pkg/fluent_logger"
	"flight-monitor-service/pkg/rabbitmq/rabbitmq_common"
	"flight-monitor-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"
)

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server
	scanUC    *usecase.ScanDealsUseCase

	eventProducer *rabbitmq_producer.Publisher
	logger        port.LoggerPort
	baseLogger    port.LoggerPort
	fluentClient  *fluent.Fluent // держим для корректного закрытия
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	// Создаем наш композитный логгер
	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. СОЗДАЕМ БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ С КОНТЕКСТОМ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. ПРОВЕРКА УЧЕТНЫХ ДАННЫХ ---
	// Все проблемы перечисляются разом, чтобы оператор исправил их за один заход.
	if problems := appConfig.Validate(); len(problems) > 0 {
		appLogger.Error("Configuration check failed", fmt.Errorf("%d problem(s) found", len(problems)), nil)
		for _, p := range problems {
			appLogger.Error("  - "+p, nil, nil)
		}
		return nil, fmt.Errorf("configuration check failed: %s", strings.Join(problems, "; "))
	}
	appLogger.Info("Configuration check passed", port.Fields{
		"route":      fmt.Sprintf("%s -> %s", appConfig.Search.FromCode, appConfig.Search.ToCode),
		"date_range": fmt.Sprintf("%s .. %s", appConfig.Search.StartDate.Format("2006-01-02"), appConfig.Search.EndDate.Format("2006-01-02")),
	})

	// --- 4. АДАПТЕРЫ ВНЕШНИХ СИСТЕМ ---
	var eventProducer *rabbitmq_producer.Publisher
	var dealEventsAdapter port.DealEventsPort

	if appConfig.RabbitMQ.Enabled {
		producerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
		pkgLoggerBridge := rabbitmq_adapter.NewPkgLoggerBridge(producerLogger)

		connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
		connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger)
		connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, connManagerBridge)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

		producerCfg := rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             constants.ExchangeName,
			ExchangeType:             "direct",
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   pkgLoggerBridge,
		}
		eventProducer, err = rabbitmq_producer.NewPublisher(producerCfg, connManager)
		if err != nil {
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}
		appLogger.Info("RabbitMQ Event Producer initialized.", nil)

		dealEventsAdapter, err = rabbitmq_adapter.NewDealEventsAdapter(eventProducer, constants.RoutingKeyDealsResults)
		if err != nil {
			return nil, fmt.Errorf("failed to create deal events adapter: %w", err)
		}
	} else {
		appLogger.Info("RabbitMQ is disabled, deal events will not be published.", nil)
	}

	flightClient := amadeus.NewClient(appConfig.Amadeus.APIKey, appConfig.Amadeus.APISecret, appConfig.Amadeus.Env)

	// Telegram ограничивает частоту отправки, между частями сообщения ждем секунду.
	notifier := telegram.NewNotifier(appConfig.Telegram.BotToken, appConfig.Telegram.ChatID,
		pacing.NewFixedDelayPacer(1*time.Second))

	searchPacer := pacing.NewFixedDelayPacer(appConfig.RequestDelay)

	// ИНИЦИАЛИЗАЦИЯ USE CASES (ядра бизнес-логики)
	scanDealsUseCase := usecase.NewScanDealsUseCase(appConfig.Search, flightClient, notifier, dealEventsAdapter, searchPacer)
	appLogger.Info("All use cases initialized", nil)

	apiHandlers := rest.NewMonitorHandlers(scanDealsUseCase)
	apiServer := rest.NewServer(appConfig.Rest.PORT, appConfig.AppName, apiHandlers, baseLogger)

	application := &App{
		config:        appConfig,
		apiServer:     apiServer,
		scanUC:        scanDealsUseCase,
		eventProducer: eventProducer,
		logger:        appLogger,
		baseLogger:    baseLogger,
		fluentClient:  fluentClient,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	// Создаем единый контекст для всего приложения для управления graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				a.logger.Error("Error closing event producer", err, nil)
			}
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	// Первый прогон запускаем сразу после старта, не дожидаясь внешнего запроса.
	go a.runScheduledScan(appCtx, "startup")

	// Периодические прогоны, если задан интервал.
	if a.config.ScanInterval > 0 {
		go func() {
			ticker := time.NewTicker(a.config.ScanInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					a.runScheduledScan(appCtx, "interval")
				case <-appCtx.Done():
					return
				}
			}
		}()
		a.logger.Info("Periodic scans enabled", port.Fields{"interval": a.config.ScanInterval.String()})
	}

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	case err := <-serverErrors:
		a.logger.Error("HTTP server failed to start, shutting down", err, nil)
	}

	// Инициируем graceful shutdown, отменяя главный контекст
	cancelApp()

	return nil
}

// runScheduledScan выполняет один прогон вне HTTP-запроса: свой trace_id,
// логгер в контексте. Занятый сканер — не ошибка, очередной тик пропускается.
func (a *App) runScheduledScan(ctx context.Context, trigger string) {
	traceID := uuid.New().String()
	scanLogger := a.baseLogger.WithFields(port.Fields{
		"trace_id": traceID,
		"trigger":  trigger,
	})

	scanCtx := contextkeys.ContextWithLogger(ctx, scanLogger)
	scanCtx = contextkeys.ContextWithTraceID(scanCtx, traceID)

	if _, err := a.scanUC.StartBackground(scanCtx); err != nil {
		scanLogger.Warn("Scheduled scan skipped", port.Fields{"reason": err.Error()})
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// Возвращаем безопасное значение по умолчанию и логируем предупреждение
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
