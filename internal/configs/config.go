package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"flight-monitor-service/internal/core/domain"

	"github.com/joho/godotenv"
)

// Документированные плейсхолдеры из .env.example — такие значения
// равносильны отсутствию настройки.
const (
	placeholderBotToken  = "your_bot_token_here"
	placeholderChatID    = "your_chat_id_here"
	placeholderAPIKey    = "your_amadeus_api_key_here"
	placeholderAPISecret = "your_amadeus_api_secret_here"
)

// TelegramConfig хранит учетные данные доставки в Telegram
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

type AmadeusConfig struct {
	APIKey    string
	APISecret string
	Env       string // "test" или "production"
}

type RabbitMQConfig struct {
	URL     string
	Enabled bool
}

type RESTconfig struct {
	PORT string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Telegram     TelegramConfig
	Amadeus      AmadeusConfig
	Search       domain.SearchCriteria
	RabbitMQ     RabbitMQConfig
	Rest         RESTconfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig

	// Пауза между вызовами внешнего поиска (лимит API — 1 запрос в секунду).
	RequestDelay time.Duration
	// Период автоматических прогонов; 0 — только по запросу.
	ScanInterval time.Duration
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		// Отсутствие .env не фатально: в контейнере переменные приходят из окружения.
		log.Printf("Info: Could not load .env file (path: %v): %v.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "flight-monitor-service")

	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.Telegram.ChatID = os.Getenv("TELEGRAM_CHAT_ID")

	cfg.Amadeus.APIKey = os.Getenv("AMADEUS_API_KEY")
	cfg.Amadeus.APISecret = os.Getenv("AMADEUS_API_SECRET")
	cfg.Amadeus.Env = getEnvAsString("AMADEUS_ENV", "test")

	cfg.Search.FromCity = getEnvAsString("FROM_CITY", "Hyderabad")
	cfg.Search.FromCode = getEnvAsString("FROM_CODE", "HYD")
	cfg.Search.ToCity = getEnvAsString("TO_CITY", "Varanasi")
	cfg.Search.ToCode = getEnvAsString("TO_CODE", "VNS")

	startStr := getEnvAsString("DATE_RANGE_START", "2026-02-01")
	endStr := getEnvAsString("DATE_RANGE_END", "2026-02-15")
	cfg.Search.StartDate, err = time.Parse("2006-01-02", startStr)
	if err != nil {
		return nil, fmt.Errorf("DATE_RANGE_START %q is not a valid date (want YYYY-MM-DD): %w", startStr, err)
	}
	cfg.Search.EndDate, err = time.Parse("2006-01-02", endStr)
	if err != nil {
		return nil, fmt.Errorf("DATE_RANGE_END %q is not a valid date (want YYYY-MM-DD): %w", endStr, err)
	}

	cfg.Search.Passengers = getEnvAsInt("PASSENGERS", 5)
	if cfg.Search.Passengers < 1 {
		// Именно здесь, а не в нормализаторе, закрывается деление на ноль
		// при расчете цены на пассажира.
		log.Printf("Warning: PASSENGERS must be >= 1, got %d. Using 1.\n", cfg.Search.Passengers)
		cfg.Search.Passengers = 1
	}

	cfg.Search.MaxPrice = getEnvAsInt("MAX_PRICE_PER_PERSON", 1000)
	cfg.Search.Currency = getEnvAsString("CURRENCY", "INR")

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			log.Println("WARNING: RABBITMQ_ENABLED is true, but RABBITMQ_URL is not set. Disabling RabbitMQ.")
			cfg.RabbitMQ.Enabled = false
		}
	}

	cfg.Rest.PORT = getEnvAsString("PORT", "5000")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	cfg.RequestDelay = time.Duration(getEnvAsInt("REQUEST_DELAY_SECONDS", 1)) * time.Second
	cfg.ScanInterval = time.Duration(getEnvAsInt("SCAN_INTERVAL_HOURS", 0)) * time.Hour

	return cfg, nil
}

// Validate проверяет учетные данные и возвращает перечень проблем.
// Непустой список означает, что запуск должен быть прерван до любых
// сетевых вызовов.
func (cfg *AppConfig) Validate() []string {
	var errors []string

	if cfg.Telegram.BotToken == "" || cfg.Telegram.BotToken == placeholderBotToken {
		errors = append(errors, "TELEGRAM_BOT_TOKEN not set in .env file")
	}
	if cfg.Telegram.ChatID == "" || cfg.Telegram.ChatID == placeholderChatID {
		errors = append(errors, "TELEGRAM_CHAT_ID not set in .env file")
	}
	if cfg.Amadeus.APIKey == "" || cfg.Amadeus.APIKey == placeholderAPIKey {
		errors = append(errors, "AMADEUS_API_KEY not set in .env file")
	}
	if cfg.Amadeus.APISecret == "" || cfg.Amadeus.APISecret == placeholderAPISecret {
		errors = append(errors, "AMADEUS_API_SECRET not set in .env file")
	}

	if cfg.Search.EndDate.Before(cfg.Search.StartDate) {
		errors = append(errors, "DATE_RANGE_END is before DATE_RANGE_START")
	}

	return errors
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
