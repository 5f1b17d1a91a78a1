package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flight-monitor-service/internal/contextkeys"
	"flight-monitor-service/internal/contracts"
	"flight-monitor-service/internal/core/domain"
	"flight-monitor-service/internal/core/port"
	"flight-monitor-service/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	dealsFoundEventType    = "DealsFoundEvent"
	dealsFoundEventVersion = "1.0.0"
)

// DealEventsAdapter публикует события о завершенных прогонах в RabbitMQ.
type DealEventsAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

// NewDealEventsAdapter создает новый экземпляр
func NewDealEventsAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*DealEventsAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("routingKey cannot be empty")
	}

	return &DealEventsAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// PublishDealsFound отправляет событие DealsFoundEvent в обменник.
// Перед публикацией тело проверяется по JSON-схеме контракта.
func (a *DealEventsAdapter) PublishDealsFound(ctx context.Context, event domain.DealsFoundEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "DealEventsAdapter",
		"routing_key": a.routingKey,
		"run_id":      event.RunID.String(),
	})

	eventJSON, err := json.Marshal(event)
	if err != nil {
		adapterLogger.Error("Failed to marshal deals event to JSON", err, nil)
		return fmt.Errorf("failed to marshal deals event to JSON: %w", err)
	}

	// Проверяем исходящее сообщение по контракту, чтобы не отправить
	// потребителям невалидный payload
	if err := contracts.ValidateEvent(dealsFoundEventType, dealsFoundEventVersion, eventJSON); err != nil {
		adapterLogger.Error("Outgoing event failed contract validation", err, nil)
		return fmt.Errorf("deals event contract validation failed: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         eventJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			"event-type":    dealsFoundEventType,
			"event-version": dealsFoundEventVersion,
		},
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish deals event", err, nil)
		return err
	}

	adapterLogger.Info("Successfully published deals event", port.Fields{"deals_count": event.DealsCount})
	return nil
}
