package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	IngestionEventQueue      = "ingestion.jobs"
	IngestionEventExchange   = "ingestion.exchange"
	IngestionEventRoutingKey = "ingestion.jobs"
)

// Job event kinds published to downstream consumers.
const (
	JobEventCreated   = "created"
	JobEventCompleted = "completed"
	JobEventFailed    = "failed"
	JobEventCancelled = "cancelled"
)

// JobEventMessage notifies downstream services about an ingestion job
// lifecycle transition.
type JobEventMessage struct {
	Event      string `json:"event"` // created, completed, failed, cancelled
	JobID      string `json:"job_id"`
	DocumentID string `json:"document_id"`
	UserID     string `json:"user_id"` // user who started the job
	Status     string `json:"status"`
	Output     string `json:"output,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

// IngestionEventService handles publishing ingestion job lifecycle events
type IngestionEventService struct {
	channel *amqp.Channel
}

func InitIngestionEventService(channel *amqp.Channel) *IngestionEventService {
	service := &IngestionEventService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		IngestionEventExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Ingestion exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		IngestionEventQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Ingestion event queue: " + err.Error())
	}

	err = channel.QueueBind(
		IngestionEventQueue,
		IngestionEventRoutingKey,
		IngestionEventExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Ingestion event queue: " + err.Error())
	}

	return service
}

// PublishJobEvent publishes a job lifecycle event to the queue
func (s *IngestionEventService) PublishJobEvent(ctx context.Context, msg JobEventMessage) error {
	msg.Timestamp = time.Now().Unix()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		IngestionEventExchange,
		IngestionEventRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
