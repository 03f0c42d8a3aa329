package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	IngestionService *IngestionEventService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	ingestionService := InitIngestionEventService(channel)
	if ingestionService == nil {
		panic("Failed to initialize Ingestion event service")
	}

	produceInstance = &Produce{
		IngestionService: ingestionService,
	}

	return produceInstance
}

func GetProduce() *Produce {
	if produceInstance == nil {
		panic("Produce not initialized. Call InitProduce() first.")
	}
	return produceInstance
}
