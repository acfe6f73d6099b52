package queue

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/sksmith/bunnyq"
	"github.com/streadway/amqp"

	"github.com/atelierware/backoffice/core/ledger"
)

// RestockQueue listens for restock requests published by the purchasing
// system and applies them to the stock ledger. Messages that cannot be
// parsed or applied are written to the dead letter topic.
type RestockQueue struct {
	queue             *bunnyq.BunnyQ
	restockQueue      string
	restockDltExchange string
}

func NewRestockQueue(bq *bunnyq.BunnyQ, restockQueue, restockDltExchange string) *RestockQueue {
	return &RestockQueue{queue: bq, restockQueue: restockQueue, restockDltExchange: restockDltExchange}
}

type RestockHandler interface {
	Restock(ctx context.Context, rr ledger.RestockRequest) (float64, error)
}

func (q *RestockQueue) ConsumeRestocks(ctx context.Context, handler RestockHandler) {
	q.queue.Stream(ctx, q.restockQueue, func(delivery amqp.Delivery) {
		rr := ledger.RestockRequest{}
		err := json.Unmarshal(delivery.Body, &rr)
		if err != nil {
			log.Error().Err(err).Msg("error unmarshalling restock request, writing to dlt")
			q.sendToDlt(ctx, delivery.Body)
			return
		}

		if _, err = handler.Restock(ctx, rr); err != nil {
			log.Error().Err(err).Msg("error handling restock request, writing to dlt")
			q.sendToDlt(ctx, delivery.Body)
		}
	}, bunnyq.StreamOpAutoAck)
}

func (q *RestockQueue) sendToDlt(ctx context.Context, data []byte) {
	err := q.queue.Publish(ctx, q.restockDltExchange, data)
	if err != nil {
		log.Error().Err(err).Msg("error writing to dlt")
	}
}
