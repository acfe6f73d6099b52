package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sksmith/bunnyq"

	"github.com/atelierware/backoffice/core/booking"
	"github.com/atelierware/backoffice/core/ledger"
	"github.com/atelierware/backoffice/core/order"
)

// event wraps every published payload so consumers can dedupe on EventID.
type event struct {
	EventID string      `json:"eventId"`
	Created time.Time   `json:"created"`
	Body    interface{} `json:"body"`
}

func newEvent(body interface{}) event {
	return event{EventID: uuid.New().String(), Created: time.Now(), Body: body}
}

type stockQueue struct {
	queue         *bunnyq.BunnyQ
	stockExchange string
}

func NewStockQueue(bq *bunnyq.BunnyQ, stockExchange string) ledger.Queue {
	return &stockQueue{queue: bq, stockExchange: stockExchange}
}

func (s *stockQueue) PublishStockLevel(ctx context.Context, product ledger.Product) error {
	body, err := json.Marshal(newEvent(product))
	if err != nil {
		return errors.WithMessage(err, "failed to serialize stock level for queue")
	}
	if err = s.queue.Publish(ctx, s.stockExchange, body); err != nil {
		return errors.WithMessage(err, "failed to send stock level to queue")
	}
	return nil
}

type orderQueue struct {
	queue         *bunnyq.BunnyQ
	orderExchange string
}

func NewOrderQueue(bq *bunnyq.BunnyQ, orderExchange string) order.Queue {
	return &orderQueue{queue: bq, orderExchange: orderExchange}
}

func (o *orderQueue) PublishOrderStatus(ctx context.Context, ord order.Order) error {
	body, err := json.Marshal(newEvent(ord))
	if err != nil {
		return errors.WithMessage(err, "failed to serialize order status for queue")
	}
	if err = o.queue.Publish(ctx, o.orderExchange, body); err != nil {
		return errors.WithMessage(err, "failed to send order status to queue")
	}
	return nil
}

type bookingQueue struct {
	queue           *bunnyq.BunnyQ
	bookingExchange string
}

func NewBookingQueue(bq *bunnyq.BunnyQ, bookingExchange string) booking.Queue {
	return &bookingQueue{queue: bq, bookingExchange: bookingExchange}
}

func (b *bookingQueue) PublishBookingStatus(ctx context.Context, bk booking.Booking) error {
	body, err := json.Marshal(newEvent(bk))
	if err != nil {
		return errors.WithMessage(err, "failed to serialize booking status for queue")
	}
	if err = b.queue.Publish(ctx, b.bookingExchange, body); err != nil {
		return errors.WithMessage(err, "failed to send booking status to queue")
	}
	return nil
}
