// Package order drives an order's status lifecycle and keeps the stock ledger
// in step with it: cancelling restores every line item, reinstating a
// cancelled order spends them again, all inside one transaction.
package order

import (
	"time"

	"github.com/pkg/errors"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(v string) (Status, error) {
	switch v {
	case string(StatusPending):
		return StatusPending, nil
	case string(StatusConfirmed):
		return StatusConfirmed, nil
	case string(StatusCompleted):
		return StatusCompleted, nil
	case string(StatusCancelled):
		return StatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// Order is an entity. Status is the only field mutated after creation;
// cancelled is a soft terminal state that an admin may reverse.
type Order struct {
	ID          uint64    `json:"id"`
	CustomerID  uint64    `json:"customerId"`
	Status      Status    `json:"status"`
	TotalAmount float64   `json:"totalAmount"`
	Created     time.Time `json:"created"`
	Items       []Item    `json:"items,omitempty"`
}

// Item is a value object once written. Quantity is the unit of stock debit
// and credit; UnitPrice is the price at time of sale.
type Item struct {
	ID        uint64  `json:"id"`
	OrderID   uint64  `json:"orderId"`
	ProductID uint64  `json:"productId"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

type CreateOrderRequest struct {
	CustomerID uint64            `json:"customerId"`
	Items      []CreateOrderItem `json:"items"`
	ActorID    uint64            `json:"-"`
}

type CreateOrderItem struct {
	ProductID uint64  `json:"productId"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}
