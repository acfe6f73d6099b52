package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/atelierware/backoffice/core/order"
)

type OrderResponse struct {
	order.Order
}

func NewOrderResponse(ord order.Order) *OrderResponse {
	return &OrderResponse{Order: ord}
}

func (rd *OrderResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

func NewOrderListResponse(orders []order.Order) []render.Renderer {
	list := make([]render.Renderer, 0)
	for _, ord := range orders {
		list = append(list, NewOrderResponse(ord))
	}
	return list
}

type CreateOrderRequestDto struct {
	*order.CreateOrderRequest
}

func (p *CreateOrderRequestDto) Bind(_ *http.Request) error {
	if p.CreateOrderRequest == nil {
		return errors.New("missing required order fields")
	}
	if len(p.Items) == 0 {
		return errors.New("order must contain at least one item")
	}
	for _, item := range p.Items {
		if item.ProductID == 0 {
			return errors.New("productId is required for every item")
		}
		if item.Quantity < 1 {
			return errors.New("item quantity must be greater than zero")
		}
		if item.UnitPrice < 0 {
			return errors.New("item unit price must not be negative")
		}
	}

	return nil
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`

	status order.Status
}

func (p *OrderStatusUpdateRequest) Bind(_ *http.Request) error {
	st, err := order.ParseStatus(p.Status)
	if err != nil {
		return err
	}
	p.status = st

	return nil
}
