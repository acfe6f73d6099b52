package order

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/atelierware/backoffice/core"
	"github.com/atelierware/backoffice/core/ledger"
)

func NewService(repo Repository, stock Stock, q Queue) *service {
	return &service{repo: repo, stock: stock, queue: q}
}

type Service interface {
	Create(ctx context.Context, req CreateOrderRequest) (Order, error)
	Get(ctx context.Context, id uint64) (Order, error)
	GetAll(ctx context.Context, limit, offset int) ([]Order, error)
	Transition(ctx context.Context, orderID uint64, newStatus Status, actorID uint64) error
}

type service struct {
	repo  Repository
	stock Stock
	queue Queue
}

// Create places a pending order, writing its items and debiting stock for
// each one in the same transaction. A shortage on any item aborts the whole
// order with ledger.InsufficientStockError.
func (s *service) Create(ctx context.Context, req CreateOrderRequest) (Order, error) {
	const funcName = "Create"

	log.Info().
		Str("func", funcName).
		Uint64("customerId", req.CustomerID).
		Int("items", len(req.Items)).
		Msg("creating order")

	if len(req.Items) == 0 {
		return Order{}, errors.New("order requires at least one item")
	}
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return Order{}, errors.New("item quantity must be greater than zero")
		}
	}

	ord := Order{
		CustomerID: req.CustomerID,
		Status:     StatusPending,
		Created:    time.Now(),
	}
	for _, it := range req.Items {
		ord.TotalAmount += float64(it.Quantity) * it.UnitPrice
	}

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return Order{}, errors.WithStack(err)
	}

	defer func() {
		if err != nil {
			rollback(ctx, tx, err)
		}
	}()

	if err = s.repo.SaveOrder(ctx, &ord, core.UpdateOptions{Tx: tx}); err != nil {
		return Order{}, errors.WithStack(err)
	}

	for _, it := range req.Items {
		item := Item{
			OrderID:   ord.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  float64(it.Quantity) * it.UnitPrice,
		}
		if err = s.repo.SaveOrderItem(ctx, &item, core.UpdateOptions{Tx: tx}); err != nil {
			return Order{}, errors.WithStack(err)
		}
		ord.Items = append(ord.Items, item)

		err = s.stock.TrySpend(ctx, ledger.StockChange{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			ChangeType:  ledger.ChangeSale,
			ReferenceID: ord.ID,
			ActorID:     req.ActorID,
		}, core.UpdateOptions{Tx: tx})
		if err != nil {
			return Order{}, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return Order{}, errors.WithStack(err)
	}

	s.publishStatus(ctx, ord)

	return ord, nil
}

func (s *service) Get(ctx context.Context, id uint64) (Order, error) {
	ord, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return ord, errors.WithStack(err)
	}
	ord.Items, err = s.repo.GetOrderItems(ctx, id)
	if err != nil {
		return ord, errors.WithStack(err)
	}
	return ord, nil
}

func (s *service) GetAll(ctx context.Context, limit, offset int) ([]Order, error) {
	return s.repo.GetOrders(ctx, limit, offset)
}

// Transition moves an order to a new status and applies the inventory side
// effects atomically with the status write:
//
//	anything -> cancelled   restore stock for every item
//	cancelled -> anything   spend stock for every item, all or nothing
//	anything -> completed   stamp last-sold on each product
//
// A repeat of the current status is a no-op that writes nothing.
func (s *service) Transition(ctx context.Context, orderID uint64, newStatus Status, actorID uint64) error {
	const funcName = "Transition"

	log.Info().
		Str("func", funcName).
		Uint64("orderId", orderID).
		Str("newStatus", string(newStatus)).
		Msg("transitioning order")

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	defer func() {
		if err != nil {
			rollback(ctx, tx, err)
		}
	}()

	ord, err := s.repo.GetOrder(ctx, orderID, core.QueryOptions{Tx: tx, ForUpdate: true})
	if err != nil {
		return errors.WithStack(err)
	}

	if ord.Status == newStatus {
		log.Debug().
			Str("func", funcName).
			Uint64("orderId", orderID).
			Str("status", string(newStatus)).
			Msg("order already in requested status")
		if err = tx.Commit(ctx); err != nil {
			return errors.WithStack(err)
		}
		return nil
	}

	items, err := s.repo.GetOrderItems(ctx, orderID, core.QueryOptions{Tx: tx})
	if err != nil {
		return errors.WithStack(err)
	}

	if newStatus == StatusCancelled {
		for _, item := range items {
			err = s.stock.TryRestore(ctx, ledger.StockChange{
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				ChangeType:  ledger.ChangeReturn,
				ReferenceID: orderID,
				ActorID:     actorID,
			}, core.UpdateOptions{Tx: tx})
			if err != nil {
				return err
			}
		}
	}

	if ord.Status == StatusCancelled {
		for _, item := range items {
			err = s.stock.TrySpend(ctx, ledger.StockChange{
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				ChangeType:  ledger.ChangeSale,
				ReferenceID: orderID,
				ActorID:     actorID,
			}, core.UpdateOptions{Tx: tx})
			if err != nil {
				return err
			}
		}
	}

	if newStatus == StatusCompleted {
		for _, item := range items {
			if err = s.stock.TouchLastSold(ctx, item.ProductID, core.UpdateOptions{Tx: tx}); err != nil {
				return err
			}
		}
	}

	if err = s.repo.UpdateOrderStatus(ctx, orderID, newStatus, core.UpdateOptions{Tx: tx}); err != nil {
		return errors.WithStack(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return errors.WithStack(err)
	}

	ord.Status = newStatus
	ord.Items = items
	s.publishStatus(ctx, ord)

	return nil
}

func (s *service) publishStatus(ctx context.Context, ord Order) {
	if s.queue == nil {
		return
	}
	if err := s.queue.PublishOrderStatus(ctx, ord); err != nil {
		log.Error().Err(err).Uint64("orderId", ord.ID).Msg("failed to publish order status")
	}
}
