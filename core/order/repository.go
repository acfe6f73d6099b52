package order

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/atelierware/backoffice/core"
	"github.com/atelierware/backoffice/core/ledger"
)

func rollback(ctx context.Context, tx core.Transaction, err error) {
	if tx == nil {
		return
	}
	e := tx.Rollback(ctx)
	if e != nil {
		log.Warn().Err(err).Msg("failed to rollback")
	}
}

type Transactional interface {
	BeginTransaction(ctx context.Context) (core.Transaction, error)
}

type Repository interface {
	Transactional
	GetOrder(ctx context.Context, id uint64, options ...core.QueryOptions) (Order, error)
	GetOrders(ctx context.Context, limit, offset int, options ...core.QueryOptions) ([]Order, error)
	GetOrderItems(ctx context.Context, orderID uint64, options ...core.QueryOptions) ([]Item, error)

	SaveOrder(ctx context.Context, order *Order, options ...core.UpdateOptions) error
	SaveOrderItem(ctx context.Context, item *Item, options ...core.UpdateOptions) error
	UpdateOrderStatus(ctx context.Context, id uint64, status Status, options ...core.UpdateOptions) error
}

// Stock is the slice of the ledger service the order lifecycle drives. Every
// call receives the lifecycle's transaction so a failed item rolls back the
// whole status change.
type Stock interface {
	TrySpend(ctx context.Context, chg ledger.StockChange, options ...core.UpdateOptions) error
	TryRestore(ctx context.Context, chg ledger.StockChange, options ...core.UpdateOptions) error
	TouchLastSold(ctx context.Context, productID uint64, options ...core.UpdateOptions) error
}

type Queue interface {
	PublishOrderStatus(ctx context.Context, order Order) error
}
