package ledger

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/atelierware/backoffice/core"
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
	ProductRepository
	LogRepository
}

type ProductRepository interface {
	Transactional
	GetProduct(ctx context.Context, id uint64, options ...core.QueryOptions) (Product, error)
	GetAllProducts(ctx context.Context, limit, offset int, options ...core.QueryOptions) ([]Product, error)

	SaveProduct(ctx context.Context, product *Product, options ...core.UpdateOptions) error
	UpdateStock(ctx context.Context, id uint64, quantity int64, unitCost float64, options ...core.UpdateOptions) error
	TouchLastSold(ctx context.Context, id uint64, at time.Time, options ...core.UpdateOptions) error
}

type LogRepository interface {
	Transactional
	GetLogEntries(ctx context.Context, productID uint64, limit, offset int, options ...core.QueryOptions) ([]LogEntry, error)

	SaveLogEntry(ctx context.Context, entry *LogEntry, options ...core.UpdateOptions) error
}

type Queue interface {
	PublishStockLevel(ctx context.Context, product Product) error
}
