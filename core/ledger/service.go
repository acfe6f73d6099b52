package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/atelierware/backoffice/core"
)

func NewService(repo Repository, q Queue) *service {
	return &service{repo: repo, queue: q}
}

type Service interface {
	CreateProduct(ctx context.Context, product *Product, actorID uint64) error

	GetProduct(ctx context.Context, id uint64) (Product, error)
	GetAllProducts(ctx context.Context, limit, offset int) ([]Product, error)
	GetLogEntries(ctx context.Context, productID uint64, limit, offset int) ([]LogEntry, error)

	Adjust(ctx context.Context, adj Adjustment, options ...core.UpdateOptions) error
	Restock(ctx context.Context, rr RestockRequest) (newCost float64, err error)
	TrySpend(ctx context.Context, chg StockChange, options ...core.UpdateOptions) error
	TryRestore(ctx context.Context, chg StockChange, options ...core.UpdateOptions) error
	TouchLastSold(ctx context.Context, productID uint64, options ...core.UpdateOptions) error
}

type service struct {
	repo  Repository
	queue Queue
}

// begin returns the caller's transaction when one is supplied, otherwise it
// opens a new one. The service commits only transactions it owns; a lifecycle
// component composing several ledger calls commits the shared one itself.
func (s *service) begin(ctx context.Context, options ...core.UpdateOptions) (tx core.Transaction, owned bool, err error) {
	if len(options) > 0 && options[0].Tx != nil {
		return options[0].Tx, false, nil
	}
	tx, err = s.repo.BeginTransaction(ctx)
	if err != nil {
		return nil, false, errors.WithStack(err)
	}
	return tx, true, nil
}

func (s *service) CreateProduct(ctx context.Context, product *Product, actorID uint64) error {
	const funcName = "CreateProduct"

	log.Info().
		Str("func", funcName).
		Str("name", product.Name).
		Int64("stockQuantity", product.StockQuantity).
		Msg("creating product")

	if product.Created.IsZero() {
		product.Created = time.Now()
	}

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	defer func() {
		if err != nil {
			rollback(ctx, tx, err)
		}
	}()

	if err = s.repo.SaveProduct(ctx, product, core.UpdateOptions{Tx: tx}); err != nil {
		return errors.WithStack(err)
	}

	if product.StockQuantity > 0 {
		entry := LogEntry{
			ProductID:    product.ID,
			ChangeAmount: product.StockQuantity,
			ChangeType:   ChangePurchase,
			Note:         "Initial stock",
			CreatedBy:    actorID,
			Created:      time.Now(),
		}
		if err = s.repo.SaveLogEntry(ctx, &entry, core.UpdateOptions{Tx: tx}); err != nil {
			return errors.WithStack(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *service) GetProduct(ctx context.Context, id uint64) (Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return product, errors.WithStack(err)
	}
	return product, nil
}

func (s *service) GetAllProducts(ctx context.Context, limit, offset int) ([]Product, error) {
	return s.repo.GetAllProducts(ctx, limit, offset)
}

func (s *service) GetLogEntries(ctx context.Context, productID uint64, limit, offset int) ([]LogEntry, error) {
	return s.repo.GetLogEntries(ctx, productID, limit, offset)
}

// Adjust applies a signed manual correction. There is deliberately no bounds
// check here: a stocktake may legitimately record more outflow than the system
// thinks is on hand, driving the count negative until corrected.
func (s *service) Adjust(ctx context.Context, adj Adjustment, options ...core.UpdateOptions) error {
	const funcName = "Adjust"

	log.Info().
		Str("func", funcName).
		Uint64("productId", adj.ProductID).
		Int64("delta", adj.Delta).
		Str("changeType", string(adj.ChangeType)).
		Msg("adjusting stock")

	if adj.Delta == 0 {
		return errors.New("delta must not be zero")
	}
	if adj.ChangeType == "" {
		adj.ChangeType = ChangeAdjustment
	}

	tx, owned, err := s.begin(ctx, options...)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil && owned {
			rollback(ctx, tx, err)
		}
	}()

	product, err := s.repo.GetProduct(ctx, adj.ProductID, core.QueryOptions{Tx: tx, ForUpdate: true})
	if err != nil {
		return errors.WithStack(err)
	}

	product.StockQuantity += adj.Delta
	if err = s.repo.UpdateStock(ctx, product.ID, product.StockQuantity, product.UnitCost, core.UpdateOptions{Tx: tx}); err != nil {
		return errors.WithMessage(err, "failed to apply stock adjustment")
	}

	entry := LogEntry{
		ProductID:    adj.ProductID,
		ChangeAmount: adj.Delta,
		ChangeType:   adj.ChangeType,
		Note:         adj.Note,
		CreatedBy:    adj.ActorID,
		Created:      time.Now(),
	}
	if err = s.repo.SaveLogEntry(ctx, &entry, core.UpdateOptions{Tx: tx}); err != nil {
		return errors.WithMessage(err, "failed to log stock adjustment")
	}

	if owned {
		if err = tx.Commit(ctx); err != nil {
			return errors.WithStack(err)
		}
		s.publishStockLevel(ctx, product)
	}

	return nil
}

// Restock adds purchased quantity and re-costs the product with a weighted
// average. When the request carries no unit cost the current cost is kept
// unchanged. Returns the resulting average cost.
func (s *service) Restock(ctx context.Context, rr RestockRequest) (newCost float64, err error) {
	const funcName = "Restock"

	log.Info().
		Str("func", funcName).
		Uint64("productId", rr.ProductID).
		Int64("quantity", rr.Quantity).
		Msg("restocking product")

	if rr.Quantity < 1 {
		return 0, errors.New("quantity must be greater than zero")
	}

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	defer func() {
		if err != nil {
			rollback(ctx, tx, err)
		}
	}()

	product, err := s.repo.GetProduct(ctx, rr.ProductID, core.QueryOptions{Tx: tx, ForUpdate: true})
	if err != nil {
		return 0, errors.WithStack(err)
	}

	newCost = product.UnitCost
	note := rr.Note
	if rr.UnitCost != nil {
		newCost = WeightedAverageCost(product.StockQuantity, product.UnitCost, rr.Quantity, *rr.UnitCost)
		note = appendCostNote(note, *rr.UnitCost, newCost)
	}

	product.StockQuantity += rr.Quantity
	product.UnitCost = newCost
	if err = s.repo.UpdateStock(ctx, product.ID, product.StockQuantity, product.UnitCost, core.UpdateOptions{Tx: tx}); err != nil {
		return 0, errors.WithMessage(err, "failed to apply restock")
	}

	entry := LogEntry{
		ProductID:    rr.ProductID,
		ChangeAmount: rr.Quantity,
		ChangeType:   ChangePurchase,
		Note:         note,
		CreatedBy:    rr.ActorID,
		Created:      time.Now(),
	}
	if err = s.repo.SaveLogEntry(ctx, &entry, core.UpdateOptions{Tx: tx}); err != nil {
		return 0, errors.WithMessage(err, "failed to log restock")
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, errors.WithStack(err)
	}

	s.publishStockLevel(ctx, product)

	return newCost, nil
}

// TrySpend debits stock for a sale. The product row is locked before the
// check so two concurrent spends against the same product serialize; a
// shortage returns InsufficientStockError with nothing applied.
func (s *service) TrySpend(ctx context.Context, chg StockChange, options ...core.UpdateOptions) error {
	const funcName = "TrySpend"

	log.Info().
		Str("func", funcName).
		Uint64("productId", chg.ProductID).
		Int64("quantity", chg.Quantity).
		Uint64("referenceId", chg.ReferenceID).
		Msg("spending stock")

	if chg.Quantity < 1 {
		return errors.New("quantity must be greater than zero")
	}

	tx, owned, err := s.begin(ctx, options...)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil && owned {
			rollback(ctx, tx, err)
		}
	}()

	product, err := s.repo.GetProduct(ctx, chg.ProductID, core.QueryOptions{Tx: tx, ForUpdate: true})
	if err != nil {
		return errors.WithStack(err)
	}

	if chg.Quantity > product.StockQuantity {
		err = &InsufficientStockError{
			ProductID: chg.ProductID,
			Requested: chg.Quantity,
			Available: product.StockQuantity,
		}
		return err
	}

	product.StockQuantity -= chg.Quantity
	if err = s.repo.UpdateStock(ctx, product.ID, product.StockQuantity, product.UnitCost, core.UpdateOptions{Tx: tx}); err != nil {
		return errors.WithMessage(err, "failed to debit stock")
	}

	entry := LogEntry{
		ProductID:    chg.ProductID,
		ChangeAmount: -chg.Quantity,
		ChangeType:   chg.ChangeType,
		ReferenceID:  chg.ReferenceID,
		CreatedBy:    chg.ActorID,
		Created:      time.Now(),
	}
	if err = s.repo.SaveLogEntry(ctx, &entry, core.UpdateOptions{Tx: tx}); err != nil {
		return errors.WithMessage(err, "failed to log stock debit")
	}

	if owned {
		if err = tx.Commit(ctx); err != nil {
			return errors.WithStack(err)
		}
		s.publishStockLevel(ctx, product)
	}

	return nil
}

// TryRestore credits stock back. Returns are always accepted, even when the
// credit pushes the count above anything previously recorded.
func (s *service) TryRestore(ctx context.Context, chg StockChange, options ...core.UpdateOptions) error {
	const funcName = "TryRestore"

	log.Info().
		Str("func", funcName).
		Uint64("productId", chg.ProductID).
		Int64("quantity", chg.Quantity).
		Uint64("referenceId", chg.ReferenceID).
		Msg("restoring stock")

	if chg.Quantity < 1 {
		return errors.New("quantity must be greater than zero")
	}

	tx, owned, err := s.begin(ctx, options...)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil && owned {
			rollback(ctx, tx, err)
		}
	}()

	product, err := s.repo.GetProduct(ctx, chg.ProductID, core.QueryOptions{Tx: tx, ForUpdate: true})
	if err != nil {
		return errors.WithStack(err)
	}

	product.StockQuantity += chg.Quantity
	if err = s.repo.UpdateStock(ctx, product.ID, product.StockQuantity, product.UnitCost, core.UpdateOptions{Tx: tx}); err != nil {
		return errors.WithMessage(err, "failed to credit stock")
	}

	entry := LogEntry{
		ProductID:    chg.ProductID,
		ChangeAmount: chg.Quantity,
		ChangeType:   chg.ChangeType,
		ReferenceID:  chg.ReferenceID,
		CreatedBy:    chg.ActorID,
		Created:      time.Now(),
	}
	if err = s.repo.SaveLogEntry(ctx, &entry, core.UpdateOptions{Tx: tx}); err != nil {
		return errors.WithMessage(err, "failed to log stock credit")
	}

	if owned {
		if err = tx.Commit(ctx); err != nil {
			return errors.WithStack(err)
		}
		s.publishStockLevel(ctx, product)
	}

	return nil
}

// TouchLastSold stamps the product's last-sold time. Bookkeeping only; no log
// entry is written.
func (s *service) TouchLastSold(ctx context.Context, productID uint64, options ...core.UpdateOptions) error {
	tx, owned, err := s.begin(ctx, options...)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil && owned {
			rollback(ctx, tx, err)
		}
	}()

	if err = s.repo.TouchLastSold(ctx, productID, time.Now(), core.UpdateOptions{Tx: tx}); err != nil {
		return errors.WithStack(err)
	}

	if owned {
		if err = tx.Commit(ctx); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}

func (s *service) publishStockLevel(ctx context.Context, product Product) {
	if s.queue == nil {
		return
	}
	if err := s.queue.PublishStockLevel(ctx, product); err != nil {
		log.Error().Err(err).Uint64("productId", product.ID).Msg("failed to publish stock level")
	}
}

func appendCostNote(note string, incomingCost, avgCost float64) string {
	costNote := fmt.Sprintf("unit cost %.1f, new average %.1f", incomingCost, avgCost)
	if note == "" {
		return costNote
	}
	return note + " (" + costNote + ")"
}
