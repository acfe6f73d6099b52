// Package ledger keeps a product's stock count and average unit cost consistent
// with an append-only trail of inventory log entries. Every stock mutation goes
// through this package; nothing else writes stock_quantity or unit_cost.
package ledger

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ChangeType classifies an inventory log entry.
type ChangeType string

const (
	ChangePurchase   ChangeType = "purchase"
	ChangeSale       ChangeType = "sale"
	ChangeReturn     ChangeType = "return"
	ChangeAdjustment ChangeType = "adjustment"
)

func ParseChangeType(v string) (ChangeType, error) {
	switch v {
	case string(ChangePurchase):
		return ChangePurchase, nil
	case string(ChangeSale):
		return ChangeSale, nil
	case string(ChangeReturn):
		return ChangeReturn, nil
	case string(ChangeAdjustment):
		return ChangeAdjustment, nil
	default:
		return "", errors.New("invalid change type")
	}
}

// Product is an entity. StockQuantity and UnitCost are owned by this package;
// the remaining fields belong to catalog management.
type Product struct {
	ID            uint64     `json:"id"`
	Name          string     `json:"name"`
	Price         float64    `json:"price"`
	UnitCost      float64    `json:"unitCost"`
	StockQuantity int64      `json:"stockQuantity"`
	LastSoldAt    *time.Time `json:"lastSoldAt,omitempty"`
	Created       time.Time  `json:"created"`
}

// LogEntry is a value object once written. One entry per stock mutation;
// entries are never updated or deleted.
type LogEntry struct {
	ID           uint64     `json:"id"`
	ProductID    uint64     `json:"productId"`
	ChangeAmount int64      `json:"changeAmount"`
	ChangeType   ChangeType `json:"changeType"`
	ReferenceID  uint64     `json:"referenceId,omitempty"`
	Note         string     `json:"note,omitempty"`
	CreatedBy    uint64     `json:"createdBy"`
	Created      time.Time  `json:"created"`
}

// Adjustment is a value object. A manual stocktake correction; Delta is signed
// and applied without a bounds check.
type Adjustment struct {
	ProductID  uint64     `json:"productId"`
	Delta      int64      `json:"delta"`
	ChangeType ChangeType `json:"changeType"`
	Note       string     `json:"note"`
	ActorID    uint64     `json:"-"`
}

// RestockRequest is a value object. UnitCost is optional; when nil the product
// keeps its current average cost.
type RestockRequest struct {
	ProductID uint64   `json:"productId"`
	Quantity  int64    `json:"quantity"`
	UnitCost  *float64 `json:"unitCost,omitempty"`
	Note      string   `json:"note"`
	ActorID   uint64   `json:"-"`
}

// StockChange is a value object. A stock-checked debit or unconditional credit
// tied to the order or booking that caused it.
type StockChange struct {
	ProductID   uint64
	Quantity    int64
	ChangeType  ChangeType
	ReferenceID uint64
	ActorID     uint64
}

// InsufficientStockError rejects a debit that would exceed available stock.
// It aborts the enclosing transaction; nothing is applied.
type InsufficientStockError struct {
	ProductID uint64 `json:"productId"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
