package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/atelierware/backoffice/core/ledger"
)

type ProductResponse struct {
	ledger.Product
}

func NewProductResponse(product ledger.Product) *ProductResponse {
	resp := &ProductResponse{Product: product}
	return resp
}

func (rd *ProductResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	// Pre-processing before a response is marshalled and sent across the wire
	return nil
}

func NewProductListResponse(products []ledger.Product) []render.Renderer {
	list := make([]render.Renderer, 0)
	for _, product := range products {
		list = append(list, NewProductResponse(product))
	}
	return list
}

type LogEntryResponse struct {
	ledger.LogEntry
}

func (rd *LogEntryResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

func NewLogEntryListResponse(entries []ledger.LogEntry) []render.Renderer {
	list := make([]render.Renderer, 0)
	for _, entry := range entries {
		list = append(list, &LogEntryResponse{LogEntry: entry})
	}
	return list
}

type CreateProductRequest struct {
	ledger.Product

	ProtectedID      uint64    `json:"id"`
	ProtectedCreated time.Time `json:"created"`
}

func (p *CreateProductRequest) Bind(_ *http.Request) error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Price < 0 {
		return errors.New("price must not be negative")
	}
	if p.UnitCost < 0 {
		return errors.New("unit cost must not be negative")
	}
	if p.StockQuantity < 0 {
		return errors.New("initial stock must not be negative")
	}

	return nil
}

type RestockRequestDto struct {
	*ledger.RestockRequest
}

func (p *RestockRequestDto) Bind(_ *http.Request) error {
	if p.RestockRequest == nil {
		return errors.New("missing required restock fields")
	}
	if p.Quantity < 1 {
		return errors.New("quantity must be greater than zero")
	}
	if p.UnitCost != nil && *p.UnitCost < 0 {
		return errors.New("unit cost must not be negative")
	}

	return nil
}

type RestockResponse struct {
	ProductID   uint64  `json:"productId"`
	NewUnitCost float64 `json:"newUnitCost"`
}

func (p *RestockResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

type AdjustmentRequestDto struct {
	*ledger.Adjustment
}

func (p *AdjustmentRequestDto) Bind(_ *http.Request) error {
	if p.Adjustment == nil {
		return errors.New("missing required adjustment fields")
	}
	if p.Delta == 0 {
		return errors.New("delta must not be zero")
	}
	if p.ChangeType != "" {
		if _, err := ledger.ParseChangeType(string(p.ChangeType)); err != nil {
			return err
		}
	}

	return nil
}

type AdjustmentResponse struct {
	ProductID uint64 `json:"productId"`
	Delta     int64  `json:"delta"`
}

func (p *AdjustmentResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}
