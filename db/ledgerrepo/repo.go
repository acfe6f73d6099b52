package ledgerrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/pkg/errors"

	"github.com/atelierware/backoffice/core"
	"github.com/atelierware/backoffice/core/ledger"
	"github.com/atelierware/backoffice/db"
)

type dbRepo struct {
	conn core.Conn
}

func NewPostgresRepo(conn core.Conn) ledger.Repository {
	return &dbRepo{
		conn: conn,
	}
}

func (d *dbRepo) GetProduct(ctx context.Context, id uint64, options ...core.QueryOptions) (ledger.Product, error) {
	m := db.StartMetric("GetProduct")
	tx, forUpdate := db.GetQueryOptions(d.conn, options...)

	product := ledger.Product{}
	err := tx.QueryRow(ctx, `SELECT id, name, price, unit_cost, stock_quantity, last_sold_at, created FROM products WHERE id = $1 `+forUpdate, id).
		Scan(&product.ID, &product.Name, &product.Price, &product.UnitCost, &product.StockQuantity, &product.LastSoldAt, &product.Created)

	if err != nil {
		m.Complete(err)
		if err == pgx.ErrNoRows {
			return product, errors.WithStack(core.ErrNotFound)
		}
		return product, errors.WithStack(err)
	}

	m.Complete(nil)
	return product, nil
}

func (d *dbRepo) GetAllProducts(ctx context.Context, limit, offset int, options ...core.QueryOptions) ([]ledger.Product, error) {
	m := db.StartMetric("GetAllProducts")
	tx, forUpdate := db.GetQueryOptions(d.conn, options...)

	products := make([]ledger.Product, 0)
	rows, err := tx.Query(ctx,
		`SELECT id, name, price, unit_cost, stock_quantity, last_sold_at, created FROM products ORDER BY id LIMIT $1 OFFSET $2 `+forUpdate,
		limit, offset)
	if err != nil {
		m.Complete(err)
		if err == pgx.ErrNoRows {
			return products, errors.WithStack(core.ErrNotFound)
		}
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	for rows.Next() {
		product := ledger.Product{}
		err = rows.Scan(&product.ID, &product.Name, &product.Price, &product.UnitCost, &product.StockQuantity, &product.LastSoldAt, &product.Created)
		if err != nil {
			m.Complete(err)
			return nil, errors.WithStack(err)
		}
		products = append(products, product)
	}

	m.Complete(nil)
	return products, nil
}

func (d *dbRepo) SaveProduct(ctx context.Context, product *ledger.Product, options ...core.UpdateOptions) error {
	m := db.StartMetric("SaveProduct")
	tx := db.GetUpdateOptions(d.conn, options...)

	if product.ID == 0 {
		insert := `INSERT INTO products (name, price, unit_cost, stock_quantity, created)
                      VALUES ($1, $2, $3, $4, $5) RETURNING id;`
		err := tx.QueryRow(ctx, insert, product.Name, product.Price, product.UnitCost, product.StockQuantity, product.Created).
			Scan(&product.ID)
		if err != nil {
			m.Complete(err)
			return errors.WithStack(err)
		}
		m.Complete(nil)
		return nil
	}

	_, err := tx.Exec(ctx, `
		UPDATE products
           SET name = $2, price = $3
         WHERE id = $1;`,
		product.ID, product.Name, product.Price)
	m.Complete(err)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (d *dbRepo) UpdateStock(ctx context.Context, id uint64, quantity int64, unitCost float64, options ...core.UpdateOptions) error {
	m := db.StartMetric("UpdateStock")
	tx := db.GetUpdateOptions(d.conn, options...)

	update := `UPDATE products SET stock_quantity = $2, unit_cost = $3 WHERE id = $1;`
	_, err := tx.Exec(ctx, update, id, quantity, unitCost)
	m.Complete(err)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (d *dbRepo) TouchLastSold(ctx context.Context, id uint64, at time.Time, options ...core.UpdateOptions) error {
	m := db.StartMetric("TouchLastSold")
	tx := db.GetUpdateOptions(d.conn, options...)

	update := `UPDATE products SET last_sold_at = $2 WHERE id = $1;`
	_, err := tx.Exec(ctx, update, id, at)
	m.Complete(err)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (d *dbRepo) GetLogEntries(ctx context.Context, productID uint64, limit, offset int, options ...core.QueryOptions) ([]ledger.LogEntry, error) {
	m := db.StartMetric("GetLogEntries")
	tx, forUpdate := db.GetQueryOptions(d.conn, options...)

	entries := make([]ledger.LogEntry, 0)
	rows, err := tx.Query(ctx,
		`SELECT id, product_id, change_amount, change_type, reference_id, note, created_by, created FROM inventory_logs WHERE product_id = $1 ORDER BY created DESC, id DESC LIMIT $2 OFFSET $3 `+forUpdate,
		productID, limit, offset)
	if err != nil {
		m.Complete(err)
		if err == pgx.ErrNoRows {
			return entries, errors.WithStack(core.ErrNotFound)
		}
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	for rows.Next() {
		entry := ledger.LogEntry{}
		err = rows.Scan(&entry.ID, &entry.ProductID, &entry.ChangeAmount, &entry.ChangeType, &entry.ReferenceID, &entry.Note, &entry.CreatedBy, &entry.Created)
		if err != nil {
			m.Complete(err)
			return nil, errors.WithStack(err)
		}
		entries = append(entries, entry)
	}

	m.Complete(nil)
	return entries, nil
}

func (d *dbRepo) SaveLogEntry(ctx context.Context, entry *ledger.LogEntry, options ...core.UpdateOptions) error {
	m := db.StartMetric("SaveLogEntry")
	tx := db.GetUpdateOptions(d.conn, options...)

	insert := `INSERT INTO inventory_logs (product_id, change_amount, change_type, reference_id, note, created_by, created)
                      VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id;`
	err := tx.QueryRow(ctx, insert, entry.ProductID, entry.ChangeAmount, entry.ChangeType, entry.ReferenceID, entry.Note, entry.CreatedBy, entry.Created).
		Scan(&entry.ID)
	if err != nil {
		m.Complete(err)
		return errors.WithStack(err)
	}
	m.Complete(nil)
	return nil
}

func (d *dbRepo) BeginTransaction(ctx context.Context) (core.Transaction, error) {
	tx, err := d.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}
