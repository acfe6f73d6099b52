package orderrepo

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/pkg/errors"

	"github.com/atelierware/backoffice/core"
	"github.com/atelierware/backoffice/core/order"
	"github.com/atelierware/backoffice/db"
)

type dbRepo struct {
	conn core.Conn
}

func NewPostgresRepo(conn core.Conn) order.Repository {
	return &dbRepo{
		conn: conn,
	}
}

func (d *dbRepo) GetOrder(ctx context.Context, id uint64, options ...core.QueryOptions) (order.Order, error) {
	m := db.StartMetric("GetOrder")
	tx, forUpdate := db.GetQueryOptions(d.conn, options...)

	ord := order.Order{}
	err := tx.QueryRow(ctx, `SELECT id, customer_id, status, total_amount, created FROM orders WHERE id = $1 `+forUpdate, id).
		Scan(&ord.ID, &ord.CustomerID, &ord.Status, &ord.TotalAmount, &ord.Created)

	if err != nil {
		m.Complete(err)
		if err == pgx.ErrNoRows {
			return ord, errors.WithStack(core.ErrNotFound)
		}
		return ord, errors.WithStack(err)
	}

	m.Complete(nil)
	return ord, nil
}

func (d *dbRepo) GetOrders(ctx context.Context, limit, offset int, options ...core.QueryOptions) ([]order.Order, error) {
	m := db.StartMetric("GetOrders")
	tx, forUpdate := db.GetQueryOptions(d.conn, options...)

	orders := make([]order.Order, 0)
	rows, err := tx.Query(ctx,
		`SELECT id, customer_id, status, total_amount, created FROM orders ORDER BY created DESC LIMIT $1 OFFSET $2 `+forUpdate,
		limit, offset)
	if err != nil {
		m.Complete(err)
		if err == pgx.ErrNoRows {
			return orders, errors.WithStack(core.ErrNotFound)
		}
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	for rows.Next() {
		ord := order.Order{}
		err = rows.Scan(&ord.ID, &ord.CustomerID, &ord.Status, &ord.TotalAmount, &ord.Created)
		if err != nil {
			m.Complete(err)
			return nil, errors.WithStack(err)
		}
		orders = append(orders, ord)
	}

	m.Complete(nil)
	return orders, nil
}

func (d *dbRepo) GetOrderItems(ctx context.Context, orderID uint64, options ...core.QueryOptions) ([]order.Item, error) {
	m := db.StartMetric("GetOrderItems")
	tx, forUpdate := db.GetQueryOptions(d.conn, options...)

	items := make([]order.Item, 0)
	rows, err := tx.Query(ctx,
		`SELECT id, order_id, product_id, quantity, unit_price, subtotal FROM order_items WHERE order_id = $1 ORDER BY id `+forUpdate,
		orderID)
	if err != nil {
		m.Complete(err)
		if err == pgx.ErrNoRows {
			return items, errors.WithStack(core.ErrNotFound)
		}
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	for rows.Next() {
		item := order.Item{}
		err = rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Subtotal)
		if err != nil {
			m.Complete(err)
			return nil, errors.WithStack(err)
		}
		items = append(items, item)
	}

	m.Complete(nil)
	return items, nil
}

func (d *dbRepo) SaveOrder(ctx context.Context, ord *order.Order, options ...core.UpdateOptions) error {
	m := db.StartMetric("SaveOrder")
	tx := db.GetUpdateOptions(d.conn, options...)

	insert := `INSERT INTO orders (customer_id, status, total_amount, created)
                      VALUES ($1, $2, $3, $4) RETURNING id;`
	err := tx.QueryRow(ctx, insert, ord.CustomerID, ord.Status, ord.TotalAmount, ord.Created).
		Scan(&ord.ID)
	if err != nil {
		m.Complete(err)
		return errors.WithStack(err)
	}
	m.Complete(nil)
	return nil
}

func (d *dbRepo) SaveOrderItem(ctx context.Context, item *order.Item, options ...core.UpdateOptions) error {
	m := db.StartMetric("SaveOrderItem")
	tx := db.GetUpdateOptions(d.conn, options...)

	insert := `INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
                      VALUES ($1, $2, $3, $4, $5) RETURNING id;`
	err := tx.QueryRow(ctx, insert, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal).
		Scan(&item.ID)
	if err != nil {
		m.Complete(err)
		return errors.WithStack(err)
	}
	m.Complete(nil)
	return nil
}

func (d *dbRepo) UpdateOrderStatus(ctx context.Context, id uint64, status order.Status, options ...core.UpdateOptions) error {
	m := db.StartMetric("UpdateOrderStatus")
	tx := db.GetUpdateOptions(d.conn, options...)

	update := `UPDATE orders SET status = $2 WHERE id = $1;`
	_, err := tx.Exec(ctx, update, id, status)
	m.Complete(err)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (d *dbRepo) BeginTransaction(ctx context.Context) (core.Transaction, error) {
	tx, err := d.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}
