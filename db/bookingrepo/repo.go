package bookingrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/pkg/errors"

	"github.com/atelierware/backoffice/core"
	"github.com/atelierware/backoffice/core/booking"
	"github.com/atelierware/backoffice/db"
)

type dbRepo struct {
	conn core.Conn
}

func NewPostgresRepo(conn core.Conn) booking.Repository {
	return &dbRepo{
		conn: conn,
	}
}

func (d *dbRepo) GetBooking(ctx context.Context, id uint64, options ...core.QueryOptions) (booking.Booking, error) {
	m := db.StartMetric("GetBooking")
	tx, forUpdate := db.GetQueryOptions(d.conn, options...)

	bk := booking.Booking{}
	err := tx.QueryRow(ctx, `SELECT id, customer_id, course_id, status, slot_id, sessions_purchased, sessions_remaining, total_amount, created FROM bookings WHERE id = $1 `+forUpdate, id).
		Scan(&bk.ID, &bk.CustomerID, &bk.CourseID, &bk.Status, &bk.SlotID, &bk.SessionsPurchased, &bk.SessionsRemaining, &bk.TotalAmount, &bk.Created)

	if err != nil {
		m.Complete(err)
		if err == pgx.ErrNoRows {
			return bk, errors.WithStack(core.ErrNotFound)
		}
		return bk, errors.WithStack(err)
	}

	m.Complete(nil)
	return bk, nil
}

func (d *dbRepo) GetBookings(ctx context.Context, limit, offset int, options ...core.QueryOptions) ([]booking.Booking, error) {
	m := db.StartMetric("GetBookings")
	tx, forUpdate := db.GetQueryOptions(d.conn, options...)

	bookings := make([]booking.Booking, 0)
	rows, err := tx.Query(ctx,
		`SELECT id, customer_id, course_id, status, slot_id, sessions_purchased, sessions_remaining, total_amount, created FROM bookings ORDER BY created DESC LIMIT $1 OFFSET $2 `+forUpdate,
		limit, offset)
	if err != nil {
		m.Complete(err)
		if err == pgx.ErrNoRows {
			return bookings, errors.WithStack(core.ErrNotFound)
		}
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	for rows.Next() {
		bk := booking.Booking{}
		err = rows.Scan(&bk.ID, &bk.CustomerID, &bk.CourseID, &bk.Status, &bk.SlotID, &bk.SessionsPurchased, &bk.SessionsRemaining, &bk.TotalAmount, &bk.Created)
		if err != nil {
			m.Complete(err)
			return nil, errors.WithStack(err)
		}
		bookings = append(bookings, bk)
	}

	m.Complete(nil)
	return bookings, nil
}

func (d *dbRepo) SaveBooking(ctx context.Context, bk *booking.Booking, options ...core.UpdateOptions) error {
	m := db.StartMetric("SaveBooking")
	tx := db.GetUpdateOptions(d.conn, options...)

	insert := `INSERT INTO bookings (customer_id, course_id, status, slot_id, sessions_purchased, sessions_remaining, total_amount, created)
                      VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id;`
	err := tx.QueryRow(ctx, insert, bk.CustomerID, bk.CourseID, bk.Status, bk.SlotID, bk.SessionsPurchased, bk.SessionsRemaining, bk.TotalAmount, bk.Created).
		Scan(&bk.ID)
	if err != nil {
		m.Complete(err)
		return errors.WithStack(err)
	}
	m.Complete(nil)
	return nil
}

func (d *dbRepo) UpdateBookingStatus(ctx context.Context, id uint64, status booking.Status, options ...core.UpdateOptions) error {
	m := db.StartMetric("UpdateBookingStatus")
	tx := db.GetUpdateOptions(d.conn, options...)

	update := `UPDATE bookings SET status = $2 WHERE id = $1;`
	_, err := tx.Exec(ctx, update, id, status)
	m.Complete(err)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (d *dbRepo) GetSlot(ctx context.Context, id uint64, options ...core.QueryOptions) (booking.Slot, error) {
	m := db.StartMetric("GetSlot")
	tx, forUpdate := db.GetQueryOptions(d.conn, options...)

	slot := booking.Slot{}
	err := tx.QueryRow(ctx, `SELECT id, window_start, window_end, max_capacity, current_bookings FROM capacity_slots WHERE id = $1 `+forUpdate, id).
		Scan(&slot.ID, &slot.WindowStart, &slot.WindowEnd, &slot.MaxCapacity, &slot.CurrentBookings)

	if err != nil {
		m.Complete(err)
		if err == pgx.ErrNoRows {
			return slot, errors.WithStack(core.ErrNotFound)
		}
		return slot, errors.WithStack(err)
	}

	m.Complete(nil)
	return slot, nil
}

func (d *dbRepo) GetSlotByWindow(ctx context.Context, start, end time.Time, options ...core.QueryOptions) (booking.Slot, error) {
	m := db.StartMetric("GetSlotByWindow")
	tx, forUpdate := db.GetQueryOptions(d.conn, options...)

	slot := booking.Slot{}
	err := tx.QueryRow(ctx, `SELECT id, window_start, window_end, max_capacity, current_bookings FROM capacity_slots WHERE window_start = $1 AND window_end = $2 `+forUpdate, start, end).
		Scan(&slot.ID, &slot.WindowStart, &slot.WindowEnd, &slot.MaxCapacity, &slot.CurrentBookings)

	if err != nil {
		m.Complete(err)
		if err == pgx.ErrNoRows {
			return slot, errors.WithStack(core.ErrNotFound)
		}
		return slot, errors.WithStack(err)
	}

	m.Complete(nil)
	return slot, nil
}

func (d *dbRepo) GetSlots(ctx context.Context, from, to time.Time, options ...core.QueryOptions) ([]booking.Slot, error) {
	m := db.StartMetric("GetSlots")
	tx, forUpdate := db.GetQueryOptions(d.conn, options...)

	slots := make([]booking.Slot, 0)
	rows, err := tx.Query(ctx,
		`SELECT id, window_start, window_end, max_capacity, current_bookings FROM capacity_slots WHERE window_start >= $1 AND window_end <= $2 ORDER BY window_start `+forUpdate,
		from, to)
	if err != nil {
		m.Complete(err)
		if err == pgx.ErrNoRows {
			return slots, errors.WithStack(core.ErrNotFound)
		}
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	for rows.Next() {
		slot := booking.Slot{}
		err = rows.Scan(&slot.ID, &slot.WindowStart, &slot.WindowEnd, &slot.MaxCapacity, &slot.CurrentBookings)
		if err != nil {
			m.Complete(err)
			return nil, errors.WithStack(err)
		}
		slots = append(slots, slot)
	}

	m.Complete(nil)
	return slots, nil
}

func (d *dbRepo) SaveSlot(ctx context.Context, slot *booking.Slot, options ...core.UpdateOptions) error {
	m := db.StartMetric("SaveSlot")
	tx := db.GetUpdateOptions(d.conn, options...)

	insert := `INSERT INTO capacity_slots (window_start, window_end, max_capacity, current_bookings)
                      VALUES ($1, $2, $3, $4) RETURNING id;`
	err := tx.QueryRow(ctx, insert, slot.WindowStart, slot.WindowEnd, slot.MaxCapacity, slot.CurrentBookings).
		Scan(&slot.ID)
	if err != nil {
		m.Complete(err)
		return errors.WithStack(err)
	}
	m.Complete(nil)
	return nil
}

func (d *dbRepo) UpdateSlotBookings(ctx context.Context, id uint64, currentBookings int32, options ...core.UpdateOptions) error {
	m := db.StartMetric("UpdateSlotBookings")
	tx := db.GetUpdateOptions(d.conn, options...)

	update := `UPDATE capacity_slots SET current_bookings = $2 WHERE id = $1;`
	_, err := tx.Exec(ctx, update, id, currentBookings)
	m.Complete(err)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (d *dbRepo) UpdateSlotCapacity(ctx context.Context, id uint64, maxCapacity int32, options ...core.UpdateOptions) error {
	m := db.StartMetric("UpdateSlotCapacity")
	tx := db.GetUpdateOptions(d.conn, options...)

	update := `UPDATE capacity_slots SET max_capacity = $2 WHERE id = $1;`
	_, err := tx.Exec(ctx, update, id, maxCapacity)
	m.Complete(err)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (d *dbRepo) UpsertSlotCapacity(ctx context.Context, start, end time.Time, capacity int32, options ...core.UpdateOptions) error {
	m := db.StartMetric("UpsertSlotCapacity")
	tx := db.GetUpdateOptions(d.conn, options...)

	// Occupancy survives a capacity update on an existing window.
	upsert := `INSERT INTO capacity_slots (window_start, window_end, max_capacity, current_bookings)
                      VALUES ($1, $2, $3, 0)
                 ON CONFLICT (window_start, window_end)
                 DO UPDATE SET max_capacity = EXCLUDED.max_capacity;`
	_, err := tx.Exec(ctx, upsert, start, end, capacity)
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
