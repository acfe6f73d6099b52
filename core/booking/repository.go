package booking

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
	BookingRepository
	SlotRepository
}

type BookingRepository interface {
	Transactional
	GetBooking(ctx context.Context, id uint64, options ...core.QueryOptions) (Booking, error)
	GetBookings(ctx context.Context, limit, offset int, options ...core.QueryOptions) ([]Booking, error)

	SaveBooking(ctx context.Context, booking *Booking, options ...core.UpdateOptions) error
	UpdateBookingStatus(ctx context.Context, id uint64, status Status, options ...core.UpdateOptions) error
}

type SlotRepository interface {
	Transactional
	GetSlot(ctx context.Context, id uint64, options ...core.QueryOptions) (Slot, error)
	GetSlotByWindow(ctx context.Context, start, end time.Time, options ...core.QueryOptions) (Slot, error)
	GetSlots(ctx context.Context, from, to time.Time, options ...core.QueryOptions) ([]Slot, error)

	SaveSlot(ctx context.Context, slot *Slot, options ...core.UpdateOptions) error
	UpdateSlotBookings(ctx context.Context, id uint64, currentBookings int32, options ...core.UpdateOptions) error
	UpdateSlotCapacity(ctx context.Context, id uint64, maxCapacity int32, options ...core.UpdateOptions) error
	UpsertSlotCapacity(ctx context.Context, start, end time.Time, capacity int32, options ...core.UpdateOptions) error
}

type Queue interface {
	PublishBookingStatus(ctx context.Context, booking Booking) error
}
