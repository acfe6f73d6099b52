package booking

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/atelierware/backoffice/core"
)

func NewService(repo Repository, q Queue, defaultCapacity int32) *service {
	return &service{repo: repo, queue: q, defaultCapacity: defaultCapacity}
}

type Service interface {
	Create(ctx context.Context, req CreateBookingRequest) (Booking, error)
	Get(ctx context.Context, id uint64) (Booking, error)
	GetAll(ctx context.Context, limit, offset int) ([]Booking, error)
	Transition(ctx context.Context, bookingID uint64, newStatus Status, actorID uint64) error

	Reserve(ctx context.Context, start, end time.Time) (Slot, error)
	Release(ctx context.Context, slotID uint64) error
	UpsertWindow(ctx context.Context, req SlotWindowRequest) error
	SetCapacity(ctx context.Context, slotID uint64, newCapacity int32) error
	GetSlots(ctx context.Context, from, to time.Time) ([]Slot, error)
}

type service struct {
	repo            Repository
	queue           Queue
	defaultCapacity int32
}

// Create records a pending booking and, when a time window is supplied,
// reserves one seat in the matching slot within the same transaction.
func (s *service) Create(ctx context.Context, req CreateBookingRequest) (Booking, error) {
	const funcName = "Create"

	log.Info().
		Str("func", funcName).
		Uint64("customerId", req.CustomerID).
		Uint64("courseId", req.CourseID).
		Msg("creating booking")

	if req.SessionsPurchased < 1 {
		return Booking{}, errors.New("sessions purchased must be greater than zero")
	}
	if (req.WindowStart == nil) != (req.WindowEnd == nil) {
		return Booking{}, errors.New("window start and end must be supplied together")
	}

	bkg := Booking{
		CustomerID:        req.CustomerID,
		CourseID:          req.CourseID,
		Status:            StatusPending,
		SessionsPurchased: req.SessionsPurchased,
		SessionsRemaining: req.SessionsPurchased,
		TotalAmount:       req.TotalAmount,
		Created:           time.Now(),
	}

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return Booking{}, errors.WithStack(err)
	}

	defer func() {
		if err != nil {
			rollback(ctx, tx, err)
		}
	}()

	if req.WindowStart != nil {
		var slot Slot
		slot, err = s.reserveSeat(ctx, tx, *req.WindowStart, *req.WindowEnd)
		if err != nil {
			return Booking{}, err
		}
		bkg.SlotID = &slot.ID
	}

	if err = s.repo.SaveBooking(ctx, &bkg, core.UpdateOptions{Tx: tx}); err != nil {
		return Booking{}, errors.WithStack(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return Booking{}, errors.WithStack(err)
	}

	s.publishStatus(ctx, bkg)

	return bkg, nil
}

func (s *service) Get(ctx context.Context, id uint64) (Booking, error) {
	bkg, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return bkg, errors.WithStack(err)
	}
	return bkg, nil
}

func (s *service) GetAll(ctx context.Context, limit, offset int) ([]Booking, error) {
	return s.repo.GetBookings(ctx, limit, offset)
}

// Transition moves a booking to a new status. Cancelling a booking releases
// its slot seat; session counts are not refunded. A repeat of the current
// status is a no-op that writes nothing.
func (s *service) Transition(ctx context.Context, bookingID uint64, newStatus Status, actorID uint64) error {
	const funcName = "Transition"

	log.Info().
		Str("func", funcName).
		Uint64("bookingId", bookingID).
		Str("newStatus", string(newStatus)).
		Msg("transitioning booking")

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	defer func() {
		if err != nil {
			rollback(ctx, tx, err)
		}
	}()

	bkg, err := s.repo.GetBooking(ctx, bookingID, core.QueryOptions{Tx: tx, ForUpdate: true})
	if err != nil {
		return errors.WithStack(err)
	}

	if bkg.Status == newStatus {
		log.Debug().
			Str("func", funcName).
			Uint64("bookingId", bookingID).
			Str("status", string(newStatus)).
			Msg("booking already in requested status")
		if err = tx.Commit(ctx); err != nil {
			return errors.WithStack(err)
		}
		return nil
	}

	if newStatus == StatusCancelled && bkg.SlotID != nil {
		if err = s.releaseSeat(ctx, tx, *bkg.SlotID); err != nil {
			return err
		}
	}

	if err = s.repo.UpdateBookingStatus(ctx, bookingID, newStatus, core.UpdateOptions{Tx: tx}); err != nil {
		return errors.WithStack(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return errors.WithStack(err)
	}

	bkg.Status = newStatus
	s.publishStatus(ctx, bkg)

	return nil
}

// Reserve takes one seat in the slot covering the given window, creating the
// slot with the configured default capacity if it does not exist yet. The
// occupancy check and increment run under a row lock on the slot.
func (s *service) Reserve(ctx context.Context, start, end time.Time) (Slot, error) {
	const funcName = "Reserve"

	log.Info().
		Str("func", funcName).
		Time("windowStart", start).
		Time("windowEnd", end).
		Msg("reserving slot seat")

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return Slot{}, errors.WithStack(err)
	}

	defer func() {
		if err != nil {
			rollback(ctx, tx, err)
		}
	}()

	slot, err := s.reserveSeat(ctx, tx, start, end)
	if err != nil {
		return Slot{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return Slot{}, errors.WithStack(err)
	}

	return slot, nil
}

func (s *service) reserveSeat(ctx context.Context, tx core.Transaction, start, end time.Time) (Slot, error) {
	slot, err := s.repo.GetSlotByWindow(ctx, start, end, core.QueryOptions{Tx: tx, ForUpdate: true})
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			return Slot{}, errors.WithStack(err)
		}
		slot = Slot{
			WindowStart:     start,
			WindowEnd:       end,
			MaxCapacity:     s.defaultCapacity,
			CurrentBookings: 1,
		}
		if err = s.repo.SaveSlot(ctx, &slot, core.UpdateOptions{Tx: tx}); err != nil {
			return Slot{}, errors.WithStack(err)
		}
		return slot, nil
	}

	if slot.CurrentBookings >= slot.MaxCapacity {
		return Slot{}, &SlotFullError{SlotID: slot.ID, MaxCapacity: slot.MaxCapacity}
	}

	slot.CurrentBookings++
	if err = s.repo.UpdateSlotBookings(ctx, slot.ID, slot.CurrentBookings, core.UpdateOptions{Tx: tx}); err != nil {
		return Slot{}, errors.WithStack(err)
	}

	return slot, nil
}

// Release frees one seat, floored at zero occupancy.
func (s *service) Release(ctx context.Context, slotID uint64) error {
	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	defer func() {
		if err != nil {
			rollback(ctx, tx, err)
		}
	}()

	if err = s.releaseSeat(ctx, tx, slotID); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *service) releaseSeat(ctx context.Context, tx core.Transaction, slotID uint64) error {
	slot, err := s.repo.GetSlot(ctx, slotID, core.QueryOptions{Tx: tx, ForUpdate: true})
	if err != nil {
		return errors.WithStack(err)
	}

	if slot.CurrentBookings > 0 {
		slot.CurrentBookings--
	}
	if err = s.repo.UpdateSlotBookings(ctx, slot.ID, slot.CurrentBookings, core.UpdateOptions{Tx: tx}); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// UpsertWindow creates or updates one slot per (day, hour) pair across the
// given ranges. Existing slots only get their capacity set; occupancy is never
// touched, so re-running the same request is harmless.
func (s *service) UpsertWindow(ctx context.Context, req SlotWindowRequest) error {
	const funcName = "UpsertWindow"

	log.Info().
		Str("func", funcName).
		Time("startDate", req.StartDate).
		Time("endDate", req.EndDate).
		Int("startHour", req.StartHour).
		Int("endHour", req.EndHour).
		Int32("capacity", req.Capacity).
		Msg("upserting slot window")

	if req.EndDate.Before(req.StartDate) {
		return errors.New("end date must not precede start date")
	}
	if req.StartHour < 0 || req.EndHour > 24 || req.StartHour >= req.EndHour {
		return errors.New("invalid hour range")
	}
	if req.Capacity < 1 {
		return errors.New("capacity must be greater than zero")
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

	day := time.Date(req.StartDate.Year(), req.StartDate.Month(), req.StartDate.Day(), 0, 0, 0, 0, req.StartDate.Location())
	last := time.Date(req.EndDate.Year(), req.EndDate.Month(), req.EndDate.Day(), 0, 0, 0, 0, req.EndDate.Location())

	for ; !day.After(last); day = day.AddDate(0, 0, 1) {
		for hour := req.StartHour; hour < req.EndHour; hour++ {
			start := day.Add(time.Duration(hour) * time.Hour)
			end := start.Add(time.Hour)
			if err = s.repo.UpsertSlotCapacity(ctx, start, end, req.Capacity, core.UpdateOptions{Tx: tx}); err != nil {
				return errors.WithMessage(err, "failed to upsert slot")
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// SetCapacity changes a slot's seat limit. Shrinking below the current
// occupancy is rejected so a capacity edit can never silently overbook.
func (s *service) SetCapacity(ctx context.Context, slotID uint64, newCapacity int32) error {
	const funcName = "SetCapacity"

	log.Info().
		Str("func", funcName).
		Uint64("slotId", slotID).
		Int32("newCapacity", newCapacity).
		Msg("setting slot capacity")

	if newCapacity < 0 {
		return errors.New("capacity must not be negative")
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

	slot, err := s.repo.GetSlot(ctx, slotID, core.QueryOptions{Tx: tx, ForUpdate: true})
	if err != nil {
		return errors.WithStack(err)
	}

	if newCapacity < slot.CurrentBookings {
		err = &BelowOccupancyError{
			SlotID:            slotID,
			RequestedCapacity: newCapacity,
			CurrentBookings:   slot.CurrentBookings,
		}
		return err
	}

	if err = s.repo.UpdateSlotCapacity(ctx, slotID, newCapacity, core.UpdateOptions{Tx: tx}); err != nil {
		return errors.WithStack(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *service) GetSlots(ctx context.Context, from, to time.Time) ([]Slot, error) {
	return s.repo.GetSlots(ctx, from, to)
}

func (s *service) publishStatus(ctx context.Context, bkg Booking) {
	if s.queue == nil {
		return
	}
	if err := s.queue.PublishBookingStatus(ctx, bkg); err != nil {
		log.Error().Err(err).Uint64("bookingId", bkg.ID).Msg("failed to publish booking status")
	}
}
