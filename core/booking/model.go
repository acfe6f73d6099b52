// Package booking owns course bookings and the capacity slots they occupy.
// A slot is a fixed time window with a bounded seat count; reservations and
// capacity edits run under a row lock so concurrent requests cannot push
// occupancy past the limit.
package booking

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(v string) (Status, error) {
	switch v {
	case string(StatusPending):
		return StatusPending, nil
	case string(StatusConfirmed):
		return StatusConfirmed, nil
	case string(StatusCompleted):
		return StatusCompleted, nil
	case string(StatusCancelled):
		return StatusCancelled, nil
	default:
		return "", errors.New("invalid booking status")
	}
}

// Booking is an entity. SessionsRemaining is decremented when sessions are
// consumed; cancelling a booking releases its slot seat but does not refund
// session counts.
type Booking struct {
	ID                uint64    `json:"id"`
	CustomerID        uint64    `json:"customerId"`
	CourseID          uint64    `json:"courseId"`
	Status            Status    `json:"status"`
	SlotID            *uint64   `json:"slotId,omitempty"`
	SessionsPurchased int       `json:"sessionsPurchased"`
	SessionsRemaining int       `json:"sessionsRemaining"`
	TotalAmount       float64   `json:"totalAmount"`
	Created           time.Time `json:"created"`
}

// Slot is an entity, unique on its (WindowStart, WindowEnd) time window.
type Slot struct {
	ID              uint64    `json:"id"`
	WindowStart     time.Time `json:"windowStart"`
	WindowEnd       time.Time `json:"windowEnd"`
	MaxCapacity     int32     `json:"maxCapacity"`
	CurrentBookings int32     `json:"currentBookings"`
}

type CreateBookingRequest struct {
	CustomerID        uint64     `json:"customerId"`
	CourseID          uint64     `json:"courseId"`
	SessionsPurchased int        `json:"sessionsPurchased"`
	TotalAmount       float64    `json:"totalAmount"`
	WindowStart       *time.Time `json:"windowStart,omitempty"`
	WindowEnd         *time.Time `json:"windowEnd,omitempty"`
	ActorID           uint64     `json:"-"`
}

// SlotWindowRequest describes a bulk create-or-update over a date and hour
// grid: one slot per (day, hour) pair, each one hour long.
type SlotWindowRequest struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	StartHour int       `json:"startHour"`
	EndHour   int       `json:"endHour"`
	Capacity  int32     `json:"capacity"`
}

// SlotFullError rejects a reservation against a slot already at capacity.
type SlotFullError struct {
	SlotID      uint64 `json:"slotId"`
	MaxCapacity int32  `json:"maxCapacity"`
}

func (e *SlotFullError) Error() string {
	return fmt.Sprintf("slot %d is full (capacity %d)", e.SlotID, e.MaxCapacity)
}

// BelowOccupancyError rejects a capacity edit that would leave more seats
// booked than the slot allows.
type BelowOccupancyError struct {
	SlotID            uint64 `json:"slotId"`
	RequestedCapacity int32  `json:"requestedCapacity"`
	CurrentBookings   int32  `json:"currentBookings"`
}

func (e *BelowOccupancyError) Error() string {
	return fmt.Sprintf("slot %d has %d bookings, cannot reduce capacity to %d",
		e.SlotID, e.CurrentBookings, e.RequestedCapacity)
}
