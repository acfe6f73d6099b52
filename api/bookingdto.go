package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/atelierware/backoffice/core/booking"
)

type BookingResponse struct {
	booking.Booking
}

func NewBookingResponse(bkg booking.Booking) *BookingResponse {
	return &BookingResponse{Booking: bkg}
}

func (rd *BookingResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

func NewBookingListResponse(bookings []booking.Booking) []render.Renderer {
	list := make([]render.Renderer, 0)
	for _, bkg := range bookings {
		list = append(list, NewBookingResponse(bkg))
	}
	return list
}

type CreateBookingRequestDto struct {
	*booking.CreateBookingRequest
}

func (p *CreateBookingRequestDto) Bind(_ *http.Request) error {
	if p.CreateBookingRequest == nil {
		return errors.New("missing required booking fields")
	}
	if p.CustomerID == 0 {
		return errors.New("customerId is required")
	}
	if p.SessionsPurchased < 1 {
		return errors.New("sessionsPurchased must be greater than zero")
	}
	if p.TotalAmount < 0 {
		return errors.New("totalAmount must not be negative")
	}
	if (p.WindowStart == nil) != (p.WindowEnd == nil) {
		return errors.New("windowStart and windowEnd must be supplied together")
	}
	if p.WindowStart != nil && !p.WindowEnd.After(*p.WindowStart) {
		return errors.New("windowEnd must be after windowStart")
	}

	return nil
}

type BookingStatusUpdateRequest struct {
	Status string `json:"status"`

	status booking.Status
}

func (p *BookingStatusUpdateRequest) Bind(_ *http.Request) error {
	st, err := booking.ParseStatus(p.Status)
	if err != nil {
		return err
	}
	p.status = st

	return nil
}

type SlotResponse struct {
	booking.Slot
}

func NewSlotResponse(slot booking.Slot) *SlotResponse {
	return &SlotResponse{Slot: slot}
}

func (rd *SlotResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

func NewSlotListResponse(slots []booking.Slot) []render.Renderer {
	list := make([]render.Renderer, 0)
	for _, slot := range slots {
		list = append(list, NewSlotResponse(slot))
	}
	return list
}

type SlotWindowRequestDto struct {
	*booking.SlotWindowRequest
}

func (p *SlotWindowRequestDto) Bind(_ *http.Request) error {
	if p.SlotWindowRequest == nil {
		return errors.New("missing required slot window fields")
	}
	if p.EndDate.Before(p.StartDate) {
		return errors.New("endDate must not be before startDate")
	}
	if p.StartHour < 0 || p.StartHour > 23 || p.EndHour < 0 || p.EndHour > 23 {
		return errors.New("hours must be between 0 and 23")
	}
	if p.EndHour < p.StartHour {
		return errors.New("endHour must not be before startHour")
	}
	if p.Capacity < 1 {
		return errors.New("capacity must be greater than zero")
	}

	return nil
}

type SlotWindowResponse struct {
}

func (p *SlotWindowResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}

func (p *SlotWindowResponse) Bind(_ *http.Request) error {
	return nil
}

type SlotCapacityRequest struct {
	MaxCapacity int32 `json:"maxCapacity"`
}

func (p *SlotCapacityRequest) Bind(_ *http.Request) error {
	if p.MaxCapacity < 0 {
		return errors.New("maxCapacity must not be negative")
	}

	return nil
}

type SlotCapacityResponse struct {
	SlotID      uint64 `json:"slotId"`
	MaxCapacity int32  `json:"maxCapacity"`
}

func (p *SlotCapacityResponse) Render(_ http.ResponseWriter, _ *http.Request) error {
	return nil
}
