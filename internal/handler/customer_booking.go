package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/hotel-room-reservation/internal/service"
)

// CustomerHandler exposes booking endpoints for authenticated
// customers. Creation and cancellation delegate to the booking
// engines; this layer only validates input, maps outcome errors onto
// HTTP statuses and publishes events after the transaction committed.
type CustomerHandler struct {
	Engine   *booking.Engine
	Bookings *repository.BookingRepo
}

// NewCustomerHandler constructs a CustomerHandler. All dependencies
// must be non-nil.
func NewCustomerHandler(engine *booking.Engine, bookings *repository.BookingRepo) *CustomerHandler {
	if engine == nil || bookings == nil {
		panic("nil dependency passed to NewCustomerHandler")
	}
	return &CustomerHandler{Engine: engine, Bookings: bookings}
}

type createBookingReq struct {
	RoomID          uint64 `json:"room_id"`
	Checkin         string `json:"checkin"`
	Checkout        string `json:"checkout"`
	GuestCount      uint32 `json:"guest_count"`
	SpecialRequests string `json:"special_requests"`
	PaymentMethod   string `json:"payment_method"`
}

// CreateBooking handles POST /v1/bookings. Dates are YYYY-MM-DD and
// half-open: checkout day is not part of the stay. A room conflict or
// an unavailable room answers 409 so clients can retry with different
// dates.
func (h *CustomerHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id is required"})
	}
	checkin, err := time.Parse("2006-01-02", req.Checkin)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkin must be YYYY-MM-DD"})
	}
	checkout, err := time.Parse("2006-01-02", req.Checkout)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkout must be YYYY-MM-DD"})
	}
	method := strings.ToUpper(strings.TrimSpace(req.PaymentMethod))
	if method == "" {
		method = "CARD"
	}

	ctx := c.Request().Context()
	res, err := h.Engine.CreateBooking(ctx, booking.CreateInput{
		UserID:          userID,
		RoomID:          req.RoomID,
		Checkin:         checkin,
		Checkout:        checkout,
		GuestCount:      req.GuestCount,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
		PaymentMethod:   method,
		ClientIP:        c.RealIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidDateRange):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkout must be after checkin"})
		case errors.Is(err, booking.ErrRoomUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room unavailable"})
		case errors.Is(err, booking.ErrDateRangeConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "date range conflicts with an existing booking"})
		}
		c.Logger().Errorf("create booking failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}

	detail, err := h.Bookings.GetByIDForUser(ctx, res.BookingID, userID)
	if err != nil {
		// Booking committed; answer with what the engine returned.
		c.Logger().Warnf("load booking %d after commit failed: %v", res.BookingID, err)
		return c.JSON(http.StatusCreated, echo.Map{
			"booking_id":        res.BookingID,
			"total_price_cents": res.TotalPriceCents,
			"nights":            res.Nights,
			"transaction_ref":   res.TransactionRef,
		})
	}

	go func(d repository.BookingDetail) {
		_ = queue_publisher.PublishBookingConfirmed(context.Background(), queue.BookingConfirmedEvent{
			BookingID:       d.ID,
			UserID:          userID,
			RoomID:          d.RoomID,
			RoomNumber:      d.RoomNumber,
			HotelID:         d.HotelID,
			HotelName:       d.HotelName,
			RoomType:        d.RoomType,
			CheckinDate:     d.CheckinDate,
			CheckoutDate:    d.CheckoutDate,
			Nights:          res.Nights,
			GuestCount:      d.GuestCount,
			TotalPriceCents: d.TotalPriceCents,
			TransactionRef:  res.TransactionRef,
			ConfirmedAt:     time.Now().UTC().Format(time.RFC3339),
		})
	}(*detail)

	return c.JSON(http.StatusCreated, echo.Map{
		"item":            detail,
		"nights":          res.Nights,
		"transaction_ref": res.TransactionRef,
	})
}

// CancelBooking handles DELETE /v1/bookings/:id. A booking belonging
// to someone else answers 404, never 403, so booking ids are not
// probeable. Cancelling twice answers 409.
func (h *CustomerHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
	if err := h.Engine.CancelBooking(ctx, userID, id, c.RealIP()); err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, booking.ErrAlreadyCancelled):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
		}
		c.Logger().Errorf("cancel booking %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not cancel booking"})
	}

	if detail, err := h.Bookings.GetByIDForUser(ctx, id, userID); err == nil {
		go func(d repository.BookingDetail) {
			_ = queue_publisher.PublishBookingCancelled(context.Background(), queue.BookingCancelledEvent{
				BookingID:    d.ID,
				UserID:       userID,
				RoomID:       d.RoomID,
				HotelName:    d.HotelName,
				CheckinDate:  d.CheckinDate,
				CheckoutDate: d.CheckoutDate,
				CancelledAt:  time.Now().UTC().Format(time.RFC3339),
			})
		}(*detail)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListBookings handles GET /v1/my-bookings and returns the user's
// bookings, newest first.
func (h *CustomerHandler) ListBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id. Ownership is enforced in
// the repository query; a foreign booking is indistinguishable from a
// missing one.
func (h *CustomerHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	detail, err := h.Bookings.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}
