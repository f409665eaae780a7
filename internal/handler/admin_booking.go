package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

func validBookingStatus(s string) bool {
	switch s {
	case model.BookingStatusPending, model.BookingStatusConfirmed, model.BookingStatusCancelled,
		model.BookingStatusCompleted, model.BookingStatusFailed:
		return true
	}
	return false
}

// ListHotelBookings handles GET /v1/admin/hotels/:id/bookings.
func (h *AdminHandler) ListHotelBookings(c echo.Context) error {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Hotels.GetByID(ctx, hotelID); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items, err := h.Bookings.ListByHotel(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// OverrideBookingStatus handles PATCH /v1/admin/bookings/:id/status.
// The escape hatch for states the engines do not produce, such as
// marking a stay COMPLETED after checkout. It bypasses the engines on
// purpose, performs no refund and touches no room status; the change
// is always audited.
func (h *AdminHandler) OverrideBookingStatus(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if !validBookingStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx := c.Request().Context()
	if err := h.Bookings.AdminUpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	details := fmt.Sprintf("booking status set to %s by admin", status)
	if reason := strings.TrimSpace(body.Reason); reason != "" {
		details += " (" + reason + ")"
	}
	entry := &model.AuditLogEntry{
		BookingID:   &id,
		UserID:      adminID,
		Action:      model.AuditActionBookingStatusOverride,
		TargetTable: "bookings",
		TargetID:    id,
		Details:     details,
	}
	if ip := c.RealIP(); ip != "" {
		entry.IP = &ip
	}
	if err := h.Audit.Append(ctx, entry); err != nil {
		c.Logger().Warnf("audit append failed for booking %d: %v", id, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}
