package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

type roomResp struct {
	ID         uint64    `json:"id"`
	HotelID    uint64    `json:"hotel_id"`
	RoomTypeID uint64    `json:"room_type_id"`
	RoomNumber string    `json:"room_number"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toRoomResp(m *model.Room) roomResp {
	return roomResp{
		ID:         m.ID,
		HotelID:    m.HotelID,
		RoomTypeID: m.RoomTypeID,
		RoomNumber: m.RoomNumber,
		Status:     m.Status,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func validRoomStatus(s string) bool {
	switch s {
	case model.RoomStatusAvailable, model.RoomStatusOccupied, model.RoomStatusMaintenance, model.RoomStatusCleaning:
		return true
	}
	return false
}

// CreateRoom handles POST /v1/admin/hotels/:id/rooms. New rooms start
// in AVAILABLE status.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var body struct {
		RoomTypeID uint64 `json:"room_type_id"`
		RoomNumber string `json:"room_number"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	roomNumber := strings.TrimSpace(body.RoomNumber)
	if roomNumber == "" || body.RoomTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number and room_type_id are required"})
	}

	ctx := c.Request().Context()
	rt, err := h.RoomTypes.GetByID(ctx, body.RoomTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomTypeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if rt.HotelID != hotelID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room type belongs to a different hotel"})
	}

	room := &model.Room{HotelID: hotelID, RoomTypeID: body.RoomTypeID, RoomNumber: roomNumber}
	if err := h.Rooms.Create(ctx, room); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists in this hotel"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create room"})
	}
	return c.JSON(http.StatusCreated, toRoomResp(room))
}

// ListRooms handles GET /v1/admin/hotels/:id/rooms.
func (h *AdminHandler) ListRooms(c echo.Context) error {
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
	rooms, err := h.Rooms.ListByHotel(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]roomResp, 0, len(rooms))
	for _, r := range rooms {
		items = append(items, toRoomResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateRoom handles PUT/PATCH /v1/admin/rooms/:id for room number and
// type changes. Status is not updatable here; use the status override
// endpoint so the change is audited.
func (h *AdminHandler) UpdateRoom(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		RoomTypeID *uint64 `json:"room_type_id"`
		RoomNumber *string `json:"room_number"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if body.RoomTypeID != nil && *body.RoomTypeID != 0 {
		rt, err := h.RoomTypes.GetByID(ctx, *body.RoomTypeID)
		if err != nil {
			if errors.Is(err, repository.ErrRoomTypeNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if rt.HotelID != room.HotelID {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "room type belongs to a different hotel"})
		}
		room.RoomTypeID = *body.RoomTypeID
	}
	if body.RoomNumber != nil {
		if v := strings.TrimSpace(*body.RoomNumber); v != "" {
			room.RoomNumber = v
		}
	}
	if err := h.Rooms.Update(ctx, room); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists in this hotel"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toRoomResp(updated))
}

// OverrideRoomStatus handles PATCH /v1/admin/rooms/:id/status, the
// only way to flip room status outside the booking engines (taking a
// room down for maintenance, releasing it manually). The change skips
// overlap checking entirely and is always audited.
func (h *AdminHandler) OverrideRoomStatus(c echo.Context) error {
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
	if !validRoomStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx := c.Request().Context()
	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Rooms.OverrideStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	details := fmt.Sprintf("room status %s -> %s", room.Status, status)
	if reason := strings.TrimSpace(body.Reason); reason != "" {
		details += " (" + reason + ")"
	}
	entry := &model.AuditLogEntry{
		UserID:      adminID,
		Action:      model.AuditActionRoomStatusOverride,
		TargetTable: "rooms",
		TargetID:    id,
		Details:     details,
	}
	if ip := c.RealIP(); ip != "" {
		entry.IP = &ip
	}
	if err := h.Audit.Append(ctx, entry); err != nil {
		c.Logger().Warnf("audit append failed for room %d: %v", id, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}

// DeleteRoom handles DELETE /v1/admin/rooms/:id.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room still has bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
