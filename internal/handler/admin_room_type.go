package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

type roomTypeResp struct {
	ID             uint64    `json:"id"`
	HotelID        uint64    `json:"hotel_id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	BasePriceCents uint32    `json:"base_price_cents"`
	Capacity       uint32    `json:"capacity"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toRoomTypeResp(t *model.RoomType) roomTypeResp {
	return roomTypeResp{
		ID:             t.ID,
		HotelID:        t.HotelID,
		Name:           t.Name,
		Description:    t.Description,
		BasePriceCents: t.BasePriceCents,
		Capacity:       t.Capacity,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// CreateRoomType handles POST /v1/admin/hotels/:id/room-types. The
// base price set here is what the reservation engine charges per
// night for every room of the type.
func (h *AdminHandler) CreateRoomType(c echo.Context) error {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var body struct {
		Name           string  `json:"name"`
		Description    *string `json:"description"`
		BasePriceCents uint32  `json:"base_price_cents"`
		Capacity       uint32  `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.BasePriceCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_price_cents must be positive"})
	}
	if body.Capacity == 0 {
		body.Capacity = 1
	}

	ctx := c.Request().Context()
	if _, err := h.Hotels.GetByID(ctx, hotelID); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	t := &model.RoomType{
		HotelID:        hotelID,
		Name:           name,
		Description:    body.Description,
		BasePriceCents: body.BasePriceCents,
		Capacity:       body.Capacity,
	}
	if err := h.RoomTypes.Create(ctx, t); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room type name already exists in this hotel"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create room type"})
	}
	return c.JSON(http.StatusCreated, toRoomTypeResp(t))
}

// ListRoomTypes handles GET /v1/admin/hotels/:id/room-types.
func (h *AdminHandler) ListRoomTypes(c echo.Context) error {
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
	types, err := h.RoomTypes.ListByHotel(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]roomTypeResp, 0, len(types))
	for _, t := range types {
		items = append(items, toRoomTypeResp(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateRoomType handles PUT/PATCH /v1/admin/room-types/:id. Price
// changes affect future bookings only; committed totals are never
// recomputed.
func (h *AdminHandler) UpdateRoomType(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name           *string `json:"name"`
		Description    *string `json:"description"`
		BasePriceCents *uint32 `json:"base_price_cents"`
		Capacity       *uint32 `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	t, err := h.RoomTypes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomTypeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if body.Name != nil {
		if v := strings.TrimSpace(*body.Name); v != "" {
			t.Name = v
		}
	}
	if body.Description != nil {
		t.Description = body.Description
	}
	if body.BasePriceCents != nil && *body.BasePriceCents > 0 {
		t.BasePriceCents = *body.BasePriceCents
	}
	if body.Capacity != nil && *body.Capacity > 0 {
		t.Capacity = *body.Capacity
	}
	if err := h.RoomTypes.Update(ctx, t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room type name already exists in this hotel"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.RoomTypes.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toRoomTypeResp(updated))
}

// DeleteRoomType handles DELETE /v1/admin/room-types/:id.
func (h *AdminHandler) DeleteRoomType(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.RoomTypes.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room type still has rooms"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
