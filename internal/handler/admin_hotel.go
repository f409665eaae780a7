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

// AdminHandler bundles the repositories admins use to manage hotels,
// room types, rooms and bookings. All methods assume JWT and ADMIN
// role checks already ran in middleware.
type AdminHandler struct {
	Hotels    *repository.HotelRepo
	RoomTypes *repository.RoomTypeRepo
	Rooms     *repository.RoomRepo
	Bookings  *repository.BookingRepo
	Audit     *repository.AuditRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any
// dependency is nil.
func NewAdminHandler(hotels *repository.HotelRepo, roomTypes *repository.RoomTypeRepo, rooms *repository.RoomRepo, bookings *repository.BookingRepo, audit *repository.AuditRepo) *AdminHandler {
	if hotels == nil || roomTypes == nil || rooms == nil || bookings == nil || audit == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		Hotels:    hotels,
		RoomTypes: roomTypes,
		Rooms:     rooms,
		Bookings:  bookings,
		Audit:     audit,
	}
}

type hotelResp struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toHotelResp(h *model.Hotel) hotelResp {
	return hotelResp{
		ID:          h.ID,
		Name:        h.Name,
		Address:     h.Address,
		Description: h.Description,
		IsActive:    h.IsActive,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}

// CreateHotel handles POST /v1/admin/hotels.
func (h *AdminHandler) CreateHotel(c echo.Context) error {
	var body struct {
		Name        string  `json:"name"`
		Address     string  `json:"address"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	address := strings.TrimSpace(body.Address)
	if name == "" || address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address are required"})
	}
	hotel := &model.Hotel{Name: name, Address: address, Description: body.Description}
	if err := h.Hotels.Create(c.Request().Context(), hotel); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "hotel name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create hotel"})
	}
	return c.JSON(http.StatusCreated, toHotelResp(hotel))
}

// ListHotels handles GET /v1/admin/hotels and includes inactive
// properties, unlike the public listing.
func (h *AdminHandler) ListHotels(c echo.Context) error {
	hotels, err := h.Hotels.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]hotelResp, 0, len(hotels))
	for _, hotel := range hotels {
		items = append(items, toHotelResp(hotel))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateHotel handles PUT/PATCH /v1/admin/hotels/:id. Omitted fields
// keep their current value.
func (h *AdminHandler) UpdateHotel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name        *string `json:"name"`
		Address     *string `json:"address"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	hotel, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if body.Name != nil {
		if v := strings.TrimSpace(*body.Name); v != "" {
			hotel.Name = v
		}
	}
	if body.Address != nil {
		if v := strings.TrimSpace(*body.Address); v != "" {
			hotel.Address = v
		}
	}
	if body.Description != nil {
		hotel.Description = body.Description
	}
	if body.IsActive != nil {
		hotel.IsActive = *body.IsActive
	}
	if err := h.Hotels.Update(ctx, hotel); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "hotel name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toHotelResp(updated))
}

// DeleteHotel handles DELETE /v1/admin/hotels/:id. A hotel with rooms
// cannot be removed; deactivate it instead.
func (h *AdminHandler) DeleteHotel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Hotels.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "hotel still has rooms"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
