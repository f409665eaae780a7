// Public browsing endpoints. Guests can list active hotels, inspect
// room types and search availability without authenticating; inactive
// hotels and internal fields are filtered out.

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing.
type PublicHandler struct {
	Hotels    *repository.HotelRepo
	RoomTypes *repository.RoomTypeRepo
	Rooms     *repository.RoomRepo
}

// PublicHotel is a hotel stripped to guest-safe fields.
type PublicHotel struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Description *string `json:"description,omitempty"`
}

// PublicRoomType carries pricing information for browsing; the price
// is duplicated as a float for display convenience.
type PublicRoomType struct {
	ID             uint64  `json:"id"`
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	Capacity       uint32  `json:"capacity"`
	BasePriceCents uint32  `json:"base_price_cents"`
	BasePrice      float64 `json:"base_price"`
}

// PublicRoom pairs a room with its type's name, capacity and nightly
// price for browsing.
type PublicRoom struct {
	ID             uint64  `json:"id"`
	RoomNumber     string  `json:"room_number"`
	RoomType       string  `json:"room_type"`
	Capacity       uint32  `json:"capacity"`
	BasePriceCents uint32  `json:"base_price_cents"`
	BasePrice      float64 `json:"base_price"`
	Status         string  `json:"status"`
}

// GetPublicHotels handles GET /v1/hotels and lists active hotels.
func (h *PublicHandler) GetPublicHotels(c echo.Context) error {
	hotels, err := h.Hotels.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicHotel, 0, len(hotels))
	for _, hotel := range hotels {
		out = append(out, PublicHotel{ID: hotel.ID, Name: hotel.Name, Address: hotel.Address, Description: hotel.Description})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetPublicHotel handles GET /v1/hotels/:id and returns one hotel with
// its room types. Inactive hotels look like missing ones.
func (h *PublicHandler) GetPublicHotel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	hotel, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !hotel.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	}
	types, err := h.RoomTypes.ListByHotel(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	outTypes := make([]PublicRoomType, 0, len(types))
	for _, t := range types {
		outTypes = append(outTypes, PublicRoomType{
			ID:             t.ID,
			Name:           t.Name,
			Description:    t.Description,
			Capacity:       t.Capacity,
			BasePriceCents: t.BasePriceCents,
			BasePrice:      float64(t.BasePriceCents) / 100.0,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"hotel":      PublicHotel{ID: hotel.ID, Name: hotel.Name, Address: hotel.Address, Description: hotel.Description},
		"room_types": outTypes,
	})
}

// GetPublicHotelRooms handles GET /v1/hotels/:id/rooms and lists the
// rooms of an active hotel. The status field is the room's current
// cached state; for any date-range question use the availability
// search instead.
func (h *PublicHandler) GetPublicHotelRooms(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	hotel, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !hotel.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	}
	types, err := h.RoomTypes.ListByHotel(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	typeByID := make(map[uint64]*PublicRoomType, len(types))
	for _, t := range types {
		typeByID[t.ID] = &PublicRoomType{
			Name:           t.Name,
			Capacity:       t.Capacity,
			BasePriceCents: t.BasePriceCents,
		}
	}
	rooms, err := h.Rooms.ListByHotel(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicRoom, 0, len(rooms))
	for _, r := range rooms {
		pr := PublicRoom{ID: r.ID, RoomNumber: r.RoomNumber, Status: r.Status}
		if t, ok := typeByID[r.RoomTypeID]; ok {
			pr.RoomType = t.Name
			pr.Capacity = t.Capacity
			pr.BasePriceCents = t.BasePriceCents
			pr.BasePrice = float64(t.BasePriceCents) / 100.0
		}
		out = append(out, pr)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// SearchAvailability handles GET /v1/search/rooms. checkin and
// checkout are required YYYY-MM-DD dates under half-open semantics;
// hotel_id, hotel, room_type, max_price_cents and guests filter, page
// and page_size paginate. The result is a point-in-time suggestion:
// only the reservation engine decides availability at booking time.
func (h *PublicHandler) SearchAvailability(c echo.Context) error {
	checkin, err := time.Parse("2006-01-02", c.QueryParam("checkin"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkin must be YYYY-MM-DD"})
	}
	checkout, err := time.Parse("2006-01-02", c.QueryParam("checkout"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkout must be YYYY-MM-DD"})
	}
	if !checkout.After(checkin) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "checkout must be after checkin"})
	}

	q := repository.AvailabilityQuery{
		Checkin:   checkin,
		Checkout:  checkout,
		HotelName: strings.TrimSpace(c.QueryParam("hotel")),
		RoomType:  strings.TrimSpace(c.QueryParam("room_type")),
	}
	if v := c.QueryParam("hotel_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel_id"})
		}
		q.HotelID = n
	}
	if v := c.QueryParam("max_price_cents"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_price_cents"})
		}
		q.MaxPrice = uint32(n)
	}
	if v := c.QueryParam("guests"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guests"})
		}
		q.Guests = uint32(n)
	}
	if v := c.QueryParam("page"); v != "" {
		q.Page, _ = strconv.Atoi(v)
	}
	if v := c.QueryParam("page_size"); v != "" {
		q.PageSize, _ = strconv.Atoi(v)
	}

	items, total, err := h.Rooms.SearchAvailable(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":    items,
		"total":    total,
		"checkin":  checkin.Format("2006-01-02"),
		"checkout": checkout.Format("2006-01-02"),
	})
}
