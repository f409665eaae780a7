package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped management endpoints under
// /v1/admin. All routes require a valid JWT with the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Hotels ----
	g.POST("/hotels", a.CreateHotel)
	g.GET("/hotels", a.ListHotels) // includes inactive, unlike public /v1/hotels
	g.PUT("/hotels/:id", a.UpdateHotel)
	g.PATCH("/hotels/:id", a.UpdateHotel)
	g.DELETE("/hotels/:id", a.DeleteHotel)

	// ---- Room types ----
	g.POST("/hotels/:id/room-types", a.CreateRoomType)
	g.GET("/hotels/:id/room-types", a.ListRoomTypes)
	g.PUT("/room-types/:id", a.UpdateRoomType)
	g.PATCH("/room-types/:id", a.UpdateRoomType)
	g.DELETE("/room-types/:id", a.DeleteRoomType)

	// ---- Rooms ----
	g.POST("/hotels/:id/rooms", a.CreateRoom)
	g.GET("/hotels/:id/rooms", a.ListRooms)
	g.PUT("/rooms/:id", a.UpdateRoom)
	g.PATCH("/rooms/:id", a.UpdateRoom)
	g.PATCH("/rooms/:id/status", a.OverrideRoomStatus)
	g.DELETE("/rooms/:id", a.DeleteRoom)

	// ---- Bookings and audit ----
	g.GET("/hotels/:id/bookings", a.ListHotelBookings)
	g.PATCH("/bookings/:id/status", a.OverrideBookingStatus)
	g.GET("/audit-logs", a.ListAuditLogs)
}
