// Package router wires handlers onto Echo routes and attaches the
// auth middleware per group. Public browse endpoints carry no auth,
// customer endpoints require the CUSTOMER role and admin endpoints the
// ADMIN role.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
)

// RegisterRoutes registers routes that carry no authentication at all.
// Currently just the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Register, login, refresh
// and logout live under /v1/auth without middleware; /v1/me requires a
// valid access token with any known role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout authenticates via the bearer token or the refresh token in
	// the body, so it stays outside the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints:
// active hotels, hotel detail with room types and availability search.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/v1/hotels", p.GetPublicHotels)
	e.GET("/v1/hotels/:id", p.GetPublicHotel)
	e.GET("/v1/hotels/:id/rooms", p.GetPublicHotelRooms)
	e.GET("/v1/search/rooms", p.SearchAvailability)
}
