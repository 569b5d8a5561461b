// Package router defines how HTTP routes are registered for the API.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/loft-reservation/internal/handler"
    "github.com/iliyamo/loft-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance. Currently it exposes only a health
// check used by load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware. Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/refresh-access", a.RefreshAccess)
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole("GUEST", "PARTNER", "ADMIN"))
    auth.GET("/me", a.Me)

    // Logout also works without the JWT middleware so a client with an
    // expired access token can still terminate a session by sending
    // its refresh token.
    e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints: loft
// listings, availability and price quotes. No JWT or role middleware
// applies so anonymous visitors can preview lofts before registering.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
    e.GET("/v1/lofts", p.ListLofts)
    e.GET("/v1/lofts/:id", p.GetLoft)
    e.GET("/v1/lofts/:id/availability", p.Availability)
    e.GET("/v1/lofts/:id/quote", p.Quote)
}

// RegisterGuest registers the reservation endpoints for authenticated
// guests. Partners and admins may also call them (a partner can book
// someone else's loft like any guest).
func RegisterGuest(e *echo.Echo, g *handler.GuestHandler, jwtSecret string) {
    grp := e.Group("/v1/reservations")
    grp.Use(middleware.JWTAuth(jwtSecret))
    grp.Use(middleware.RequireRole("GUEST", "PARTNER", "ADMIN"))

    grp.POST("/validate", g.ValidateReservation)
    grp.POST("", g.CreateReservation)
    grp.GET("", g.ListMyReservations)
    grp.GET("/:code", g.LookupReservation)
    grp.POST("/:id/cancel", g.CancelReservation)
}

// RegisterPartner registers the partner portal endpoints for loft and
// reservation management. Only PARTNER and ADMIN roles pass.
func RegisterPartner(e *echo.Echo, p *handler.PartnerHandler, pr *handler.PartnerReservationHandler, jwtSecret string) {
    grp := e.Group("/v1/partner")
    grp.Use(middleware.JWTAuth(jwtSecret))
    grp.Use(middleware.RequireRole("PARTNER", "ADMIN"))

    grp.GET("/lofts", p.ListMyLofts)
    grp.POST("/lofts", p.CreateLoft)
    grp.PATCH("/lofts/:id", p.UpdateLoft)
    grp.GET("/lofts/:id/reservations", pr.ListLoftReservations)
    grp.PATCH("/reservations/:id/status", pr.UpdateReservationStatus)
    grp.PATCH("/reservations/:id/payment", pr.UpdateReservationPaymentStatus)
}
