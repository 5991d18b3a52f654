package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tripdesk/service-booking/internal/application"
	"github.com/tripdesk/service-booking/internal/platform/auth"
	"github.com/tripdesk/service-booking/internal/platform/middleware"
	"github.com/tripdesk/service-booking/internal/platform/response"
)

// SetStatusRequest is the body of PATCH /api/v1/admin/bookings/:id/status.
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminBookingHandler handles admin HTTP requests for booking management.
type AdminBookingHandler struct {
	service *application.BookingService
}

// NewAdminBookingHandler creates a new AdminBookingHandler.
func NewAdminBookingHandler(service *application.BookingService) *AdminBookingHandler {
	return &AdminBookingHandler{service: service}
}

// RegisterRoutes registers admin booking routes.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, roles auth.RoleProvider) {
	authMW := middleware.AuthMiddleware(jwtManager, roles)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/bookings", h.ListBookings)
		admin.PATCH("/bookings/:id/status", h.SetStatus)
		admin.GET("/stats/bookings", h.BookingStats)
	}
}

// ListBookings handles GET /api/v1/admin/bookings?q=&status=&page=&limit=.
func (h *AdminBookingHandler) ListBookings(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.ListAllBookings(c.Request.Context(), actor, application.ListBookingsQuery{
		Query:  c.Query("q"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// SetStatus handles PATCH /api/v1/admin/bookings/:id/status.
func (h *AdminBookingHandler) SetStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(c, "id", "booking")
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SetStatus(c.Request.Context(), actor, bookingID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminBookingHandler) BookingStats(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	stats, err := h.service.GetBookingStats(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
