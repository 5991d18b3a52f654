package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tripdesk/service-booking/internal/application"
	"github.com/tripdesk/service-booking/internal/domain/selection"
	"github.com/tripdesk/service-booking/internal/platform/auth"
	"github.com/tripdesk/service-booking/internal/platform/middleware"
	"github.com/tripdesk/service-booking/internal/platform/response"
)

// ItineraryHandler handles HTTP requests for itinerary operations.
type ItineraryHandler struct {
	service *application.ItineraryService
}

// NewItineraryHandler creates a new ItineraryHandler.
func NewItineraryHandler(service *application.ItineraryService) *ItineraryHandler {
	return &ItineraryHandler{service: service}
}

// RegisterRoutes registers all itinerary routes.
func (h *ItineraryHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, roles auth.RoleProvider) {
	authMW := middleware.AuthMiddleware(jwtManager, roles)

	itineraries := r.Group("/api/v1/itineraries")
	itineraries.Use(authMW)
	{
		itineraries.POST("", h.CreateItinerary)
		itineraries.GET("", h.GetMyItineraries)
		itineraries.GET("/:id", h.GetItinerary)
		itineraries.PUT("/:id", h.UpdateItinerary)
		itineraries.DELETE("/:id", h.DeleteItinerary)
		itineraries.POST("/:id/selections", h.AddSelection)
		itineraries.DELETE("/:id/selections/:index", h.RemoveSelection)
	}
}

// CreateItinerary creates a new itinerary.
func (h *ItineraryHandler) CreateItinerary(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateItinerary(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetMyItineraries returns all active itineraries for the current user.
func (h *ItineraryHandler) GetMyItineraries(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.GetMyItineraries(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetItinerary returns a single itinerary.
func (h *ItineraryHandler) GetItinerary(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	id, ok := pathUUID(c, "id", "itinerary")
	if !ok {
		return
	}

	result, err := h.service.GetItinerary(c.Request.Context(), ownerID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateItinerary renames an itinerary.
func (h *ItineraryHandler) UpdateItinerary(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	id, ok := pathUUID(c, "id", "itinerary")
	if !ok {
		return
	}

	var req application.UpdateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RenameItinerary(c.Request.Context(), ownerID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteItinerary archives an itinerary.
func (h *ItineraryHandler) DeleteItinerary(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	id, ok := pathUUID(c, "id", "itinerary")
	if !ok {
		return
	}

	if err := h.service.DeleteItinerary(c.Request.Context(), ownerID, id); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddSelection appends a line item.
func (h *ItineraryHandler) AddSelection(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	id, ok := pathUUID(c, "id", "itinerary")
	if !ok {
		return
	}

	var sel selection.Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddSelection(c.Request.Context(), ownerID, id, sel)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RemoveSelection drops the line item at :index.
func (h *ItineraryHandler) RemoveSelection(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	id, ok := pathUUID(c, "id", "itinerary")
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "invalid selection index")
		return
	}

	result, err := h.service.RemoveSelection(c.Request.Context(), ownerID, id, index)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
