package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tripdesk/service-booking/internal/application"
	"github.com/tripdesk/service-booking/internal/platform/auth"
	"github.com/tripdesk/service-booking/internal/platform/middleware"
	"github.com/tripdesk/service-booking/internal/platform/response"
)

// CommentHandler handles HTTP requests for booking threads.
type CommentHandler struct {
	service *application.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service *application.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// RegisterRoutes registers all comment routes.
func (h *CommentHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, roles auth.RoleProvider) {
	authMW := middleware.AuthMiddleware(jwtManager, roles)

	comments := r.Group("/api/v1/bookings")
	comments.Use(authMW)
	{
		comments.POST("/:id/comments", h.AddComment)
		comments.GET("/:id/comments", h.ListComments)
	}
}

// AddComment handles POST /api/v1/bookings/:id/comments.
func (h *CommentHandler) AddComment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(c, "id", "booking")
	if !ok {
		return
	}

	var req application.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddComment(c.Request.Context(), actor, bookingID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListComments handles GET /api/v1/bookings/:id/comments.
func (h *CommentHandler) ListComments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(c, "id", "booking")
	if !ok {
		return
	}

	result, err := h.service.ListComments(c.Request.Context(), actor, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
