package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tripdesk/service-booking/internal/application"
	"github.com/tripdesk/service-booking/internal/platform/auth"
	"github.com/tripdesk/service-booking/internal/platform/middleware"
	"github.com/tripdesk/service-booking/internal/platform/response"
)

// MeDTO describes the caller as this service sees them.
type MeDTO struct {
	ID            string                      `json:"id"`
	Name          string                      `json:"name"`
	Email         string                      `json:"email"`
	EmailVerified bool                        `json:"email_verified"`
	Role          auth.Role                   `json:"role"`
	Entitlement   *application.EntitlementDTO `json:"entitlement"`
}

// MeHandler serves the caller's identity, role and subscription.
type MeHandler struct {
	entitlements *application.EntitlementService
}

// NewMeHandler creates a new MeHandler.
func NewMeHandler(entitlements *application.EntitlementService) *MeHandler {
	return &MeHandler{entitlements: entitlements}
}

// RegisterRoutes registers GET /api/v1/me.
func (h *MeHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, roles auth.RoleProvider) {
	r.GET("/api/v1/me", middleware.AuthMiddleware(jwtManager, roles), h.GetMe)
}

// GetMe handles GET /api/v1/me.
func (h *MeHandler) GetMe(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	role, _ := middleware.GetUserRole(c)

	ent, err := h.entitlements.GetEntitlement(c.Request.Context(), claims.UserID())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, MeDTO{
		ID:            claims.UserID(),
		Name:          claims.Name,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Role:          role,
		Entitlement:   ent,
	})
}
