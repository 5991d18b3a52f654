package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tripdesk/service-booking/internal/domain/booking"
	"github.com/tripdesk/service-booking/internal/platform/auth"
	"github.com/tripdesk/service-booking/internal/platform/middleware"
	"github.com/tripdesk/service-booking/internal/platform/response"
)

// currentActor builds the domain actor from the verified token. It writes a
// 401 and returns false when the request is unauthenticated.
func currentActor(c *gin.Context) (booking.Actor, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return booking.Actor{}, false
	}
	role, _ := middleware.GetUserRole(c)
	return booking.Actor{
		ID:    claims.UserID(),
		Name:  claims.Name,
		Email: claims.Email,
		Admin: role == auth.RoleAdmin,
	}, true
}

// pathUUID parses a UUID path parameter, writing a 400 on failure.
func pathUUID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
