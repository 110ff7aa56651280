package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/streamline-api/internal/errors"
	"github.com/yukikurage/streamline-api/internal/middleware"
	"github.com/yukikurage/streamline-api/internal/services"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Stats returns the aggregated todo statistics of the current user
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.analyticsService.Stats(user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}
