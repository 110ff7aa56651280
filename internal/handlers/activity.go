package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/streamline-api/internal/constants"
	"github.com/yukikurage/streamline-api/internal/dto"
	apierrors "github.com/yukikurage/streamline-api/internal/errors"
	"github.com/yukikurage/streamline-api/internal/middleware"
	"github.com/yukikurage/streamline-api/internal/services"
	"github.com/yukikurage/streamline-api/internal/utils"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// ListActivities returns the user's most recent activities
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetListParams(c, constants.DefaultActivityLimit)
	if params.Limit == 0 {
		params.Limit = constants.DefaultActivityLimit
	}

	activities, err := h.activityService.List(user.ID, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch activities")
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityDTOs(activities))
}
