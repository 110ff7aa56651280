package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/streamline-api/internal/errors"
	"github.com/yukikurage/streamline-api/internal/middleware"
	"github.com/yukikurage/streamline-api/internal/services"
	"github.com/yukikurage/streamline-api/internal/utils"
)

type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportTodos returns a handler that downloads the user's todos in format
func (h *ExportHandler) ExportTodos(format services.ExportFormat) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.export(c, format, h.exportService.ExportTodos)
	}
}

// ExportTickets returns a handler that downloads the user's tickets in format
func (h *ExportHandler) ExportTickets(format services.ExportFormat) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.export(c, format, h.exportService.ExportTickets)
	}
}

type exportFunc func(userID string, format services.ExportFormat, window utils.DateRange) (*services.ExportResult, error)

func (h *ExportHandler) export(c *gin.Context, format services.ExportFormat, run exportFunc) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	window, err := utils.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	result, err := run(user.ID, format, window)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFormat) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to generate export")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
