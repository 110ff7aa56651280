package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/streamline-api/internal/errors"
	"github.com/yukikurage/streamline-api/internal/middleware"
	"github.com/yukikurage/streamline-api/internal/services"
)

// AIHandler exposes the AI features. Each route runs the same pipeline with
// a different prompt.
type AIHandler struct {
	aiService *services.AIService
}

func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

func (h *AIHandler) Suggestions(c *gin.Context) { h.run(c, services.FeatureSuggestions) }

func (h *AIHandler) Analyze(c *gin.Context) { h.run(c, services.FeatureAnalyze) }

func (h *AIHandler) PlanDay(c *gin.Context) { h.run(c, services.FeaturePlanDay) }

func (h *AIHandler) OptimizeWorkflow(c *gin.Context) { h.run(c, services.FeatureOptimizeWorkflow) }

func (h *AIHandler) SmartSuggestions(c *gin.Context) { h.run(c, services.FeatureSmartSuggestions) }

func (h *AIHandler) run(c *gin.Context, feature services.AIFeature) {
	// The body is optional on every AI route
	type AIFeatureRequest struct {
		Context        string  `json:"context" binding:"max=5000"`
		AvailableHours float64 `json:"available_hours" binding:"min=0,max=24"`
		Focus          string  `json:"focus" binding:"max=255"`
	}

	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req AIFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.aiService.Run(c.Request.Context(), user, feature, services.AIRequest{
		Context:        req.Context,
		AvailableHours: req.AvailableHours,
		Focus:          req.Focus,
	})
	if err != nil {
		respondAIError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func respondAIError(c *gin.Context, err error) {
	var upstream *services.UpstreamError
	switch {
	case errors.As(err, &upstream):
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":               apierrors.ErrCodeUpstreamFailure,
			"error":              upstream.Message,
			"message":            upstream.Message,
			"provider":           upstream.Provider,
			"fallback_available": true,
		})
	case errors.Is(err, services.ErrAIKeyMissing):
		apierrors.BadRequest(c, "API key not configured for the selected AI provider. Add it in settings.")
	case errors.Is(err, services.ErrAIEndpointMissing):
		apierrors.BadRequest(c, "Custom AI provider requires an endpoint. Add it in settings.")
	case errors.Is(err, services.ErrInvalidProvider),
		errors.Is(err, services.ErrUnknownAIFeature):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "AI request failed")
	}
}
