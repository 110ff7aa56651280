package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/streamline-api/internal/dto"
	apierrors "github.com/yukikurage/streamline-api/internal/errors"
	"github.com/yukikurage/streamline-api/internal/middleware"
	"github.com/yukikurage/streamline-api/internal/services"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListComments returns the comments of the todo, newest first
func (h *CommentHandler) ListComments(c *gin.Context) {
	todo, exists := middleware.GetTodo(c)
	if !exists {
		apierrors.InternalError(c, "Todo not found in context")
		return
	}

	comments, err := h.commentService.List(todo)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTOs(comments))
}

// AddComment adds a comment to the todo
func (h *CommentHandler) AddComment(c *gin.Context) {
	type AddCommentRequest struct {
		Text string `json:"text" binding:"required,max=5000"`
	}

	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	todo, exists := middleware.GetTodo(c)
	if !exists {
		apierrors.InternalError(c, "Todo not found in context")
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "text is required")
		return
	}

	comment, err := h.commentService.Create(todo, user, req.Text)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment from the todo
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	todo, exists := middleware.GetTodo(c)
	if !exists {
		apierrors.InternalError(c, "Todo not found in context")
		return
	}

	if err := h.commentService.Delete(todo, c.Param("cid")); err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, "Comment not found")
	case errors.Is(err, services.ErrCommentTextRequired):
		apierrors.BadRequest(c, "text is required")
	default:
		apierrors.InternalError(c, "Failed to process comment")
	}
}
