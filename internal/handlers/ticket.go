package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/streamline-api/internal/dto"
	apierrors "github.com/yukikurage/streamline-api/internal/errors"
	"github.com/yukikurage/streamline-api/internal/middleware"
	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/services"
	"github.com/yukikurage/streamline-api/internal/utils"
)

type TicketHandler struct {
	ticketService *services.TicketService
}

func NewTicketHandler(ticketService *services.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// ListTickets returns the current user's tickets, newest first
func (h *TicketHandler) ListTickets(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tickets, err := h.ticketService.List(user.ID, utils.GetListParams(c, 0))
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tickets")
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketDTOs(tickets))
}

// ListClients returns the distinct client names of the user's tickets
func (h *TicketHandler) ListClients(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	clients, err := h.ticketService.Clients(user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch clients")
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetTicket returns the ticket loaded by RequireTicketAccess
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticket, exists := middleware.GetTicket(c)
	if !exists {
		apierrors.InternalError(c, "Ticket not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketDTO(*ticket))
}

// CreateTicket creates a new ticket
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	type CreateTicketRequest struct {
		TicketID    string                 `json:"ticket_id" binding:"max=50"`
		ClientName  string                 `json:"client_name" binding:"max=255"`
		Subject     string                 `json:"subject" binding:"required,max=255"`
		Description string                 `json:"description"`
		Status      *models.TicketStatus   `json:"status" binding:"omitempty,oneof=open in_progress resolved closed"`
		Priority    *models.TicketPriority `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	}

	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	ticket, err := h.ticketService.Create(user.ID, services.CreateTicketInput{
		TicketID:    req.TicketID,
		ClientName:  req.ClientName,
		Subject:     req.Subject,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTicketDTO(*ticket))
}

// UpdateTicket applies a partial update
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	type UpdateTicketRequest struct {
		TicketID    *string                `json:"ticket_id" binding:"omitempty,max=50"`
		ClientName  *string                `json:"client_name" binding:"omitempty,max=255"`
		Subject     *string                `json:"subject" binding:"omitempty,max=255"`
		Description *string                `json:"description"`
		Status      *models.TicketStatus   `json:"status" binding:"omitempty,oneof=open in_progress resolved closed"`
		Priority    *models.TicketPriority `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	}

	ticket, exists := middleware.GetTicket(c)
	if !exists {
		apierrors.InternalError(c, "Ticket not found in context")
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	updated, err := h.ticketService.Update(ticket, services.UpdateTicketInput{
		TicketID:    req.TicketID,
		ClientName:  req.ClientName,
		Subject:     req.Subject,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketDTO(*updated))
}

// DeleteTicket deletes a ticket and its comments
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	ticket, exists := middleware.GetTicket(c)
	if !exists {
		apierrors.InternalError(c, "Ticket not found in context")
		return
	}

	if err := h.ticketService.Delete(ticket); err != nil {
		respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket deleted successfully"})
}

// ListComments returns the comments of the ticket, newest first
func (h *TicketHandler) ListComments(c *gin.Context) {
	ticket, exists := middleware.GetTicket(c)
	if !exists {
		apierrors.InternalError(c, "Ticket not found in context")
		return
	}

	comments, err := h.ticketService.ListComments(ticket)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketCommentDTOs(comments))
}

// AddComment adds a comment to the ticket
func (h *TicketHandler) AddComment(c *gin.Context) {
	type AddCommentRequest struct {
		Text string `json:"text" binding:"required,max=5000"`
	}

	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	ticket, exists := middleware.GetTicket(c)
	if !exists {
		apierrors.InternalError(c, "Ticket not found in context")
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "text is required")
		return
	}

	comment, err := h.ticketService.AddComment(ticket, user, req.Text)
	if err != nil {
		respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTicketCommentDTO(*comment))
}

func respondTicketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTicketNotFound):
		apierrors.NotFound(c, "Ticket not found")
	case errors.Is(err, services.ErrTicketNumberTaken):
		apierrors.AlreadyExists(c, "Ticket ID already exists")
	case errors.Is(err, services.ErrSubjectRequired),
		errors.Is(err, services.ErrTicketIDEmpty),
		errors.Is(err, services.ErrInvalidTicketStatus),
		errors.Is(err, services.ErrInvalidTicketPriority),
		errors.Is(err, services.ErrCommentTextRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Failed to process ticket")
	}
}
