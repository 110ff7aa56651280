package dto

import (
	"time"

	"github.com/yukikurage/streamline-api/internal/models"
)

// TicketDTO represents a ticket in API responses
type TicketDTO struct {
	ID          string                `json:"id"`
	TicketID    string                `json:"ticket_id"`
	ClientName  string                `json:"client_name"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Status      models.TicketStatus   `json:"status"`
	Priority    models.TicketPriority `json:"priority"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// ToTicketDTO converts a Ticket model to TicketDTO
func ToTicketDTO(ticket models.Ticket) TicketDTO {
	return TicketDTO{
		ID:          ticket.ID,
		TicketID:    ticket.TicketID,
		ClientName:  ticket.ClientName,
		Subject:     ticket.Subject,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

// ToTicketDTOs converts a slice of tickets
func ToTicketDTOs(tickets []models.Ticket) []TicketDTO {
	items := make([]TicketDTO, len(tickets))
	for i, ticket := range tickets {
		items[i] = ToTicketDTO(ticket)
	}
	return items
}

// ToTicketCommentDTOs converts a slice of ticket comments
func ToTicketCommentDTOs(comments []models.TicketComment) []CommentDTO {
	items := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		items[i] = ToTicketCommentDTO(comment)
	}
	return items
}

// ToTicketCommentDTO converts a TicketComment
func ToTicketCommentDTO(comment models.TicketComment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		ParentID:  comment.TicketID,
		Text:      comment.Text,
		UserEmail: comment.UserEmail,
		CreatedAt: comment.CreatedAt,
	}
}
