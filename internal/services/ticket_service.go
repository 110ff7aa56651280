package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/repository"
	"github.com/yukikurage/streamline-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrSubjectRequired       = errors.New("subject is required")
	ErrTicketNumberTaken     = errors.New("ticket ID already exists")
	ErrTicketIDEmpty         = errors.New("ticket ID cannot be empty")
	ErrInvalidTicketStatus   = errors.New("invalid ticket status")
	ErrInvalidTicketPriority = errors.New("invalid ticket priority")
	ErrFailedToGenerateID    = errors.New("failed to generate ticket ID")
)

// maxTicketNumberAttempts bounds retries when a generated number collides.
const maxTicketNumberAttempts = 5

// TicketService handles ticket business logic
type TicketService struct {
	ticketRepo repository.TicketRepository
	activities *ActivityService
}

// NewTicketService creates a new TicketService
func NewTicketService(ticketRepo repository.TicketRepository, activities *ActivityService) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		activities: activities,
	}
}

// CreateTicketInput represents input for creating a ticket
type CreateTicketInput struct {
	TicketID    string
	ClientName  string
	Subject     string
	Description string
	Status      *models.TicketStatus
	Priority    *models.TicketPriority
}

// UpdateTicketInput represents a partial ticket update
type UpdateTicketInput struct {
	TicketID    *string
	ClientName  *string
	Subject     *string
	Description *string
	Status      *models.TicketStatus
	Priority    *models.TicketPriority
}

// List returns the tickets of a user newest-first
func (s *TicketService) List(userID string, params utils.ListParams) ([]models.Ticket, error) {
	tickets, err := s.ticketRepo.ListForOwner(userID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// Get returns one ticket owned by userID
func (s *TicketService) Get(userID, ticketID string) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.FindForOwner(ticketID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return ticket, nil
}

// Clients returns the distinct client names of a user's tickets, sorted
func (s *TicketService) Clients(userID string) ([]string, error) {
	clients, err := s.ticketRepo.ListClients(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// Create stores a new ticket. A missing ticket identifier is generated.
func (s *TicketService) Create(userID string, input CreateTicketInput) (*models.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, ErrSubjectRequired
	}

	ticket := &models.Ticket{
		UserID:      userID,
		ClientName:  strings.TrimSpace(input.ClientName),
		Subject:     subject,
		Description: input.Description,
		Status:      models.TicketStatusOpen,
		Priority:    models.TicketPriorityMedium,
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidTicketStatus
		}
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidTicketPriority
		}
		ticket.Priority = *input.Priority
	}

	number := strings.TrimSpace(input.TicketID)
	if number != "" {
		if err := s.ensureNumberFree(userID, number, ""); err != nil {
			return nil, err
		}
	} else {
		generated, err := s.generateNumber(userID)
		if err != nil {
			return nil, err
		}
		number = generated
	}
	ticket.TicketID = number

	if err := s.ticketRepo.Create(ticket); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTicketNumberTaken
		}
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	s.activities.Record(userID, models.ActivityTicketCreated, fmt.Sprintf("Created ticket %s: %s", ticket.TicketID, ticket.Subject), nil)
	return ticket, nil
}

// Update applies the present fields of input to ticket.
func (s *TicketService) Update(ticket *models.Ticket, input UpdateTicketInput) (*models.Ticket, error) {
	if input.TicketID != nil {
		number := strings.TrimSpace(*input.TicketID)
		if number == "" {
			return nil, ErrTicketIDEmpty
		}
		if number != ticket.TicketID {
			if err := s.ensureNumberFree(ticket.UserID, number, ticket.ID); err != nil {
				return nil, err
			}
			ticket.TicketID = number
		}
	}
	if input.Subject != nil {
		subject := strings.TrimSpace(*input.Subject)
		if subject == "" {
			return nil, ErrSubjectRequired
		}
		ticket.Subject = subject
	}
	if input.ClientName != nil {
		ticket.ClientName = strings.TrimSpace(*input.ClientName)
	}
	if input.Description != nil {
		ticket.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidTicketStatus
		}
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidTicketPriority
		}
		ticket.Priority = *input.Priority
	}

	if err := s.ticketRepo.Update(ticket); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTicketNumberTaken
		}
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}
	return ticket, nil
}

// Delete removes a ticket and its comments.
func (s *TicketService) Delete(ticket *models.Ticket) error {
	if err := s.ticketRepo.DeleteForOwner(ticket.ID, ticket.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTicketNotFound
		}
		return fmt.Errorf("failed to delete ticket: %w", err)
	}

	s.activities.Record(ticket.UserID, models.ActivityTicketDeleted, fmt.Sprintf("Deleted ticket %s", ticket.TicketID), nil)
	return nil
}

// ListComments returns the comments of ticket newest-first
func (s *TicketService) ListComments(ticket *models.Ticket) ([]models.TicketComment, error) {
	comments, err := s.ticketRepo.ListComments(ticket.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket comments: %w", err)
	}
	return comments, nil
}

// AddComment adds a comment by author to ticket
func (s *TicketService) AddComment(ticket *models.Ticket, author *models.User, text string) (*models.TicketComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentTextRequired
	}

	comment := &models.TicketComment{
		TicketID:  ticket.ID,
		UserID:    author.ID,
		Text:      text,
		UserEmail: author.Email,
	}
	if err := s.ticketRepo.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create ticket comment: %w", err)
	}
	return comment, nil
}

func (s *TicketService) ensureNumberFree(userID, number, excludeID string) error {
	exists, err := s.ticketRepo.ExistsNumber(userID, number, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check ticket ID: %w", err)
	}
	if exists {
		return ErrTicketNumberTaken
	}
	return nil
}

func (s *TicketService) generateNumber(userID string) (string, error) {
	for attempt := 0; attempt < maxTicketNumberAttempts; attempt++ {
		number, err := utils.GenerateTicketNumber()
		if err != nil {
			return "", ErrFailedToGenerateID
		}
		exists, err := s.ticketRepo.ExistsNumber(userID, number, "")
		if err != nil {
			return "", fmt.Errorf("failed to check ticket ID: %w", err)
		}
		if !exists {
			return number, nil
		}
	}
	return "", ErrFailedToGenerateID
}
