package repository

import (
	"time"

	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update saves all fields of a user
	Update(user *models.User) error
}

// TodoRepository defines the interface for todo data access.
// Every method is scoped to the owning user.
type TodoRepository interface {
	// Create creates a new todo
	Create(todo *models.Todo) error

	// FindForOwner finds a todo by ID owned by ownerID
	FindForOwner(id, ownerID string) (*models.Todo, error)

	// ListForOwner lists todos newest-first
	ListForOwner(ownerID string, params utils.ListParams) ([]models.Todo, error)

	// Update saves all fields of a todo
	Update(todo *models.Todo) error

	// DeleteForOwner deletes a todo and its comments
	DeleteForOwner(id, ownerID string) error
}

// CommentRepository defines the interface for todo comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// ListByTodo lists the comments of a todo newest-first
	ListByTodo(todoID string) ([]models.Comment, error)

	// Delete deletes a comment belonging to todoID
	Delete(id, todoID string) error
}

// TicketRepository defines the interface for ticket data access.
// Every method is scoped to the owning user.
type TicketRepository interface {
	// Create creates a new ticket
	Create(ticket *models.Ticket) error

	// FindForOwner finds a ticket by ID owned by ownerID
	FindForOwner(id, ownerID string) (*models.Ticket, error)

	// ExistsNumber reports whether ownerID already has a ticket with the given ticket identifier
	ExistsNumber(ownerID, ticketNumber, excludeID string) (bool, error)

	// ListForOwner lists tickets newest-first
	ListForOwner(ownerID string, params utils.ListParams) ([]models.Ticket, error)

	// ListClients lists the distinct client names used by ownerID
	ListClients(ownerID string) ([]string, error)

	// Update saves all fields of a ticket
	Update(ticket *models.Ticket) error

	// DeleteForOwner deletes a ticket and its comments
	DeleteForOwner(id, ownerID string) error

	// CreateComment creates a new ticket comment
	CreateComment(comment *models.TicketComment) error

	// ListComments lists the comments of a ticket newest-first
	ListComments(ticketID string) ([]models.TicketComment, error)
}

// ActivityRepository defines the interface for the activity log
type ActivityRepository interface {
	// Create appends an activity entry
	Create(activity *models.Activity) error

	// ListForOwner lists activities newest-first, capped by params.Limit when set
	ListForOwner(ownerID string, params utils.ListParams) ([]models.Activity, error)

	// CountSince counts the activities of ownerID created at or after since
	CountSince(ownerID string, since time.Time) (int64, error)
}
