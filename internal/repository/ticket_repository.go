package repository

import (
	"github.com/yukikurage/streamline-api/internal/database"
	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/utils"
	"gorm.io/gorm"
)

// GormTicketRepository is a GORM implementation of TicketRepository
type GormTicketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &GormTicketRepository{db: db}
}

// Create creates a new ticket
func (r *GormTicketRepository) Create(ticket *models.Ticket) error {
	return r.db.Create(ticket).Error
}

// FindForOwner finds a ticket by ID owned by ownerID
func (r *GormTicketRepository) FindForOwner(id, ownerID string) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.Scopes(database.OwnedBy(ownerID)).
		Where("id = ?", id).
		First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ExistsNumber reports whether ownerID already uses ticketNumber on a ticket other than excludeID
func (r *GormTicketRepository) ExistsNumber(ownerID, ticketNumber, excludeID string) (bool, error) {
	query := r.db.Model(&models.Ticket{}).
		Scopes(database.OwnedBy(ownerID)).
		Where("ticket_id = ?", ticketNumber)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForOwner lists tickets newest-first
func (r *GormTicketRepository) ListForOwner(ownerID string, params utils.ListParams) ([]models.Ticket, error) {
	tickets := []models.Ticket{}
	if err := r.db.Scopes(database.OwnedBy(ownerID), database.NewestFirst, database.Paginate(params)).
		Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// ListClients lists the distinct, non-empty client names used by ownerID
func (r *GormTicketRepository) ListClients(ownerID string) ([]string, error) {
	clients := []string{}
	if err := r.db.Model(&models.Ticket{}).
		Scopes(database.OwnedBy(ownerID)).
		Where("client_name <> ''").
		Distinct().
		Order("client_name ASC").
		Pluck("client_name", &clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Update saves all fields of a ticket
func (r *GormTicketRepository) Update(ticket *models.Ticket) error {
	return r.db.Save(ticket).Error
}

// DeleteForOwner deletes a ticket and all of its comments in a transaction
func (r *GormTicketRepository) DeleteForOwner(id, ownerID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(database.OwnedBy(ownerID)).
			Where("id = ?", id).
			Delete(&models.Ticket{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("ticket_id = ?", id).Delete(&models.TicketComment{}).Error
	})
}

// CreateComment creates a new ticket comment
func (r *GormTicketRepository) CreateComment(comment *models.TicketComment) error {
	return r.db.Create(comment).Error
}

// ListComments lists the comments of a ticket newest-first
func (r *GormTicketRepository) ListComments(ticketID string) ([]models.TicketComment, error) {
	comments := []models.TicketComment{}
	if err := r.db.Where("ticket_id = ?", ticketID).
		Scopes(database.NewestFirst).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
