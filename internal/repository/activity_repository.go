package repository

import (
	"time"

	"github.com/yukikurage/streamline-api/internal/database"
	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/utils"
	"gorm.io/gorm"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// Create appends an activity entry
func (r *GormActivityRepository) Create(activity *models.Activity) error {
	return r.db.Create(activity).Error
}

// ListForOwner lists activities newest-first
func (r *GormActivityRepository) ListForOwner(ownerID string, params utils.ListParams) ([]models.Activity, error) {
	activities := []models.Activity{}
	if err := r.db.Scopes(database.OwnedBy(ownerID), database.NewestFirst, database.Paginate(params)).
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// CountSince counts the activities of ownerID created at or after since
func (r *GormActivityRepository) CountSince(ownerID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Activity{}).
		Scopes(database.OwnedBy(ownerID)).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}
