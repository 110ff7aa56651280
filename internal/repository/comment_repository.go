package repository

import (
	"github.com/yukikurage/streamline-api/internal/database"
	"github.com/yukikurage/streamline-api/internal/models"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// ListByTodo lists the comments of a todo newest-first
func (r *GormCommentRepository) ListByTodo(todoID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := r.db.Where("todo_id = ?", todoID).
		Scopes(database.NewestFirst).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete deletes a comment belonging to todoID
func (r *GormCommentRepository) Delete(id, todoID string) error {
	result := r.db.Where("id = ? AND todo_id = ?", id, todoID).Delete(&models.Comment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
