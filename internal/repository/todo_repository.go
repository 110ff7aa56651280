package repository

import (
	"github.com/yukikurage/streamline-api/internal/database"
	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/utils"
	"gorm.io/gorm"
)

// GormTodoRepository is a GORM implementation of TodoRepository
type GormTodoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &GormTodoRepository{db: db}
}

// Create creates a new todo
func (r *GormTodoRepository) Create(todo *models.Todo) error {
	return r.db.Create(todo).Error
}

// FindForOwner finds a todo by ID owned by ownerID
func (r *GormTodoRepository) FindForOwner(id, ownerID string) (*models.Todo, error) {
	var todo models.Todo
	if err := r.db.Scopes(database.OwnedBy(ownerID)).
		Where("id = ?", id).
		First(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

// ListForOwner lists todos newest-first
func (r *GormTodoRepository) ListForOwner(ownerID string, params utils.ListParams) ([]models.Todo, error) {
	todos := []models.Todo{}
	if err := r.db.Scopes(database.OwnedBy(ownerID), database.NewestFirst, database.Paginate(params)).
		Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

// Update saves all fields of a todo
func (r *GormTodoRepository) Update(todo *models.Todo) error {
	return r.db.Save(todo).Error
}

// DeleteForOwner deletes a todo and all of its comments in a transaction
func (r *GormTodoRepository) DeleteForOwner(id, ownerID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(database.OwnedBy(ownerID)).
			Where("id = ?", id).
			Delete(&models.Todo{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("todo_id = ?", id).Delete(&models.Comment{}).Error
	})
}
