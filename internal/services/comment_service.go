package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound     = errors.New("comment not found")
	ErrCommentTextRequired = errors.New("comment text is required")
)

// CommentService manages the comments of a todo. Callers pass a todo already
// resolved for the current owner.
type CommentService struct {
	commentRepo repository.CommentRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

// List returns the comments of todo newest-first
func (s *CommentService) List(todo *models.Todo) ([]models.Comment, error) {
	comments, err := s.commentRepo.ListByTodo(todo.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Create adds a comment by author to todo
func (s *CommentService) Create(todo *models.Todo, author *models.User, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentTextRequired
	}

	comment := &models.Comment{
		TodoID:    todo.ID,
		UserID:    author.ID,
		Text:      text,
		UserEmail: author.Email,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// Delete removes a comment from todo
func (s *CommentService) Delete(todo *models.Todo, commentID string) error {
	if err := s.commentRepo.Delete(commentID, todo.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
