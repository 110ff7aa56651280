package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/streamline-api/internal/constants"
	apierrors "github.com/yukikurage/streamline-api/internal/errors"
	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/services"
)

// TodoFinder loads a todo for its owner.
type TodoFinder interface {
	Get(userID, todoID string) (*models.Todo, error)
}

// RequireTodoAccess loads the todo named by the :id parameter for the
// current user. Todos owned by someone else are reported as not found.
func RequireTodoAccess(todos TodoFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := GetUser(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		todo, err := todos.Get(user.ID, c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrTodoNotFound) {
				apierrors.NotFound(c, "Todo not found")
			} else {
				apierrors.InternalError(c, "Failed to load todo")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTodo, todo)
		c.Next()
	}
}

// GetTodo retrieves the todo loaded by RequireTodoAccess
func GetTodo(c *gin.Context) (*models.Todo, bool) {
	value, exists := c.Get(constants.ContextKeyTodo)
	if !exists {
		return nil, false
	}
	todo, ok := value.(*models.Todo)
	return todo, ok && todo != nil
}
