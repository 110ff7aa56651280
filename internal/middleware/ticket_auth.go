package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/streamline-api/internal/constants"
	apierrors "github.com/yukikurage/streamline-api/internal/errors"
	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/services"
)

// TicketFinder loads a ticket for its owner.
type TicketFinder interface {
	Get(userID, ticketID string) (*models.Ticket, error)
}

// RequireTicketAccess loads the ticket named by the :id parameter for the
// current user, returning 404 instead of 403 to avoid leaking existence.
func RequireTicketAccess(tickets TicketFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := GetUser(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		ticket, err := tickets.Get(user.ID, c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrTicketNotFound) {
				apierrors.NotFound(c, "Ticket not found")
			} else {
				apierrors.InternalError(c, "Failed to load ticket")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTicket, ticket)
		c.Next()
	}
}

// GetTicket retrieves the ticket loaded by RequireTicketAccess
func GetTicket(c *gin.Context) (*models.Ticket, bool) {
	value, exists := c.Get(constants.ContextKeyTicket)
	if !exists {
		return nil, false
	}
	ticket, ok := value.(*models.Ticket)
	return ticket, ok && ticket != nil
}
