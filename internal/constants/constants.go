package constants

// Context keys
const (
	ContextKeyUser   = "user"
	ContextKeyTodo   = "todo"
	ContextKeyTicket = "ticket"
)

// Validation
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// Listing
const (
	MinPageSize           = 1
	MaxPageSize           = 200
	DefaultActivityLimit  = 50
	AIContextTodoLimit    = 20
	AIContextActivityDays = 7
)

// Todo defaults
const (
	DefaultTodoPriority = "medium"
	DefaultTodoCategory = "personal"
)

// TicketNumberPrefix prefixes generated ticket identifiers.
const TicketNumberPrefix = "TKT"
