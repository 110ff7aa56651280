package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/streamline-api/internal/middleware"
	"github.com/yukikurage/streamline-api/internal/services"
	"go.uber.org/zap"
)

// Services bundles everything the HTTP layer depends on.
type Services struct {
	Auth      *services.AuthService
	User      *services.UserService
	Todo      *services.TodoService
	Comment   *services.CommentService
	Ticket    *services.TicketService
	Activity  *services.ActivityService
	Analytics *services.AnalyticsService
	AI        *services.AIService
	Export    *services.ExportService
}

// RouterOptions configures the cross-cutting middleware. A nil RateLimiter
// disables rate limiting.
type RouterOptions struct {
	Log         *zap.Logger
	CORSOrigins []string
	RateLimiter *middleware.RateLimiter
}

// NewRouter builds the gin engine serving the whole API.
func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.CORS(opts.CORSOrigins))
	r.Use(middleware.RequestLogger(log))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware())
	}

	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.User)
	todoHandler := NewTodoHandler(svc.Todo)
	commentHandler := NewCommentHandler(svc.Comment)
	ticketHandler := NewTicketHandler(svc.Ticket)
	activityHandler := NewActivityHandler(svc.Activity)
	analyticsHandler := NewAnalyticsHandler(svc.Analytics)
	aiHandler := NewAIHandler(svc.AI)
	exportHandler := NewExportHandler(svc.Export)

	requireAuth := middleware.RequireAuth(svc.Auth)
	requireTodo := middleware.RequireTodoAccess(svc.Todo)
	requireTicket := middleware.RequireTicketAccess(svc.Ticket)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Streamline API is running"})
	})

	api := r.Group("/api")
	{
		api.GET("/health", Health)

		// Auth routes (public except me)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		user := api.Group("/user")
		user.Use(requireAuth)
		{
			user.PUT("/profile", userHandler.UpdateProfile)
			user.PUT("/password", userHandler.ChangePassword)
			user.GET("/settings", userHandler.GetSettings)
			user.PUT("/settings", userHandler.UpdateSettings)
		}

		todos := api.Group("/todos")
		todos.Use(requireAuth)
		{
			todos.GET("", todoHandler.ListTodos)
			todos.POST("", todoHandler.CreateTodo)
			todos.GET("/:id", requireTodo, todoHandler.GetTodo)
			todos.PUT("/:id", requireTodo, todoHandler.UpdateTodo)
			todos.DELETE("/:id", requireTodo, todoHandler.DeleteTodo)
			todos.POST("/:id/time", requireTodo, todoHandler.TrackTime)
			todos.GET("/:id/comments", requireTodo, commentHandler.ListComments)
			todos.POST("/:id/comments", requireTodo, commentHandler.AddComment)
			todos.DELETE("/:id/comments/:cid", requireTodo, commentHandler.DeleteComment)
		}

		tickets := api.Group("/tickets")
		tickets.Use(requireAuth)
		{
			tickets.GET("", ticketHandler.ListTickets)
			tickets.POST("", ticketHandler.CreateTicket)
			tickets.GET("/clients", ticketHandler.ListClients)
			tickets.GET("/:id", requireTicket, ticketHandler.GetTicket)
			tickets.PUT("/:id", requireTicket, ticketHandler.UpdateTicket)
			tickets.DELETE("/:id", requireTicket, ticketHandler.DeleteTicket)
			tickets.GET("/:id/comments", requireTicket, ticketHandler.ListComments)
			tickets.POST("/:id/comments", requireTicket, ticketHandler.AddComment)
		}

		api.GET("/activities", requireAuth, activityHandler.ListActivities)
		api.GET("/analytics/stats", requireAuth, analyticsHandler.Stats)

		ai := api.Group("/ai")
		ai.Use(requireAuth)
		{
			ai.POST("/suggestions", aiHandler.Suggestions)
			ai.POST("/analyze", aiHandler.Analyze)
			ai.POST("/plan-day", aiHandler.PlanDay)
			ai.POST("/optimize-workflow", aiHandler.OptimizeWorkflow)
			ai.POST("/smart-suggestions", aiHandler.SmartSuggestions)
		}

		export := api.Group("/export")
		export.Use(requireAuth)
		{
			export.GET("/pdf", exportHandler.ExportTodos(services.FormatPDF))
			export.GET("/excel", exportHandler.ExportTodos(services.FormatExcel))
			export.GET("/tickets/pdf", exportHandler.ExportTickets(services.FormatPDF))
			export.GET("/tickets/excel", exportHandler.ExportTickets(services.FormatExcel))
		}
	}

	return r
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
