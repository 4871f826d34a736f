// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/catering-backend/internal/config"
	"github.com/your-org/catering-backend/internal/domain/cooking"
	"github.com/your-org/catering-backend/internal/domain/event"
	"github.com/your-org/catering-backend/internal/domain/indent"
	"github.com/your-org/catering-backend/internal/domain/stock"
	"github.com/your-org/catering-backend/internal/domain/user"
	"github.com/your-org/catering-backend/internal/interfaces/http/handlers"
	"github.com/your-org/catering-backend/internal/interfaces/http/middleware"
	"github.com/your-org/catering-backend/internal/pkg/authz"
	"github.com/your-org/catering-backend/internal/pkg/pdf"
)

// Dependencies carries the wired services into route setup
type Dependencies struct {
	Config         *config.Config
	UserService    *user.Service
	EventService   *event.Service
	IndentService  *indent.Service
	StockService   *stock.Service
	CookingService *cooking.Service
	PDFService     *pdf.Service
}

// SetupRoutes registers all API routes
func SetupRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	setupAuthRoutes(rg, deps)
	setupStaffRoutes(rg, deps)
	setupEventRoutes(rg, deps)
	setupIndentRoutes(rg, deps)
	setupStockRoutes(rg, deps)
	setupCookingRoutes(rg, deps)
}

// setupAuthRoutes sets up authentication related routes
func setupAuthRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.UserService)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Config))
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.POST("/change-password", authHandler.ChangePassword)
		}
	}
}

// setupStaffRoutes sets up staff management routes
func setupStaffRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.UserService)

	staff := rg.Group("/staff")
	staff.Use(middleware.AuthMiddleware(deps.Config))
	{
		staff.GET("", middleware.RequireRole(authz.RoleManager), authHandler.ListStaff)
		staff.GET("/chefs", authHandler.ListChefs)

		// Admin-only account management
		admin := staff.Group("")
		admin.Use(middleware.RequireRole(authz.RoleAdmin))
		{
			admin.POST("", authHandler.Register)
			admin.PUT("/:id/role", authHandler.SetRole)
			admin.PUT("/:id/active", authHandler.SetActive)
		}
	}
}

// setupEventRoutes sets up event related routes
func setupEventRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	eventHandler := handlers.NewEventHandler(deps.EventService)

	events := rg.Group("/events")
	events.Use(middleware.AuthMiddleware(deps.Config))
	{
		events.POST("", middleware.RequireRole(authz.RoleManager), eventHandler.CreateEvent)
		events.GET("", eventHandler.ListEvents)
		events.GET("/:id", eventHandler.GetEvent)
		events.PUT("/:id", middleware.RequireRole(authz.RoleManager), eventHandler.UpdateEvent)
		events.POST("/:id/cancel", middleware.RequireRole(authz.RoleManager), eventHandler.CancelEvent)
		events.POST("/:id/close", middleware.RequireRole(authz.RoleManager), eventHandler.CloseEvent)
	}
}

// setupIndentRoutes sets up indent related routes
func setupIndentRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	indentHandler := handlers.NewIndentHandler(deps.IndentService, deps.EventService, deps.PDFService)

	indents := rg.Group("/indents")
	indents.Use(middleware.AuthMiddleware(deps.Config))
	{
		indents.POST("", middleware.RequireRole(authz.RoleManager), indentHandler.CreateIndent)
		indents.GET("", indentHandler.ListIndents)
		indents.GET("/:id", indentHandler.GetIndent)
		indents.GET("/:id/pdf", indentHandler.ExportPDF)
		indents.PUT("/:id/items", middleware.RequireRole(authz.RoleManager), indentHandler.ReplaceItems)
		indents.POST("/:id/submit", middleware.RequireRole(authz.RoleManager), indentHandler.Submit)
		indents.POST("/:id/approve", middleware.RequireRole(authz.RoleManager), indentHandler.Approve)
		indents.POST("/:id/reject", middleware.RequireRole(authz.RoleManager), indentHandler.Reject)
		indents.POST("/:id/items/:itemId/receive", middleware.RequireRole(authz.RoleManager), indentHandler.MarkItemReceived)
		indents.DELETE("/:id", middleware.RequireRole(authz.RoleManager), indentHandler.DeleteIndent)
	}
}

// setupStockRoutes sets up warehouse stock routes
func setupStockRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	stockHandler := handlers.NewStockHandler(deps.StockService)

	stocks := rg.Group("/stock")
	stocks.Use(middleware.AuthMiddleware(deps.Config))
	{
		stocks.POST("", middleware.RequireRole(authz.RoleManager), stockHandler.CreateStock)
		stocks.GET("", stockHandler.ListStock)
		stocks.GET("/alerts", stockHandler.GetAlerts)
		// Chefs may record usage; per-type checks live in the service
		stocks.POST("/adjust", stockHandler.BatchAdjust)
		stocks.GET("/:id", stockHandler.GetStock)
		stocks.PUT("/:id", middleware.RequireRole(authz.RoleManager), stockHandler.UpdateStock)
		stocks.POST("/:id/adjust", stockHandler.Adjust)
		stocks.GET("/:id/history", stockHandler.GetHistory)
	}
}

// setupCookingRoutes sets up cooking task routes
func setupCookingRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	cookingHandler := handlers.NewCookingHandler(deps.CookingService)

	kitchen := rg.Group("/cooking")
	kitchen.Use(middleware.AuthMiddleware(deps.Config))
	{
		kitchen.GET("/board", cookingHandler.GetBoard)
		kitchen.POST("/tasks", middleware.RequireRole(authz.RoleManager), cookingHandler.CreateTask)
		kitchen.GET("/tasks/:id", cookingHandler.GetTask)
		kitchen.PUT("/tasks/:id/status", cookingHandler.UpdateStatus)
		kitchen.PUT("/tasks/:id/assignee", middleware.RequireRole(authz.RoleManager), cookingHandler.Reassign)
	}
}
