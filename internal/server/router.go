package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/timewell/timewell-backend/internal/handlers"
	"github.com/timewell/timewell-backend/internal/middleware"
)

type RouterConfig struct {
	AllowOrigins      []string
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	UserHandler       *handlers.UserHandler
	GoalHandler       *handlers.GoalHandler
	EventHandler      *handlers.EventHandler
	HabitHandler      *handlers.HabitHandler
	SuggestionHandler *handlers.SuggestionHandler
	CoachHandler      *handlers.CoachHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)

	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.GET("/user/preferences", cfg.UserHandler.GetPreferences)
	protected.PATCH("/user/preferences", cfg.UserHandler.UpdatePreferences)

	// Goals
	protected.POST("/goals", cfg.GoalHandler.Create)
	protected.GET("/goals", cfg.GoalHandler.List)
	protected.GET("/goals/active", cfg.GoalHandler.ListActive)
	protected.GET("/goals/:id", cfg.GoalHandler.Get)
	protected.PATCH("/goals/:id", cfg.GoalHandler.Update)
	protected.POST("/goals/:id/complete", cfg.GoalHandler.Complete)
	protected.DELETE("/goals/:id", cfg.GoalHandler.Delete)

	// Events
	protected.POST("/events", cfg.EventHandler.Create)
	protected.GET("/events", cfg.EventHandler.List)
	protected.GET("/events/:id", cfg.EventHandler.Get)
	protected.PATCH("/events/:id", cfg.EventHandler.Update)
	protected.POST("/events/:id/complete", cfg.EventHandler.Complete)
	protected.DELETE("/events/:id", cfg.EventHandler.Delete)
	protected.POST("/events/:id/analyze", cfg.EventHandler.Analyze)
	protected.GET("/events/:id/suggestions", cfg.SuggestionHandler.ListForEvent)

	// Habits
	protected.POST("/habits", cfg.HabitHandler.Create)
	protected.GET("/habits", cfg.HabitHandler.List)
	protected.GET("/habits/:id", cfg.HabitHandler.Get)
	protected.PATCH("/habits/:id", cfg.HabitHandler.Update)
	protected.POST("/habits/:id/complete", cfg.HabitHandler.Complete)
	protected.POST("/habits/:id/streak/increment", cfg.HabitHandler.IncrementStreak)
	protected.POST("/habits/:id/streak/reset", cfg.HabitHandler.ResetStreak)
	protected.DELETE("/habits/:id", cfg.HabitHandler.Delete)

	// Suggestions
	protected.GET("/suggestions", cfg.SuggestionHandler.List)
	protected.GET("/suggestions/:id", cfg.SuggestionHandler.Get)
	protected.POST("/suggestions/:id/apply", cfg.SuggestionHandler.Apply)
	protected.POST("/suggestions/:id/unapply", cfg.SuggestionHandler.Unapply)
	protected.DELETE("/suggestions/:id", cfg.SuggestionHandler.Delete)

	// Coach
	protected.POST("/coach/ask", cfg.CoachHandler.Ask)
	protected.POST("/coach/weekly-review", cfg.CoachHandler.WeeklyReview)
	protected.POST("/coach/action-plan", cfg.CoachHandler.ActionPlan)
	protected.GET("/coach/voice-styles", cfg.CoachHandler.ListVoiceStyles)

	return router
}
