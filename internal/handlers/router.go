package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "taskboard-api"

// Dependencies holds everything the router needs to build its handlers
type Dependencies struct {
	DB           *gorm.DB
	Logger       *zap.Logger
	SessionStore sessions.Store
	Tokens       *services.TokenService
	AI           *services.AIService
	// OAuth is nil when Google login is disabled
	OAuth          services.GoogleOAuth
	FrontendURL    string
	SeedAdminEmail string
}

// NewRouter wires repositories, services and handlers into a gin engine
func NewRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	userRepo := repository.NewUserRepository(deps.DB)
	boardRepo := repository.NewBoardRepository(deps.DB)
	listRepo := repository.NewListRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)
	statsRepo := repository.NewStatsRepository(deps.DB)

	authService := services.NewAuthService(userRepo, deps.Tokens)
	boardService := services.NewBoardService(boardRepo)
	listService := services.NewListService(listRepo, boardRepo)
	taskService := services.NewTaskService(taskRepo, listRepo, deps.AI)
	userService := services.NewUserService(userRepo, deps.SeedAdminEmail)
	statsService := services.NewStatsService(statsRepo)

	authHandler := NewAuthHandler(authService, deps.OAuth, deps.FrontendURL)
	boardHandler := NewBoardHandler(boardService)
	listHandler := NewListHandler(listService)
	taskHandler := NewTaskHandler(taskService)
	adminHandler := NewAdminHandler(userService, statsService)

	boardOwner := middleware.RequireOwner(services.BoardOwner{Boards: boardRepo})
	listOwner := middleware.RequireOwner(services.ListOwner{Lists: listRepo, Boards: boardRepo})
	taskOwner := middleware.RequireOwner(services.TaskOwner{Tasks: taskRepo, Lists: listRepo, Boards: boardRepo})
	requireAuth := middleware.RequireAuth(deps.Tokens)
	requireAdmin := middleware.RequireAdmin()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger))
	if deps.SessionStore != nil {
		r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))
	}

	r.GET("/health", health)

	api := r.Group("/api")
	{
		api.GET("/health", health)

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/signup", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.GET("/google", authHandler.GoogleLogin)
			auth.GET("/google/callback", authHandler.GoogleCallback)
		}

		// Admin routes
		users := api.Group("/users")
		users.Use(requireAuth, requireAdmin)
		{
			users.GET("", adminHandler.ListUsers)
			users.DELETE("/:id", adminHandler.DeleteUser)
		}

		admin := api.Group("/admin")
		admin.Use(requireAuth, requireAdmin)
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users/:id/role", adminHandler.ChangeRole)
			admin.GET("/stats", adminHandler.GetStats)
		}

		// Board routes (protected)
		boards := api.Group("/boards")
		boards.Use(requireAuth)
		{
			boards.GET("", boardHandler.ListBoards)
			boards.POST("", boardHandler.CreateBoard)
			boards.GET("/:id", boardOwner, boardHandler.GetBoard)
			boards.PUT("/:id", boardOwner, boardHandler.UpdateBoard)
			boards.DELETE("/:id", boardOwner, boardHandler.DeleteBoard)
		}

		// List routes (protected)
		lists := api.Group("/lists")
		lists.Use(requireAuth)
		{
			lists.GET("", listHandler.ListLists)
			lists.POST("", listHandler.CreateList)
			lists.PUT("/:id", listOwner, listHandler.UpdateList)
			lists.DELETE("/:id", listOwner, listHandler.DeleteList)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/suggest", taskHandler.SuggestTasks)
			tasks.GET("/:id", taskOwner, taskHandler.GetTask)
			tasks.PUT("/:id", taskOwner, taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskOwner, taskHandler.DeleteTask)
			tasks.PUT("/:id/move", taskOwner, taskHandler.MoveTask)
		}
	}

	return r
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"service": serviceName,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
