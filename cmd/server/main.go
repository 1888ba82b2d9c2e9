package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"teamdash/internal/auth"
	"teamdash/internal/authz"
	"teamdash/internal/config"
	"teamdash/internal/database"
	"teamdash/internal/handlers"
	"teamdash/internal/middleware"
	"teamdash/internal/repository"
	"teamdash/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		logrus.Fatalf("Failed to add indexes: %v", err)
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Auth components: the hasher and token service are built from injected
	// configuration, not ambient globals
	hasher := auth.NewPasswordHasher(auth.DefaultArgon2Params())
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	resolver := authz.NewResolver(userRepo, teamRepo)
	gate := authz.NewGate(tokens, userRepo, teamRepo, resolver)

	// Services
	userService := services.NewUserService(userRepo, hasher)
	teamService := services.NewTeamService(teamRepo, userRepo)
	membershipService := services.NewMembershipService(teamRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, teamRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, tokens)
	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService)
	memberHandler := handlers.NewMemberHandler(membershipService)
	taskHandler := handlers.NewTaskHandler(taskService, gate)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Team Dashboard API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/me", middleware.RequireAuth(gate), authHandler.GetCurrentUser)
			authRoutes.POST("/change-password", middleware.RequireAuth(gate), authHandler.ChangePassword)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(gate))
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// Team routes (protected)
		teams := api.Group("/teams")
		teams.Use(middleware.RequireAuth(gate))
		{
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("", teamHandler.ListTeams)
			teams.GET("/mine", teamHandler.ListMyTeams)
			teams.GET("/:id", middleware.RequireTeamAccess(teamRepo), teamHandler.GetTeam)
			teams.PUT("/:id", middleware.RequireTeamAccess(teamRepo), middleware.RequireTeamModerator(), teamHandler.UpdateTeam)
			teams.DELETE("/:id", middleware.RequireTeamAccess(teamRepo), middleware.RequireTeamModerator(), teamHandler.DeleteTeam)
			teams.GET("/:id/tasks", middleware.RequireTeamAccess(teamRepo), taskHandler.ListTeamTasks)

			// Membership routes: the membership service owns the moderator
			// checks and the last-moderator invariant
			teams.POST("/:id/members", memberHandler.AddMember)
			teams.GET("/:id/members", memberHandler.ListMembers)
			teams.PUT("/:id/members/:user_id/role", memberHandler.UpdateMemberRole)
			teams.DELETE("/:id/members/:user_id", memberHandler.RemoveMember)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(gate))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", middleware.RequireTaskView(taskRepo, gate), taskHandler.GetTask)
			tasks.PATCH("/:id", middleware.RequireTaskMutate(taskRepo, gate), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskMutate(taskRepo, gate), taskHandler.DeleteTask)
		}
	}

	// Start server
	logrus.Infof("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
