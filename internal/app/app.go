package app

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"helphub-backend/internal/db"
	"helphub-backend/internal/handlers"
	"helphub-backend/internal/models"
	"helphub-backend/internal/notify"
	"helphub-backend/internal/services"
	"helphub-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func Run() {
	// Load Env
	if err := utils.LoadEnv(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Init DB
	connString := utils.GetEnv("DATABASE_URL", "")
	if connString == "" {
		// Fallback to individual vars
		connString = "postgres://" + utils.GetEnv("POSTGRES_USER", "postgres") + ":" +
			utils.GetEnv("POSTGRES_PASSWORD", "postgres") + "@" +
			utils.GetEnv("POSTGRES_HOST", "localhost") + ":" +
			utils.GetEnv("POSTGRES_PORT", "5432") + "/" +
			utils.GetEnv("POSTGRES_DB", "helphub") + "?sslmode=disable"
	}

	if err := db.InitDB(connString); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.CloseDB()

	// Services
	userService := services.NewUserService()
	messageService := services.NewMessageService(userService)
	requestService := services.NewRequestService(userService)
	responseService := services.NewResponseService(userService, messageService)
	adminService := services.NewAdminService()
	hub := notify.NewHub()

	// Fiber App
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// Ensure upload dir exists and serve uploaded files
	uploadDir := utils.GetEnv("UPLOAD_DIR", "uploads")
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		log.Printf("Warning: failed to create upload dir: %v", err)
	}
	app.Static("/uploads", uploadDir)

	// Routes
	api := app.Group("/api")

	// Public Routes
	api.Post("/register", func(c *fiber.Ctx) error {
		var req models.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
		}
		user, err := userService.Register(c.Context(), req)
		if err != nil {
			if errors.Is(err, services.ErrUserExists) {
				return c.Status(400).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(user)
	})

	api.Post("/login", func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
		}
		res, err := userService.Login(c.Context(), req)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(res)
	})

	// Refresh token endpoint
	api.Post("/refresh", func(c *fiber.Ctx) error {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
		}
		if body.RefreshToken == "" {
			return c.Status(400).JSON(fiber.Map{"error": "refresh_token required"})
		}

		claims, err := services.ValidateRefreshToken(body.RefreshToken)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "invalid refresh token"})
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			return c.Status(401).JSON(fiber.Map{"error": "invalid token claims"})
		}
		email, ok := claims["email"].(string)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "invalid token claims"})
		}

		access, err := services.GenerateJWT(userID, email)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to generate access token"})
		}
		refresh, err := services.GenerateRefreshToken(userID, email)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to generate refresh token"})
		}

		return c.JSON(fiber.Map{
			"access_token":  access,
			"refresh_token": refresh,
		})
	})

	// Public browsing: list and detail work unauthenticated; the detail
	// handler degrades to the public projection on its own.
	api.Get("/requests", handlers.ListRequestsHandler(requestService))
	api.Get("/requests/:id/responses", handlers.ListResponsesHandler(responseService))
	api.Get("/requests/:id", handlers.OptionalAuthMiddleware, handlers.GetRequestHandler(requestService))

	// Protected Routes
	protected := api.Group("/")
	protected.Use(handlers.AuthMiddleware)

	// Requests
	protected.Get("/my-requests", handlers.ListMyRequestsHandler(requestService))
	protected.Post("/requests", handlers.CreateRequestHandler(requestService))
	protected.Patch("/requests/:id/status", handlers.UpdateRequestStatusHandler(requestService))

	// Responses
	protected.Post("/responses", handlers.CreateResponseHandler(responseService, requestService, userService, hub))

	// Messaging
	protected.Get("/conversations", handlers.ListConversationsHandler(messageService))
	protected.Get("/conversations/:other_user_id", handlers.GetConversationHandler(messageService))
	protected.Post("/messages", handlers.SendMessageHandler(messageService, hub))

	// Profile
	protected.Get("/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		profile, err := userService.GetProfile(c.Context(), userID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(profile)
	})
	protected.Put("/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		var body struct {
			FullName *string `json:"full_name"`
			Bio      *string `json:"bio"`
			City     *string `json:"city"`
			Phone    *string `json:"phone"`
			IsHelper *bool   `json:"is_helper"`
			IsSeeker *bool   `json:"is_seeker"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}
		profile, err := userService.UpdateProfile(c.Context(), userID,
			body.FullName, body.Bio, body.City, body.Phone, body.IsHelper, body.IsSeeker)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(profile)
	})

	// Image upload
	protected.Post("/uploads", handlers.UploadImageHandler())

	// Admin panel
	admin := protected.Group("/admin")
	admin.Use(handlers.AdminMiddleware(userService))
	admin.Get("/stats", handlers.AdminStatsHandler(adminService))
	admin.Get("/users", handlers.AdminListUsersHandler(adminService))
	admin.Get("/requests", handlers.AdminListRequestsHandler(adminService))
	admin.Patch("/requests/:id/verify", handlers.AdminVerifyRequestHandler(requestService))

	// Health Check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// WebSocket Route
	// Note: Middleware order matters. AuthMiddleware checks token.
	// WSUpgradeMiddleware checks if it's a WS request.
	app.Use("/ws", handlers.WSUpgradeMiddleware)
	app.Use("/ws", handlers.AuthMiddleware)
	app.Get("/ws", handlers.WebSocketHandler(hub, messageService))

	// Start Server
	port := utils.GetEnv("PORT", "3001")
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Graceful Shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c // Block until signal
	log.Println("Gracefully shutting down...")
	_ = app.Shutdown()
	log.Println("Server shutdown complete")
}
