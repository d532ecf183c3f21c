package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/broker"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/cache"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/handlers"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/handlers/ws"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/middleware"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/notify"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/repository"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is required")
	}

	app := fiber.New(fiber.Config{
		AppName: "Seoul Moment Chat",
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Redis: the history cache degrades gracefully without it, the broadcast
	// backbone does not.
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis cache connection failed: %v. Running without history cache.", err)
		redisCache = nil
	}
	historyCache := cache.NewHistoryCache(redisCache)

	// Initialize repositories
	roomRepo := repository.NewRoomRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	userRepo := repository.NewUserRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	// Initialize services
	chatService := service.NewChatService(roomRepo, groupRepo, memberRepo, messageRepo, userRepo, scheduleRepo, historyCache)

	// Gateway wiring
	registry := ws.NewRoomRegistry()
	hub := ws.NewHub()
	bridge := notify.NewBridge()
	gateway := ws.NewGateway(hub, registry, chatService, bridge)

	// Broadcast backbone. A failed initial connection is fatal: without it a
	// multi-instance deployment silently drops cross-instance messages, so
	// the process must not come up healthy.
	var roomBroker broker.Broker
	if os.Getenv("BROKER_MODE") == "local" {
		log.Println("Broker running in local mode; cross-instance broadcast disabled")
		roomBroker = broker.NewLocalBroker(gateway.Deliver)
	} else {
		rb, err := broker.NewRedisBroker(redisAddr, redisPassword, redisDB, gateway.Deliver)
		if err != nil {
			log.Fatal("Failed to connect broadcast backbone:", err)
		}
		roomBroker = rb
	}
	gateway.SetBroker(roomBroker)

	// Initialize handlers
	wsHandler := handlers.NewWebSocketHandler(gateway)
	notificationHandler := handlers.NewNotificationHandler(bridge, 0)
	messageHandler := handlers.NewMessageHandler(chatService)

	// Server-push notification stream
	app.Get(
		"/notification/chat/:groupId",
		middleware.OriginAllowed(),
		middleware.AuthRequired(),
		notificationHandler.StreamChat,
	)

	// Protected REST surface
	api := app.Group("/api", middleware.OriginAllowed(), middleware.AuthRequired())
	api.Get(
		"/rooms/:id/messages",
		limiter.New(limiter.Config{
			Max:        60,
			Expiration: time.Minute,
		}),
		messageHandler.GetRoomMessages,
	)
	api.Get("/rooms/:id/unread", messageHandler.GetRoomUnread)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws",
		middleware.OriginAllowed(),
		middleware.AuthRequired(),
		func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Health check; only reachable once the backbone connected.
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Seoul Moment chat is running",
		})
	})

	// Graceful shutdown: release the backbone and presence state.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		if err := roomBroker.Close(); err != nil {
			log.Printf("Closing broker: %v", err)
		}
		if redisCache != nil {
			if err := redisCache.Close(); err != nil {
				log.Printf("Closing cache: %v", err)
			}
		}
		registry.Clear()
		if err := app.Shutdown(); err != nil {
			log.Printf("Shutting down server: %v", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
