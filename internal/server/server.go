package server

import (
	"github.com/sokolgood/duga-backend/internal/auth"
	"github.com/sokolgood/duga-backend/internal/config"
	"github.com/sokolgood/duga-backend/internal/location"
	"github.com/sokolgood/duga-backend/internal/swipe"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	locationSvc := location.NewService(s.DB)
	ledger := swipe.NewLedger(s.DB)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB, s.Redis))
	location.RegisterRoutes(s.App.Group("/locations"), locationSvc, jwtMiddleware)
	swipe.RegisterRoutes(s.App.Group("/swipe"), swipe.NewService(ledger, locationSvc, s.Cfg.SwipeRadiusKm), jwtMiddleware, s.Cfg.FeedLimit)
}
