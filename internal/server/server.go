package server

import (
	"github.com/Avi-17/Z/internal/apperror"
	"github.com/Avi-17/Z/internal/auth"
	"github.com/Avi-17/Z/internal/config"
	"github.com/Avi-17/Z/internal/media"
	"github.com/Avi-17/Z/internal/notification"
	"github.com/Avi-17/Z/internal/post"
	"github.com/Avi-17/Z/internal/stream"
	"github.com/Avi-17/Z/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
	Media  media.Store
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: apperror.FiberErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
		Media:  media.NewClient(cfg.MediaBaseURL, cfg.MediaAPIKey),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authMiddleware := auth.CookieMiddleware(s.Cfg.JWTSecret)

	notificationSvc := notification.NewService(s.DB, s.Stream)

	auth.RegisterRoutes(s.App.Group("/api/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB), authMiddleware)
	user.RegisterRoutes(s.App.Group("/api/users"), user.NewService(s.DB, s.Media, notificationSvc), authMiddleware)
	post.RegisterRoutes(s.App.Group("/api/posts"), post.NewService(s.DB, s.Media, notificationSvc), authMiddleware)
	notification.RegisterRoutes(s.App.Group("/api/notifications"), notificationSvc, authMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream, authMiddleware)
}
