package router

import (
	"github.com/anonto42/cafe-likes/internal/handlers"
	"github.com/anonto42/cafe-likes/internal/metrics"
	"github.com/anonto42/cafe-likes/internal/middleware"
	"github.com/anonto42/cafe-likes/internal/repositories"
	"github.com/anonto42/cafe-likes/internal/validators"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, logger *zap.Logger) {
	e.Use(eMiddleware.RequestIDWithConfig(eMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	logger.Debug("global middleware configured")
}

// New builds the contract stub app: the like endpoints under /api plus
// /health and /metrics.
func New(likeRepo repositories.LikeRepository, m *metrics.Metrics, logger *zap.Logger) *echo.Echo {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()

	SetupMiddleware(e, logger)
	SetupRoutes(e, likeRepo, m, logger)
	return e
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, likeRepo repositories.LikeRepository, m *metrics.Metrics, logger *zap.Logger) {
	e.GET("/health", handlers.HealthCheck)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	api := e.Group("/api")
	api.Use(middleware.SessionUserMiddleware())

	likeHandler := handlers.NewLikeHandler(likeRepo, m, logger)
	likeHandler.RegisterLikeRoutes(api)
	logger.Debug("like routes configured")
}
