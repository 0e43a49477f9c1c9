package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/prepod2003/calorai-calc-ai/internal/ai"
	"github.com/prepod2003/calorai-calc-ai/internal/config"
	"github.com/prepod2003/calorai-calc-ai/internal/handlers"
	"github.com/prepod2003/calorai-calc-ai/internal/notifications"
	"github.com/prepod2003/calorai-calc-ai/internal/repository"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, db *pgxpool.Pool) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	store := repository.NewStore(db)
	ledger := repository.NewLedgerStore(store)
	dishRepo := repository.NewDishRepository(store)
	profileRepo := repository.NewProfileRepository(store)
	configRepo := repository.NewConfigRepository(store)
	aiRepo := repository.NewAIRepository(db)
	notificationHub := notifications.NewHub()
	aiService := ai.NewService(cfg.AI.Timeout, cfg.AI.MaxOutputTokens)

	aiHandler := handlers.NewAIHandler(aiService, configRepo, ledger, profileRepo, aiRepo)
	mealHandler := handlers.NewMealHandler(ledger, profileRepo, notificationHub)
	exportHandler := handlers.NewExportHandler(ledger, profileRepo)
	dishHandler := handlers.NewDishHandler(dishRepo, notificationHub)
	profileHandler := handlers.NewProfileHandler(profileRepo, aiHandler, notificationHub)
	statsHandler := handlers.NewStatsHandler(ledger, profileRepo)
	settingsHandler := handlers.NewSettingsHandler(configRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationHub)

	registerRoutes(
		e,
		mealHandler,
		exportHandler,
		dishHandler,
		profileHandler,
		statsHandler,
		settingsHandler,
		aiHandler,
		notificationHandler,
		aiRateLimiter(cfg.AI),
	)

	return e
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func aiRateLimiter(cfg config.AIConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
