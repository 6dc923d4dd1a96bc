package main

import (
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/time/rate"

	"user-service/internal/api"
	"user-service/internal/config"
	"user-service/internal/repository"
	"user-service/internal/service"
	"user-service/migrations"
)

func connectDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// listen probes forward from the configured port when it is already taken,
// so several local instances can run side by side.
func listen(addr string) (net.Listener, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	for i := 0; i < 100; i++ {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port+i)))
		if err == nil {
			return ln, nil
		}
	}
	return nil, fmt.Errorf("no available port in range %d-%d", port, port+99)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	db, err := connectDB(cfg.DBPath)
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrateUsers(db); err != nil {
		panic(err)
	}

	// Wire the dependency chain: store -> repository -> service -> handler.
	userRepo := repository.NewUserRepository(db)
	userService := service.NewUserService(userRepo)
	userHandler := api.NewUserHandler(userService)

	e := echo.New()
	e.HTTPErrorHandler = api.ErrorHandler

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     cfg.RateBurst,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	// Routes
	userHandler.RegisterRoutes(e)

	// Start server
	ln, err := listen(cfg.HTTPAddr)
	if err != nil {
		e.Logger.Fatal(err)
	}
	e.Listener = ln
	e.Logger.Fatal(e.Start(""))
}
