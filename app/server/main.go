package main

import (
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/KrishSaraf/manj-book/app/server/handlers"
	"github.com/KrishSaraf/manj-book/app/server/inits"
	"github.com/KrishSaraf/manj-book/app/server/jwt"
)

func main() {
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	l, err := inits.Logger(!cfg.System.IsProd)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}

	l.Debug("logger initialized")

	db, err := inits.DB(cfg)
	if err != nil {
		l.Fatal("error initializing DB connection", zap.Error(err))
	}

	rdb, err := inits.Redis(cfg.System.RedisConnectionString)
	if err != nil {
		l.Fatal("error initializing Redis connection", zap.Error(err))
	}
	if rdb == nil {
		l.Warn("no redis configured, running without read cache")
	}

	j, err := jwt.New(cfg.Security.JWTSecret)
	if err != nil {
		l.Fatal("error initializing JWT", zap.Error(err))
	}

	handlerApp := handlers.NewApp(l, db, rdb, j, cfg.System.UploadDir)

	e := echo.New()
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info("request",
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
			)

			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// uploaded featured images
	e.Static("/uploads", cfg.System.UploadDir)

	handlerApp.Register(e)

	if err := e.Start(cfg.System.Listen); err != nil {
		l.Fatal("shutting down the server", zap.Error(err))
	}
}
