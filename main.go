package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/padraicbc/carreras/assets"
	"github.com/padraicbc/carreras/config"
	"github.com/padraicbc/carreras/db"
	"github.com/padraicbc/carreras/handlers"
	applog "github.com/padraicbc/carreras/logger"
	"github.com/padraicbc/carreras/metrics"
	mw "github.com/padraicbc/carreras/middleware"
	"github.com/padraicbc/carreras/session"
	"github.com/padraicbc/carreras/web"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	var images handlers.ImageStore
	if cfg.AssetBucket != "" {
		store, err := assets.New(context.Background(), assets.Config{
			Bucket:    cfg.AssetBucket,
			Region:    cfg.AssetRegion,
			Endpoint:  cfg.AssetEndpoint,
			PathStyle: cfg.AssetPathStyle,
		})
		if err != nil {
			logger.Fatal("asset store setup failed", zap.Error(err))
		}
		images = store
	}

	sessions := session.NewStore(cfg.SessionTTL)
	h := handlers.New(bdb, sessions, handlers.Options{
		Password:     cfg.Password,
		PasswordHash: cfg.PasswordHash,
		Images:       images,
	})

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Fatal("template parsing failed", zap.Error(err))
	}

	e := echo.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = h.ErrorHandler
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(metrics.Middleware())
	e.Use(mw.Session(sessions, cfg.SessionKey()))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	h.Register(e, mw.RequireConfirmed(sessions))

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
