package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/infrastructure/communication"
	"meridianadvisory.com/backoffice/infrastructure/devops"
	"meridianadvisory.com/backoffice/infrastructure/logging"
	"meridianadvisory.com/backoffice/web/handlers/benchmark"
	"meridianadvisory.com/backoffice/web/handlers/collaboration"
	"meridianadvisory.com/backoffice/web/handlers/directory"
	"meridianadvisory.com/backoffice/web/handlers/helpdesk"
	"meridianadvisory.com/backoffice/web/handlers/report"
	"meridianadvisory.com/backoffice/web/handlers/timecard"
	"meridianadvisory.com/backoffice/web/middlewares"
)

func main() {
	ctx := context.Background()

	cfg, err := devops.Load(ctx)
	if err != nil {
		log.Fatal(err)
	}
	logging.Init(cfg.Log)

	dm, err := core.New(cfg.Database.DSN, cfg.Database.MaxConnections)
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	jwtSecret, err := base64.StdEncoding.DecodeString(cfg.Auth.SigningSecret)
	if err != nil {
		log.Fatal("failed to decode JWT secret: ", err)
	}

	notifier := communication.Connect(cfg.Slack)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	protected := r.Group("/api")
	protected.Use(middlewares.Authentication(jwtSecret))
	{
		directory.Register(protected, dm)
		timecard.Register(protected, dm)
		benchmark.Register(protected, dm)
		report.Register(protected, dm)
		helpdesk.Register(protected, dm, notifier)
		collaboration.Register(protected, dm)
	}

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	slog.Info("server starting", "addr", cfg.Server.Address)
	notifier.Info(fmt.Sprintf("backoffice API starting on %s", cfg.Server.Address))

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	signalCtx, signalCtxStop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCtxStop()

	select {
	case <-signalCtx.Done():
		slog.Info("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		slog.Info("shutdown complete")
	case err := <-errChan:
		notifier.Error(fmt.Sprintf("backoffice API stopped: %v", err))
		log.Fatal(err)
	}
}
