// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	internal_entity "github.com/starcoachai/api/practice-api/internal/entity"
	practice_routers "github.com/starcoachai/api/practice-api/router"
	"github.com/starcoachai/config"
	"github.com/starcoachai/pkg/commons"
	"github.com/starcoachai/pkg/connectors"
)

func main() {
	vConfig, err := config.InitConfig()
	if err != nil {
		log.Fatalf("unable to initialize config: %v", err)
	}
	cfg, err := config.GetApplicationConfig(vConfig)
	if err != nil {
		log.Fatalf("unable to load application config: %v", err)
	}

	logger, err := commons.NewApplicationLogger(
		commons.Name(cfg.Name),
		commons.Path(cfg.LogPath),
		commons.Level(cfg.LogLevel),
	)
	if err != nil {
		log.Fatalf("unable to initialize logger: %v", err)
	}
	defer logger.Sync()

	database, err := connectors.NewDatabaseConnector(cfg.DatabaseConfig, logger)
	if err != nil {
		logger.Fatalf("unable to connect database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.DB(ctx).AutoMigrate(
		&internal_entity.Question{},
		&internal_entity.Attempt{},
		&internal_entity.Transcription{},
		&internal_entity.Analytics{},
		&internal_entity.Feedback{},
	); err != nil {
		logger.Fatalf("unable to migrate database: %v", err)
	}

	if err := os.MkdirAll(cfg.RecordingsDir, 0o755); err != nil {
		logger.Fatalf("unable to create recordings dir: %v", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	pApi := practice_routers.PracticeRoutes(cfg, engine, logger, database)
	if err := pApi.Seed(ctx); err != nil {
		logger.Fatalf("unable to seed questions: %v", err)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: engine,
	}

	go func() {
		logger.Infof("%s %s listening on %s", cfg.Name, cfg.Version, server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
