// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package practice_routers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	practiceApi "github.com/starcoachai/api/practice-api/api"
	"github.com/starcoachai/config"
	"github.com/starcoachai/pkg/commons"
	"github.com/starcoachai/pkg/connectors"
)

// PracticeRoutes mounts the practice API plus the static recordings dir
// onto the engine.
func PracticeRoutes(cfg *config.AppConfig, engine *gin.Engine, logger commons.Logger, database connectors.DatabaseConnector) *practiceApi.PracticeApi {
	logger.Info("practice routes added to engine")

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	pApi := practiceApi.NewPracticeApi(cfg, logger, database)
	apiv1 := engine.Group("/api")
	{
		apiv1.GET("/health", pApi.Health)
		apiv1.GET("/questions", pApi.ListQuestions)
		apiv1.POST("/recordings", pApi.UploadRecording)
		apiv1.GET("/recordings", pApi.ListRecordings)
		apiv1.POST("/analyze/:attemptId", pApi.TriggerAnalysis)
		apiv1.GET("/analyze/:attemptId/status", pApi.AnalysisStatus)
		apiv1.GET("/attempts/:questionId", pApi.ListAttempts)
		apiv1.GET("/attempts/:questionId/progress", pApi.GetProgress)
		apiv1.GET("/dashboard", pApi.GetDashboard)
	}

	// Uploaded artifacts are served back for playback in review.
	engine.Static("/recordings", cfg.RecordingsDir)
	return pApi
}
