// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package practice_api

import (
	"context"

	internal_services "github.com/starcoachai/api/practice-api/internal/services"
	"github.com/starcoachai/config"
	"github.com/starcoachai/pkg/commons"
	"github.com/starcoachai/pkg/connectors"
)

type practiceApi struct {
	cfg       *config.AppConfig
	logger    commons.Logger
	database  connectors.DatabaseConnector
	questions internal_services.QuestionService
	recording internal_services.RecordingService
	analysis  internal_services.AnalysisService
	progress  internal_services.ProgressService
	dashboard internal_services.DashboardService
}

type PracticeApi struct {
	practiceApi
}

func NewPracticeApi(cfg *config.AppConfig, logger commons.Logger, database connectors.DatabaseConnector) *PracticeApi {
	transcriber := internal_services.NewWhisperTranscriber(cfg, logger)
	rater := internal_services.NewClaudeSpeechRater(cfg, logger)
	coach := internal_services.NewClaudeCoach(cfg, logger)

	return &PracticeApi{
		practiceApi{
			cfg:       cfg,
			logger:    logger,
			database:  database,
			questions: internal_services.NewQuestionService(logger, database),
			recording: internal_services.NewRecordingService(cfg, logger, database),
			analysis:  internal_services.NewAnalysisService(cfg, logger, database, transcriber, rater, coach),
			progress:  internal_services.NewProgressService(logger, database),
			dashboard: internal_services.NewDashboardService(logger, database),
		},
	}
}

// Seed populates the starter question catalog. Called once at startup.
func (pApi *PracticeApi) Seed(ctx context.Context) error {
	return pApi.questions.Seed(ctx)
}
