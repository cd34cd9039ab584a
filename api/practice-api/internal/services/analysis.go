// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package internal_services

import (
	"context"
	"errors"
	"path/filepath"

	"gorm.io/gorm"

	internal_entity "github.com/starcoachai/api/practice-api/internal/entity"
	practice_client "github.com/starcoachai/pkg/clients/practice"
	"github.com/starcoachai/config"
	"github.com/starcoachai/pkg/commons"
	"github.com/starcoachai/pkg/connectors"
)

type analysisService struct {
	cfg         *config.AppConfig
	logger      commons.Logger
	database    connectors.DatabaseConnector
	transcriber Transcriber
	rater       SpeechRater
	coach       Coach
}

func NewAnalysisService(
	cfg *config.AppConfig,
	logger commons.Logger,
	database connectors.DatabaseConnector,
	transcriber Transcriber,
	rater SpeechRater,
	coach Coach,
) AnalysisService {
	return &analysisService{
		cfg:         cfg,
		logger:      logger,
		database:    database,
		transcriber: transcriber,
		rater:       rater,
		coach:       coach,
	}
}

// Trigger validates the attempt and kicks off the pipeline in the
// background. Returns ErrAlreadyAnalyzed when a transcription already
// exists for the attempt.
func (svc *analysisService) Trigger(ctx context.Context, attemptID uint64) error {
	db := svc.database.DB(ctx)

	var attempt internal_entity.Attempt
	if err := db.First(&attempt, attemptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttemptNotFound
		}
		return err
	}

	var existing int64
	if err := db.Model(&internal_entity.Transcription{}).
		Where("attempt_id = ?", attemptID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return ErrAlreadyAnalyzed
	}

	// The job outlives the request, so it runs on its own context.
	go svc.run(context.Background(), attemptID)
	return nil
}

// run executes the three pipeline steps in order, committing each one
// independently so a later failure keeps the earlier results. The polled
// status is derived from which sub-records exist.
func (svc *analysisService) run(ctx context.Context, attemptID uint64) {
	db := svc.database.DB(ctx)

	var attempt internal_entity.Attempt
	if err := db.Preload("Question").First(&attempt, attemptID).Error; err != nil {
		svc.logger.Errorf("analysis %d: load attempt: %v", attemptID, err)
		return
	}

	// Step 1: transcribe.
	path := filepath.Join(svc.cfg.RecordingsDir, attempt.VideoPath)
	transcript, wordTimestamps, err := svc.transcriber.Transcribe(ctx, path)
	if err != nil {
		svc.logger.Errorf("analysis %d: transcription: %v", attemptID, err)
		return
	}
	transcription := &internal_entity.Transcription{
		AttemptId:      attemptID,
		TranscriptText: transcript,
		WordTimestamps: wordTimestamps,
	}
	if err := db.Create(transcription).Error; err != nil {
		svc.logger.Errorf("analysis %d: store transcription: %v", attemptID, err)
		return
	}

	// Step 2: speech analytics, heuristics plus the optional LLM rater.
	metrics := AnalyzeSpeech(transcript, wordTimestamps, attempt.DurationSeconds)
	analytics := &internal_entity.Analytics{
		AttemptId:             attemptID,
		PauseCount:            metrics.PauseCount,
		FillerWordCount:       metrics.FillerWordCount,
		FillerWordsDetail:     metrics.FillerWordsDetail,
		AnswerDurationSeconds: metrics.AnswerDurationSeconds,
		WordsPerMinute:        metrics.WordsPerMinute,
		ClarityScore:          metrics.ClarityScore,
		ConfidenceScore:       metrics.ConfidenceScore,
		StructureScore:        metrics.StructureScore,
	}
	if scores := svc.rater.Rate(ctx, transcript); scores != nil {
		analytics.ClarityLLMScore = &scores.ClarityScore
		analytics.ClarityLLMReason = scores.ClarityJustification
		analytics.ConfidenceLLMScore = &scores.ConfidenceScore
		analytics.ConfidenceLLMReason = scores.ConfidenceJustification
		analytics.StructureLLMScore = &scores.StructureScore
		analytics.StructureLLMReason = scores.StructureJustification
	}
	if err := db.Create(analytics).Error; err != nil {
		svc.logger.Errorf("analysis %d: store analytics: %v", attemptID, err)
		return
	}

	// Step 3: coaching feedback. Written last; its presence marks the
	// job complete.
	feedbackText, starScores, err := svc.coach.Review(ctx, attempt.Question.QuestionText, transcript)
	if err != nil {
		svc.logger.Errorf("analysis %d: coaching: %v", attemptID, err)
		return
	}
	feedback := &internal_entity.Feedback{
		AttemptId:     attemptID,
		CoachFeedback: feedbackText,
		StarScores:    starScores,
	}
	if err := db.Create(feedback).Error; err != nil {
		svc.logger.Errorf("analysis %d: store feedback: %v", attemptID, err)
	}
}

func (svc *analysisService) Status(ctx context.Context, attemptID uint64) (*AnalysisStatus, error) {
	db := svc.database.DB(ctx)

	var attempt internal_entity.Attempt
	if err := db.
		Preload("Transcription").
		Preload("Analytics").
		Preload("Feedback").
		First(&attempt, attemptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}

	status := practice_client.StatusTranscribing
	switch {
	case attempt.Feedback != nil:
		status = practice_client.StatusComplete
	case attempt.Analytics != nil:
		status = practice_client.StatusFeedbackPending
	case attempt.Transcription != nil:
		status = practice_client.StatusAnalyticsPending
	}

	return &AnalysisStatus{
		Status:        status,
		AttemptId:     attemptID,
		Transcription: attempt.Transcription,
		Analytics:     attempt.Analytics,
		Feedback:      attempt.Feedback,
	}, nil
}
