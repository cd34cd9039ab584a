// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package internal_services

import (
	"context"
	"errors"

	internal_entity "github.com/starcoachai/api/practice-api/internal/entity"
	practice_client "github.com/starcoachai/pkg/clients/practice"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrAlreadyAnalyzed  = errors.New("already analyzed")
	ErrUploadTooLarge   = errors.New("file too large")
)

// QuestionService owns the question catalog.
type QuestionService interface {
	Seed(ctx context.Context) error
	List(ctx context.Context) ([]practice_client.Question, error)
	Get(ctx context.Context, questionID uint64) (*internal_entity.Question, error)
}

// RecordingService stores uploaded recordings and their attempt rows.
type RecordingService interface {
	SaveRecording(ctx context.Context, upload RecordingUpload) (*internal_entity.Attempt, error)
	ListRecordings(ctx context.Context) ([]internal_entity.Attempt, error)
	ListAttemptDetails(ctx context.Context, questionID uint64) ([]internal_entity.Attempt, error)
	GetAttempt(ctx context.Context, attemptID uint64) (*internal_entity.Attempt, error)
}

// AnalysisService runs the transcription, analytics and coaching pipeline.
type AnalysisService interface {
	Trigger(ctx context.Context, attemptID uint64) error
	Status(ctx context.Context, attemptID uint64) (*AnalysisStatus, error)
}

// ProgressService computes cross-attempt progress for one question.
type ProgressService interface {
	Compute(ctx context.Context, questionID uint64) (*practice_client.Progress, error)
}

// DashboardService aggregates practice activity across all questions.
type DashboardService interface {
	Summary(ctx context.Context) (*practice_client.DashboardSummary, error)
}

// AnalysisStatus is the polled pipeline state plus whatever sub-records
// exist so far.
type AnalysisStatus struct {
	Status        string                         `json:"status"`
	AttemptId     uint64                         `json:"attempt_id"`
	Transcription *internal_entity.Transcription `json:"transcription,omitempty"`
	Analytics     *internal_entity.Analytics     `json:"analytics,omitempty"`
	Feedback      *internal_entity.Feedback      `json:"feedback,omitempty"`
}
