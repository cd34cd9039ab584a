// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package internal_services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"

	internal_entity "github.com/starcoachai/api/practice-api/internal/entity"
	"github.com/starcoachai/config"
	"github.com/starcoachai/pkg/commons"
	"github.com/starcoachai/pkg/connectors"
)

// RecordingUpload is one incoming recording, streamed from the request body.
type RecordingUpload struct {
	QuestionID      uint64
	TimerSetting    int
	DurationSeconds float64
	Video           io.Reader
}

type recordingService struct {
	cfg      *config.AppConfig
	logger   commons.Logger
	database connectors.DatabaseConnector
}

func NewRecordingService(cfg *config.AppConfig, logger commons.Logger, database connectors.DatabaseConnector) RecordingService {
	return &recordingService{
		cfg:      cfg,
		logger:   logger,
		database: database,
	}
}

// SaveRecording streams the video to disk, then creates the attempt row.
// The attempt number is MAX+1 over the question's existing attempts,
// computed in the insert's transaction.
func (svc *recordingService) SaveRecording(ctx context.Context, upload RecordingUpload) (*internal_entity.Attempt, error) {
	if err := os.MkdirAll(svc.cfg.RecordingsDir, 0o755); err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%d_%s.webm", upload.QuestionID, uuid.NewString()[:8])
	path := filepath.Join(svc.cfg.RecordingsDir, filename)
	if err := svc.writeLimited(path, upload.Video); err != nil {
		return nil, err
	}

	attempt := &internal_entity.Attempt{
		QuestionId:      upload.QuestionID,
		VideoPath:       filename,
		DurationSeconds: upload.DurationSeconds,
		TimerSetting:    upload.TimerSetting,
	}
	err := svc.database.DB(ctx).Transaction(func(tx *gorm.DB) error {
		// COALESCE+MAX inside the transaction keeps concurrent uploads
		// for the same question from colliding on the number.
		var maxNumber int
		if err := tx.Model(&internal_entity.Attempt{}).
			Where("question_id = ?", upload.QuestionID).
			Select("COALESCE(MAX(attempt_number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return err
		}
		attempt.AttemptNumber = maxNumber + 1
		return tx.Create(attempt).Error
	})
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	return attempt, nil
}

// writeLimited copies the upload to disk, deleting the partial file when
// the size cap is exceeded.
func (svc *recordingService) writeLimited(path string, video io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	written, err := io.Copy(f, io.LimitReader(video, svc.cfg.MaxUploadBytes+1))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written > svc.cfg.MaxUploadBytes {
		err = ErrUploadTooLarge
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

func (svc *recordingService) ListRecordings(ctx context.Context) ([]internal_entity.Attempt, error) {
	var attempts []internal_entity.Attempt
	err := svc.database.DB(ctx).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

// ListAttemptDetails returns the question's attempts newest-first with
// whatever analysis sub-records exist.
func (svc *recordingService) ListAttemptDetails(ctx context.Context, questionID uint64) ([]internal_entity.Attempt, error) {
	db := svc.database.DB(ctx)

	var question internal_entity.Question
	if err := db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	var attempts []internal_entity.Attempt
	err := db.
		Preload("Transcription").
		Preload("Analytics").
		Preload("Feedback").
		Where("question_id = ?", questionID).
		Order("attempt_number DESC").
		Find(&attempts).Error
	return attempts, err
}

func (svc *recordingService) GetAttempt(ctx context.Context, attemptID uint64) (*internal_entity.Attempt, error) {
	var attempt internal_entity.Attempt
	if err := svc.database.DB(ctx).First(&attempt, attemptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	return &attempt, nil
}
