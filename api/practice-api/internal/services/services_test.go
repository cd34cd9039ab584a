// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package internal_services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_entity "github.com/starcoachai/api/practice-api/internal/entity"
	"github.com/starcoachai/config"
	"github.com/starcoachai/pkg/commons"
	"github.com/starcoachai/pkg/configs"
	"github.com/starcoachai/pkg/connectors"
)

func newTestLogger(t *testing.T) commons.Logger {
	t.Helper()
	logger, err := commons.NewApplicationLogger(commons.Name("services-test"))
	require.NoError(t, err)
	return logger
}

func newTestDatabase(t *testing.T, logger commons.Logger) connectors.DatabaseConnector {
	t.Helper()
	database, err := connectors.NewDatabaseConnector(configs.DatabaseConfig{
		Driver: "sqlite",
		Path:   fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, database.DB(context.Background()).AutoMigrate(
		&internal_entity.Question{},
		&internal_entity.Attempt{},
		&internal_entity.Transcription{},
		&internal_entity.Analytics{},
		&internal_entity.Feedback{},
	))
	return database
}

func newTestConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		RecordingsDir:  t.TempDir(),
		MaxUploadBytes: 1024,
	}
}

func createQuestion(t *testing.T, database connectors.DatabaseConnector) *internal_entity.Question {
	t.Helper()
	question := &internal_entity.Question{
		Category:     "Technical",
		QuestionText: "Tell me about a challenging bug.",
	}
	require.NoError(t, database.DB(context.Background()).Create(question).Error)
	return question
}

func TestQuestionSeedIsIdempotent(t *testing.T) {
	logger := newTestLogger(t)
	database := newTestDatabase(t, logger)
	svc := NewQuestionService(logger, database)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx))
	require.NoError(t, svc.Seed(ctx))

	questions, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, questions, 8)
	assert.Equal(t, 0, questions[0].AttemptCount)
}

func TestQuestionListCountsAttempts(t *testing.T) {
	logger := newTestLogger(t)
	database := newTestDatabase(t, logger)
	svc := NewQuestionService(logger, database)
	ctx := context.Background()

	question := createQuestion(t, database)
	for i := 1; i <= 3; i++ {
		require.NoError(t, database.DB(ctx).Create(&internal_entity.Attempt{
			QuestionId:    question.Id,
			AttemptNumber: i,
			VideoPath:     fmt.Sprintf("%d.webm", i),
		}).Error)
	}

	questions, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, 3, questions[0].AttemptCount)
}

func TestSaveRecordingNumbersAttempts(t *testing.T) {
	logger := newTestLogger(t)
	database := newTestDatabase(t, logger)
	cfg := newTestConfig(t)
	svc := NewRecordingService(cfg, logger, database)
	ctx := context.Background()

	question := createQuestion(t, database)

	first, err := svc.SaveRecording(ctx, RecordingUpload{
		QuestionID:      question.Id,
		TimerSetting:    120,
		DurationSeconds: 42.5,
		Video:           bytes.NewReader([]byte("webm-bytes")),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.AttemptNumber)

	second, err := svc.SaveRecording(ctx, RecordingUpload{
		QuestionID: question.Id,
		Video:      bytes.NewReader([]byte("more-webm-bytes")),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.AttemptNumber)

	data, err := os.ReadFile(filepath.Join(cfg.RecordingsDir, first.VideoPath))
	require.NoError(t, err)
	assert.Equal(t, []byte("webm-bytes"), data)
}

func TestSaveRecordingRejectsOversizedUpload(t *testing.T) {
	logger := newTestLogger(t)
	database := newTestDatabase(t, logger)
	cfg := newTestConfig(t)
	cfg.MaxUploadBytes = 8
	svc := NewRecordingService(cfg, logger, database)
	ctx := context.Background()

	question := createQuestion(t, database)

	_, err := svc.SaveRecording(ctx, RecordingUpload{
		QuestionID: question.Id,
		Video:      bytes.NewReader([]byte("definitely more than eight bytes")),
	})
	require.ErrorIs(t, err, ErrUploadTooLarge)

	// Neither the partial file nor an attempt row survives.
	entries, err := os.ReadDir(cfg.RecordingsDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	var count int64
	require.NoError(t, database.DB(ctx).Model(&internal_entity.Attempt{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAnalysisStatusLadder(t *testing.T) {
	logger := newTestLogger(t)
	database := newTestDatabase(t, logger)
	svc := NewAnalysisService(newTestConfig(t), logger, database, nil, nil, nil)
	ctx := context.Background()

	question := createQuestion(t, database)
	attempt := &internal_entity.Attempt{QuestionId: question.Id, AttemptNumber: 1, VideoPath: "a.webm"}
	require.NoError(t, database.DB(ctx).Create(attempt).Error)

	status, err := svc.Status(ctx, attempt.Id)
	require.NoError(t, err)
	assert.Equal(t, "transcribing", status.Status)

	require.NoError(t, database.DB(ctx).Create(&internal_entity.Transcription{
		AttemptId:      attempt.Id,
		TranscriptText: "hello",
	}).Error)
	status, err = svc.Status(ctx, attempt.Id)
	require.NoError(t, err)
	assert.Equal(t, "analytics_pending", status.Status)
	require.NotNil(t, status.Transcription)
	assert.Equal(t, "hello", status.Transcription.TranscriptText)

	require.NoError(t, database.DB(ctx).Create(&internal_entity.Analytics{
		AttemptId:    attempt.Id,
		ClarityScore: 4,
	}).Error)
	status, err = svc.Status(ctx, attempt.Id)
	require.NoError(t, err)
	assert.Equal(t, "feedback_pending", status.Status)

	require.NoError(t, database.DB(ctx).Create(&internal_entity.Feedback{
		AttemptId:     attempt.Id,
		CoachFeedback: "well done",
	}).Error)
	status, err = svc.Status(ctx, attempt.Id)
	require.NoError(t, err)
	assert.Equal(t, "complete", status.Status)
	require.NotNil(t, status.Feedback)
}

func TestAnalysisStatusUnknownAttempt(t *testing.T) {
	logger := newTestLogger(t)
	database := newTestDatabase(t, logger)
	svc := NewAnalysisService(newTestConfig(t), logger, database, nil, nil, nil)

	_, err := svc.Status(context.Background(), 999)
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

type stubTranscriber struct {
	transcript string
	timestamps string
}

func (s *stubTranscriber) Transcribe(context.Context, string) (string, string, error) {
	return s.transcript, s.timestamps, nil
}

type stubRater struct {
	scores *LLMScores
}

func (s *stubRater) Rate(context.Context, string) *LLMScores {
	return s.scores
}

type stubCoach struct {
	feedback string
	stars    string
}

func (s *stubCoach) Review(context.Context, string, string) (string, string, error) {
	return s.feedback, s.stars, nil
}

func TestAnalysisPipelineRunsToCompletion(t *testing.T) {
	logger := newTestLogger(t)
	database := newTestDatabase(t, logger)
	cfg := newTestConfig(t)
	svc := NewAnalysisService(cfg, logger, database,
		&stubTranscriber{transcript: "I fixed the outage quickly", timestamps: "[]"},
		&stubRater{scores: &LLMScores{ClarityScore: 4, ConfidenceScore: 5, StructureScore: 3}},
		&stubCoach{feedback: "## Strong answer", stars: `{"situation":4,"task":4,"action":5,"result":3}`},
	)
	ctx := context.Background()

	question := createQuestion(t, database)
	attempt := &internal_entity.Attempt{QuestionId: question.Id, AttemptNumber: 1, VideoPath: "a.webm", DurationSeconds: 30}
	require.NoError(t, database.DB(ctx).Create(attempt).Error)

	require.NoError(t, svc.Trigger(ctx, attempt.Id))

	require.Eventually(t, func() bool {
		status, err := svc.Status(ctx, attempt.Id)
		return err == nil && status.Status == "complete"
	}, 5*time.Second, 10*time.Millisecond)

	status, err := svc.Status(ctx, attempt.Id)
	require.NoError(t, err)
	require.NotNil(t, status.Analytics)
	require.NotNil(t, status.Analytics.ClarityLLMScore)
	assert.Equal(t, 4, *status.Analytics.ClarityLLMScore)
	assert.Equal(t, "## Strong answer", status.Feedback.CoachFeedback)

	// A second trigger is rejected once the transcription exists.
	assert.ErrorIs(t, svc.Trigger(ctx, attempt.Id), ErrAlreadyAnalyzed)
}

func TestAnalysisTriggerUnknownAttempt(t *testing.T) {
	logger := newTestLogger(t)
	database := newTestDatabase(t, logger)
	svc := NewAnalysisService(newTestConfig(t), logger, database, nil, nil, nil)

	assert.ErrorIs(t, svc.Trigger(context.Background(), 999), ErrAttemptNotFound)
}

func TestProgressComputeTrend(t *testing.T) {
	logger := newTestLogger(t)
	database := newTestDatabase(t, logger)
	svc := NewProgressService(logger, database)
	ctx := context.Background()

	question := createQuestion(t, database)
	scores := [][3]int{{2, 2, 2}, {3, 3, 3}, {4, 4, 4}}
	for i, s := range scores {
		attempt := &internal_entity.Attempt{
			QuestionId:    question.Id,
			AttemptNumber: i + 1,
			VideoPath:     fmt.Sprintf("%d.webm", i+1),
		}
		require.NoError(t, database.DB(ctx).Create(attempt).Error)
		require.NoError(t, database.DB(ctx).Create(&internal_entity.Analytics{
			AttemptId:       attempt.Id,
			ClarityScore:    s[0],
			ConfidenceScore: s[1],
			StructureScore:  s[2],
		}).Error)
	}

	progress, err := svc.Compute(ctx, question.Id)
	require.NoError(t, err)
	assert.Equal(t, "improving", progress.Trend)
	assert.Equal(t, question.QuestionText, progress.QuestionText)
	require.Len(t, progress.DataPoints, 3)
	assert.Equal(t, 1, progress.DataPoints[0].AttemptNumber)
	require.NotNil(t, progress.DataPoints[0].ClarityScore)
	assert.Equal(t, 2, *progress.DataPoints[0].ClarityScore)
}

func TestProgressComputeUnknownQuestion(t *testing.T) {
	logger := newTestLogger(t)
	database := newTestDatabase(t, logger)
	svc := NewProgressService(logger, database)

	_, err := svc.Compute(context.Background(), 404)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestDashboardSummaryAggregates(t *testing.T) {
	logger := newTestLogger(t)
	database := newTestDatabase(t, logger)
	svc := NewDashboardService(logger, database)
	ctx := context.Background()

	empty, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalAttempts)
	assert.Nil(t, empty.AvgClarity)

	first := createQuestion(t, database)
	second := createQuestion(t, database)
	attempts := []*internal_entity.Attempt{
		{QuestionId: first.Id, AttemptNumber: 1, VideoPath: "1.webm", DurationSeconds: 30},
		{QuestionId: first.Id, AttemptNumber: 2, VideoPath: "2.webm", DurationSeconds: 45},
		{QuestionId: second.Id, AttemptNumber: 1, VideoPath: "3.webm", DurationSeconds: 25},
	}
	for _, a := range attempts {
		require.NoError(t, database.DB(ctx).Create(a).Error)
	}
	require.NoError(t, database.DB(ctx).Create(&internal_entity.Analytics{
		AttemptId:       attempts[0].Id,
		ClarityScore:    3,
		ConfidenceScore: 4,
		StructureScore:  5,
	}).Error)
	require.NoError(t, database.DB(ctx).Create(&internal_entity.Analytics{
		AttemptId:       attempts[1].Id,
		ClarityScore:    4,
		ConfidenceScore: 4,
		StructureScore:  4,
	}).Error)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalAttempts)
	assert.Equal(t, 2, summary.QuestionsPracticed)
	assert.Equal(t, 2, summary.TotalQuestions)
	assert.Equal(t, 100.0, summary.TotalPracticeTime)
	require.NotNil(t, summary.AvgClarity)
	assert.Equal(t, 3.5, *summary.AvgClarity)
	require.NotNil(t, summary.AvgStructure)
	assert.Equal(t, 4.5, *summary.AvgStructure)

	today := time.Now().Format("2006-01-02")
	assert.Equal(t, 3, summary.Activity[today])
}
