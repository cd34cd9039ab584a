// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package internal_services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	internal_entity "github.com/starcoachai/api/practice-api/internal/entity"
	practice_client "github.com/starcoachai/pkg/clients/practice"
	"github.com/starcoachai/pkg/commons"
	"github.com/starcoachai/pkg/connectors"
	"github.com/starcoachai/pkg/utils"
)

// trendThreshold is the score delta that separates "steady" from a real
// trend.
const trendThreshold = 0.3

type progressService struct {
	logger   commons.Logger
	database connectors.DatabaseConnector
}

func NewProgressService(logger commons.Logger, database connectors.DatabaseConnector) ProgressService {
	return &progressService{
		logger:   logger,
		database: database,
	}
}

func (svc *progressService) Compute(ctx context.Context, questionID uint64) (*practice_client.Progress, error) {
	db := svc.database.DB(ctx)

	var question internal_entity.Question
	if err := db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	var attempts []internal_entity.Attempt
	if err := db.
		Preload("Analytics").
		Preload("Feedback").
		Where("question_id = ?", questionID).
		Order("attempt_number ASC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}

	points := make([]practice_client.ProgressPoint, 0, len(attempts))
	for _, a := range attempts {
		point := practice_client.ProgressPoint{
			AttemptNumber: a.AttemptNumber,
			CreatedAt:     a.CreatedAt.Format(time.RFC3339),
		}
		if a.Analytics != nil {
			point.ClarityScore = utils.Ptr(a.Analytics.ClarityScore)
			point.ConfidenceScore = utils.Ptr(a.Analytics.ConfidenceScore)
			point.StructureScore = utils.Ptr(a.Analytics.StructureScore)
		}
		if a.Feedback != nil {
			point.StarScores = a.Feedback.StarScores
		}
		points = append(points, point)
	}

	return &practice_client.Progress{
		QuestionID:   questionID,
		QuestionText: question.QuestionText,
		Trend:        TrendOf(points),
		DataPoints:   points,
	}, nil
}

// TrendOf compares the first and last scored attempts. A mean-score delta
// beyond the threshold marks the series improving or declining; fewer
// than two scored attempts is always steady.
func TrendOf(points []practice_client.ProgressPoint) string {
	scored := make([]practice_client.ProgressPoint, 0, len(points))
	for _, p := range points {
		if p.ClarityScore != nil {
			scored = append(scored, p)
		}
	}
	if len(scored) < 2 {
		return "steady"
	}

	first := meanScore(scored[0])
	last := meanScore(scored[len(scored)-1])
	switch {
	case last > first+trendThreshold:
		return "improving"
	case last < first-trendThreshold:
		return "declining"
	default:
		return "steady"
	}
}

func meanScore(point practice_client.ProgressPoint) float64 {
	var scores []float64
	for _, s := range []*int{point.ClarityScore, point.ConfidenceScore, point.StructureScore} {
		if s != nil {
			scores = append(scores, float64(*s))
		}
	}
	return utils.AverageFloat64(scores)
}
