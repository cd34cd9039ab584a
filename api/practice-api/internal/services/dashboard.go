// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package internal_services

import (
	"context"
	"math"

	internal_entity "github.com/starcoachai/api/practice-api/internal/entity"
	practice_client "github.com/starcoachai/pkg/clients/practice"
	"github.com/starcoachai/pkg/commons"
	"github.com/starcoachai/pkg/connectors"
)

type dashboardService struct {
	logger   commons.Logger
	database connectors.DatabaseConnector
}

func NewDashboardService(logger commons.Logger, database connectors.DatabaseConnector) DashboardService {
	return &dashboardService{
		logger:   logger,
		database: database,
	}
}

func (svc *dashboardService) Summary(ctx context.Context) (*practice_client.DashboardSummary, error) {
	db := svc.database.DB(ctx)
	summary := &practice_client.DashboardSummary{
		Activity: map[string]int{},
	}

	var totalAttempts int64
	if err := db.Model(&internal_entity.Attempt{}).Count(&totalAttempts).Error; err != nil {
		return nil, err
	}
	summary.TotalAttempts = int(totalAttempts)

	var questionsPracticed int64
	if err := db.Model(&internal_entity.Attempt{}).
		Distinct("question_id").
		Count(&questionsPracticed).Error; err != nil {
		return nil, err
	}
	summary.QuestionsPracticed = int(questionsPracticed)

	var totalQuestions int64
	if err := db.Model(&internal_entity.Question{}).Count(&totalQuestions).Error; err != nil {
		return nil, err
	}
	summary.TotalQuestions = int(totalQuestions)

	if err := db.Model(&internal_entity.Attempt{}).
		Select("COALESCE(SUM(duration_seconds), 0)").
		Scan(&summary.TotalPracticeTime).Error; err != nil {
		return nil, err
	}

	// NULL averages mean no attempt has been scored yet; the summary
	// carries nil through rather than a fake zero.
	var averages struct {
		Clarity    *float64
		Confidence *float64
		Structure  *float64
	}
	if err := db.Model(&internal_entity.Analytics{}).
		Select("AVG(clarity_score) AS clarity, AVG(confidence_score) AS confidence, AVG(structure_score) AS structure").
		Scan(&averages).Error; err != nil {
		return nil, err
	}
	summary.AvgClarity = roundAvg(averages.Clarity)
	summary.AvgConfidence = roundAvg(averages.Confidence)
	summary.AvgStructure = roundAvg(averages.Structure)

	// Attempts per calendar day, for the streak calendar.
	var activity []struct {
		Date  string
		Count int
	}
	if err := db.Model(&internal_entity.Attempt{}).
		Select("DATE(created_at) AS date, COUNT(id) AS count").
		Group("DATE(created_at)").
		Order("DATE(created_at)").
		Scan(&activity).Error; err != nil {
		return nil, err
	}
	for _, row := range activity {
		if row.Date != "" {
			summary.Activity[row.Date] = row.Count
		}
	}

	return summary, nil
}

func roundAvg(v *float64) *float64 {
	if v == nil {
		return nil
	}
	rounded := math.Round(*v*10) / 10
	return &rounded
}
