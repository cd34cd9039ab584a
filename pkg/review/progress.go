// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.

package review

import (
	"sort"

	practice_client "github.com/starcoachai/pkg/clients/practice"
	"github.com/starcoachai/pkg/utils"
)

// Trend classifications for a question's score history.
const (
	TrendImproving = "improving"
	TrendSteady    = "steady"
	TrendDeclining = "declining"
)

// trendThreshold is the mean-score delta separating steady from a real
// trend.
const trendThreshold = 0.3

// AggregateProgress derives the score series and trend from an attempt
// history, locally mirroring the server's computation. Useful when the
// history is already in hand and a round trip is not worth it.
func AggregateProgress(questionID uint64, questionText string, attempts []practice_client.AttemptDetail) *practice_client.Progress {
	ordered := make([]practice_client.AttemptDetail, len(attempts))
	copy(ordered, attempts)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Attempt.AttemptNumber < ordered[j].Attempt.AttemptNumber
	})

	points := make([]practice_client.ProgressPoint, 0, len(ordered))
	for _, d := range ordered {
		point := practice_client.ProgressPoint{
			AttemptNumber: d.Attempt.AttemptNumber,
			CreatedAt:     d.Attempt.CreatedAt,
		}
		if d.Analytics != nil {
			point.ClarityScore = utils.Ptr(d.Analytics.ClarityScore)
			point.ConfidenceScore = utils.Ptr(d.Analytics.ConfidenceScore)
			point.StructureScore = utils.Ptr(d.Analytics.StructureScore)
		}
		if d.Feedback != nil {
			point.StarScores = d.Feedback.StarScores
		}
		points = append(points, point)
	}

	return &practice_client.Progress{
		QuestionID:   questionID,
		QuestionText: questionText,
		Trend:        classifyTrend(points),
		DataPoints:   points,
	}
}

// classifyTrend compares the first and last scored attempts; fewer than
// two scored attempts is always steady.
func classifyTrend(points []practice_client.ProgressPoint) string {
	scored := make([]practice_client.ProgressPoint, 0, len(points))
	for _, p := range points {
		if p.ClarityScore != nil {
			scored = append(scored, p)
		}
	}
	if len(scored) < 2 {
		return TrendSteady
	}

	first := meanScore(scored[0])
	last := meanScore(scored[len(scored)-1])
	switch {
	case last > first+trendThreshold:
		return TrendImproving
	case last < first-trendThreshold:
		return TrendDeclining
	default:
		return TrendSteady
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
