// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package internal_services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	practice_client "github.com/starcoachai/pkg/clients/practice"
	"github.com/starcoachai/pkg/utils"
)

func scoredPoint(attempt, clarity, confidence, structure int) practice_client.ProgressPoint {
	return practice_client.ProgressPoint{
		AttemptNumber:   attempt,
		ClarityScore:    utils.Ptr(clarity),
		ConfidenceScore: utils.Ptr(confidence),
		StructureScore:  utils.Ptr(structure),
	}
}

func TestTrendOf(t *testing.T) {
	tests := []struct {
		name   string
		points []practice_client.ProgressPoint
		want   string
	}{
		{
			name:   "no points",
			points: nil,
			want:   "steady",
		},
		{
			name:   "single scored attempt",
			points: []practice_client.ProgressPoint{scoredPoint(1, 3, 3, 3)},
			want:   "steady",
		},
		{
			name: "unscored attempts only",
			points: []practice_client.ProgressPoint{
				{AttemptNumber: 1},
				{AttemptNumber: 2},
			},
			want: "steady",
		},
		{
			name: "improving",
			points: []practice_client.ProgressPoint{
				scoredPoint(1, 2, 2, 2),
				scoredPoint(2, 3, 3, 3),
			},
			want: "improving",
		},
		{
			name: "declining",
			points: []practice_client.ProgressPoint{
				scoredPoint(1, 4, 4, 4),
				scoredPoint(2, 3, 3, 3),
			},
			want: "declining",
		},
		{
			name: "fractional delta just over threshold",
			points: []practice_client.ProgressPoint{
				scoredPoint(1, 3, 3, 3),
				scoredPoint(2, 3, 3, 4),
			},
			want: "improving",
		},
		{
			name: "delta at threshold stays steady",
			points: []practice_client.ProgressPoint{
				scoredPoint(1, 3, 3, 3),
				scoredPoint(2, 4, 3, 2),
			},
			want: "steady",
		},
		{
			name: "middle attempts ignored",
			points: []practice_client.ProgressPoint{
				scoredPoint(1, 2, 2, 2),
				scoredPoint(2, 5, 5, 5),
				scoredPoint(3, 4, 4, 4),
			},
			want: "improving",
		},
		{
			name: "unscored attempts skipped when picking endpoints",
			points: []practice_client.ProgressPoint{
				{AttemptNumber: 1},
				scoredPoint(2, 2, 2, 2),
				scoredPoint(3, 4, 4, 4),
				{AttemptNumber: 4},
			},
			want: "improving",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TrendOf(tc.points))
		})
	}
}
