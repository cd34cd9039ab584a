// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package internal_services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSpeechFillerDetection(t *testing.T) {
	transcript := "Um I led the migration um and like the team you know shipped it"
	metrics := AnalyzeSpeech(transcript, "", 60)

	assert.Equal(t, 4, metrics.FillerWordCount)

	var detail map[string]int
	require.NoError(t, json.Unmarshal([]byte(metrics.FillerWordsDetail), &detail))
	assert.Equal(t, map[string]int{"um": 2, "like": 1, "you know": 1}, detail)
}

func TestAnalyzeSpeechFillerNeedsWordBoundary(t *testing.T) {
	// "tumble" and "dislike" contain filler substrings but are not fillers.
	metrics := AnalyzeSpeech("the tumble made them dislike the plan", "", 30)
	assert.Equal(t, 0, metrics.FillerWordCount)
}

func TestAnalyzeSpeechPauseDetection(t *testing.T) {
	timestamps := `[
		{"word": "first", "start": 0.0, "end": 0.4},
		{"word": "second", "start": 0.5, "end": 1.0},
		{"word": "third", "start": 3.0, "end": 3.4},
		{"word": "fourth", "start": 6.0, "end": 6.5}
	]`
	metrics := AnalyzeSpeech("first second third fourth", timestamps, 10)
	assert.Equal(t, 2, metrics.PauseCount)
}

func TestAnalyzeSpeechMalformedTimestamps(t *testing.T) {
	metrics := AnalyzeSpeech("a perfectly fine answer", "{not json", 20)
	assert.Equal(t, 0, metrics.PauseCount)
	assert.Equal(t, 20.0, metrics.AnswerDurationSeconds)
}

func TestAnalyzeSpeechDurationFallsBackToTimestamps(t *testing.T) {
	timestamps := `[
		{"word": "start", "start": 1.0, "end": 1.5},
		{"word": "finish", "start": 30.5, "end": 31.0}
	]`
	metrics := AnalyzeSpeech("start finish", timestamps, 0)
	assert.Equal(t, 30.0, metrics.AnswerDurationSeconds)
	assert.Equal(t, 4.0, metrics.WordsPerMinute)
}

func TestAnalyzeSpeechWordsPerMinute(t *testing.T) {
	transcript := strings.Repeat("word ", 150)
	metrics := AnalyzeSpeech(transcript, "", 60)
	assert.Equal(t, 150.0, metrics.WordsPerMinute)
}

func TestAnalyzeSpeechEmptyTranscript(t *testing.T) {
	metrics := AnalyzeSpeech("", "", 0)
	assert.Equal(t, 0.0, metrics.WordsPerMinute)
	assert.Equal(t, 0.0, metrics.AnswerDurationSeconds)
	assert.Equal(t, 0, metrics.FillerWordCount)
	assert.Equal(t, 1, metrics.StructureScore)
}

func TestClarityScoreBands(t *testing.T) {
	tests := []struct {
		fillers int
		words   int
		want    int
	}{
		{0, 100, 5},
		{1, 100, 5},
		{4, 100, 4},
		{7, 100, 3},
		{11, 100, 2},
		{12, 100, 1},
		{0, 0, 5},
	}
	for _, tc := range tests {
		assert.Equalf(t, tc.want, clarityScore(tc.fillers, tc.words),
			"fillers=%d words=%d", tc.fillers, tc.words)
	}
}

func TestConfidenceScoreBands(t *testing.T) {
	tests := []struct {
		pauses   int
		duration float64
		want     int
	}{
		{0, 60, 5},
		{1, 60, 5},
		{2, 60, 4},
		{4, 60, 3},
		{6, 60, 2},
		{8, 60, 1},
		{0, 0, 5},
	}
	for _, tc := range tests {
		assert.Equalf(t, tc.want, confidenceScore(tc.pauses, tc.duration),
			"pauses=%d duration=%v", tc.pauses, tc.duration)
	}
}

func TestStructureScoreBands(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{5, 1},
		{15, 2},
		{30, 3},
		{60, 4},
		{100, 5},
		{400, 5},
		{450, 4},
		{550, 3},
		{700, 2},
		{900, 1},
	}
	for _, tc := range tests {
		assert.Equalf(t, tc.want, structureScore(tc.words), "words=%d", tc.words)
	}
}
