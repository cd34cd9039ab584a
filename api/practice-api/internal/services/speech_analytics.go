// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package internal_services

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
)

// Filler vocabulary for the rule-based rater.
var fillerWords = []string{
	"um", "uh", "like", "you know", "so", "actually",
	"basically", "right", "well", "i mean",
}

var fillerPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(fillerWords))
	for _, filler := range fillerWords {
		patterns[filler] = regexp.MustCompile(`\b` + regexp.QuoteMeta(filler) + `\b`)
	}
	return patterns
}()

// pauseGapSeconds is the inter-word silence that counts as a pause.
const pauseGapSeconds = 1.5

// WordTimestamp is one aligned word from the transcriber.
type WordTimestamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SpeechMetrics is the output of the rule-based rater, one value per
// analytics column.
type SpeechMetrics struct {
	PauseCount            int
	FillerWordCount       int
	FillerWordsDetail     string
	AnswerDurationSeconds float64
	WordsPerMinute        float64
	ClarityScore          int
	ConfidenceScore       int
	StructureScore        int
}

// AnalyzeSpeech computes pacing, pause and filler metrics plus 1-5 scores
// from a transcript. Malformed word timestamps are treated as absent: the
// metrics that need them degrade rather than fail.
func AnalyzeSpeech(transcript string, wordTimestampsJSON string, durationSeconds float64) SpeechMetrics {
	totalWords := len(strings.Fields(transcript))

	var timestamps []WordTimestamp
	if wordTimestampsJSON != "" {
		// Best effort; a decode error leaves timestamps empty.
		_ = json.Unmarshal([]byte(wordTimestampsJSON), &timestamps)
	}

	pauseCount := 0
	for i := 1; i < len(timestamps); i++ {
		if timestamps[i].Start-timestamps[i-1].End > pauseGapSeconds {
			pauseCount++
		}
	}

	textLower := strings.ToLower(transcript)
	fillerDetail := make(map[string]int)
	fillerTotal := 0
	for filler, pattern := range fillerPatterns {
		if count := len(pattern.FindAllStringIndex(textLower, -1)); count > 0 {
			fillerDetail[filler] = count
			fillerTotal += count
		}
	}
	detailJSON, _ := json.Marshal(fillerDetail)

	var answerDuration float64
	switch {
	case durationSeconds > 0:
		answerDuration = durationSeconds
	case len(timestamps) > 0:
		answerDuration = timestamps[len(timestamps)-1].End - timestamps[0].Start
	}

	var wpm float64
	if answerDuration > 0 {
		wpm = float64(totalWords) / (answerDuration / 60)
	}

	return SpeechMetrics{
		PauseCount:            pauseCount,
		FillerWordCount:       fillerTotal,
		FillerWordsDetail:     string(detailJSON),
		AnswerDurationSeconds: round1(answerDuration),
		WordsPerMinute:        round1(wpm),
		ClarityScore:          clarityScore(fillerTotal, totalWords),
		ConfidenceScore:       confidenceScore(pauseCount, answerDuration),
		StructureScore:        structureScore(totalWords),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// clarityScore rates filler-word density.
func clarityScore(fillerTotal, totalWords int) int {
	ratio := float64(fillerTotal) / math.Max(float64(totalWords), 1)
	switch {
	case ratio < 0.02:
		return 5
	case ratio < 0.05:
		return 4
	case ratio < 0.08:
		return 3
	case ratio < 0.12:
		return 2
	default:
		return 1
	}
}

// confidenceScore rates pause frequency per minute of speech.
func confidenceScore(pauseCount int, answerDuration float64) int {
	rate := float64(pauseCount) / math.Max(answerDuration/60, 0.1)
	switch {
	case rate < 2:
		return 5
	case rate < 4:
		return 4
	case rate < 6:
		return 3
	case rate < 8:
		return 2
	default:
		return 1
	}
}

// structureScore rates answer length; both too short and too long are
// penalized.
func structureScore(totalWords int) int {
	switch {
	case totalWords >= 100 && totalWords <= 400:
		return 5
	case (totalWords >= 60 && totalWords < 100) || (totalWords > 400 && totalWords <= 500):
		return 4
	case (totalWords >= 30 && totalWords < 60) || (totalWords > 500 && totalWords <= 600):
		return 3
	case (totalWords >= 15 && totalWords < 30) || (totalWords > 600 && totalWords <= 800):
		return 2
	default:
		return 1
	}
}
