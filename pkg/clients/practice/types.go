// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package practice_client

import "encoding/json"

// Question is one behavioral prompt from the catalog.
type Question struct {
	ID           uint64 `json:"id"`
	Category     string `json:"category"`
	QuestionText string `json:"question_text"`
	Tips         string `json:"tips,omitempty"`
	AttemptCount int    `json:"attempt_count"`
}

// Attempt identifies one completed recording. Created server-side at upload
// time and immutable afterwards.
type Attempt struct {
	ID              uint64  `json:"id"`
	QuestionID      uint64  `json:"question_id"`
	AttemptNumber   int     `json:"attempt_number"`
	VideoPath       string  `json:"video_path"`
	DurationSeconds float64 `json:"duration_seconds"`
	TimerSetting    int     `json:"timer_setting"`
	CreatedAt       string  `json:"created_at,omitempty"`
}

// Transcription is the speech-to-text record of an attempt.
type Transcription struct {
	ID             uint64 `json:"id"`
	AttemptID      uint64 `json:"attempt_id"`
	TranscriptText string `json:"transcript_text"`
	WordTimestamps string `json:"word_timestamps,omitempty"`
}

// Analytics carries the scored speech metrics for an attempt. Scores are
// 1-5 integers from two independent raters: the rule-based heuristics and
// the LLM rater.
type Analytics struct {
	ID                      uint64  `json:"id"`
	AttemptID               uint64  `json:"attempt_id"`
	PauseCount              int     `json:"pause_count"`
	FillerWordCount         int     `json:"filler_word_count"`
	FillerWordsDetail       string  `json:"filler_words_detail,omitempty"`
	AnswerDurationSeconds   float64 `json:"answer_duration_seconds"`
	WordsPerMinute          float64 `json:"words_per_minute"`
	ClarityScore            int     `json:"clarity_score"`
	ConfidenceScore         int     `json:"confidence_score"`
	StructureScore          int     `json:"structure_score"`
	ClarityLLMScore         int     `json:"clarity_llm_score,omitempty"`
	ClarityLLMReason        string  `json:"clarity_llm_justification,omitempty"`
	ConfidenceLLMScore      int     `json:"confidence_llm_score,omitempty"`
	ConfidenceLLMReason     string  `json:"confidence_llm_justification,omitempty"`
	StructureLLMScore       int     `json:"structure_llm_score,omitempty"`
	StructureLLMReason      string  `json:"structure_llm_justification,omitempty"`
}

// FillerDetail decodes the serialized filler word → occurrence mapping.
// Malformed data degrades to nil rather than an error; the rendering layer
// simply omits the section.
func (a *Analytics) FillerDetail() map[string]int {
	if a == nil || a.FillerWordsDetail == "" {
		return nil
	}
	var detail map[string]int
	if err := json.Unmarshal([]byte(a.FillerWordsDetail), &detail); err != nil {
		return nil
	}
	return detail
}

// STARScores are the coach's situation/task/action/result sub-scores, 1-5.
type STARScores struct {
	Situation int `json:"situation"`
	Task      int `json:"task"`
	Action    int `json:"action"`
	Result    int `json:"result"`
}

// Feedback is the coach's free-text review of an attempt.
type Feedback struct {
	ID            uint64 `json:"id"`
	AttemptID     uint64 `json:"attempt_id"`
	CoachFeedback string `json:"coach_feedback"`
	StarScores    string `json:"star_scores,omitempty"`
}

// STAR decodes the serialized STAR sub-score mapping. Malformed data
// degrades to nil.
func (f *Feedback) STAR() *STARScores {
	if f == nil || f.StarScores == "" {
		return nil
	}
	var scores STARScores
	if err := json.Unmarshal([]byte(f.StarScores), &scores); err != nil {
		return nil
	}
	return &scores
}

// AttemptDetail is an attempt with whatever analysis sub-records exist.
// All three are nil while the analysis job is pending.
type AttemptDetail struct {
	Attempt       Attempt        `json:"attempt"`
	Transcription *Transcription `json:"transcription,omitempty"`
	Analytics     *Analytics     `json:"analytics,omitempty"`
	Feedback      *Feedback      `json:"feedback,omitempty"`
}

// Complete reports whether the analysis bundle is fully attached. Feedback
// is written last by the pipeline, so its presence is the completion marker.
func (d *AttemptDetail) Complete() bool {
	return d != nil && d.Feedback != nil
}

// ProgressPoint is one attempt's scores on the progress series.
type ProgressPoint struct {
	AttemptNumber   int    `json:"attempt_number"`
	ClarityScore    *int   `json:"clarity_score"`
	ConfidenceScore *int   `json:"confidence_score"`
	StructureScore  *int   `json:"structure_score"`
	StarScores      string `json:"star_scores,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// Progress is the derived score history for one question.
type Progress struct {
	QuestionID   uint64          `json:"question_id"`
	QuestionText string          `json:"question_text"`
	Trend        string          `json:"trend"` // improving | steady | declining
	DataPoints   []ProgressPoint `json:"data_points"`
}

// UploadRecordingRequest packages one finalized artifact for submission.
type UploadRecordingRequest struct {
	QuestionID      uint64
	TimerSetting    int
	DurationSeconds float64
	Data            []byte
	MIMEType        string
}

// UploadRecordingResponse is the server's acknowledgement of an upload.
type UploadRecordingResponse struct {
	AttemptID     uint64 `json:"attempt_id"`
	AttemptNumber int    `json:"attempt_number"`
}

// Analysis status values, in pipeline order.
const (
	StatusTranscribing     = "transcribing"
	StatusAnalyticsPending = "analytics_pending"
	StatusFeedbackPending  = "feedback_pending"
	StatusComplete         = "complete"
	StatusProcessing       = "processing"
)

// AnalysisStatus is the polled state of an attempt's analysis job.
type AnalysisStatus struct {
	Status        string         `json:"status"`
	AttemptID     uint64         `json:"attempt_id"`
	Transcription *Transcription `json:"transcription,omitempty"`
	Analytics     *Analytics     `json:"analytics,omitempty"`
	Feedback      *Feedback      `json:"feedback,omitempty"`
}

// IsComplete reports whether the full bundle is attached server-side.
func (s *AnalysisStatus) IsComplete() bool {
	return s != nil && s.Status == StatusComplete
}

// DashboardSummary aggregates practice history across all questions.
type DashboardSummary struct {
	TotalAttempts      int            `json:"total_attempts"`
	QuestionsPracticed int            `json:"questions_practiced"`
	TotalQuestions     int            `json:"total_questions"`
	TotalPracticeTime  float64        `json:"total_practice_time"`
	AvgClarity         *float64       `json:"avg_clarity"`
	AvgConfidence      *float64       `json:"avg_confidence"`
	AvgStructure       *float64       `json:"avg_structure"`
	Activity           map[string]int `json:"activity"`
}
