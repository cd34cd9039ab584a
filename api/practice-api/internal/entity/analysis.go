package internal_entity

import (
	"time"
)

// Transcription is the speech-to-text record of an attempt. Word timestamps
// are serialized JSON: [{"word": ..., "start": ..., "end": ...}, ...].
type Transcription struct {
	Id             uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	AttemptId      uint64    `json:"attempt_id" gorm:"type:bigint;not null;uniqueIndex"`
	TranscriptText string    `json:"transcript_text" gorm:"type:text;not null"`
	WordTimestamps string    `json:"word_timestamps,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"-" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create"`
}

func (Transcription) TableName() string {
	return "transcriptions"
}

// Analytics carries the scored speech metrics for an attempt. The plain
// columns come from the rule-based heuristics; the llm_* columns from the
// model rater and may stay null when that rater is unavailable.
type Analytics struct {
	Id                    uint64  `json:"id" gorm:"primaryKey;autoIncrement"`
	AttemptId             uint64  `json:"attempt_id" gorm:"type:bigint;not null;uniqueIndex"`
	PauseCount            int     `json:"pause_count" gorm:"type:int"`
	FillerWordCount       int     `json:"filler_word_count" gorm:"type:int"`
	FillerWordsDetail     string  `json:"filler_words_detail,omitempty" gorm:"type:text"`
	AnswerDurationSeconds float64 `json:"answer_duration_seconds" gorm:"type:real"`
	WordsPerMinute        float64 `json:"words_per_minute" gorm:"type:real"`
	ClarityScore          int     `json:"clarity_score" gorm:"type:int"`
	ConfidenceScore       int     `json:"confidence_score" gorm:"type:int"`
	StructureScore        int     `json:"structure_score" gorm:"type:int"`

	ClarityLLMScore     *int   `json:"clarity_llm_score,omitempty" gorm:"column:clarity_llm_score;type:int"`
	ClarityLLMReason    string `json:"clarity_llm_justification,omitempty" gorm:"column:clarity_llm_justification;type:text"`
	ConfidenceLLMScore  *int   `json:"confidence_llm_score,omitempty" gorm:"column:confidence_llm_score;type:int"`
	ConfidenceLLMReason string `json:"confidence_llm_justification,omitempty" gorm:"column:confidence_llm_justification;type:text"`
	StructureLLMScore   *int   `json:"structure_llm_score,omitempty" gorm:"column:structure_llm_score;type:int"`
	StructureLLMReason  string `json:"structure_llm_justification,omitempty" gorm:"column:structure_llm_justification;type:text"`

	CreatedAt time.Time `json:"-" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create"`
}

func (Analytics) TableName() string {
	return "analytics"
}

// Feedback is the coach's review of an attempt: markdown text plus the
// serialized STAR sub-score mapping.
type Feedback struct {
	Id            uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	AttemptId     uint64    `json:"attempt_id" gorm:"type:bigint;not null;uniqueIndex"`
	CoachFeedback string    `json:"coach_feedback" gorm:"type:text;not null"`
	StarScores    string    `json:"star_scores,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"-" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create"`
}

func (Feedback) TableName() string {
	return "feedback"
}
