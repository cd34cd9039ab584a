package internal_entity

import (
	"time"

	"gorm.io/gorm"
)

// Attempt is one completed recording for a question. Created at upload time
// and immutable afterwards; the analysis sub-records attach to it as the
// background job progresses.
type Attempt struct {
	Id              uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	QuestionId      uint64    `json:"question_id" gorm:"type:bigint;not null;index"`
	AttemptNumber   int       `json:"attempt_number" gorm:"type:int;not null"`
	VideoPath       string    `json:"video_path" gorm:"type:text;not null"`
	DurationSeconds float64   `json:"duration_seconds" gorm:"type:real"`
	TimerSetting    int       `json:"timer_setting" gorm:"type:int"`
	CreatedAt       time.Time `json:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create"`

	Question      *Question      `json:"-" gorm:"foreignKey:QuestionId"`
	Transcription *Transcription `json:"-" gorm:"foreignKey:AttemptId"`
	Analytics     *Analytics     `json:"-" gorm:"foreignKey:AttemptId"`
	Feedback      *Feedback      `json:"-" gorm:"foreignKey:AttemptId"`
}

func (Attempt) TableName() string {
	return "attempts"
}

func (a *Attempt) BeforeCreate(tx *gorm.DB) (err error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	return nil
}
