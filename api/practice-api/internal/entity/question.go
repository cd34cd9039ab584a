package internal_entity

import (
	"time"
)

// Question is one behavioral prompt in the catalog.
type Question struct {
	Id           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Category     string    `json:"category" gorm:"type:text;not null"`
	QuestionText string    `json:"question_text" gorm:"type:text;not null"`
	Tips         string    `json:"tips" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create"`

	Attempts []*Attempt `json:"-" gorm:"foreignKey:QuestionId"`
}

func (Question) TableName() string {
	return "questions"
}
