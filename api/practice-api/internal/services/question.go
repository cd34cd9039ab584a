// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package internal_services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	internal_entity "github.com/starcoachai/api/practice-api/internal/entity"
	practice_client "github.com/starcoachai/pkg/clients/practice"
	"github.com/starcoachai/pkg/commons"
	"github.com/starcoachai/pkg/connectors"
)

// seedQuestions is the starter catalog, inserted once on an empty table.
var seedQuestions = []internal_entity.Question{
	{
		Category:     "Conflict",
		QuestionText: "Tell me about a time you had a disagreement with a teammate about a technical decision. How did you handle it?",
		Tips:         "Focus on the specific technical disagreement, how you listened to the other perspective, and how you reached a resolution. Highlight collaboration over winning.",
	},
	{
		Category:     "Learning",
		QuestionText: "Describe a project where you had to learn a new technology quickly. How did you approach it?",
		Tips:         "Describe your learning strategy, resources you used, and how you applied the new knowledge. Show intellectual curiosity and self-direction.",
	},
	{
		Category:     "Failure",
		QuestionText: "Tell me about a time you missed a deadline or a project didn't go as planned. What happened?",
		Tips:         "Be honest about what went wrong. Focus on what you learned and how you prevented similar issues in the future. Show accountability.",
	},
	{
		Category:     "Leadership",
		QuestionText: "Describe a situation where you had to lead a project or initiative. What was the outcome?",
		Tips:         "Highlight how you motivated others, made decisions, and handled obstacles. Quantify the outcome if possible.",
	},
	{
		Category:     "Technical",
		QuestionText: "Tell me about a time you had to debug a particularly challenging production issue.",
		Tips:         "Walk through your debugging process step by step. Highlight tools you used, how you narrowed down the issue, and how you communicated with stakeholders.",
	},
	{
		Category:     "Trade-offs",
		QuestionText: "Describe a situation where you had to make a trade-off between speed and quality.",
		Tips:         "Explain the context and constraints. Show your decision-making framework and how you communicated the trade-off to stakeholders.",
	},
	{
		Category:     "Growth",
		QuestionText: "Tell me about a time you received critical feedback. How did you respond?",
		Tips:         "Show that you can receive feedback gracefully. Describe the specific changes you made as a result. Demonstrate growth mindset.",
	},
	{
		Category:     "Impact",
		QuestionText: "Describe a project you're most proud of. What was your specific contribution?",
		Tips:         "Be specific about YOUR contribution vs. the team's. Quantify impact where possible. Show passion and ownership.",
	},
}

type questionService struct {
	logger   commons.Logger
	database connectors.DatabaseConnector
}

func NewQuestionService(logger commons.Logger, database connectors.DatabaseConnector) QuestionService {
	return &questionService{
		logger:   logger,
		database: database,
	}
}

// Seed inserts the starter catalog when the table is empty. Idempotent.
func (svc *questionService) Seed(ctx context.Context) error {
	db := svc.database.DB(ctx)

	var count int64
	if err := db.Model(&internal_entity.Question{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	questions := make([]internal_entity.Question, len(seedQuestions))
	copy(questions, seedQuestions)
	if err := db.Create(&questions).Error; err != nil {
		return err
	}
	svc.logger.Infof("seeded %d questions", len(questions))
	return nil
}

func (svc *questionService) List(ctx context.Context) ([]practice_client.Question, error) {
	db := svc.database.DB(ctx)

	var questions []internal_entity.Question
	if err := db.Preload("Attempts").Find(&questions).Error; err != nil {
		return nil, err
	}

	out := make([]practice_client.Question, 0, len(questions))
	for _, q := range questions {
		out = append(out, practice_client.Question{
			ID:           q.Id,
			Category:     q.Category,
			QuestionText: q.QuestionText,
			Tips:         q.Tips,
			AttemptCount: len(q.Attempts),
		})
	}
	return out, nil
}

func (svc *questionService) Get(ctx context.Context, questionID uint64) (*internal_entity.Question, error) {
	db := svc.database.DB(ctx)

	var question internal_entity.Question
	if err := db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}
