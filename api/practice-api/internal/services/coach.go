// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package internal_services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/starcoachai/config"
	"github.com/starcoachai/pkg/commons"
)

const coachSystemPrompt = `You are STAR Coach, a warm, encouraging, and insightful behavioral interview coach for software engineers. You help candidates improve their answers using the STAR method (Situation, Task, Action, Result).

Your coaching style:
- Warm and supportive, like a trusted mentor
- Specific and actionable: point to exact phrases or moments
- Balanced: always note what was done well before suggesting improvements
- Practical: give concrete examples of how to rephrase or restructure

When reviewing an answer, provide:
1. A brief overall impression (2-3 sentences)
2. STAR breakdown: rate each component (Situation, Task, Action, Result) from 1-5 and explain
3. Top 2-3 strengths
4. Top 2-3 areas for improvement with specific suggestions
5. A suggested improved version of one weak section

Keep your feedback conversational and encouraging. Use "you" language. Aim for ~300-400 words total.

Respond with JSON only, in this exact shape:
{"feedback_text": "<detailed coaching feedback in markdown>", "star_scores": {"situation": X, "task": X, "action": X, "result": X}}
where each X is an integer from 1 to 5.`

// Coach reviews a transcript against its question and returns markdown
// feedback plus serialized STAR sub-scores.
type Coach interface {
	Review(ctx context.Context, questionText string, transcript string) (feedback string, starScores string, err error)
}

type claudeCoach struct {
	logger commons.Logger
	client anthropic.Client
	model  anthropic.Model
}

func NewClaudeCoach(cfg *config.AppConfig, logger commons.Logger) Coach {
	return &claudeCoach{
		logger: logger,
		client: anthropic.NewClient(option.WithAPIKey(cfg.AnthropicApiKey)),
		model:  anthropic.ModelClaudeSonnet4_0,
	}
}

func (c *claudeCoach) Review(ctx context.Context, questionText string, transcript string) (string, string, error) {
	userMessage := fmt.Sprintf(
		"Here's the behavioral interview question and the candidate's response. Please provide coaching feedback.\n\n**Question:** %s\n\n**Candidate's Response:**\n%s",
		questionText, transcript,
	)

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 2048,
		System:    []anthropic.TextBlockParam{{Text: coachSystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)),
		},
	})
	if err != nil {
		return "", "", err
	}

	var parsed struct {
		FeedbackText string `json:"feedback_text"`
		StarScores   struct {
			Situation int `json:"situation"`
			Task      int `json:"task"`
			Action    int `json:"action"`
			Result    int `json:"result"`
		} `json:"star_scores"`
	}
	if err := json.Unmarshal([]byte(extractJSON(messageText(message))), &parsed); err != nil {
		return "", "", fmt.Errorf("coach response decode: %w", err)
	}
	if parsed.FeedbackText == "" {
		return "", "", fmt.Errorf("coach returned empty feedback")
	}

	starScores, err := json.Marshal(parsed.StarScores)
	if err != nil {
		return "", "", err
	}
	return parsed.FeedbackText, string(starScores), nil
}

func messageText(message *anthropic.Message) string {
	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}

// extractJSON strips surrounding prose or code fences, keeping the
// outermost object.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return text
	}
	return text[start : end+1]
}
