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

const raterSystemPrompt = `You are a speech analytics expert. Evaluate the following interview response transcript and provide scores (1-5) with brief justifications for each metric.

Scoring rubrics:

**Clarity (1-5):**
1 = Incoherent, very frequent filler words, hard to follow
2 = Unclear phrasing, many filler words, disjointed ideas
3 = Mostly clear but some vague language or filler words
4 = Clear articulation, good vocabulary, minimal filler words
5 = Exceptionally clear, precise vocabulary, logical flow, no filler words

**Confidence (1-5):**
1 = Pervasive hedging, very tentative, many qualifiers
2 = Frequent hedging ("I think maybe", "sort of"), indirect
3 = Some hedging but generally direct communication
4 = Mostly definitive statements, minimal hedging, good directness
5 = Highly confident, decisive language, authoritative tone

**Structure (1-5):**
1 = No discernible organization, rambling
2 = Weak structure, missing most STAR components
3 = Some structure, but STAR components incomplete or unclear
4 = Good structure with most STAR components (Situation, Task, Action, Result) present
5 = Excellent STAR framework adherence with clear, distinct components

Output your analysis, then on the very last line output scores as JSON in this exact format:
ANALYTICS_JSON: {"clarity_score": X, "clarity_justification": "...", "confidence_score": X, "confidence_justification": "...", "structure_score": X, "structure_justification": "..."}
where X is 1-5 and justifications are 1-2 sentences each.`

// LLMScores is the model rater's verdict. All six fields arrive together.
type LLMScores struct {
	ClarityScore            int
	ClarityJustification    string
	ConfidenceScore         int
	ConfidenceJustification string
	StructureScore          int
	StructureJustification  string
}

// SpeechRater scores a transcript with an LLM, independently of the
// rule-based heuristics. A nil result means the rater was unavailable;
// the pipeline proceeds without it.
type SpeechRater interface {
	Rate(ctx context.Context, transcript string) *LLMScores
}

type claudeSpeechRater struct {
	logger commons.Logger
	client anthropic.Client
	model  anthropic.Model
}

func NewClaudeSpeechRater(cfg *config.AppConfig, logger commons.Logger) SpeechRater {
	return &claudeSpeechRater{
		logger: logger,
		client: anthropic.NewClient(option.WithAPIKey(cfg.AnthropicApiKey)),
		model:  anthropic.ModelClaudeSonnet4_0,
	}
}

func (r *claudeSpeechRater) Rate(ctx context.Context, transcript string) *LLMScores {
	userMessage := fmt.Sprintf("Please analyze this interview response transcript:\n\n%s", transcript)

	message, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: 1024,
		System:    []anthropic.TextBlockParam{{Text: raterSystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)),
		},
	})
	if err != nil {
		r.logger.Warnf("llm speech rating failed: %v", err)
		return nil
	}

	lines := strings.Split(strings.TrimSpace(messageText(message)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		marker := strings.Index(lines[i], "ANALYTICS_JSON:")
		if marker < 0 {
			continue
		}
		var parsed struct {
			ClarityScore            int    `json:"clarity_score"`
			ClarityJustification    string `json:"clarity_justification"`
			ConfidenceScore         int    `json:"confidence_score"`
			ConfidenceJustification string `json:"confidence_justification"`
			StructureScore          int    `json:"structure_score"`
			StructureJustification  string `json:"structure_justification"`
		}
		payload := strings.TrimSpace(lines[i][marker+len("ANALYTICS_JSON:"):])
		if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
			r.logger.Warnf("llm speech rating: malformed scores payload: %v", err)
			return nil
		}
		return &LLMScores{
			ClarityScore:            parsed.ClarityScore,
			ClarityJustification:    parsed.ClarityJustification,
			ConfidenceScore:         parsed.ConfidenceScore,
			ConfidenceJustification: parsed.ConfidenceJustification,
			StructureScore:          parsed.StructureScore,
			StructureJustification:  parsed.StructureJustification,
		}
	}
	r.logger.Warnf("llm speech rating: scores marker not found in response")
	return nil
}
