// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package internal_services

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/starcoachai/config"
	"github.com/starcoachai/pkg/commons"
)

// Transcriber turns a stored recording into text plus aligned word
// timestamps (serialized JSON).
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (transcript string, wordTimestamps string, err error)
}

type whisperTranscriber struct {
	logger commons.Logger
	client openai.Client
}

func NewWhisperTranscriber(cfg *config.AppConfig, logger commons.Logger) Transcriber {
	return &whisperTranscriber{
		logger: logger,
		client: openai.NewClient(option.WithAPIKey(cfg.OpenAIApiKey)),
	}
}

func (t *whisperTranscriber) Transcribe(ctx context.Context, path string) (string, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model:                  openai.AudioModelWhisper1,
		File:                   f,
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word"},
	})
	if err != nil {
		return "", "", err
	}

	// Word alignments only appear in the verbose payload, so pull them
	// from the raw body rather than the typed response.
	var verbose struct {
		Text  string          `json:"text"`
		Words []WordTimestamp `json:"words"`
	}
	if err := json.Unmarshal([]byte(resp.RawJSON()), &verbose); err != nil {
		return "", "", err
	}

	words := make([]WordTimestamp, 0, len(verbose.Words))
	for _, w := range verbose.Words {
		words = append(words, WordTimestamp{
			Word:  strings.TrimSpace(w.Word),
			Start: round2(w.Start),
			End:   round2(w.End),
		})
	}
	timestamps, err := json.Marshal(words)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(verbose.Text), string(timestamps), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
