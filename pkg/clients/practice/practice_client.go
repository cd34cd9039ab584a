// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package practice_client

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/starcoachai/pkg/commons"
)

// Client talks to the practice API over HTTP. It implements every consumed
// operation of the recording and review flows.
type Client struct {
	http   *resty.Client
	logger commons.Logger
}

// ClientOption configures NewClient.
type ClientOption func(*Client)

// WithTimeout overrides the per-request timeout (default 30s; uploads use
// their own, longer timeout).
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// NewClient creates a practice API client rooted at baseURL (e.g.
// "http://localhost:8000/api").
func NewClient(baseURL string, logger commons.Logger, opts ...ClientOption) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30 * time.Second),
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func apiError(op string, resp *resty.Response) error {
	return fmt.Errorf("%s: server returned %s", op, resp.Status())
}

// ListQuestions fetches the question catalog.
func (c *Client) ListQuestions(ctx context.Context) ([]Question, error) {
	var out []Question
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/questions")
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if resp.IsError() {
		return nil, apiError("list questions", resp)
	}
	return out, nil
}

// UploadRecording submits a finalized artifact as multipart form data and
// returns the created attempt.
func (c *Client) UploadRecording(ctx context.Context, req UploadRecordingRequest) (*UploadRecordingResponse, error) {
	var out UploadRecordingResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("video", "recording.webm", bytes.NewReader(req.Data)).
		SetFormData(map[string]string{
			"question_id":      strconv.FormatUint(req.QuestionID, 10),
			"timer_setting":    strconv.Itoa(req.TimerSetting),
			"duration_seconds": strconv.FormatFloat(req.DurationSeconds, 'f', 1, 64),
		}).
		SetResult(&out).
		Post("/recordings")
	if err != nil {
		return nil, fmt.Errorf("upload recording: %w", err)
	}
	if resp.IsError() {
		return nil, apiError("upload recording", resp)
	}
	c.logger.Debugf("uploaded recording: attempt=%d question=%d", out.AttemptID, req.QuestionID)
	return &out, nil
}

// TriggerAnalysis asks the backend to start the analysis job for an attempt.
func (c *Client) TriggerAnalysis(ctx context.Context, attemptID uint64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Post(fmt.Sprintf("/analyze/%d", attemptID))
	if err != nil {
		return fmt.Errorf("trigger analysis: %w", err)
	}
	if resp.IsError() {
		return apiError("trigger analysis", resp)
	}
	return nil
}

// GetAnalysisStatus polls the analysis job state for an attempt.
func (c *Client) GetAnalysisStatus(ctx context.Context, attemptID uint64) (*AnalysisStatus, error) {
	var out AnalysisStatus
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/analyze/%d/status", attemptID))
	if err != nil {
		return nil, fmt.Errorf("analysis status: %w", err)
	}
	if resp.IsError() {
		return nil, apiError("analysis status", resp)
	}
	return &out, nil
}

// ListAttempts fetches the attempt history for a question, newest first,
// with whatever analysis sub-records exist.
func (c *Client) ListAttempts(ctx context.Context, questionID uint64) ([]AttemptDetail, error) {
	var out []AttemptDetail
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/attempts/%d", questionID))
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if resp.IsError() {
		return nil, apiError("list attempts", resp)
	}
	return out, nil
}

// GetProgress fetches the derived score series and trend for a question.
func (c *Client) GetProgress(ctx context.Context, questionID uint64) (*Progress, error) {
	var out Progress
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/attempts/%d/progress", questionID))
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	if resp.IsError() {
		return nil, apiError("get progress", resp)
	}
	return &out, nil
}

// GetDashboardSummary fetches practice totals and per-day activity.
func (c *Client) GetDashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	var out DashboardSummary
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/dashboard")
	if err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	if resp.IsError() {
		return nil, apiError("dashboard summary", resp)
	}
	return &out, nil
}
