// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.

package session

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	practice_client "github.com/starcoachai/pkg/clients/practice"
	"github.com/starcoachai/pkg/commons"
	session_capture "github.com/starcoachai/pkg/session/capture"
	session_timer "github.com/starcoachai/pkg/session/timer"
)

// Phase is the single authoritative state of a practice session.
type Phase string

const (
	PhaseSetup     Phase = "setup"
	PhaseRecording Phase = "recording"
	PhaseUploading Phase = "uploading"
	PhaseDone      Phase = "done"
	PhaseFailed    Phase = "failed"
)

// TimerPresets are the selectable countdown durations, in seconds.
var TimerPresets = []int{60, 120, 180, 300}

// DefaultTimerPreset matches the client's initial selection.
const DefaultTimerPreset = 120

// Backend is the slice of the practice API the orchestrator consumes.
// *practice_client.Client satisfies it.
type Backend interface {
	UploadRecording(ctx context.Context, req practice_client.UploadRecordingRequest) (*practice_client.UploadRecordingResponse, error)
	TriggerAnalysis(ctx context.Context, attemptID uint64) error
}

// ErrorKind classifies session failures for user messaging.
type ErrorKind string

const (
	ErrKindDeviceAccessDenied    ErrorKind = "device_access_denied"
	ErrKindUploadFailed          ErrorKind = "upload_failed"
	ErrKindAnalysisTriggerFailed ErrorKind = "analysis_trigger_failed"
)

// Error is a terminal failure of the current attempt. It always leaves the
// session in a recoverable state and carries actionable user text.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the user-facing text for this failure.
func (e *Error) Message() string {
	switch e.Kind {
	case ErrKindDeviceAccessDenied:
		return "Camera access denied. Please allow camera and microphone access."
	default:
		return "Upload failed. Please try again."
	}
}

// Orchestrator composes the timer engine, capture session and backend calls
// into one recording lifecycle:
//
//	Setup → Recording → Uploading → {Done | Failed→Setup}
//
// Manual stop and timer expiry share the identical stop sequence, so exactly
// one artifact is produced no matter which trigger fires first, or both.
type Orchestrator struct {
	logger  commons.Logger
	backend Backend
	timer   *session_timer.Engine
	capture *session_capture.Session

	questionID uint64

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	phase     Phase
	preset    int
	startedAt time.Time
	lastErr   *Error
	closed    bool

	onPhase func(Phase)
	onDone  func(attemptID uint64)

	clock func() time.Time
}

// Option configures NewOrchestrator.
type Option func(*Orchestrator)

// WithTimerOptions forwards options to the embedded timer engine.
func WithTimerOptions(opts ...session_timer.Option) Option {
	return func(o *Orchestrator) {
		o.timer = session_timer.NewEngine(DefaultTimerPreset, opts...)
	}
}

// WithClock injects the wall-clock source. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) { o.clock = clock }
}

// NewOrchestrator builds a session for one question. The capture session is
// constructed over the given device; the timer starts at the default preset.
func NewOrchestrator(questionID uint64, device session_capture.Device, backend Backend, logger commons.Logger, opts ...Option) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		logger:     logger,
		backend:    backend,
		questionID: questionID,
		timer:      session_timer.NewEngine(DefaultTimerPreset),
		phase:      PhaseSetup,
		preset:     DefaultTimerPreset,
		ctx:        ctx,
		cancel:     cancel,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.capture = session_capture.NewSession(device, logger)

	// The stop sequence is wired reactively, after construction: the timer
	// re-reads the callback at expiry so this is safe.
	o.timer.SetOnExpire(o.stopSequence)
	o.capture.SetOnArtifact(o.handleArtifact)
	return o
}

// SetOnPhaseChange registers a phase observer for the hosting screen.
func (o *Orchestrator) SetOnPhaseChange(fn func(Phase)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onPhase = fn
}

// SetOnDone registers a completion observer; it receives the attempt id so
// the screen can navigate to the review context.
func (o *Orchestrator) SetOnDone(fn func(attemptID uint64)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onDone = fn
}

// Timer exposes the countdown for display (remaining seconds, urgency).
func (o *Orchestrator) Timer() *session_timer.Engine { return o.timer }

// Capture exposes the capture session; the preview surface reads its stream.
func (o *Orchestrator) Capture() *session_capture.Session { return o.capture }

// Acquire requests camera+microphone access. On denial the session stays in
// Setup with no stream and a user-visible message.
func (o *Orchestrator) Acquire(ctx context.Context) error {
	if err := o.capture.Acquire(ctx); err != nil {
		sErr := &Error{Kind: ErrKindDeviceAccessDenied, Err: err}
		o.mu.Lock()
		o.lastErr = sErr
		o.mu.Unlock()
		return sErr
	}
	return nil
}

// SelectPreset changes the timer duration. Permitted only in Setup; the
// displayed countdown follows immediately.
func (o *Orchestrator) SelectPreset(seconds int) error {
	valid := false
	for _, p := range TimerPresets {
		if p == seconds {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid timer preset: %d", seconds)
	}

	o.mu.Lock()
	if o.phase != PhaseSetup {
		o.mu.Unlock()
		return fmt.Errorf("timer preset can only change during setup, phase=%s", o.phase)
	}
	o.preset = seconds
	o.mu.Unlock()

	o.timer.Reset(seconds)
	return nil
}

// Preset returns the currently selected timer duration.
func (o *Orchestrator) Preset() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.preset
}

// Phase returns the current lifecycle phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// ErrorMessage returns the user-visible text of the last failure, or "".
func (o *Orchestrator) ErrorMessage() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastErr == nil {
		return ""
	}
	return o.lastErr.Message()
}

// BeginRecording transitions Setup → Recording. Rejected when no stream is
// held (denied or unresolved permission) so recording never starts without a
// data source.
func (o *Orchestrator) BeginRecording() error {
	if o.capture.Stream() == nil {
		return session_capture.ErrNoStream
	}

	o.mu.Lock()
	if o.phase != PhaseSetup {
		o.mu.Unlock()
		return fmt.Errorf("cannot start recording from phase %s", o.phase)
	}
	preset := o.preset
	o.lastErr = nil
	o.mu.Unlock()

	o.timer.Reset(preset)
	if err := o.capture.BeginCapture(); err != nil {
		return err
	}
	o.timer.Start()

	o.mu.Lock()
	o.startedAt = o.clock()
	o.mu.Unlock()
	o.setPhase(PhaseRecording)
	return nil
}

// StopRecording ends the run by user action. Timer expiry invokes the same
// sequence; both are idempotent and safe in either order.
func (o *Orchestrator) StopRecording() {
	o.stopSequence()
}

func (o *Orchestrator) stopSequence() {
	o.timer.Stop()
	o.capture.EndCapture()
}

// handleArtifact enters Uploading once the capture session signals the
// artifact. The reported duration is wall-clock elapsed time, not the
// configured preset; a manual stop ends early.
func (o *Orchestrator) handleArtifact(artifact session_capture.Artifact) {
	o.mu.Lock()
	if o.closed || o.phase != PhaseRecording {
		o.mu.Unlock()
		return
	}
	elapsed := o.clock().Sub(o.startedAt)
	preset := o.preset
	o.mu.Unlock()
	o.setPhase(PhaseUploading)

	duration := math.Round(elapsed.Seconds()*10) / 10

	go o.submit(artifact, preset, duration)
}

// submit uploads the artifact, then triggers analysis for the returned
// attempt. Only after both succeed does the session report Done and release
// the camera. Any failure returns to Setup with the stream intact so the
// user can retry without a new permission prompt.
func (o *Orchestrator) submit(artifact session_capture.Artifact, preset int, duration float64) {
	resp, err := o.backend.UploadRecording(o.ctx, practice_client.UploadRecordingRequest{
		QuestionID:      o.questionID,
		TimerSetting:    preset,
		DurationSeconds: duration,
		Data:            artifact.Data,
		MIMEType:        artifact.MIMEType,
	})
	if err != nil {
		o.fail(&Error{Kind: ErrKindUploadFailed, Err: err})
		return
	}

	if err := o.backend.TriggerAnalysis(o.ctx, resp.AttemptID); err != nil {
		// The artifact already reached storage; a retry re-uploads it.
		o.fail(&Error{Kind: ErrKindAnalysisTriggerFailed, Err: err})
		return
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	onDone := o.onDone
	o.mu.Unlock()

	o.logger.Infof("attempt %d uploaded and analysis triggered: question=%d duration=%.1fs",
		resp.AttemptID, o.questionID, duration)
	o.setPhase(PhaseDone)
	o.capture.Release()

	if onDone != nil {
		onDone(resp.AttemptID)
	}
}

// fail surfaces the error and returns to Setup. No device resources are
// released beyond what already was; the existing stream stays valid across
// a failed attempt.
func (o *Orchestrator) fail(sErr *Error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.lastErr = sErr
	o.mu.Unlock()

	o.logger.Errorf("attempt failed: %v", sErr)
	o.setPhase(PhaseFailed)
	o.setPhase(PhaseSetup)
}

func (o *Orchestrator) setPhase(p Phase) {
	o.mu.Lock()
	if o.closed && p != PhaseSetup {
		o.mu.Unlock()
		return
	}
	o.phase = p
	onPhase := o.onPhase
	o.mu.Unlock()

	if onPhase != nil {
		onPhase(p)
	}
}

// Close tears the session down on navigation away or unmount: cancels the
// timer cadence, finalizes and releases the capture session, and stops any
// in-flight upload from mutating state afterwards. Safe on every exit path.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.mu.Unlock()

	o.cancel()
	o.timer.Close()
	o.capture.Release()
	o.logger.Debug("practice session closed")
}
