// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package session_capture

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/starcoachai/pkg/commons"
)

var (
	// ErrDeviceAccessDenied means camera/microphone permission was refused
	// or the device is unavailable. No stream is held afterwards.
	ErrDeviceAccessDenied = errors.New("device access denied")

	// ErrNoStream is returned when BeginCapture is called without a prior
	// successful Acquire. This is a caller error, not a silent no-op.
	ErrNoStream = errors.New("no active stream")
)

// Preferred encodings, best first. If none are supported the generic
// container is used regardless.
var DefaultMIMEPreferences = []string{
	"video/webm;codecs=vp9,opus",
	"video/webm;codecs=vp8,opus",
}

// GenericMIMEType is the fallback container.
const GenericMIMEType = "video/webm"

// DefaultFlushInterval bounds how long encoded data may sit in volatile
// encoder buffers before being handed over as a chunk.
const DefaultFlushInterval = time.Second

// Artifact is the finalized media of one capture cycle.
type Artifact struct {
	Data     []byte
	MIMEType string
}

// Device grants exclusive camera+microphone access.
type Device interface {
	// Acquire requests the device. On denial it returns
	// ErrDeviceAccessDenied (possibly wrapped) and holds nothing.
	Acquire(ctx context.Context) (Stream, error)
}

// Stream is a live device stream. It is shared with the preview surface,
// but only the capture session may start or stop tracks.
type Stream interface {
	// Supports reports whether the stream can encode into mimeType.
	Supports(mimeType string) bool

	// NewRecorder creates a chunked encoder for the stream.
	NewRecorder(mimeType string) (Recorder, error)

	// StopTracks stops every underlying device track. The camera indicator
	// goes off only after this runs.
	StopTracks()
}

// RecorderEventKind discriminates recorder events.
type RecorderEventKind int

const (
	// EventData carries an encoded chunk.
	EventData RecorderEventKind = iota
	// EventStop signals finalization; any pending data precedes it.
	EventStop
)

// RecorderEvent is one raw event from the capture primitive.
type RecorderEvent struct {
	Kind RecorderEventKind
	Data []byte
}

// Recorder is the opaque chunked encoder. After Stop it must emit any
// remaining data, then EventStop, then close its event channel. A closed
// channel without EventStop means access was revoked externally; whatever
// accumulated is still finalized.
type Recorder interface {
	Start(flushInterval time.Duration) error
	Stop() error
	Events() <-chan RecorderEvent
}

// Session owns the device stream and translates raw recorder events into at
// most two outward signals: "chunk accepted" and "artifact ready".
//
// Exactly one artifact is produced per BeginCapture/EndCapture pair; a new
// cycle clears the previous cycle's chunks before accumulating.
type Session struct {
	logger commons.Logger
	device Device

	mu        sync.Mutex
	stream    Stream
	recorder  Recorder
	capturing bool
	stopped   bool // EndCapture already requested for this cycle
	mimeType  string
	chunks    [][]byte

	onChunk    func(size int)
	onArtifact func(Artifact)

	mimePreferences []string
	flushInterval   time.Duration
}

// Option configures NewSession.
type Option func(*Session)

// WithMIMEPreferences overrides the encoding preference list.
func WithMIMEPreferences(mimeTypes ...string) Option {
	return func(s *Session) { s.mimePreferences = mimeTypes }
}

// WithFlushInterval overrides the chunk flush cadence. Intended for tests.
func WithFlushInterval(d time.Duration) Option {
	return func(s *Session) { s.flushInterval = d }
}

// NewSession creates a capture session over the given device.
func NewSession(device Device, logger commons.Logger, opts ...Option) *Session {
	s := &Session{
		logger:          logger,
		device:          device,
		mimePreferences: DefaultMIMEPreferences,
		flushInterval:   DefaultFlushInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetOnChunk registers the "chunk accepted" signal. Display only.
func (s *Session) SetOnChunk(fn func(size int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChunk = fn
}

// SetOnArtifact registers the "artifact ready" signal, fired exactly once
// per completed capture cycle.
func (s *Session) SetOnArtifact(fn func(Artifact)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onArtifact = fn
}

// Acquire requests exclusive device access and holds the stream on success.
func (s *Session) Acquire(ctx context.Context) error {
	stream, err := s.device.Acquire(ctx)
	if err != nil {
		s.logger.Warnf("device acquisition failed: %v", err)
		return err
	}
	s.mu.Lock()
	s.stream = stream
	s.mu.Unlock()
	s.logger.Debug("device stream acquired")
	return nil
}

// Stream exposes the live stream for the preview surface. Read-only for the
// caller; track lifecycle stays with the session.
func (s *Session) Stream() Stream {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream
}

// Release stops all device tracks and drops the stream. Safe to call on
// every exit path, held stream or not. An in-flight capture is finalized
// first so accumulated data is not lost.
func (s *Session) Release() {
	s.mu.Lock()
	recorder := s.recorder
	capturing := s.capturing && !s.stopped
	if capturing {
		s.stopped = true
	}
	stream := s.stream
	s.stream = nil
	s.mu.Unlock()

	if capturing && recorder != nil {
		if err := recorder.Stop(); err != nil {
			s.logger.Warnf("recorder stop during release: %v", err)
		}
	}
	if stream != nil {
		stream.StopTracks()
		s.logger.Debug("device stream released")
	}
}

// BeginCapture clears any prior chunks, picks the best supported encoding
// and starts chunked recording at the flush interval.
func (s *Session) BeginCapture() error {
	s.mu.Lock()
	if s.stream == nil {
		s.mu.Unlock()
		return ErrNoStream
	}
	if s.capturing {
		s.mu.Unlock()
		return errors.New("capture already in progress")
	}
	stream := s.stream
	s.chunks = nil
	s.mimeType = s.selectMIMEType(stream)
	mimeType := s.mimeType
	s.mu.Unlock()

	recorder, err := stream.NewRecorder(mimeType)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.recorder = recorder
	s.capturing = true
	s.stopped = false
	s.mu.Unlock()

	go s.consume(recorder)

	if err := recorder.Start(s.flushInterval); err != nil {
		s.mu.Lock()
		s.recorder = nil
		s.capturing = false
		s.mu.Unlock()
		return err
	}
	s.logger.Infof("capture started: mimeType=%s", mimeType)
	return nil
}

// selectMIMEType returns the first supported preference, else the generic
// container. Caller holds s.mu.
func (s *Session) selectMIMEType(stream Stream) string {
	for _, mt := range s.mimePreferences {
		if stream.Supports(mt) {
			return mt
		}
	}
	return GenericMIMEType
}

// EndCapture requests finalization. Calling it while not capturing, or a
// second time in the same cycle, does nothing; the artifact is emitted at
// most once, by the event consumer.
func (s *Session) EndCapture() {
	s.mu.Lock()
	if !s.capturing || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	recorder := s.recorder
	s.mu.Unlock()

	if err := recorder.Stop(); err != nil {
		s.logger.Warnf("recorder stop: %v", err)
	}
}

// Capturing reports whether a capture cycle is active (not yet finalized).
func (s *Session) Capturing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capturing
}

// consume drains recorder events for one capture cycle. A stop event, or
// the channel closing without one (how external revocation shows up),
// finalizes whatever accumulated into exactly one artifact.
func (s *Session) consume(recorder Recorder) {
	for ev := range recorder.Events() {
		switch ev.Kind {
		case EventData:
			if len(ev.Data) == 0 {
				continue
			}
			buf := make([]byte, len(ev.Data))
			copy(buf, ev.Data)

			s.mu.Lock()
			if s.recorder != recorder {
				s.mu.Unlock()
				return
			}
			s.chunks = append(s.chunks, buf)
			onChunk := s.onChunk
			s.mu.Unlock()

			if onChunk != nil {
				onChunk(len(buf))
			}
		case EventStop:
			s.finalize(recorder)
			return
		}
	}
	// Channel closed without a stop event: device revoked mid-capture.
	s.logger.Warn("recorder events closed without stop, finalizing accumulated data")
	s.finalize(recorder)
}

func (s *Session) finalize(recorder Recorder) {
	s.mu.Lock()
	if s.recorder != recorder {
		// A newer cycle superseded this one; nothing to emit.
		s.mu.Unlock()
		return
	}
	var buf bytes.Buffer
	for _, c := range s.chunks {
		buf.Write(c)
	}
	artifact := Artifact{Data: buf.Bytes(), MIMEType: s.mimeType}
	s.chunks = nil
	s.recorder = nil
	s.capturing = false
	s.stopped = false
	onArtifact := s.onArtifact
	s.mu.Unlock()

	s.logger.Infof("artifact ready: %d bytes, mimeType=%s", len(artifact.Data), artifact.MIMEType)
	if onArtifact != nil {
		onArtifact(artifact)
	}
}
