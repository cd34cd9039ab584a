// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.

package review

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	practice_client "github.com/starcoachai/pkg/clients/practice"
	"github.com/starcoachai/pkg/commons"
)

// DefaultPollInterval is the cadence for analysis-status polling.
const DefaultPollInterval = 3 * time.Second

// Client is the slice of the practice API the resolver consumes.
// *practice_client.Client satisfies it.
type Client interface {
	ListAttempts(ctx context.Context, questionID uint64) ([]practice_client.AttemptDetail, error)
	GetProgress(ctx context.Context, questionID uint64) (*practice_client.Progress, error)
	GetAnalysisStatus(ctx context.Context, attemptID uint64) (*practice_client.AnalysisStatus, error)
}

// Resolver converges a question's attempt history on analysis completion
// without manual refresh. It polls the status endpoint for the active
// attempt while its bundle is pending, refreshes once on completion, and
// stops. Polling is best-effort and self-healing: transient errors are
// swallowed and the next tick retries. There is deliberately no backoff or
// attempt cutoff; an unresponsive job is polled until the view goes away.
//
// All polling stops unconditionally when Close runs, regardless of in-flight
// request state; no update is applied after teardown.
type Resolver struct {
	logger       commons.Logger
	client       Client
	questionID   uint64
	pollInterval time.Duration

	// View lifetime. Every poll loop derives from this context.
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	attempts   []practice_client.AttemptDetail
	progress   *practice_client.Progress
	activeID   uint64
	pollCancel context.CancelFunc
	polling    bool
	onUpdate   func()
}

// Option configures NewResolver.
type Option func(*Resolver)

// WithPollInterval overrides the 3s polling cadence. Intended for tests.
func WithPollInterval(d time.Duration) Option {
	return func(r *Resolver) { r.pollInterval = d }
}

// NewResolver creates a resolver for one question's review view.
func NewResolver(questionID uint64, client Client, logger commons.Logger, opts ...Option) *Resolver {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Resolver{
		logger:       logger,
		client:       client,
		questionID:   questionID,
		pollInterval: DefaultPollInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetOnUpdate registers the view refresh signal, invoked whenever attempts
// or progress change after the initial load.
func (r *Resolver) SetOnUpdate(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onUpdate = fn
}

// Load fetches the attempt history and progress series once, selects the
// most recent attempt as active, and begins polling if its bundle is still
// pending.
func (r *Resolver) Load(ctx context.Context) error {
	var (
		attempts []practice_client.AttemptDetail
		progress *practice_client.Progress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		attempts, err = r.client.ListAttempts(gctx, r.questionID)
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = r.client.GetProgress(gctx, r.questionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	r.mu.Lock()
	r.attempts = attempts
	r.progress = progress
	if len(attempts) > 0 {
		r.activeID = attempts[0].Attempt.ID
	}
	r.mu.Unlock()

	r.evaluate()
	return nil
}

// SetActive switches the active attempt and re-evaluates whether polling is
// needed for it. An attempt whose bundle is already complete is never
// polled.
func (r *Resolver) SetActive(attemptID uint64) {
	r.mu.Lock()
	r.activeID = attemptID
	r.mu.Unlock()
	r.evaluate()
}

// Active returns the active attempt's detail, or nil.
func (r *Resolver) Active() *practice_client.AttemptDetail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findLocked(r.activeID)
}

// Attempts returns the current attempt history snapshot.
func (r *Resolver) Attempts() []practice_client.AttemptDetail {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]practice_client.AttemptDetail, len(r.attempts))
	copy(out, r.attempts)
	return out
}

// Progress returns the current progress snapshot.
func (r *Resolver) Progress() *practice_client.Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress
}

// Polling reports whether a status poll loop is active.
func (r *Resolver) Polling() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.polling
}

// Close tears the resolver down with the hosting view. Any poll loop stops
// and no state update lands afterwards.
func (r *Resolver) Close() {
	r.cancel()
	r.mu.Lock()
	if r.pollCancel != nil {
		r.pollCancel()
		r.pollCancel = nil
	}
	r.polling = false
	r.mu.Unlock()
}

func (r *Resolver) findLocked(attemptID uint64) *practice_client.AttemptDetail {
	for i := range r.attempts {
		if r.attempts[i].Attempt.ID == attemptID {
			return &r.attempts[i]
		}
	}
	return nil
}

// evaluate stops any current poll loop and starts a new one when the active
// attempt's bundle is incomplete.
func (r *Resolver) evaluate() {
	r.mu.Lock()
	if r.pollCancel != nil {
		r.pollCancel()
		r.pollCancel = nil
		r.polling = false
	}
	if r.ctx.Err() != nil {
		r.mu.Unlock()
		return
	}
	active := r.findLocked(r.activeID)
	if active == nil || active.Complete() {
		r.mu.Unlock()
		return
	}
	attemptID := r.activeID
	ctx, cancel := context.WithCancel(r.ctx)
	r.pollCancel = cancel
	r.polling = true
	r.mu.Unlock()

	r.logger.Debugf("polling analysis status: attempt=%d interval=%s", attemptID, r.pollInterval)
	go r.poll(ctx, attemptID)
}

// poll queries the status endpoint at the fixed interval until completion or
// cancellation. Errors are logged and retried on the next tick.
func (r *Resolver) poll(ctx context.Context, attemptID uint64) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status, err := r.client.GetAnalysisStatus(ctx, attemptID)
			if err != nil {
				r.logger.Debugf("transient poll error for attempt %d: %v", attemptID, err)
				continue
			}
			if !status.IsComplete() {
				continue
			}
			r.refresh(ctx, attemptID)
			return
		}
	}
}

// refresh re-fetches attempts and progress once after the analysis job
// completes, then stops polling. Cancellation between the fetch and the
// store means the view is gone; the result is dropped.
func (r *Resolver) refresh(ctx context.Context, attemptID uint64) {
	attempts, err := r.client.ListAttempts(ctx, r.questionID)
	if err != nil {
		r.logger.Warnf("refresh attempts after completion: %v", err)
		attempts = nil
	}
	progress, err := r.client.GetProgress(ctx, r.questionID)
	if err != nil {
		r.logger.Warnf("refresh progress after completion: %v", err)
	}

	r.mu.Lock()
	if ctx.Err() != nil {
		r.mu.Unlock()
		return
	}
	if attempts != nil {
		r.attempts = attempts
	}
	if progress != nil {
		r.progress = progress
	}
	r.polling = false
	r.pollCancel = nil
	onUpdate := r.onUpdate
	r.mu.Unlock()

	r.logger.Infof("analysis complete for attempt %d, view refreshed", attemptID)
	if onUpdate != nil {
		onUpdate()
	}
}
