// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.

package review

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	practice_client "github.com/starcoachai/pkg/clients/practice"
	"github.com/starcoachai/pkg/commons"
)

const testPollInterval = 5 * time.Millisecond

func newTestLogger(t *testing.T) commons.Logger {
	t.Helper()
	logger, err := commons.NewApplicationLogger(commons.Name("test-review"), commons.Level("debug"))
	require.NoError(t, err)
	return logger
}

// fakeAPI is an in-memory practice backend for the resolver.
type fakeAPI struct {
	mu          sync.Mutex
	attempts    []practice_client.AttemptDetail
	progress    *practice_client.Progress
	complete    map[uint64]bool
	statusErr   error
	statusCalls map[uint64]int
	listCalls   int
}

func newFakeAPI(attempts ...practice_client.AttemptDetail) *fakeAPI {
	return &fakeAPI{
		attempts:    attempts,
		progress:    &practice_client.Progress{QuestionID: 7, Trend: "steady"},
		complete:    make(map[uint64]bool),
		statusCalls: make(map[uint64]int),
	}
}

func (f *fakeAPI) ListAttempts(ctx context.Context, questionID uint64) ([]practice_client.AttemptDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := make([]practice_client.AttemptDetail, len(f.attempts))
	copy(out, f.attempts)
	return out, nil
}

func (f *fakeAPI) GetProgress(ctx context.Context, questionID uint64) (*practice_client.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := *f.progress
	return &p, nil
}

func (f *fakeAPI) GetAnalysisStatus(ctx context.Context, attemptID uint64) (*practice_client.AnalysisStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls[attemptID]++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	status := practice_client.StatusTranscribing
	if f.complete[attemptID] {
		status = practice_client.StatusComplete
	}
	return &practice_client.AnalysisStatus{Status: status, AttemptID: attemptID}, nil
}

func (f *fakeAPI) markComplete(attemptID uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.complete[attemptID] = true
	for i := range f.attempts {
		if f.attempts[i].Attempt.ID == attemptID {
			f.attempts[i].Feedback = &practice_client.Feedback{AttemptID: attemptID, CoachFeedback: "done"}
		}
	}
	f.progress = &practice_client.Progress{QuestionID: 7, Trend: "improving"}
}

func (f *fakeAPI) calls(attemptID uint64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls[attemptID]
}

func pendingAttempt(id uint64, number int) practice_client.AttemptDetail {
	return practice_client.AttemptDetail{
		Attempt: practice_client.Attempt{ID: id, QuestionID: 7, AttemptNumber: number},
	}
}

func completeAttempt(id uint64, number int) practice_client.AttemptDetail {
	d := pendingAttempt(id, number)
	d.Feedback = &practice_client.Feedback{AttemptID: id, CoachFeedback: "solid"}
	return d
}

func newTestResolver(t *testing.T, api *fakeAPI) *Resolver {
	t.Helper()
	r := NewResolver(7, api, newTestLogger(t), WithPollInterval(testPollInterval))
	t.Cleanup(r.Close)
	return r
}

func TestLoadSelectsMostRecentAttempt(t *testing.T) {
	api := newFakeAPI(completeAttempt(3, 3), completeAttempt(2, 2), completeAttempt(1, 1))
	r := newTestResolver(t, api)

	require.NoError(t, r.Load(context.Background()))
	require.NotNil(t, r.Active())
	assert.Equal(t, uint64(3), r.Active().Attempt.ID)
	assert.False(t, r.Polling(), "complete bundle must not start polling")
}

func TestCompleteAttemptIsNeverPolled(t *testing.T) {
	api := newFakeAPI(completeAttempt(3, 1))
	r := newTestResolver(t, api)

	require.NoError(t, r.Load(context.Background()))
	time.Sleep(10 * testPollInterval)
	assert.Zero(t, api.calls(3))
}

func TestPollingResolvesPendingAttempt(t *testing.T) {
	api := newFakeAPI(pendingAttempt(5, 2), completeAttempt(4, 1))
	r := newTestResolver(t, api)

	updated := make(chan struct{}, 1)
	r.SetOnUpdate(func() { updated <- struct{}{} })

	require.NoError(t, r.Load(context.Background()))
	assert.True(t, r.Polling())

	// Only the pending active attempt is polled.
	require.Eventually(t, func() bool { return api.calls(5) >= 2 }, 2*time.Second, testPollInterval)
	assert.Zero(t, api.calls(4))

	api.markComplete(5)
	select {
	case <-updated:
	case <-time.After(2 * time.Second):
		t.Fatal("resolver did not refresh after completion")
	}

	assert.True(t, r.Active().Complete())
	assert.Equal(t, "improving", r.Progress().Trend)
	assert.False(t, r.Polling())

	// Polling stops once resolved.
	settled := api.calls(5)
	time.Sleep(10 * testPollInterval)
	assert.Equal(t, settled, api.calls(5))
}

func TestTransientErrorsAreRetried(t *testing.T) {
	api := newFakeAPI(pendingAttempt(5, 1))
	api.statusErr = errors.New("network hiccup")
	r := newTestResolver(t, api)

	updated := make(chan struct{}, 1)
	r.SetOnUpdate(func() { updated <- struct{}{} })

	require.NoError(t, r.Load(context.Background()))
	require.Eventually(t, func() bool { return api.calls(5) >= 3 }, 2*time.Second, testPollInterval)

	// The loop healed itself once the backend recovered.
	api.mu.Lock()
	api.statusErr = nil
	api.mu.Unlock()
	api.markComplete(5)

	select {
	case <-updated:
	case <-time.After(2 * time.Second):
		t.Fatal("polling did not recover from transient errors")
	}
}

func TestSwitchingActiveReevaluatesPolling(t *testing.T) {
	api := newFakeAPI(pendingAttempt(5, 2), completeAttempt(4, 1))
	r := newTestResolver(t, api)

	require.NoError(t, r.Load(context.Background()))
	assert.True(t, r.Polling())

	r.SetActive(4)
	assert.False(t, r.Polling())

	r.SetActive(5)
	assert.True(t, r.Polling())
}

func TestCloseStopsPollingUnconditionally(t *testing.T) {
	api := newFakeAPI(pendingAttempt(5, 1))
	r := newTestResolver(t, api)

	var updates atomic.Int32
	r.SetOnUpdate(func() { updates.Add(1) })

	require.NoError(t, r.Load(context.Background()))
	require.Eventually(t, func() bool { return api.calls(5) >= 1 }, 2*time.Second, testPollInterval)

	r.Close()
	settled := api.calls(5)

	// Completion after teardown must not produce any state update.
	api.markComplete(5)
	time.Sleep(10 * testPollInterval)

	assert.LessOrEqual(t, api.calls(5), settled+1, "polling must stop after Close")
	assert.Zero(t, updates.Load())
	require.NotNil(t, r.Active())
	assert.False(t, r.Active().Complete(), "no update after unmount")
}
