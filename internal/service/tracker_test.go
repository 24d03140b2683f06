package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"acecoach/internal/clock"
	"acecoach/internal/model"
	"acecoach/internal/service"
)

func newTracker(t *testing.T) (*service.Tracker, *memLiveStore, *memSessionStore, *clock.Fake) {
	t.Helper()
	liveStore := &memLiveStore{}
	sessions := &memSessionStore{}
	clk := clock.NewFake(time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC))
	tracker := service.NewTracker(context.Background(), liveStore, sessions, clk)
	return tracker, liveStore, sessions, clk
}

func TestTrackerStartValidatesInput(t *testing.T) {
	tracker, _, _, _ := newTracker(t)
	ctx := context.Background()

	_, apiErr := tracker.Start(ctx, "", "Local Casino")
	require.NotNil(t, apiErr)
	require.Equal(t, "invalid_argument", apiErr.Code)

	_, apiErr = tracker.Start(ctx, "1/2 NL", "")
	require.NotNil(t, apiErr)
	require.Equal(t, "invalid_argument", apiErr.Code)
}

func TestTrackerStartPersistsAndRejectsSecondStart(t *testing.T) {
	tracker, liveStore, _, _ := newTracker(t)
	ctx := context.Background()

	state, apiErr := tracker.Start(ctx, "1/2 NL", "Local Casino")
	require.Nil(t, apiErr)
	require.True(t, state.Active)
	require.False(t, state.IsPaused)
	require.Zero(t, state.CurrentProfit)
	require.Zero(t, state.ElapsedSeconds)
	require.NotNil(t, liveStore.live)

	_, apiErr = tracker.Start(ctx, "5/10 NL", "Bellagio")
	require.NotNil(t, apiErr)
	require.Equal(t, "invalid_state", apiErr.Code)

	// The active session is untouched by the rejected start.
	require.Equal(t, "1/2 NL", tracker.State(ctx).Stakes)
}

func TestTrackerPauseAwareElapsedAccounting(t *testing.T) {
	tracker, _, _, clk := newTracker(t)
	ctx := context.Background()

	_, apiErr := tracker.Start(ctx, "1/2 NL", "Local Casino")
	require.Nil(t, apiErr)

	clk.Advance(10 * time.Second)
	_, apiErr = tracker.Pause(ctx)
	require.Nil(t, apiErr)

	clk.Advance(5 * time.Second)
	_, apiErr = tracker.Resume(ctx)
	require.Nil(t, apiErr)

	clk.Advance(5 * time.Second)
	require.InDelta(t, 15, tracker.ElapsedSeconds(), 1e-9)
}

func TestTrackerPauseResumeBracketingIsIdempotent(t *testing.T) {
	tracker, _, _, clk := newTracker(t)
	ctx := context.Background()

	_, apiErr := tracker.Start(ctx, "1/2 NL", "Local Casino")
	require.Nil(t, apiErr)
	clk.Advance(7 * time.Second)

	before := tracker.ElapsedSeconds()
	for i := 0; i < 3; i++ {
		_, apiErr = tracker.Pause(ctx)
		require.Nil(t, apiErr)
		_, apiErr = tracker.Resume(ctx)
		require.Nil(t, apiErr)
	}
	require.Equal(t, before, tracker.ElapsedSeconds())
}

func TestTrackerElapsedIsFrozenWhilePaused(t *testing.T) {
	tracker, _, _, clk := newTracker(t)
	ctx := context.Background()

	_, apiErr := tracker.Start(ctx, "1/2 NL", "Local Casino")
	require.Nil(t, apiErr)

	clk.Advance(10 * time.Second)
	_, apiErr = tracker.Pause(ctx)
	require.Nil(t, apiErr)

	clk.Advance(time.Minute)
	require.InDelta(t, 10, tracker.ElapsedSeconds(), 1e-9)
}

func TestTrackerStopImmediatelyProducesZeroDuration(t *testing.T) {
	tracker, liveStore, sessions, clk := newTracker(t)
	ctx := context.Background()

	_, apiErr := tracker.Start(ctx, "1/2 NL", "Local Casino")
	require.Nil(t, apiErr)

	result, apiErr := tracker.Stop(ctx)
	require.Nil(t, apiErr)
	require.Equal(t, 0.0, result.Session.DurationHours)
	require.Equal(t, clk.Now().Format(model.DateLayout), result.Session.Date)
	require.Equal(t, []string{model.TagLiveTracked}, result.Session.Tags)
	require.Empty(t, result.Session.MediaItems)

	require.Len(t, sessions.sessions, 1)
	require.Nil(t, liveStore.live)
	require.False(t, tracker.State(ctx).Active)
}

func TestTrackerStopRoundsDurationToTwoDecimals(t *testing.T) {
	tracker, _, _, clk := newTracker(t)
	ctx := context.Background()

	_, apiErr := tracker.Start(ctx, "1/2 NL", "Local Casino")
	require.Nil(t, apiErr)

	clk.Advance(100 * time.Second) // 0.02777... hours
	result, apiErr := tracker.Stop(ctx)
	require.Nil(t, apiErr)
	require.Equal(t, 0.03, result.Session.DurationHours)
}

func TestTrackerStopWhilePausedExcludesPausedTime(t *testing.T) {
	tracker, _, _, clk := newTracker(t)
	ctx := context.Background()

	_, apiErr := tracker.Start(ctx, "1/2 NL", "Local Casino")
	require.Nil(t, apiErr)

	clk.Advance(30 * time.Minute)
	_, apiErr = tracker.Pause(ctx)
	require.Nil(t, apiErr)

	clk.Advance(45 * time.Minute)
	result, apiErr := tracker.Stop(ctx)
	require.Nil(t, apiErr)
	require.Equal(t, 0.5, result.Session.DurationHours)
}

func TestTrackerStopCarriesCurrentProfit(t *testing.T) {
	tracker, _, _, _ := newTracker(t)
	ctx := context.Background()

	_, apiErr := tracker.Start(ctx, "1/2 NL", "Local Casino")
	require.Nil(t, apiErr)

	state, apiErr := tracker.UpdateProfit(ctx, -75.5)
	require.Nil(t, apiErr)
	require.Equal(t, -75.5, state.CurrentProfit)

	result, apiErr := tracker.Stop(ctx)
	require.Nil(t, apiErr)
	require.Equal(t, -75.5, result.Session.Profit)
}

func TestTrackerRejectsTransitionsFromIdle(t *testing.T) {
	tracker, _, _, _ := newTracker(t)
	ctx := context.Background()

	_, apiErr := tracker.Pause(ctx)
	require.NotNil(t, apiErr)
	require.Equal(t, "invalid_state", apiErr.Code)

	_, apiErr = tracker.Resume(ctx)
	require.NotNil(t, apiErr)
	require.Equal(t, "invalid_state", apiErr.Code)

	_, apiErr = tracker.Stop(ctx)
	require.NotNil(t, apiErr)
	require.Equal(t, "invalid_state", apiErr.Code)

	_, apiErr = tracker.UpdateProfit(ctx, 10)
	require.NotNil(t, apiErr)
	require.Equal(t, "invalid_state", apiErr.Code)
}

func TestTrackerRejectsDoublePauseAndResumeWhileRunning(t *testing.T) {
	tracker, _, _, _ := newTracker(t)
	ctx := context.Background()

	_, apiErr := tracker.Start(ctx, "1/2 NL", "Local Casino")
	require.Nil(t, apiErr)

	_, apiErr = tracker.Resume(ctx)
	require.NotNil(t, apiErr)
	require.Equal(t, "invalid_state", apiErr.Code)

	_, apiErr = tracker.Pause(ctx)
	require.Nil(t, apiErr)

	_, apiErr = tracker.Pause(ctx)
	require.NotNil(t, apiErr)
	require.Equal(t, "invalid_state", apiErr.Code)
}

func TestTrackerHydratesPersistedSession(t *testing.T) {
	liveStore := &memLiveStore{}
	sessions := &memSessionStore{}
	start := time.Date(2026, 8, 28, 18, 0, 0, 0, time.UTC)
	liveStore.live = &model.LiveSession{
		StartTime:     start,
		Stakes:        "2/5 NL",
		Location:      "Bellagio",
		CurrentProfit: 200,
		TotalPaused:   10 * time.Minute,
	}

	clk := clock.NewFake(start.Add(time.Hour))
	tracker := service.NewTracker(context.Background(), liveStore, sessions, clk)

	state := tracker.State(context.Background())
	require.True(t, state.Active)
	require.Equal(t, "2/5 NL", state.Stakes)
	require.Equal(t, 200.0, state.CurrentProfit)
	require.InDelta(t, (50 * time.Minute).Seconds(), state.ElapsedSeconds, 1e-9)
}

// Exercises concurrent elapsed-time polling against pause/resume
// transitions; the race detector flags any unsynchronized access.
func TestTrackerConcurrentPollingDuringTransitions(t *testing.T) {
	tracker, _, _, _ := newTracker(t)
	ctx := context.Background()

	_, apiErr := tracker.Start(ctx, "1/2 NL", "Local Casino")
	require.Nil(t, apiErr)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			tracker.State(ctx)
			tracker.ElapsedSeconds()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if _, err := tracker.Pause(ctx); err != nil {
				continue
			}
			_, _ = tracker.Resume(ctx)
		}
	}()
	wg.Wait()

	state := tracker.State(ctx)
	require.True(t, state.Active)
	require.False(t, state.IsPaused)
}

func TestTrackerStopWarnsWhenSessionNotPersisted(t *testing.T) {
	liveStore := &memLiveStore{}
	sessions := &memSessionStore{insertErr: errors.New("disk full")}
	clk := clock.NewFake(time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC))
	tracker := service.NewTracker(context.Background(), liveStore, sessions, clk)
	ctx := context.Background()

	_, apiErr := tracker.Start(ctx, "1/2 NL", "Local Casino")
	require.Nil(t, apiErr)

	clk.Advance(time.Hour)
	result, apiErr := tracker.Stop(ctx)
	require.Nil(t, apiErr)
	require.Contains(t, result.StorageWarning, "exists only in this response")

	// The session still comes back to the caller even though it was lost.
	require.Equal(t, 1.0, result.Session.DurationHours)
	require.Empty(t, sessions.sessions)
	require.False(t, tracker.State(ctx).Active)
}

func TestTrackerDegradesOnStorageFailure(t *testing.T) {
	liveStore := &memLiveStore{saveErr: errors.New("disk full")}
	sessions := &memSessionStore{}
	clk := clock.NewFake(time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC))
	tracker := service.NewTracker(context.Background(), liveStore, sessions, clk)
	ctx := context.Background()

	state, apiErr := tracker.Start(ctx, "1/2 NL", "Local Casino")
	require.Nil(t, apiErr)
	require.True(t, state.Active)
	require.NotEmpty(t, state.StorageWarning)

	// In-memory state stays authoritative for the rest of the run.
	clk.Advance(time.Second)
	require.InDelta(t, 1, tracker.ElapsedSeconds(), 1e-9)
}
