package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anstrom/lanwatch/internal/coordinator"
	lwerrors "github.com/anstrom/lanwatch/internal/errors"
	"github.com/anstrom/lanwatch/internal/logging"
)

type fakeRunner struct {
	scanning atomic.Bool
	calls    atomic.Int32
	block    chan struct{}
	err      error

	mu      sync.Mutex
	lastCtx context.Context
}

func (f *fakeRunner) IsScanning() bool { return f.scanning.Load() }

func (f *fakeRunner) RefreshKnownDevices(ctx context.Context) (coordinator.RefreshSummary, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastCtx = ctx
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return coordinator.RefreshSummary{Aborted: true}, lwerrors.ErrScanCanceled(ctx.Err())
		}
	}
	return coordinator.RefreshSummary{Checked: 2, Online: 1, Offline: 1}, f.err
}

func TestNewRefresher_Defaults(t *testing.T) {
	r := NewRefresher(Config{Enabled: true, InitialDelay: -time.Second}, &fakeRunner{}, logging.Discard())
	assert.Equal(t, DefaultInterval, r.cfg.Interval)
	assert.Zero(t, r.cfg.InitialDelay)
	assert.Equal(t, "@every 30s", r.Spec())
}

func TestRefresher_RunNowRecordsSummary(t *testing.T) {
	runner := &fakeRunner{}
	r := NewRefresher(DefaultConfig(), runner, logging.Discard())

	r.RunNow()

	assert.EqualValues(t, 1, runner.calls.Load())
	st := r.Status()
	assert.False(t, st.Running)
	assert.False(t, st.LastRun.IsZero())
	assert.Equal(t, 2, st.LastSummary.Checked)
	assert.Empty(t, st.LastError)
}

func TestRefresher_RunNowRecordsError(t *testing.T) {
	runner := &fakeRunner{err: assert.AnError}
	r := NewRefresher(DefaultConfig(), runner, logging.Discard())

	r.RunNow()

	assert.Equal(t, assert.AnError.Error(), r.Status().LastError)
}

func TestRefresher_SkipsWhileScanning(t *testing.T) {
	runner := &fakeRunner{}
	runner.scanning.Store(true)
	r := NewRefresher(DefaultConfig(), runner, logging.Discard())

	r.RunNow()

	assert.Zero(t, runner.calls.Load())
	assert.True(t, r.Status().LastRun.IsZero())
}

func TestRefresher_SkipsOverlappingRuns(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	r := NewRefresher(DefaultConfig(), runner, logging.Discard())

	done := make(chan struct{})
	go func() {
		r.RunNow()
		close(done)
	}()
	require.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, r.Status().Refreshing)

	r.RunNow()
	assert.EqualValues(t, 1, runner.calls.Load())

	close(runner.block)
	<-done
	assert.False(t, r.Status().Refreshing)
}

func TestRefresher_StartRunsAfterInitialDelay(t *testing.T) {
	runner := &fakeRunner{}
	cfg := Config{Enabled: true, Interval: time.Hour, InitialDelay: 10 * time.Millisecond}
	r := NewRefresher(cfg, runner, logging.Discard())

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	require.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	st := r.Status()
	assert.True(t, st.Running)
	assert.True(t, st.NextRun.After(time.Now()))
}

func TestRefresher_StartTwice(t *testing.T) {
	cfg := Config{Enabled: true, Interval: time.Hour, InitialDelay: time.Hour}
	r := NewRefresher(cfg, &fakeRunner{}, logging.Discard())

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	err := r.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestRefresher_DisabledDoesNotSchedule(t *testing.T) {
	runner := &fakeRunner{}
	cfg := Config{Enabled: false, Interval: time.Hour}
	r := NewRefresher(cfg, runner, logging.Discard())

	require.NoError(t, r.Start(context.Background()))
	assert.False(t, r.Status().Running)

	<-r.Stop().Done()
	assert.Zero(t, runner.calls.Load())
}

func TestRefresher_StopCancelsRunningRefresh(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	cfg := Config{Enabled: true, Interval: time.Hour, InitialDelay: time.Millisecond}
	r := NewRefresher(cfg, runner, logging.Discard())
	require.NoError(t, r.Start(context.Background()))

	require.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	r.Stop()

	runner.mu.Lock()
	ctx := runner.lastCtx
	runner.mu.Unlock()
	require.NotNil(t, ctx)
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("refresh context was not canceled by Stop")
	}

	require.Eventually(t, func() bool { return !r.Status().Refreshing }, time.Second, 5*time.Millisecond)
	assert.False(t, r.Status().Running)

	r.RunNow()
	assert.EqualValues(t, 1, runner.calls.Load(), "no refresh after stop")
}
