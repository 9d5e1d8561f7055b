package api

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capital-match/internal/common/errors"
	"capital-match/internal/common/logger"
	"capital-match/internal/common/metrics"
	"capital-match/internal/matching"
	"capital-match/internal/simulation"
	"capital-match/internal/visualizer"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newStore(t *testing.T, ttl time.Duration) (*SessionStore, *fakeClock) {
	t.Helper()
	log := logger.NewNoOpLogger()
	engine := matching.NewScorer(log)
	st := NewSessionStore(ttl, func(id string) (*visualizer.View, *simulation.State) {
		return visualizer.NewView(engine), simulation.New(simulation.DefaultBounds(), log, nil)
	}, log)
	clock := &fakeClock{now: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)}
	st.now = clock.Now
	t.Cleanup(st.Close)
	return st, clock
}

func TestSessionStore_GetRefreshesIdleTimer(t *testing.T) {
	st, clock := newStore(t, 10*time.Minute)
	s := st.Create()
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ViewSessionsActive))

	clock.Advance(8 * time.Minute)
	_, err := st.Get(s.ID)
	require.NoError(t, err)

	clock.Advance(8 * time.Minute)
	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestSessionStore_ExpiredSessionIsGone(t *testing.T) {
	st, clock := newStore(t, 10*time.Minute)
	s := st.Create()

	clock.Advance(11 * time.Minute)
	_, err := st.Get(s.ID)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSessionNotFound, errors.AsStandard(err).Code)
	assert.Equal(t, 0, st.Len())
}

func TestSessionStore_Sweep(t *testing.T) {
	st, clock := newStore(t, 10*time.Minute)
	stale := st.Create()
	clock.Advance(6 * time.Minute)
	fresh := st.Create()
	clock.Advance(6 * time.Minute)

	assert.Equal(t, 1, st.Sweep())
	assert.Equal(t, 1, st.Len())

	_, err := st.Get(stale.ID)
	assert.Error(t, err)
	_, err = st.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestSessionStore_ZeroTTLNeverExpires(t *testing.T) {
	st, clock := newStore(t, 0)
	s := st.Create()
	clock.Advance(24 * time.Hour)

	assert.Zero(t, st.Sweep())
	_, err := st.Get(s.ID)
	assert.NoError(t, err)
}

func TestSessionStore_DeleteAndClose(t *testing.T) {
	st, _ := newStore(t, time.Hour)
	a := st.Create()
	st.Create()

	require.NoError(t, st.Delete(a.ID))
	assert.Error(t, st.Delete(a.ID))

	st.Close()
	assert.Equal(t, 0, st.Len())
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ViewSessionsActive))
}

func TestSessionStore_RunClosesOnCancel(t *testing.T) {
	st, _ := newStore(t, time.Hour)
	st.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- st.Run(ctx, time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 0, st.Len())
}

func TestSession_SelectDeactivatesSimulation(t *testing.T) {
	st, _ := newStore(t, time.Hour)
	s := st.Create()
	c := sampleCatalog(t)

	lp, err := c.LP("lp-001")
	require.NoError(t, err)
	deal, err := c.Deal("deal-001")
	require.NoError(t, err)

	s.Select(&lp, &deal)
	s.view.Wait()
	_, err = s.sim.Toggle(&deal)
	require.NoError(t, err)

	other, err := c.Deal("deal-002")
	require.NoError(t, err)
	s.Select(&lp, &other)
	s.view.Wait()

	snap := s.Snapshot("")
	assert.False(t, snap.Simulation.Active)
	assert.Equal(t, visualizer.StatusReady, snap.View.Status)
	assert.Equal(t, "West Loop Multifamily", snap.View.Header.DealLabel)
}
