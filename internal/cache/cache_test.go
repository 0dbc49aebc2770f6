package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveylens/internal/model"
)

// fakeRemote is an in-memory SummaryCache that counts calls
type fakeRemote struct {
	data          map[string][]*model.Summary
	gets          int
	invalidateErr error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{data: map[string][]*model.Summary{}}
}

func (f *fakeRemote) Get(ctx context.Context, surveyID string) ([]*model.Summary, error) {
	f.gets++
	return f.data[surveyID], nil
}

func (f *fakeRemote) Set(ctx context.Context, surveyID string, summaries []*model.Summary) error {
	f.data[surveyID] = summaries
	return nil
}

func (f *fakeRemote) Invalidate(ctx context.Context, surveyID string) error {
	delete(f.data, surveyID)
	return f.invalidateErr
}

func TestLayeredCacheServesFromLocalAfterFirstRead(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	remote.data["s1"] = []*model.Summary{{SurveyID: "s1", Content: "cached"}}

	c := NewLayeredSummaryCache(remote, 8, time.Minute)

	first, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	second, err := c.Get(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, "cached", first[0].Content)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, remote.gets)
}

func TestLayeredCacheMiss(t *testing.T) {
	c := NewLayeredSummaryCache(newFakeRemote(), 8, time.Minute)

	got, err := c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLayeredCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	c := NewLayeredSummaryCache(remote, 8, time.Minute)

	require.NoError(t, c.Set(ctx, "s1", []*model.Summary{{Content: "x"}}))
	require.NoError(t, c.Invalidate(ctx, "s1"))

	got, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NotContains(t, remote.data, "s1")
}

func TestLayeredCacheInvalidateDropsLocalOnRemoteError(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	remote.invalidateErr = errors.New("redis down")
	c := NewLayeredSummaryCache(remote, 8, time.Minute)

	require.NoError(t, c.Set(ctx, "s1", []*model.Summary{{Content: "x"}}))
	assert.Error(t, c.Invalidate(ctx, "s1"))

	got, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLayeredCacheSeesInvalidateFromOtherInstance(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	a := NewLayeredSummaryCache(remote, 8, 50*time.Millisecond)
	b := NewLayeredSummaryCache(remote, 8, 50*time.Millisecond)

	require.NoError(t, b.Set(ctx, "s1", []*model.Summary{{Content: "old"}}))
	require.NoError(t, a.Invalidate(ctx, "s1"))

	assert.Eventually(t, func() bool {
		got, err := b.Get(ctx, "s1")
		return err == nil && got == nil
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, a.Set(ctx, "s1", []*model.Summary{{Content: "new"}}))
	got, err := b.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Content)
}

func TestLayeredCacheLocalOnly(t *testing.T) {
	ctx := context.Background()
	c := NewLayeredSummaryCache(nil, 8, 0)

	require.NoError(t, c.Set(ctx, "s1", nil))
	got, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLocalRunLock(t *testing.T) {
	ctx := context.Background()
	lock := NewLocalRunLock()

	release, ok, err := lock.TryAcquire(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = lock.TryAcquire(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	other, ok, err := lock.TryAcquire(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx))
	_, ok, err = lock.TryAcquire(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestKeepAliveExtendsUntilStopped(t *testing.T) {
	var calls atomic.Int32
	stop := keepAlive(5*time.Millisecond, func(context.Context) (bool, error) {
		calls.Add(1)
		return true, nil
	})

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	stop()
	n := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, calls.Load())
	stop()
}

func TestKeepAliveStopsWhenLockLost(t *testing.T) {
	var calls atomic.Int32
	stop := keepAlive(5*time.Millisecond, func(context.Context) (bool, error) {
		calls.Add(1)
		return false, nil
	})
	defer stop()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestKeepAliveRetriesAfterError(t *testing.T) {
	var calls atomic.Int32
	stop := keepAlive(5*time.Millisecond, func(context.Context) (bool, error) {
		if calls.Add(1) == 1 {
			return false, errors.New("redis timeout")
		}
		return true, nil
	})
	defer stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "survey:s1:summaries", summariesKey("s1"))
	assert.Equal(t, "survey:s1:analysis:lock", runLockKey("s1"))
}
