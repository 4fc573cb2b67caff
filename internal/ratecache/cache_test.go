package ratecache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 수동으로 진행시키는 시계
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func countingSource(rate float64, calls *int) Source {
	return func(context.Context) (float64, error) {
		*calls++
		return rate, nil
	}
}

func TestCache_HitWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)}
	calls := 0
	cache := New(countingSource(0.03, &calls), time.Hour, WithClock(clock.Now))

	ctx := context.Background()
	r1, err := cache.Rate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.03, r1)

	clock.Advance(59 * time.Minute)
	r2, err := cache.Rate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.03, r2)

	// TTL 내에서는 출처를 다시 부르지 않는다
	assert.Equal(t, 1, calls)
}

func TestCache_RefreshAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)}
	calls := 0
	cache := New(countingSource(0.03, &calls), time.Hour, WithClock(clock.Now))

	ctx := context.Background()
	_, err := cache.Rate(ctx)
	require.NoError(t, err)

	clock.Advance(61 * time.Minute)
	_, err = cache.Rate(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestCache_SourceErrorPropagates(t *testing.T) {
	boom := errors.New("rate source down")
	cache := New(func(context.Context) (float64, error) {
		return 0, boom
	}, time.Hour)

	_, err := cache.Rate(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCache_Invalidate(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)}
	calls := 0
	cache := New(countingSource(0.03, &calls), time.Hour, WithClock(clock.Now))

	ctx := context.Background()
	_, err := cache.Rate(ctx)
	require.NoError(t, err)

	cache.Invalidate()
	_, err = cache.Rate(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestFixed(t *testing.T) {
	rate, err := Fixed(0.035)(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.035, rate)
}
