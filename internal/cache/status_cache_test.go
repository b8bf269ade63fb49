package cache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMemoizesWithinTTL(t *testing.T) {
	c := NewStatusCache(time.Minute)

	calls := 0
	compute := func() (any, error) {
		calls++
		return "verified", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.Get(Key(1, "verification"), compute)
		require.NoError(t, err)
		assert.Equal(t, "verified", v)
	}
	assert.Equal(t, 1, calls)
}

func TestGetRecomputesAfterExpiry(t *testing.T) {
	c := NewStatusCache(10 * time.Millisecond)

	calls := 0
	compute := func() (any, error) {
		calls++
		return calls, nil
	}

	v, err := c.Get(Key(1, "verification"), compute)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	time.Sleep(20 * time.Millisecond)

	v, err = c.Get(Key(1, "verification"), compute)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestComputeErrorIsNotCached(t *testing.T) {
	c := NewStatusCache(time.Minute)

	boom := errors.New("lookup failed")
	_, err := c.Get(Key(1, "verification"), func() (any, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	v, err := c.Get(Key(1, "verification"), func() (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestInvalidate(t *testing.T) {
	c := NewStatusCache(time.Minute)

	calls := 0
	compute := func() (any, error) {
		calls++
		return calls, nil
	}

	_, err := c.Get(Key(1, "verification"), compute)
	require.NoError(t, err)
	c.Invalidate(Key(1, "verification"))
	v, err := c.Get(Key(1, "verification"), compute)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestInvalidateSubjectScoping(t *testing.T) {
	c := NewStatusCache(time.Minute)

	seed := func(key string) {
		_, err := c.Get(key, func() (any, error) { return key, nil })
		require.NoError(t, err)
	}
	seed(Key(1, "verification"))
	seed(Key(1, "ban"))
	seed(Key(12, "verification"))

	c.InvalidateSubject(1)

	// Subject 1 entries recompute, subject 12 must not be swept by the
	// shorter numeric prefix.
	recomputed := 0
	fresh := func() (any, error) { recomputed++; return "fresh", nil }

	v, err := c.Get(Key(1, "verification"), fresh)
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	v, err = c.Get(Key(1, "ban"), fresh)
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.Equal(t, 2, recomputed)

	v, err = c.Get(Key(12, "verification"), fresh)
	require.NoError(t, err)
	assert.Equal(t, Key(12, "verification"), v, "other subject untouched")
}

func TestConcurrentGet(t *testing.T) {
	c := NewStatusCache(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := Key(uint(n%4), "verification")
			for j := 0; j < 100; j++ {
				_, err := c.Get(key, func() (any, error) { return n, nil })
				assert.NoError(t, err)
				if j%10 == 0 {
					c.InvalidateSubject(uint(n % 4))
				}
			}
		}(i)
	}
	wg.Wait()
}
