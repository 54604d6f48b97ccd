package async_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/handlerchain/pkg/async"
)

func TestGo(t *testing.T) {
	t.Parallel()

	t.Run("returns value", func(t *testing.T) {
		t.Parallel()
		f := async.Go(context.Background(), func(context.Context) (string, error) {
			time.Sleep(20 * time.Millisecond)
			return "done", nil
		})

		v, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, "done", v)
		assert.True(t, f.IsComplete())
	})

	t.Run("propagates error", func(t *testing.T) {
		t.Parallel()
		want := errors.New("boom")
		f := async.Go(context.Background(), func(context.Context) (int, error) {
			return 0, want
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, want)
	})

	t.Run("recovers panic", func(t *testing.T) {
		t.Parallel()
		f := async.Go(context.Background(), func(context.Context) (int, error) {
			panic("bad")
		})

		_, err := f.Await()
		require.ErrorIs(t, err, async.ErrPanicked)
		assert.Contains(t, err.Error(), "bad")
	})

	t.Run("pre-canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		f := async.Go(ctx, func(context.Context) (int, error) {
			called = true
			return 1, nil
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}

func TestAsyncWithParam(t *testing.T) {
	t.Parallel()

	type input struct{ X, Y int }
	f := async.Async(context.Background(), input{X: 10, Y: 15}, func(_ context.Context, in input) (int, error) {
		return in.X + in.Y, nil
	})

	v, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, 25, v)
}

func TestPromise(t *testing.T) {
	t.Parallel()

	t.Run("resolve once", func(t *testing.T) {
		t.Parallel()
		p := async.NewPromise[int]()
		assert.False(t, p.Future().IsComplete())

		require.NoError(t, p.Resolve(7))
		assert.ErrorIs(t, p.Resolve(8), async.ErrAlreadySettled)
		assert.ErrorIs(t, p.Reject(errors.New("late")), async.ErrAlreadySettled)

		v, err := p.Future().Await()
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("reject", func(t *testing.T) {
		t.Parallel()
		p := async.NewPromise[string]()
		want := errors.New("rejected")
		require.NoError(t, p.Reject(want))

		v, err := p.Future().Await()
		assert.ErrorIs(t, err, want)
		assert.Empty(t, v)
	})

	t.Run("concurrent waiters", func(t *testing.T) {
		t.Parallel()
		p := async.NewPromise[int]()
		var wg sync.WaitGroup
		results := make([]int, 10)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = p.Future().Await()
			}(i)
		}
		require.NoError(t, p.Resolve(3))
		wg.Wait()
		for _, v := range results {
			assert.Equal(t, 3, v)
		}
	})
}

func TestAwaitWithTimeout(t *testing.T) {
	t.Parallel()

	fast := async.Go(context.Background(), func(context.Context) (string, error) {
		return "success", nil
	})
	v, err := fast.AwaitWithTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "success", v)

	never := async.NewPromise[string]().Future()
	v, err = never.AwaitWithTimeout(20 * time.Millisecond)
	assert.ErrorIs(t, err, async.ErrTimeout)
	assert.Empty(t, v)
}

func TestAwaitContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := async.NewPromise[int]().Future().AwaitContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	v, err := async.Resolved(5).AwaitContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestWaitAll(t *testing.T) {
	t.Parallel()

	futures := make([]*async.Future[int], 0, 3)
	for i := 1; i <= 3; i++ {
		futures = append(futures, async.Async(context.Background(), i, func(_ context.Context, n int) (int, error) {
			time.Sleep(time.Duration(10*n) * time.Millisecond)
			return n, nil
		}))
	}

	results, err := async.WaitAll(futures...)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, results)

	want := errors.New("second failed")
	results, err = async.WaitAll(async.Resolved(1), async.Rejected[int](want), async.Resolved(3))
	assert.ErrorIs(t, err, want)
	assert.Equal(t, []int{1, 0, 3}, results)
}

func TestWaitAny(t *testing.T) {
	t.Parallel()

	slow := async.NewPromise[string]()
	fast := async.Go(context.Background(), func(context.Context) (string, error) {
		return "fast", nil
	})

	index, result, err := async.WaitAny(slow.Future(), fast)
	require.NoError(t, err)
	assert.Equal(t, 1, index)
	assert.Equal(t, "fast", result)

	_, _, err = async.WaitAny[string]()
	assert.ErrorIs(t, err, async.ErrNoFutures)
}

func ExampleGo() {
	f := async.Go(context.Background(), func(context.Context) (string, error) {
		return "value is 42", nil
	})
	v, _ := f.Await()
	fmt.Println(v)
	// Output: value is 42
}

func TestGoPanicWithError(t *testing.T) {
	t.Parallel()
	want := errors.New("cause")
	f := async.Go(context.Background(), func(context.Context) (int, error) {
		panic(want)
	})

	_, err := f.Await()
	assert.ErrorIs(t, err, async.ErrPanicked)
	assert.ErrorIs(t, err, want)
}
