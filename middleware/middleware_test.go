package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/handlerchain"
	"github.com/dmitrymomot/handlerchain/middleware"
	"github.com/dmitrymomot/handlerchain/pkg/async"
)

type command struct {
	Name string
}

type cmdCtx = handlerchain.Context[*command, string]

func reply(v string) handlerchain.HandlerFunc[*command, string] {
	return func(*cmdCtx) (async.Result[string], error) {
		return handlerchain.Respond(v)
	}
}

type mockMatcher struct {
	mock.Mock
}

func (m *mockMatcher) Accept(c *command) bool {
	args := m.Called(c.Name)
	return args.Bool(0)
}

func TestMatch(t *testing.T) {
	t.Parallel()

	isPing := func(c *command) bool { return c.Name == "ping" }
	ch := handlerchain.New[*command, string]()
	ch.HandleAt(1, middleware.Match(isPing, reply("pong")))
	ch.HandleAt(2, reply("fallback"))

	assert.Equal(t, "pong", ch.HandleRequestSync(&command{Name: "ping"}).Response)
	assert.Equal(t, "fallback", ch.HandleRequestSync(&command{Name: "other"}).Response)
}

func TestMatchCallsPredicateOncePerDispatch(t *testing.T) {
	t.Parallel()

	m := &mockMatcher{}
	m.On("Accept", "deploy").Return(true).Once()
	m.On("Accept", "noop").Return(false).Twice()

	ch := handlerchain.New[*command, string]()
	ch.Handle(middleware.Match(m.Accept, reply("deploying")))

	assert.Equal(t, "deploying", ch.HandleRequestSync(&command{Name: "deploy"}).Response)
	for range 2 {
		task := ch.HandleRequestSync(&command{Name: "noop"})
		assert.Equal(t, handlerchain.StatusNotFound, task.Status)
	}
	m.AssertExpectations(t)
}

func TestTiming(t *testing.T) {
	t.Parallel()

	t.Run("immediate downstream", func(t *testing.T) {
		t.Parallel()
		var got []handlerchain.StatusSnapshot
		ch := handlerchain.New[*command, string]()
		ch.HandleAt(0, middleware.Timing[*command, string](func(_ time.Duration, s handlerchain.StatusSnapshot) {
			got = append(got, s)
		}))
		ch.HandleAt(1, func(c *cmdCtx) (async.Result[string], error) {
			c.SetStatus(202, nil)
			return handlerchain.Respond("queued")
		})

		task := ch.HandleRequestSync(&command{})
		assert.Equal(t, "queued", task.Response)
		assert.Equal(t, []handlerchain.StatusSnapshot{{Status: 202}}, got)
	})

	t.Run("uses chain clock", func(t *testing.T) {
		t.Parallel()
		base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		var (
			mu    sync.Mutex
			ticks int
		)
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			ticks++
			return base.Add(time.Duration(ticks) * time.Minute)
		}

		var elapsed time.Duration
		ch := handlerchain.New[*command, string](handlerchain.WithClock(clock))
		ch.HandleAt(0, middleware.Timing[*command, string](func(d time.Duration, _ handlerchain.StatusSnapshot) {
			elapsed = d
		}))
		ch.HandleAt(1, reply("ok"))

		task := ch.HandleRequestSync(&command{})
		assert.Equal(t, "ok", task.Response)
		assert.Equal(t, time.Minute, elapsed)
	})

	t.Run("pending downstream", func(t *testing.T) {
		t.Parallel()
		var (
			mu      sync.Mutex
			elapsed time.Duration
		)
		ch := handlerchain.New[*command, string]()
		ch.HandleAt(0, middleware.Timing[*command, string](func(d time.Duration, _ handlerchain.StatusSnapshot) {
			mu.Lock()
			elapsed = d
			mu.Unlock()
		}))
		ch.HandleAt(1, func(c *cmdCtx) (async.Result[string], error) {
			return handlerchain.Defer(async.Go(c.Context(), func(context.Context) (string, error) {
				time.Sleep(20 * time.Millisecond)
				return "slow", nil
			}))
		})

		res := ch.HandleRequest(&command{})
		require.True(t, res.IsPending())
		task, err := res.Await()
		require.NoError(t, err)
		assert.Equal(t, "slow", task.Response)

		mu.Lock()
		defer mu.Unlock()
		assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	})
}

func TestAround(t *testing.T) {
	t.Parallel()

	t.Run("reports rejection", func(t *testing.T) {
		t.Parallel()
		want := errors.New("rejected")
		seen := make(chan error, 1)
		ch := handlerchain.New[*command, string]()
		ch.HandleAt(0, middleware.Around(func(_ *cmdCtx, _ time.Duration, err error) {
			seen <- err
		}))
		ch.HandleAt(1, func(*cmdCtx) (async.Result[string], error) {
			return handlerchain.Defer(async.Rejected[string](want))
		})

		_, err := ch.HandleRequest(&command{}).Await()
		assert.ErrorIs(t, err, want)
		assert.ErrorIs(t, <-seen, want)
	})

	t.Run("runs after downstream", func(t *testing.T) {
		t.Parallel()
		var order []string
		ch := handlerchain.New[*command, string]()
		ch.HandleAt(0, middleware.Around(func(*cmdCtx, time.Duration, error) {
			order = append(order, "after")
		}))
		ch.HandleAt(1, func(*cmdCtx) (async.Result[string], error) {
			order = append(order, "handler")
			return handlerchain.Respond("x")
		})

		ch.HandleRequestSync(&command{})
		assert.Equal(t, []string{"handler", "after"}, order)
	})
}

func TestLogging(t *testing.T) {
	t.Parallel()

	newLogger := func(buf *bytes.Buffer) *slog.Logger {
		return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		ch := handlerchain.New[*command, string]()
		ch.HandleAt(0, middleware.Logging[*command, string](newLogger(&buf)))
		ch.HandleAt(1, reply("ok"))

		ch.HandleRequestSync(&command{})
		out := buf.String()
		assert.Contains(t, out, `msg="request received"`)
		assert.Contains(t, out, `level=INFO msg="request handled"`)
		assert.Contains(t, out, "status=0")
	})

	t.Run("failure logged as error", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		ch := handlerchain.New[*command, string]()
		ch.HandleAt(0, middleware.Logging[*command, string](newLogger(&buf)))
		ch.HandleAt(1, func(*cmdCtx) (async.Result[string], error) {
			return handlerchain.Fail[string](errors.New("broken"))
		})

		task := ch.HandleRequestSync(&command{})
		assert.Equal(t, handlerchain.StatusInternalError, task.Status)
		out := buf.String()
		assert.Contains(t, out, `level=ERROR msg="request handled"`)
		assert.Contains(t, out, "status=500")
		assert.Contains(t, out, "error=broken")
	})

	t.Run("falls back to chain logger", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		ch := handlerchain.New[*command, string](handlerchain.WithLogger(newLogger(&buf)))
		ch.HandleAt(0, middleware.Logging[*command, string](nil))
		ch.HandleAt(1, reply("ok"))

		ch.HandleRequestSync(&command{})
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.NotEmpty(t, lines)
		assert.Contains(t, lines[0], `msg="request received"`)
		assert.Contains(t, lines[0], "component=handlerchain")
		assert.Contains(t, lines[0], "task_id=")
	})
}
