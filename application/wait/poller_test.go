package wait

import (
	"context"
	"errors"
	"testing"
	"time"

	"todo_e2e/domain/entities"
	"todo_e2e/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counting(matchAt int, err error) (Condition[int], *int) {
	calls := 0
	return Condition[int]{
		Description: "counter",
		Check: func(ctx context.Context, _ interfaces.Session) (int, error) {
			calls++
			if calls >= matchAt {
				return calls, nil
			}
			return 0, err
		},
	}, &calls
}

func TestPollReturnsValueOnMatch(t *testing.T) {
	cond, calls := counting(3, NotReady("not yet"))

	got, err := Poll(context.Background(), nil, cond, Options{Timeout: time.Second, Interval: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, 3, *calls)
}

func TestPollTimesOutWithLastReason(t *testing.T) {
	never := Condition[bool]{
		Description: "never",
		Check: func(ctx context.Context, _ interfaces.Session) (bool, error) {
			return false, NotReady("attribute absent")
		},
	}

	start := time.Now()
	got, err := Poll(context.Background(), nil, never, Options{Timeout: 50 * time.Millisecond, Interval: 10 * time.Millisecond})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.False(t, got)
	assert.ErrorIs(t, err, entities.ErrTimeout)
	assert.ErrorIs(t, err, entities.ErrNotReady)
	assert.Contains(t, err.Error(), "attribute absent")

	var timeout *entities.TimeoutError
	require.True(t, errors.As(err, &timeout))
	assert.Equal(t, "never", timeout.Condition)
	assert.GreaterOrEqual(t, timeout.Attempts, 2)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestPollAbsorbsTransientLookupErrors(t *testing.T) {
	for _, transient := range []error{entities.ErrNotFound, entities.ErrStaleElement} {
		cond, _ := counting(2, transient)
		_, err := Poll(context.Background(), nil, cond, Options{Timeout: time.Second, Interval: time.Millisecond})
		assert.NoError(t, err)
	}
}

func TestPollPropagatesFaults(t *testing.T) {
	for _, fault := range []error{entities.ErrLaunch, entities.ErrNavigation, errors.New("driver crashed")} {
		cond, calls := counting(100, fault)
		_, err := Poll(context.Background(), nil, cond, Options{Timeout: time.Second, Interval: time.Millisecond})
		require.Error(t, err)
		assert.ErrorIs(t, err, fault)
		assert.NotErrorIs(t, err, entities.ErrTimeout)
		assert.Equal(t, 1, *calls)
	}
}

func TestPollReturnsPromptlyAfterMatch(t *testing.T) {
	readyAt := time.Now().Add(30 * time.Millisecond)
	cond := Condition[bool]{
		Description: "clock",
		Check: func(ctx context.Context, _ interfaces.Session) (bool, error) {
			if time.Now().Before(readyAt) {
				return false, NotReady("too early")
			}
			return true, nil
		},
	}

	interval := 20 * time.Millisecond
	_, err := Poll(context.Background(), nil, cond, Options{Timeout: 5 * time.Second, Interval: interval})
	require.NoError(t, err)
	assert.Less(t, time.Since(readyAt), interval+50*time.Millisecond)
}

func TestPollHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cond := Condition[bool]{
		Description: "cancel",
		Check: func(context.Context, interfaces.Session) (bool, error) {
			cancel()
			return false, NotReady("waiting")
		},
	}

	_, err := Poll(ctx, nil, cond, Options{Timeout: time.Minute, Interval: time.Second})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaiterCopies(t *testing.T) {
	w := NewWaiter(nil, time.Second, nil)
	short := w.WithTimeout(time.Millisecond).WithInterval(time.Microsecond)

	assert.Equal(t, time.Second, w.Options.Timeout)
	assert.Equal(t, DefaultInterval, w.Options.Interval)
	assert.Equal(t, time.Millisecond, short.Options.Timeout)
	assert.Equal(t, time.Microsecond, short.Options.Interval)
}

func TestPollChecksOnceMoreAtDeadline(t *testing.T) {
	cond, calls := counting(2, NotReady("not yet"))

	start := time.Now()
	got, err := Poll(context.Background(), nil, cond, Options{Timeout: 30 * time.Millisecond, Interval: time.Second})
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Equal(t, 2, *calls)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
