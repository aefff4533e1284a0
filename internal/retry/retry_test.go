package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPolicy(maxRetries int, baseWait time.Duration) (*Policy, *[]time.Duration) {
	var slept []time.Duration
	p := New(maxRetries, baseWait, zerolog.Nop()).
		WithSleep(func(d time.Duration) { slept = append(slept, d) })
	return p, &slept
}

func TestDoAlwaysFailing(t *testing.T) {
	p, slept := newTestPolicy(4, 100*time.Millisecond)

	calls := 0
	_, err := Do(p, "always-failing", func() (string, error) {
		calls++
		return "", errors.New("boom")
	})

	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 4, calls, "operation should be invoked exactly max_retries times")
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
	}, *slept, "waits should double from base_wait")
}

func TestDoSucceedsMidway(t *testing.T) {
	p, slept := newTestPolicy(5, time.Second)

	calls := 0
	got, err := Do(p, "flaky", func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls, "no further attempts after success")
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *slept,
		"no sleep after the successful attempt")
}

func TestDoImmediateSuccess(t *testing.T) {
	p, slept := newTestPolicy(3, time.Second)

	got, err := Do(p, "ok", func() (string, error) { return "value", nil })

	require.NoError(t, err)
	assert.Equal(t, "value", got)
	assert.Empty(t, *slept)
}

func TestDoZeroRetries(t *testing.T) {
	p, slept := newTestPolicy(0, time.Second)

	calls := 0
	_, err := Do(p, "single-shot", func() (string, error) {
		calls++
		return "", errors.New("boom")
	})

	require.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 1, calls, "max_retries = 0 still probes exactly once")
	assert.Empty(t, *slept, "no sleep on immediate exhaustion")
}

func TestDoZeroRetriesSuccess(t *testing.T) {
	p, _ := newTestPolicy(0, time.Second)

	got, err := Do(p, "single-shot", func() (int, error) { return 7, nil })

	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestExhaustedIsSoftFailure(t *testing.T) {
	p, _ := newTestPolicy(1, 0)

	got, err := Do(p, "soft", func() ([]string, error) {
		return []string{"partial"}, errors.New("boom")
	})

	require.ErrorIs(t, err, ErrExhausted)
	assert.Nil(t, got, "exhaustion yields the zero value, never a partial result")
}
