package retry

import (
	"context"
	"testing"
	"time"

	"github.com/oneconcern/buildsync/pkg/errors"
	"github.com/oneconcern/buildsync/pkg/storage/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), "op", func() error {
		attempts++
		if attempts < 3 {
			return status.ErrStorageAPI
		}
		return nil
	}, InitialInterval(time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), "op", func() error {
		attempts++
		return status.ErrThrottled
	}, MaxAttempts(3), InitialInterval(time.Millisecond))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrThrottled))
	assert.Equal(t, 3, attempts)
}

func TestDoTerminalFailureIsNotRetried(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), "op", func() error {
		attempts++
		return status.ErrForbidden
	}, InitialInterval(time.Millisecond))
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrForbidden))
	assert.Equal(t, 1, attempts)
}

func TestDoCustomClassifier(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), "op", func() error {
		attempts++
		return status.ErrStorageAPI
	},
		Classifier(func(error) bool { return false }),
		InitialInterval(time.Millisecond),
	)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestTransient(t *testing.T) {
	assert.False(t, Transient(status.ErrUnauthorized))
	assert.False(t, Transient(status.ErrForbidden))
	assert.False(t, Transient(status.ErrInvalidResource))
	assert.False(t, Transient(status.ErrNotExists))
	assert.False(t, Transient(status.ErrNotFound))
	assert.True(t, Transient(status.ErrStorageAPI))
	assert.True(t, Transient(status.ErrThrottled))
	assert.True(t, Transient(errors.New("connection reset")))

	// wrapped sentinels classify the same way
	assert.False(t, Transient(status.ErrForbidden.Wrap(errors.New("403"))))
	assert.True(t, Transient(status.ErrStorageAPI.Wrap(errors.New("503"))))
}
