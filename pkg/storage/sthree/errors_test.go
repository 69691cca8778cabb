package sthree

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/oneconcern/buildsync/pkg/errors"
	"github.com/oneconcern/buildsync/pkg/storage/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestFailure(code string, statusCode int) awserr.RequestFailure {
	return awserr.NewRequestFailure(awserr.New(code, "test failure", nil), statusCode, "req-1")
}

func TestToSentinelErrors(t *testing.T) {
	require.NoError(t, toSentinelErrors(nil))

	assert.True(t, errors.Is(toSentinelErrors(requestFailure("NoSuchKey", 404)), status.ErrNotExists))
	assert.True(t, errors.Is(toSentinelErrors(requestFailure("NotFound", 404)), status.ErrNotExists))
	assert.True(t, errors.Is(toSentinelErrors(requestFailure("NoSuchVersion", 404)), status.ErrNotFound))
	assert.True(t, errors.Is(toSentinelErrors(requestFailure("InvalidSecurity", 401)), status.ErrUnauthorized))
	assert.True(t, errors.Is(toSentinelErrors(requestFailure("AccessDenied", 403)), status.ErrForbidden))
	assert.True(t, errors.Is(toSentinelErrors(requestFailure("InvalidBucketName", 400)), status.ErrInvalidResource))
	assert.True(t, errors.Is(toSentinelErrors(requestFailure("SlowDown", 503)), status.ErrThrottled))
	assert.True(t, errors.Is(toSentinelErrors(requestFailure("InternalError", 500)), status.ErrStorageAPI))
}

func TestErrNotExists(t *testing.T) {
	assert.True(t, errNotExists(status.ErrNotExists))
	assert.True(t, errNotExists(status.ErrNotFound))
	assert.False(t, errNotExists(status.ErrForbidden))
}
