package rpc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsNotFound(t *testing.T) {
	require.True(t, isNotFound(status.Error(codes.NotFound, "delegation with delegator inj1x not found for validator")))
	require.False(t, isNotFound(status.Error(codes.Unavailable, "connection refused")))
	require.False(t, isNotFound(status.Error(codes.DeadlineExceeded, "context deadline exceeded")))
	require.False(t, isNotFound(errors.New("dial tcp: no route to host")))
	require.False(t, isNotFound(nil))
}
