package requestcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallerID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, CallerID(ctx))

	ctx = WithCallerID(ctx, "client-7")
	assert.Equal(t, "client-7", CallerID(ctx))
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))

	ctx = WithRequestID(ctx, "corr-42")
	assert.Equal(t, "corr-42", RequestID(ctx))

	// Keys are independent.
	assert.Empty(t, CallerID(ctx))
}
