package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeEndpointNotConfigured, "websocket endpoint is not configured")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeEndpointNotConfigured, err.Code)
	assert.Equal(t, "[102] websocket endpoint is not configured", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeDialFailed, "failed to dial %s", "ws://localhost:9999")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeDialFailed, err.Code)
	assert.Contains(t, err.Error(), "ws://localhost:9999")
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeDialFailed, "failed to open session", cause)

	require.NotNil(t, err)
	assert.Equal(t, cause, err.Unwrap())
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, Is(err, cause))
}

func TestWrapf(t *testing.T) {
	cause := fmt.Errorf("unexpected EOF")
	err := Wrapf(ErrCodeFrameDecodeFailed, cause, "failed to decode %q frame", "candle")

	require.NotNil(t, err)
	assert.Contains(t, err.Error(), `"candle"`)
	assert.Contains(t, err.Error(), "unexpected EOF")
}

func TestGetCode(t *testing.T) {
	err := New(ErrCodeConnectTimeout, "grace period elapsed")
	assert.Equal(t, ErrCodeConnectTimeout, GetCode(err))

	// Non-structured errors map to unknown.
	assert.Equal(t, ErrCodeUnknown, GetCode(fmt.Errorf("plain error")))
	assert.Equal(t, ErrCodeUnknown, GetCode(nil))
}

func TestGetCodeWrappedChain(t *testing.T) {
	inner := New(ErrCodeServerError, "server reported failure")
	outer := fmt.Errorf("handling frame: %w", inner)

	assert.Equal(t, ErrCodeServerError, GetCode(outer))
	assert.True(t, HasCode(outer, ErrCodeServerError))
	assert.False(t, HasCode(outer, ErrCodeConnectTimeout))
}

func TestAs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(ErrCodeNotConnected, "no live session"))

	var structured *Error
	require.True(t, As(err, &structured))
	assert.Equal(t, ErrCodeNotConnected, structured.Code)
}
