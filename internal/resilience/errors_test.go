package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("status 404"), false},
		{"transient", NewTransientError(errors.New("status 429"), 429), true},
		{"wrapped transient", eris.Wrap(NewTransientError(errors.New("x"), 503), "ninjas: airquality"), true},
		{"op error", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, true},
		{"url error", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("EOF")}, true},
		{"canceled", &url.Error{Op: "Get", URL: "http://x", Err: context.Canceled}, false},
		{"message heuristic", fmt.Errorf("read: connection reset by peer"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsNetwork(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNetwork(syscall.ECONNRESET))
	assert.True(t, IsNetwork(fmt.Errorf("dial tcp: lookup api: no such host")))
	assert.False(t, IsNetwork(errors.New("invalid character '<' looking for beginning of value")))
	assert.False(t, IsNetwork(nil))
}

func TestIsTransientHTTPStatus(t *testing.T) {
	t.Parallel()

	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), "code %d", code)
	}
	for _, code := range []int{200, 400, 401, 404, 418} {
		assert.False(t, IsTransientHTTPStatus(code), "code %d", code)
	}
}

func TestTransientError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	te := NewTransientError(inner, 502)
	assert.ErrorIs(t, te, inner)
	assert.Equal(t, "inner", te.Error())
	assert.Equal(t, 502, te.StatusCode)
}
