package retry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	errBusy   = errors.New("file is busy")
	logger, _ = zap.NewDevelopment()
)

func TestRetrier_Do(t *testing.T) {
	tests := []struct {
		name          string
		opts          []Option
		operation     func(calls *int) Operation
		expectedError error
		expectedCalls int
	}{
		{
			name: "success on first attempt",
			operation: func(calls *int) Operation {
				return func(ctx context.Context) error {
					*calls++
					return nil
				}
			},
			expectedCalls: 1,
		},
		{
			name: "success after retry",
			operation: func(calls *int) Operation {
				return func(ctx context.Context) error {
					*calls++
					if *calls < 2 {
						return errBusy
					}
					return nil
				}
			},
			expectedCalls: 2,
		},
		{
			name: "max attempts reached",
			operation: func(calls *int) Operation {
				return func(ctx context.Context) error {
					*calls++
					return errBusy
				}
			},
			expectedError: errBusy,
			expectedCalls: 3,
		},
		{
			name: "non-retryable error stops immediately",
			opts: []Option{WithRetryableErrors([]error{errBusy})},
			operation: func(calls *int) Operation {
				return func(ctx context.Context) error {
					*calls++
					return fs.ErrPermission
				}
			},
			expectedError: fs.ErrPermission,
			expectedCalls: 1,
		},
		{
			name: "classifier accepts transient error",
			opts: []Option{WithClassifier(IsTransientFSError)},
			operation: func(calls *int) Operation {
				return func(ctx context.Context) error {
					*calls++
					if *calls == 1 {
						return &os.PathError{Op: "open", Path: "out.pdf", Err: syscall.EBUSY}
					}
					return nil
				}
			},
			expectedCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{
				WithMaxAttempts(3),
				WithInitialDelay(time.Millisecond),
				WithMaxDelay(5 * time.Millisecond),
			}, tt.opts...)
			r := New("test_write", logger, opts...)

			calls := 0
			err := r.Do(context.Background(), tt.operation(&calls))

			assert.Equal(t, tt.expectedCalls, calls)
			if tt.expectedError == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expectedError)

			var retryErr *RetryError
			require.True(t, errors.As(err, &retryErr))
			assert.Equal(t, "test_write", retryErr.Operation)
			assert.Equal(t, tt.expectedCalls, retryErr.Attempt)
		})
	}
}

func TestRetrier_DoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New("test_write", logger, WithInitialDelay(time.Second), WithMaxDelay(time.Second))

	calls := 0
	err := r.Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return errBusy
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetrier_NilLogger(t *testing.T) {
	r := New("test_write", nil)
	assert.NoError(t, r.Do(context.Background(), func(ctx context.Context) error { return nil }))
}

func TestRetrier_CalculateDelay(t *testing.T) {
	r := New("test_write", logger,
		WithInitialDelay(100*time.Millisecond),
		WithMaxDelay(time.Second),
		WithBackoffFactor(2.0),
	)

	tests := []struct {
		attempt       int
		expectedDelay time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			assert.Equal(t, tt.expectedDelay, r.calculateDelay(tt.attempt))
		})
	}
}

func TestIsTransientFSError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"busy", &os.PathError{Op: "open", Path: "a.pdf", Err: syscall.EBUSY}, true},
		{"interrupted", syscall.EINTR, true},
		{"sharing violation", &os.PathError{Op: "open", Path: "a.pdf", Err: syscall.Errno(32)}, true},
		{"not exist", &os.PathError{Op: "open", Path: "a.pdf", Err: syscall.ENOENT}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransientFSError(tt.err))
		})
	}
}
