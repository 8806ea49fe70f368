package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var (
	errTest   = errors.New("test error")
	logger, _ = zap.NewDevelopment()
)

func TestRetrier_Do(t *testing.T) {
	tests := []struct {
		name          string
		maxAttempts   int
		operation     Operation
		expectedError error
		retryable     []error
	}{
		{
			name:        "success on first attempt",
			maxAttempts: 3,
			operation: func(ctx context.Context) error {
				return nil
			},
			expectedError: nil,
		},
		{
			name:        "success after retry",
			maxAttempts: 3,
			operation: func() Operation {
				attempts := 0
				return func(ctx context.Context) error {
					attempts++
					if attempts < 2 {
						return errTest
					}
					return nil
				}
			}(),
			expectedError: nil,
		},
		{
			name:        "max attempts reached",
			maxAttempts: 3,
			operation: func(ctx context.Context) error {
				return errTest
			},
			expectedError: &Error{
				Attempt:       3,
				OriginalError: errTest,
			},
		},
		{
			name:        "non-retryable error stops immediately",
			maxAttempts: 3,
			operation: func(ctx context.Context) error {
				return errTest
			},
			retryable: []error{errors.New("other")},
			expectedError: &Error{
				Attempt:       1,
				OriginalError: errTest,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New("test", logger,
				WithMaxAttempts(tt.maxAttempts),
				WithInitialDelay(time.Millisecond),
				WithMaxDelay(5*time.Millisecond),
				WithRetryableErrors(tt.retryable),
			)

			err := r.Do(context.Background(), tt.operation)

			if tt.expectedError == nil {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			var retryErr *Error
			if errors.As(tt.expectedError, &retryErr) {
				var got *Error
				assert.True(t, errors.As(err, &got))
				assert.Equal(t, retryErr.Attempt, got.Attempt)
				assert.ErrorIs(t, got, errTest)
			}
		})
	}
}

func TestRetrier_Do_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New("test", logger, WithMaxAttempts(3), WithInitialDelay(time.Millisecond))
	err := r.Do(ctx, func(ctx context.Context) error {
		return errTest
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetrier_BackoffGrowsAndCaps(t *testing.T) {
	r := New("test", logger,
		WithInitialDelay(100*time.Millisecond),
		WithMaxDelay(300*time.Millisecond),
		WithBackoffFactor(2.0),
	)

	assert.Equal(t, 100*time.Millisecond, r.calculateDelay(1))
	assert.Equal(t, 200*time.Millisecond, r.calculateDelay(2))
	assert.Equal(t, 300*time.Millisecond, r.calculateDelay(3))
	assert.Equal(t, 300*time.Millisecond, r.calculateDelay(10))
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil, nil))
	assert.True(t, IsRetryable(errTest, nil))
	assert.True(t, IsRetryable(errTest, []error{errTest}))
	assert.False(t, IsRetryable(errTest, []error{errors.New("other")}))
}
