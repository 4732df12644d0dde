package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	apperrors "event-booking/pkg/app_errors"

	"github.com/stretchr/testify/assert"
)

func TestFieldError(t *testing.T) {
	t.Run("Required message and kind", func(t *testing.T) {
		err := apperrors.Required("venue")
		assert.Equal(t, "venue is required and must be non-empty", err.Error())
		assert.ErrorIs(t, err, apperrors.ErrRequiredField)
		assert.NotErrorIs(t, err, apperrors.ErrFormat)
		assert.Equal(t, "venue", apperrors.FieldOf(err))
	})

	t.Run("Email message", func(t *testing.T) {
		err := apperrors.InvalidEmail("not-an-email")
		assert.Equal(t, "not-an-email is not a valid email", err.Error())
		assert.ErrorIs(t, err, apperrors.ErrFormat)
	})

	t.Run("Wrapped field error keeps kind", func(t *testing.T) {
		err := fmt.Errorf("create booking: %w", apperrors.EventNotFound())
		assert.ErrorIs(t, err, apperrors.ErrReferential)
		assert.Equal(t, "eventId", apperrors.FieldOf(err))
		assert.False(t, apperrors.IsRetryable(err))
	})
}

func TestInfrastructureError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	err := apperrors.Infrastructure("connect postgres", cause)
	assert.ErrorIs(t, err, apperrors.ErrInfrastructure)
	assert.ErrorIs(t, err, cause)
	assert.True(t, apperrors.IsRetryable(err))
	assert.Equal(t, "connect postgres: dial tcp: connection refused", err.Error())

	// 不重複包裝
	again := apperrors.Infrastructure("exists event", err)
	assert.Same(t, err, again)

	assert.Nil(t, apperrors.Infrastructure("noop", nil))
}
