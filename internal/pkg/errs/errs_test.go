package errs_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", "0b7c")

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, "0b7c", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 0b7c", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewObjectNotFoundErrorWithCause("order", "0b7c", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: order, ID is: 0b7c (cause: connection reset)",
			err.Error())
	})

	t.Run("non string identifiers are still rendered", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("slaJob", 42)
		assert.Equal(t, "object not found: %!s(int=42)", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("status")

		assert.Equal(t, "value is invalid: status", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("status", errors.New("BOGUS is not a valid status"))

		assert.Equal(t, "value is invalid: status (cause: BOGUS is not a valid status)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("escalationIndex", 5, 0, 1)

		assert.Equal(t, 5, err.Value)
		assert.Equal(t,
			"value is invalid: 5 is escalationIndex, min value is 0, max value is 1",
			err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("totalAmount", -5, 0, 100, errors.New("negative"))

		assert.Equal(t,
			"value is invalid: -5 is totalAmount, min value is 0, max value is 100 (cause: negative)",
			err.Error())
	})

	t.Run("newlines are flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("reason", "too\nlong", 0, 10)
		assert.Contains(t, err.Error(), "too long")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("tenantID")
	assert.Equal(t, "value is required: tenantID", err.Error())

	withCause := errs.NewValueIsRequiredErrorWithCause("tenantID", errors.New("empty header"))
	assert.Equal(t, "value is required: tenantID (cause: empty header)", withCause.Error())
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	require.ErrorIs(t, errs.NewObjectNotFoundError("order", "1"), errs.ErrObjectNotFound)
	require.ErrorIs(t, errs.NewValueIsInvalidError("status"), errs.ErrValueIsInvalid)
	require.ErrorIs(t, errs.NewValueIsOutOfRangeError("step", 3, 0, 1), errs.ErrValueIsOutOfRange)
	require.ErrorIs(t, errs.NewValueIsRequiredError("reason"), errs.ErrValueIsRequired)

	var notFound *errs.ObjectNotFoundError
	wrapped := errors.Join(errors.New("load failed"), errs.NewObjectNotFoundError("order", "1"))
	require.ErrorAs(t, wrapped, &notFound)
	assert.Equal(t, "order", notFound.ParamName)
}
