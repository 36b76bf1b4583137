package errs_test

import (
	"errors"
	"testing"

	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderID", "5f0d09a1")

		assert.Equal(t, "object not found: 5f0d09a1", err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("record not found")
		err := errs.NewObjectNotFoundErrorWithCause("driverID", "5f0d09a1", cause)

		assert.Equal(t,
			"object not found: param is: driverID, ID is: 5f0d09a1 (cause: record not found)",
			err.Error())
		assert.Equal(t, cause, err.Cause)
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("payment method")

		assert.Equal(t, "value is invalid: payment method", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("unknown vehicle type")
		err := errs.NewValueIsInvalidErrorWithCause("vehicle type", cause)

		assert.Equal(t, "value is invalid: vehicle type (cause: unknown vehicle type)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("rating", 5.5, 0.0, 5.0)

		assert.Equal(t, "value is invalid: 5.5 is rating, min value is 0, max value is 5", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("rejected by validator")
		err := errs.NewValueIsOutOfRangeErrorWithCause("latitude", 91.0, -90.0, 90.0, cause)

		assert.Equal(t,
			"value is invalid: 91 is latitude, min value is -90, max value is 90 (cause: rejected by validator)",
			err.Error())
	})

	t.Run("newlines are collapsed", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("address", "line one\nline two", 0, 10)

		assert.Contains(t, err.Error(), "line one line two")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("delivery address")

		assert.Equal(t, "value is required: delivery address", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("field missing in request")
		err := errs.NewValueIsRequiredErrorWithCause("buyer id", cause)

		assert.Equal(t, "value is required: buyer id (cause: field missing in request)", err.Error())
	})
}

func TestVersionIsInvalidError(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("optimistic lock conflict")
		err := errs.NewVersionIsInvalidError("order version", cause)

		assert.Equal(t, "version is invalid: order version (cause: optimistic lock conflict)", err.Error())
		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})

	t.Run("without cause", func(t *testing.T) {
		err := errs.NewVersionIsInvalidErrorWithCause("order version")

		assert.Equal(t, "version is invalid: order version", err.Error())
	})
}

func TestStorageError(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := errs.NewStorageError("update order", cause)

		assert.Equal(t, "storage failure: update order (cause: connection refused)", err.Error())
		assert.Equal(t, cause, err.Cause)
		require.ErrorIs(t, err, errs.ErrStorage)
	})

	t.Run("without cause", func(t *testing.T) {
		err := errs.NewStorageError("commit checkout", nil)

		assert.Equal(t, "storage failure: commit checkout", err.Error())
	})
}

func TestSentinels(t *testing.T) {
	t.Run("messages", func(t *testing.T) {
		assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
		assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
		assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
		assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
		assert.Equal(t, "version is invalid", errs.ErrVersionIsInvalid.Error())
		assert.Equal(t, "storage failure", errs.ErrStorage.Error())
	})

	t.Run("every constructed error unwraps to its sentinel", func(t *testing.T) {
		require.ErrorIs(t, errs.NewObjectNotFoundError("orderID", "x"), errs.ErrObjectNotFound)
		require.ErrorIs(t, errs.NewValueIsInvalidError("status"), errs.ErrValueIsInvalid)
		require.ErrorIs(t, errs.NewValueIsOutOfRangeError("rating", 6, 0, 5), errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, errs.NewValueIsRequiredError("buyer id"), errs.ErrValueIsRequired)
		require.ErrorIs(t, errs.NewVersionIsInvalidError("order version", errors.New("stale")), errs.ErrVersionIsInvalid)
		require.ErrorIs(t, errs.NewStorageError("load cart", errors.New("timeout")), errs.ErrStorage)
	})
}
