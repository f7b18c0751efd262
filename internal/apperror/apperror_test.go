package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("apply delta: %w", InsufficientStock())

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.NotErrorIs(t, err, ErrVersionConflict)
}

func TestInvalidReference_StoreAndProductShareCode(t *testing.T) {
	assert.ErrorIs(t, InvalidStore(), ErrInvalidReference)
	assert.ErrorIs(t, InvalidProduct(), ErrInvalidReference)
	assert.Equal(t, MsgInvalidStore, InvalidStore().Message)
	assert.Equal(t, MsgInvalidProduct, InvalidProduct().Message)
}

func TestFromError(t *testing.T) {
	t.Run("app error passes through", func(t *testing.T) {
		appErr := FromError(fmt.Errorf("wrapped: %w", VersionConflict()))
		assert.Equal(t, CodeVersionConflict, appErr.Code)
		assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		cause := errors.New("connection reset")
		appErr := FromError(cause)
		assert.Equal(t, CodeInternalError, appErr.Code)
		assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
		assert.ErrorIs(t, appErr, cause)
	})

	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, FromError(nil))
	})
}

func TestIsBusiness(t *testing.T) {
	assert.True(t, IsBusiness(InsufficientStock()))
	assert.True(t, IsBusiness(InvalidStore()))
	assert.True(t, IsBusiness(InvalidQuantity()))
	assert.False(t, IsBusiness(VersionConflict()))
	assert.False(t, IsBusiness(errors.New("boom")))
}

func TestSentinelsAreNotMutatedByConstructors(t *testing.T) {
	_ = InsufficientStock().WithDetail("store_id", "1")
	assert.Nil(t, ErrInsufficientStock.Details)
}
