package candydelivery

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {

	inner := &Error{Code: ENOTFOUND, Message: "courier not found"}
	wrapped := OpError("usecase.courier.GetById", inner)

	assert.Equal(t, ENOTFOUND, ErrorCode(wrapped))
	assert.Equal(t, EINVALID, ErrorCode(ErrorWithCode(errors.New("bad weight"), EINVALID)))
	assert.Equal(t, EINTERNAL, ErrorCode(errors.New("broken pipe")))
	assert.Equal(t, "", ErrorCode(nil))
}

func TestErrorMessage(t *testing.T) {

	inner := &Error{Code: ENOTFOUND, Message: "courier not found"}
	wrapped := OpError("a", OpError("b", inner))

	assert.Equal(t, "courier not found", ErrorMessage(wrapped))

	// a chain without an explicit message falls through to the leaf text
	leaf := ErrorWithCode(errors.New("weight out of range"), EINVALID)
	assert.Equal(t, "weight out of range", ErrorMessage(leaf))

	assert.Equal(t, DefaultErrorMessage, ErrorMessage(&Error{Code: EINTERNAL}))
}

func TestErrorFields(t *testing.T) {

	batch := &Error{
		Code:    EINVALID,
		Message: "couriers validation failed",
		Fields:  map[string]interface{}{"couriers": []InvalidItem{{ID: 3}}},
	}

	fields := ErrorFields(OpError("usecase.courier.CreateCouriers", batch))
	assert.Equal(t, batch.Fields, fields)

	assert.Nil(t, ErrorFields(errors.New("plain")))
	assert.Nil(t, ErrorFields(&Error{Code: EINVALID, Message: "no fields"}))
}

func TestErrCodeToHTTPStatus(t *testing.T) {

	assert.Equal(t, http.StatusBadRequest, ErrCodeToHTTPStatus(&Error{Code: EINVALID}))
	assert.Equal(t, http.StatusBadRequest, ErrCodeToHTTPStatus(&Error{Code: ENOTFOUND}))
	assert.Equal(t, http.StatusConflict, ErrCodeToHTTPStatus(&Error{Code: ECONFLICT}))
	assert.Equal(t, http.StatusInternalServerError, ErrCodeToHTTPStatus(errors.New("boom")))
}
