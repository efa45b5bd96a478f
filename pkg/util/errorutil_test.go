package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewThreadClosed("FB-1234ABCD")
	mapped := ToDomainError(original)
	assert.Equal(t, "THREAD_CLOSED", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
	assert.Equal(t, "FB-1234ABCD", mapped.Details["thread_id"])
}

func TestToDomainErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading thread: %w", NewNotFound("thread", nil))
	mapped := ToDomainError(wrapped)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
}

func TestToDomainErrorNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("dial tcp: connection refused"))
	assert.Equal(t, "STORE_UNAVAILABLE", mapped.Code)
	assert.Equal(t, http.StatusServiceUnavailable, mapped.HTTPStatus)
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(NewForbidden("nope"), "FORBIDDEN"))
	assert.False(t, IsCode(NewForbidden("nope"), "NOT_FOUND"))
	assert.False(t, IsCode(errors.New("plain"), "FORBIDDEN"))
	assert.False(t, IsCode(nil, "FORBIDDEN"))
}
