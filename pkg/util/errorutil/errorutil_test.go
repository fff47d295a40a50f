package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewConflict("feedback already submitted", map[string]any{"ticket_id": "t1"})
	mapped := ToDomainError(original)
	require.Equal(t, CodeConflict, mapped.Code)
	require.Equal(t, http.StatusConflict, mapped.HTTPStatus)
	require.Equal(t, "t1", mapped.Details["ticket_id"])
}

func TestToDomainErrorWrapsNoRowsAsNotFound(t *testing.T) {
	mapped := ToDomainError(fmt.Errorf("load ticket: %w", pgx.ErrNoRows))
	require.Equal(t, CodeNotFound, mapped.Code)
	require.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorHidesStorageDetails(t *testing.T) {
	mapped := ToDomainError(errors.New("pq: relation tickets does not exist"))
	require.Equal(t, CodeInternal, mapped.Code)
	require.Equal(t, "internal server error", mapped.Message)
	// the cause stays attached for server-side logging
	require.Contains(t, mapped.Error(), "relation tickets")
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("submit: %w", NewInvalidState("ticket not completed", nil))
	require.True(t, IsCode(err, CodeInvalidState))
	require.False(t, IsCode(err, CodeConflict))
	require.False(t, IsCode(nil, CodeConflict))
}
