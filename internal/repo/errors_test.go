package repo

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("not a pg error")))
	assert.False(t, isUniqueViolation(nil))
}

// TestApplicationRepo_Create, GetByClientID, RotateSecret, and the
// conditional MarkUsed/Revoke updates that back §5's single-use and
// rotation invariants all need a live Postgres instance; the teacher's own
// repository tests (services/identify/repositories/tenant_repository_test.go)
// take the same t.Skip approach rather than mocking pgx.
func TestRepos_RequireLiveDatabase(t *testing.T) {
	t.Skip("requires a live database; see DESIGN.md for the conditional-update invariants this would cover")
}
