package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	unique := fmt.Errorf("create item: %w", &pgconn.PgError{Code: "23505"})
	serialization := fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40001"})
	deadlock := &pgconn.PgError{Code: "40P01"}
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(serialization))
	assert.True(t, isRetryable(serialization))
	assert.True(t, isRetryable(deadlock))
	assert.False(t, isRetryable(unique))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isRetryable(errors.New("connection reset")))
	assert.False(t, isRetryable(nil))
}

func TestLimitArg(t *testing.T) {
	assert.Nil(t, limitArg(0))
	assert.Nil(t, limitArg(-1))
	assert.Equal(t, 20, limitArg(20))
}
