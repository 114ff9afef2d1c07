package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func pgError(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, Message: "simulated"}
}

// 40001 (serialization_failure) y 40P01 (deadlock_detected) son los únicos
// códigos que disparan el reintento de la transacción; cualquier otro error
// corta el loop y se devuelve tal cual.
func TestIsSerializationFailure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization_failure reintenta", pgError("40001"), true},
		{"deadlock_detected reintenta", pgError("40P01"), true},
		{"envuelto con %w se detecta igual", fmt.Errorf("exec insert: %w", pgError("40001")), true},
		{"unique_violation no reintenta", pgError("23505"), false},
		{"error plano no reintenta", errors.New("connection refused"), false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, isSerializationFailure(c.err), c.name)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(pgError("23505")))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert item: %w", pgError("23505"))))
	// Fallback por texto para drivers que no exponen *PgError.
	assert.True(t, isUniqueViolation(errors.New(`ERROR: duplicate key (SQLSTATE 23505)`)))
	assert.False(t, isUniqueViolation(pgError("40001")))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
}
