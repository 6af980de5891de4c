package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestSQLStateHelpers(t *testing.T) {
	wrapped := fmt.Errorf("insert ride: %w", &pgconn.PgError{Code: "23514"})

	if !IsCheckViolation(wrapped) {
		t.Fatalf("wrapped check violation not detected")
	}
	if IsUniqueViolation(wrapped) || IsForeignKeyViolation(wrapped) {
		t.Fatalf("wrong state matched")
	}
	if IsUniqueViolation(errors.New("plain")) || IsUniqueViolation(nil) {
		t.Fatalf("non pg errors must not match")
	}
}
