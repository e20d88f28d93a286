package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"gorm not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, ErrConflict},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, ErrInUse},
		{"pgx unique", &pgconn.PgError{Code: "23505"}, ErrConflict},
		{"pgx foreign key wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), ErrInUse},
		{"pq unique", &pq.Error{Code: "23505"}, ErrConflict},
		{"pq foreign key", &pq.Error{Code: "23503"}, ErrInUse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("Expected original error to stay wrapped, got %v", got)
			}
		})
	}
}

func TestTranslateError_PassesThroughUnknown(t *testing.T) {
	plain := errors.New("connection reset")
	if got := translateError(plain); got != plain {
		t.Errorf("Expected unknown error unchanged, got %v", got)
	}

	other := &pgconn.PgError{Code: "40001"}
	if got := translateError(other); errors.Is(got, ErrConflict) || errors.Is(got, ErrInUse) {
		t.Errorf("Expected serialization failure not to map to a sentinel, got %v", got)
	}

	if translateError(nil) != nil {
		t.Error("Expected nil for nil")
	}
}
