package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/uAvicii/0718/internal/domain"
)

func TestMapError_Nil(t *testing.T) {
	t.Parallel()

	if got := MapError(nil, "memory", uuid.New()); got != nil {
		t.Errorf("MapError(nil) = %v, want nil", got)
	}
}

func TestMapError_NoRowsMessage(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	got := MapError(pgx.ErrNoRows, "memory", id)

	if !errors.Is(got, domain.ErrNotFound) {
		t.Fatalf("MapError(ErrNoRows) does not wrap domain.ErrNotFound: %v", got)
	}
	if want := fmt.Sprintf("memory %s: not found", id); got.Error() != want {
		t.Errorf("MapError(ErrNoRows).Error() = %q, want %q", got.Error(), want)
	}
}

func TestMapError_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"wrapped no rows", fmt.Errorf("scan row: %w", pgx.ErrNoRows), domain.ErrNotFound},
		{"unique_violation", &pgconn.PgError{Code: "23505"}, domain.ErrAlreadyExists},
		{"foreign_key_violation", &pgconn.PgError{Code: "23503"}, domain.ErrNotFound},
		{"check_violation", &pgconn.PgError{Code: "23514"}, domain.ErrValidation},
		{"invalid_datetime_format", &pgconn.PgError{Code: "22007"}, domain.ErrValidation},
		{"wrapped unique_violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), domain.ErrAlreadyExists},
		{"deadline passes through", context.DeadlineExceeded, context.DeadlineExceeded},
		{"canceled passes through", context.Canceled, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MapError(tt.err, "memory", uuid.New())
			if !errors.Is(got, tt.wantErr) {
				t.Errorf("MapError(%v) does not wrap %v: %v", tt.err, tt.wantErr, got)
			}
		})
	}
}

func TestMapError_ContextIsNotDomainError(t *testing.T) {
	t.Parallel()

	got := MapError(context.DeadlineExceeded, "memory", uuid.New())
	if errors.Is(got, domain.ErrNotFound) || errors.Is(got, domain.ErrValidation) {
		t.Errorf("context error mapped to a domain error: %v", got)
	}
}

func TestMapError_UnknownPgError(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
	got := MapError(pgErr, "memory", uuid.New())

	var unwrapped *pgconn.PgError
	if !errors.As(got, &unwrapped) {
		t.Errorf("MapError(unknown PgError) does not wrap *pgconn.PgError: %v", got)
	}
	if errors.Is(got, domain.ErrNotFound) || errors.Is(got, domain.ErrAlreadyExists) || errors.Is(got, domain.ErrValidation) {
		t.Error("MapError(unknown PgError) should not map to a domain error")
	}
}

func TestMapError_StringKey(t *testing.T) {
	t.Parallel()

	got := MapError(errors.New("boom"), "profile", "singleton")
	if got.Error() != "profile singleton: boom" {
		t.Errorf("MapError message = %q", got.Error())
	}
}

func TestIsNoRows(t *testing.T) {
	t.Parallel()

	if !IsNoRows(fmt.Errorf("x: %w", pgx.ErrNoRows)) {
		t.Error("IsNoRows(wrapped ErrNoRows) = false")
	}
	if IsNoRows(errors.New("other")) {
		t.Error("IsNoRows(other) = true")
	}
}
