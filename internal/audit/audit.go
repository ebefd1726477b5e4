package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/whatsb/whatsb-embedding-example/internal/db"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Issuance describes one token-exchange attempt. It never carries the
// issued token value or the upstream secret.
type Issuance struct {
	RequestID string
	Email     string
	Role      string
	Outcome   Outcome
	Detail    string
}

// Recorder persists issuance attempts. Recording is best-effort from the
// handler's point of view; a failing Recorder must not fail the exchange.
type Recorder interface {
	Record(ctx context.Context, iss Issuance) error
}

// Noop discards every record. Used when no database is configured.
type Noop struct{}

func (Noop) Record(context.Context, Issuance) error { return nil }

// PostgresRecorder writes one row per issuance attempt.
type PostgresRecorder struct {
	db *db.DB
}

func NewPostgresRecorder(database *db.DB) *PostgresRecorder {
	return &PostgresRecorder{db: database}
}

func (r *PostgresRecorder) Record(ctx context.Context, iss Issuance) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO token_issuances (id, request_id, email, role, outcome, detail)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		uuid.NewString(),
		iss.RequestID,
		iss.Email,
		iss.Role,
		string(iss.Outcome),
		iss.Detail,
	)
	return err
}
