package leads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"leadpulse/internal/qualify"
	"leadpulse/pkg/utils"
)

// PostgresRepo persists leads in a single table. Schema (migrations live in
// deploy tooling):
//
//	CREATE TABLE leads (
//	    lead_id               UUID PRIMARY KEY,
//	    name                  TEXT NOT NULL,
//	    phone                 TEXT NOT NULL,
//	    email                 TEXT NOT NULL DEFAULT '',
//	    source                TEXT NOT NULL DEFAULT '',
//	    status                TEXT NOT NULL,
//	    provider_call_id      TEXT NOT NULL DEFAULT '',
//	    call_ended_reason     TEXT NOT NULL DEFAULT '',
//	    call_duration_seconds INT,
//	    motivation            TEXT,
//	    timeline              TEXT,
//	    budget                TEXT,
//	    authority             TEXT,
//	    past_experience       TEXT,
//	    intent                TEXT,
//	    qualification_score   INT,
//	    qualified_at          TIMESTAMPTZ,
//	    created_at            TIMESTAMPTZ NOT NULL,
//	    updated_at            TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX leads_provider_call_id_idx ON leads (provider_call_id);
type PostgresRepo struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db, clock: time.Now}
}

const leadColumns = `lead_id, name, phone, email, source, status, provider_call_id,
	call_ended_reason, call_duration_seconds,
	motivation, timeline, budget, authority, past_experience, intent,
	qualification_score, qualified_at, created_at, updated_at`

func (r *PostgresRepo) Create(ctx context.Context, lead Lead) error {
	if lead.ID == "" {
		return ErrInvalidArgument
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leads (lead_id, name, phone, email, source, status, provider_call_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		lead.ID, lead.Name, lead.Phone, lead.Email, lead.Source, lead.Status, lead.ProviderCallID,
		lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("leads: insert: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Get(ctx context.Context, leadID string) (Lead, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE lead_id = $1`, leadID)
	return scanLead(row)
}

func (r *PostgresRepo) GetByProviderCallID(ctx context.Context, providerCallID string) (Lead, error) {
	if providerCallID == "" {
		return Lead{}, ErrInvalidArgument
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE provider_call_id = $1`, providerCallID)
	return scanLead(row)
}

func (r *PostgresRepo) List(ctx context.Context, filter ListFilter) ([]Lead, error) {
	q := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Intent != "" {
		args = append(args, filter.Intent)
		q += fmt.Sprintf(" AND intent = $%d", len(args))
	}
	q += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("leads: list: %w", err)
	}
	defer rows.Close()

	out := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lead)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) SetCallPlaced(ctx context.Context, leadID, providerCallID string, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE leads SET provider_call_id = $2, status = $3, updated_at = $4
		WHERE lead_id = $1`,
		leadID, providerCallID, status, r.clock().UTC(),
	)
	if err != nil {
		return fmt.Errorf("leads: set call placed: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepo) SetQualification(ctx context.Context, leadID string, endedReason string, durationSeconds *int, q Qualification) error {
	now := r.clock().UTC()
	return utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE leads SET
				call_ended_reason = $2, call_duration_seconds = $3,
				motivation = $4, timeline = $5, budget = $6, authority = $7, past_experience = $8,
				intent = $9, qualification_score = $10, qualified_at = $11,
				status = $12, updated_at = $13
			WHERE lead_id = $1`,
			leadID, endedReason, durationSeconds,
			q.Motivation, q.Timeline, q.Budget, q.Authority, q.PastExperience,
			q.Intent, q.Score, q.QualifiedAt,
			StatusQualified, now,
		)
		if err != nil {
			return fmt.Errorf("leads: set qualification: %w", err)
		}
		return requireRow(res)
	})
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (Lead, error) {
	var lead Lead
	var duration sql.NullInt64
	var motivation, timeline, budget, authority, pastExp, intent sql.NullString
	var score sql.NullInt64
	var qualifiedAt sql.NullTime

	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Phone, &lead.Email, &lead.Source, &lead.Status, &lead.ProviderCallID,
		&lead.CallEndedReason, &duration,
		&motivation, &timeline, &budget, &authority, &pastExp, &intent,
		&score, &qualifiedAt, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, fmt.Errorf("leads: scan: %w", err)
	}

	if duration.Valid {
		d := int(duration.Int64)
		lead.CallDurationSeconds = &d
	}

	// A null intent means the lead has not been analyzed yet.
	if intent.Valid {
		lead.Qualification = &Qualification{
			Motivation:     motivation.String,
			Timeline:       timeline.String,
			Budget:         budget.String,
			Authority:      authority.String,
			PastExperience: pastExp.String,
			Intent:         qualify.Intent(intent.String),
			Score:          int(score.Int64),
			QualifiedAt:    qualifiedAt.Time,
		}
	}
	return lead, nil
}
