package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL subscription repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindByEmail retrieves a subscription by normalized email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*Subscription, error) {
	query := `
		SELECT
			email, threshold,
			has_asthma, has_allergies, has_respiratory_conditions,
			other_conditions, condition_severity,
			active, last_notified_at, created_at, updated_at
		FROM subscriptions
		WHERE email = $1
	`

	sub, err := scanSubscription(r.pool.QueryRow(ctx, query, NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

// Upsert creates a subscription or replaces the preferences of an existing
// one. LastNotifiedAt and CreatedAt are preserved across re-subscribes.
func (r *PostgresRepository) Upsert(ctx context.Context, sub *Subscription) error {
	query := `
		INSERT INTO subscriptions (
			email, threshold,
			has_asthma, has_allergies, has_respiratory_conditions,
			other_conditions, condition_severity, active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO UPDATE SET
			threshold = EXCLUDED.threshold,
			has_asthma = EXCLUDED.has_asthma,
			has_allergies = EXCLUDED.has_allergies,
			has_respiratory_conditions = EXCLUDED.has_respiratory_conditions,
			other_conditions = EXCLUDED.other_conditions,
			condition_severity = EXCLUDED.condition_severity,
			active = EXCLUDED.active,
			updated_at = now()
		RETURNING last_notified_at, created_at, updated_at
	`

	return r.pool.QueryRow(ctx, query,
		NormalizeEmail(sub.Email),
		sub.Threshold,
		sub.Health.HasAsthma,
		sub.Health.HasAllergies,
		sub.Health.HasRespiratoryConditions,
		sub.Health.OtherConditions,
		string(sub.Health.ConditionSeverity),
		sub.Active,
	).Scan(&sub.LastNotifiedAt, &sub.CreatedAt, &sub.UpdatedAt)
}

// ListActive retrieves all active subscriptions.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]Subscription, error) {
	query := `
		SELECT
			email, threshold,
			has_asthma, has_allergies, has_respiratory_conditions,
			other_conditions, condition_severity,
			active, last_notified_at, created_at, updated_at
		FROM subscriptions
		WHERE active
		ORDER BY email
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// MarkNotified records the last successful notification time. The write is
// synchronous, so the cooldown check in the next dispatch pass sees it.
func (r *PostgresRepository) MarkNotified(ctx context.Context, email string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subscriptions SET last_notified_at = $2, updated_at = now() WHERE email = $1`,
		NormalizeEmail(email), at,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive flips the active flag for an existing subscription.
func (r *PostgresRepository) SetActive(ctx context.Context, email string, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subscriptions SET active = $2, updated_at = now() WHERE email = $1`,
		NormalizeEmail(email), active,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*Subscription, error) {
	var (
		sub      Subscription
		severity string
	)
	err := row.Scan(
		&sub.Email,
		&sub.Threshold,
		&sub.Health.HasAsthma,
		&sub.Health.HasAllergies,
		&sub.Health.HasRespiratoryConditions,
		&sub.Health.OtherConditions,
		&severity,
		&sub.Active,
		&sub.LastNotifiedAt,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.Health.ConditionSeverity = Severity(severity)
	return &sub, nil
}
