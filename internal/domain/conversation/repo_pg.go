package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	db querier
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{db: pool}
}

const turnCols = `id, user_id, vitals_submission_id, user_message, ai_response, seq, created_at`

func (r *repoPG) Create(ctx context.Context, t *Turn) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	// seq comes from the table's sequence so insertion order survives
	// timestamp collisions.
	return r.db.QueryRow(ctx, `
		INSERT INTO conversation_turns (id, user_id, vitals_submission_id, user_message, ai_response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq`,
		t.ID, t.UserID, t.VitalsSubmissionID, t.UserMessage, t.AIResponse, t.CreatedAt,
	).Scan(&t.Seq)
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Turn, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+turnCols+`
		FROM conversation_turns
		WHERE user_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTurns(rows)
}

func (r *repoPG) ListByUserChronological(ctx context.Context, userID uuid.UUID) ([]*Turn, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+turnCols+`
		FROM conversation_turns
		WHERE user_id = $1
		ORDER BY created_at ASC, seq ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTurns(rows)
}

func collectTurns(rows pgx.Rows) ([]*Turn, error) {
	var out []*Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.UserID, &t.VitalsSubmissionID, &t.UserMessage, &t.AIResponse, &t.Seq, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}
