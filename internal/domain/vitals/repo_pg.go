package vitals

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/afyajamii/afya/internal/errs"
)

type repoPG struct {
	db querier
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{db: pool}
}

const submissionCols = `id, user_id, age, systolic_bp, diastolic_bp, bs, body_temp, body_temp_unit,
	heart_rate, patient_history, account_type, ml_risk_label, ml_probability, ml_feature_importances, created_at`

func (r *repoPG) Create(ctx context.Context, s *Submission) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO vitals_submissions (
			id, user_id, age, systolic_bp, diastolic_bp, bs, body_temp, body_temp_unit,
			heart_rate, patient_history, account_type, ml_risk_label, ml_probability,
			ml_feature_importances, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		s.ID, s.UserID, s.Age, s.SystolicBP, s.DiastolicBP, s.BS, s.BodyTemp, s.BodyTempUnit,
		s.HeartRate, s.PatientHistory, s.AccountType, s.RiskLabel, s.RiskProbability,
		s.FeatureImportances, s.CreatedAt,
	)
	return err
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Submission, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+submissionCols+`
		FROM vitals_submissions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repoPG) Latest(ctx context.Context, userID uuid.UUID) (*Submission, error) {
	s, err := scanSubmission(r.db.QueryRow(ctx, `
		SELECT `+submissionCols+`
		FROM vitals_submissions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func scanSubmission(row pgx.Row) (*Submission, error) {
	var s Submission
	err := row.Scan(
		&s.ID, &s.UserID, &s.Age, &s.SystolicBP, &s.DiastolicBP, &s.BS, &s.BodyTemp, &s.BodyTempUnit,
		&s.HeartRate, &s.PatientHistory, &s.AccountType, &s.RiskLabel, &s.RiskProbability,
		&s.FeatureImportances, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}
