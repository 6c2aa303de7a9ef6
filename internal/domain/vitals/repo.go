package vitals

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Submission) error
	// ListByUser returns the user's submissions newest first, at most limit.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Submission, error)
	// Latest returns the most recent submission or errs.ErrNotFound.
	Latest(ctx context.Context, userID uuid.UUID) (*Submission, error)
}
