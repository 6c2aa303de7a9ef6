package conversation

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, t *Turn) error
	// ListByUser returns the user's turns newest first, at most limit.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Turn, error)
	// ListByUserChronological returns every turn oldest first, for prompt
	// history replay. Ties on created_at are broken by insertion order.
	ListByUserChronological(ctx context.Context, userID uuid.UUID) ([]*Turn, error)
}
