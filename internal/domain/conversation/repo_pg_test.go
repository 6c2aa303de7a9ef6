package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

var turnColNames = []string{"id", "user_id", "vitals_submission_id", "user_message", "ai_response", "seq", "created_at"}

func newMockPG(t *testing.T) (*repoPG, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	return &repoPG{db: mock}, mock
}

func TestRepoPG_Create_AssignsSeq(t *testing.T) {
	r, mock := newMockPG(t)
	defer mock.Close()

	userID := uuid.New()
	mock.ExpectQuery(`INSERT INTO conversation_turns`).
		WithArgs(pgxmock.AnyArg(), userID, pgxmock.AnyArg(), "Initial assessment request", "advice text", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(7)))

	turn := &Turn{
		UserID:      userID,
		UserMessage: "Initial assessment request",
		AIResponse:  "advice text",
	}
	if err := r.Create(context.Background(), turn); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if turn.Seq != 7 {
		t.Errorf("seq = %d, want 7", turn.Seq)
	}
	if turn.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
}

func TestRepoPG_ListByUserChronological(t *testing.T) {
	r, mock := newMockPG(t)
	defer mock.Close()

	userID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)

	rows := pgxmock.NewRows(turnColNames).
		AddRow(uuid.New(), userID, nil, "Initial assessment request", "first advice", int64(1), base).
		AddRow(uuid.New(), userID, nil, "what foods should I eat?", "second advice", int64(2), base.Add(time.Minute))

	mock.ExpectQuery(`SELECT .+ FROM conversation_turns\s+WHERE user_id = \$1\s+ORDER BY created_at ASC, seq ASC`).
		WithArgs(userID).
		WillReturnRows(rows)

	out, err := r.ListByUserChronological(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListByUserChronological: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Seq != 1 || out[1].Seq != 2 {
		t.Error("expected oldest first")
	}
}

func TestRepoPG_ListByUser_DescWithLimit(t *testing.T) {
	r, mock := newMockPG(t)
	defer mock.Close()

	userID := uuid.New()
	now := time.Now().UTC()

	rows := pgxmock.NewRows(turnColNames).
		AddRow(uuid.New(), userID, nil, "later", "later reply", int64(2), now).
		AddRow(uuid.New(), userID, nil, "earlier", "earlier reply", int64(1), now.Add(-time.Minute))

	mock.ExpectQuery(`SELECT .+ FROM conversation_turns\s+WHERE user_id = \$1\s+ORDER BY created_at DESC, seq DESC\s+LIMIT \$2`).
		WithArgs(userID, 20).
		WillReturnRows(rows)

	out, err := r.ListByUser(context.Background(), userID, 20)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(out) != 2 || out[0].UserMessage != "later" {
		t.Errorf("unexpected ordering: %+v", out)
	}
}
