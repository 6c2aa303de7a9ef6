package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Turn maps to the conversation_turns table. One turn pairs a user message
// with the assistant response it produced. Seq is assigned by the store and
// breaks ties between turns sharing a creation timestamp, so chronological
// replay is total.
type Turn struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	UserID             uuid.UUID  `db:"user_id" json:"user_id"`
	VitalsSubmissionID *uuid.UUID `db:"vitals_submission_id" json:"vitals_submission_id,omitempty"`
	UserMessage        string     `db:"user_message" json:"user_message"`
	AIResponse         string     `db:"ai_response" json:"ai_response"`
	Seq                int64      `db:"seq" json:"-"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}
