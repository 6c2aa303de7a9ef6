package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/afyajamii/afya/internal/domain/conversation"
	"github.com/afyajamii/afya/internal/domain/identity"
	"github.com/afyajamii/afya/internal/domain/vitals"
	"github.com/afyajamii/afya/internal/errs"
	"github.com/afyajamii/afya/internal/platform/advice"
	"github.com/afyajamii/afya/internal/platform/ml"
)

// seedMessage is the user-side text recorded for the implicit first turn a
// vitals submission creates.
const seedMessage = "Initial assessment request"

// seedQuestion is what the advice model is asked on a fresh submission.
const seedQuestion = "Provide initial risk assessment and recommendations based on the vitals data."

// followUpContext frames every subsequent chat turn.
const followUpContext = "The user is asking a follow-up question."

// Classifier scores a vitals feature vector.
type Classifier interface {
	Predict(f ml.Features) (ml.Prediction, error)
}

// Advisor produces advice text from a rendered prompt.
type Advisor interface {
	Generate(ctx context.Context, p advice.Prompt) (string, error)
}

// Service orchestrates the submission flow: classify, persist, advise,
// record the turn. Within one request the vitals write strictly precedes
// the advice call, which strictly precedes the turn write.
type Service struct {
	vitalsRepo vitals.Repository
	turnRepo   conversation.Repository
	classifier Classifier
	advisor    Advisor
	logger     zerolog.Logger
}

func NewService(vitalsRepo vitals.Repository, turnRepo conversation.Repository, classifier Classifier, advisor Advisor, logger zerolog.Logger) *Service {
	return &Service{
		vitalsRepo: vitalsRepo,
		turnRepo:   turnRepo,
		classifier: classifier,
		advisor:    advisor,
		logger:     logger.With().Str("component", "assessment").Logger(),
	}
}

// SubmitInput carries a vitals submission request.
type SubmitInput struct {
	Vitals      vitals.Reading       `json:"vitals"`
	AccountType identity.AccountType `json:"account_type"`
}

// MLOutput is the classifier part of a submission response.
type MLOutput struct {
	RiskLabel          string             `json:"risk_label"`
	Probability        float64            `json:"probability"`
	FeatureImportances map[string]float64 `json:"feature_importances"`
}

// AdviceOutput is the advice part of a submission or chat response.
type AdviceOutput struct {
	Advice    string    `json:"advice"`
	Timestamp time.Time `json:"timestamp"`
}

// SubmitResult is the combined response for a vitals submission.
type SubmitResult struct {
	UserID       uuid.UUID    `json:"user_id"`
	SubmissionID uuid.UUID    `json:"submission_id"`
	Timestamp    time.Time    `json:"timestamp"`
	MLOutput     MLOutput     `json:"ml_output"`
	LLMAdvice    AdviceOutput `json:"llm_advice"`
}

// Submit runs the full assessment flow for one vitals reading.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, in SubmitInput) (*SubmitResult, error) {
	if err := in.Vitals.Validate(); err != nil {
		return nil, err
	}
	if !in.AccountType.Valid() {
		return nil, fmt.Errorf("%w: account type must be pregnant, postnatal or general", errs.ErrValidation)
	}

	pred, err := s.classifier.Predict(ml.Features{
		Age:         float64(in.Vitals.Age),
		SystolicBP:  float64(in.Vitals.SystolicBP),
		DiastolicBP: float64(in.Vitals.DiastolicBP),
		BS:          in.Vitals.BS,
		BodyTemp:    in.Vitals.TempFahrenheit(),
		HeartRate:   float64(in.Vitals.HeartRate),
	})
	if err != nil {
		return nil, err
	}

	importancesJSON, err := json.Marshal(pred.Importances)
	if err != nil {
		return nil, fmt.Errorf("encoding importances: %w", err)
	}

	submission := &vitals.Submission{
		UserID:             userID,
		Age:                in.Vitals.Age,
		SystolicBP:         in.Vitals.SystolicBP,
		DiastolicBP:        in.Vitals.DiastolicBP,
		BS:                 in.Vitals.BS,
		BodyTemp:           in.Vitals.BodyTemp,
		BodyTempUnit:       in.Vitals.BodyTempUnit,
		HeartRate:          in.Vitals.HeartRate,
		PatientHistory:     in.Vitals.PatientHistory,
		AccountType:        string(in.AccountType),
		RiskLabel:          pred.Label,
		RiskProbability:    pred.Probability,
		FeatureImportances: string(importancesJSON),
	}
	if err := s.vitalsRepo.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("persisting submission: %w", err)
	}

	adviceText := s.generate(ctx, advice.Prompt{
		Context:  s.submissionContext(in, pred, string(importancesJSON)),
		History:  "",
		Question: seedQuestion,
	})

	turn := &conversation.Turn{
		UserID:             userID,
		VitalsSubmissionID: &submission.ID,
		UserMessage:        seedMessage,
		AIResponse:         adviceText,
	}
	if err := s.turnRepo.Create(ctx, turn); err != nil {
		return nil, fmt.Errorf("persisting turn: %w", err)
	}

	now := time.Now().UTC()
	return &SubmitResult{
		UserID:       userID,
		SubmissionID: submission.ID,
		Timestamp:    now,
		MLOutput: MLOutput{
			RiskLabel:          pred.Label,
			Probability:        pred.Probability,
			FeatureImportances: pred.Importances,
		},
		LLMAdvice: AdviceOutput{Advice: adviceText, Timestamp: now},
	}, nil
}

// FollowUp answers a chat question with the full prior conversation
// replayed in chronological order.
func (s *Service) FollowUp(ctx context.Context, userID uuid.UUID, question string) (*AdviceOutput, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is required", errs.ErrValidation)
	}

	turns, err := s.turnRepo.ListByUserChronological(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	adviceText := s.generate(ctx, advice.Prompt{
		Context:  followUpContext,
		History:  renderHistory(turns),
		Question: question,
	})

	// Best-effort link to the latest submission; a chat without prior
	// vitals still records a turn.
	var submissionID *uuid.UUID
	latest, err := s.vitalsRepo.Latest(ctx, userID)
	switch {
	case err == nil:
		submissionID = &latest.ID
	case errors.Is(err, errs.ErrNotFound):
	default:
		s.logger.Warn().Err(err).Msg("could not resolve latest vitals for turn link")
	}

	turn := &conversation.Turn{
		UserID:             userID,
		VitalsSubmissionID: submissionID,
		UserMessage:        question,
		AIResponse:         adviceText,
	}
	if err := s.turnRepo.Create(ctx, turn); err != nil {
		return nil, fmt.Errorf("persisting turn: %w", err)
	}

	return &AdviceOutput{Advice: adviceText, Timestamp: time.Now().UTC()}, nil
}

// generate calls the advisor and degrades to fallback text instead of
// failing the flow.
func (s *Service) generate(ctx context.Context, p advice.Prompt) string {
	text, err := s.advisor.Generate(ctx, p)
	if err != nil {
		s.logger.Warn().Err(err).Msg("advice generation failed, using fallback")
		return advice.FallbackAdvice
	}
	return text
}

func (s *Service) submissionContext(in SubmitInput, pred ml.Prediction, importances string) string {
	history := in.Vitals.PatientHistory
	if history == "" {
		history = "No history"
	}
	return fmt.Sprintf(`The user has just submitted their vitals.
Patient Data:
- Age: %d years
- Blood Pressure: %d/%d mmHg
- Blood Sugar: %g mmol/L
- Body Temperature: %g°%s
- Heart Rate: %d bpm
- Account Type: %s
- Model Prediction: %s (Probability: %.2f)
- Feature Importances: %s
- Patient History: %s
`,
		in.Vitals.Age,
		in.Vitals.SystolicBP, in.Vitals.DiastolicBP,
		in.Vitals.BS,
		in.Vitals.BodyTemp, in.Vitals.BodyTempUnit,
		in.Vitals.HeartRate,
		in.AccountType,
		pred.Label, pred.Probability,
		importances,
		history,
	)
}

// renderHistory flattens turns oldest first into the transcript format the
// prompt expects.
func renderHistory(turns []*conversation.Turn) string {
	if len(turns) == 0 {
		return ""
	}
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, fmt.Sprintf("User: %s\nAI: %s", t.UserMessage, t.AIResponse))
	}
	return strings.Join(lines, "\n")
}
