package assessment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/afyajamii/afya/internal/platform/auth"
)

func authedRequest(e *echo.Echo, method, target, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	ctx = context.WithValue(ctx, auth.UsernameKey, "amina")
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const submitBody = `{
	"vitals": {
		"age": 28, "systolic_bp": 120, "diastolic_bp": 80, "bs": 5.4,
		"body_temp": 36.8, "body_temp_unit": "celsius", "heart_rate": 76
	},
	"account_type": "pregnant"
}`

func TestSubmitEndpoint(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	c, rec := authedRequest(e, http.MethodPost, "/api/v1/vitals/submit", submitBody, uuid.New())
	if err := h.Submit(c); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	mlOut, ok := resp["ml_output"].(map[string]any)
	if !ok {
		t.Fatal("response missing ml_output")
	}
	if mlOut["risk_label"] != "low risk" {
		t.Errorf("risk_label = %v", mlOut["risk_label"])
	}
	llm, ok := resp["llm_advice"].(map[string]any)
	if !ok {
		t.Fatal("response missing llm_advice")
	}
	if llm["advice"] == "" {
		t.Error("empty advice")
	}
	if _, ok := resp["submission_id"]; !ok {
		t.Error("response missing submission_id")
	}
}

func TestSubmitEndpoint_Unauthenticated(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/vitals/submit", strings.NewReader(submitBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Submit(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", httpErr.Code)
	}
}

func TestChatEndpoint(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()
	userID := uuid.New()

	c, rec := authedRequest(e, http.MethodPost, "/api/v1/chat/advice", `{"question":"what foods should I eat?"}`, userID)
	if err := h.Chat(c); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp AdviceOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Advice == "" {
		t.Error("empty advice")
	}
	if resp.Timestamp.IsZero() {
		t.Error("missing timestamp")
	}
}

func TestChatEndpoint_BadBody(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := echo.New()

	c, _ := authedRequest(e, http.MethodPost, "/api/v1/chat/advice", "{broken", uuid.New())
	err := h.Chat(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", httpErr.Code)
	}
}
