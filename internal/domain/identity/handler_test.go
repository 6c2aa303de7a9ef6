package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/afyajamii/afya/internal/errs"
	"github.com/afyajamii/afya/internal/platform/auth"
)

func newTestHandler() (*Handler, *mockRepo) {
	repo := newMockRepo()
	return NewHandler(newTestService(repo)), repo
}

func TestSignup_Created(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	body := `{"username":"amina","email":"amina@example.com","full_name":"Amina Wanjiru","account_type":"pregnant","password":"s3cret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Signup(c); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["username"] != "amina" {
		t.Errorf("username = %v", resp["username"])
	}
	if _, ok := resp["id"]; !ok {
		t.Error("response missing id")
	}
	if _, leaked := resp["hashed_password"]; leaked {
		t.Error("response leaks password hash")
	}
}

func TestSignup_DuplicatePropagates(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	body := `{"username":"amina","email":"amina@example.com","full_name":"Amina Wanjiru","account_type":"pregnant","password":"s3cret-pass"}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.Signup(c)
		if i == 0 && err != nil {
			t.Fatalf("first Signup: %v", err)
		}
		if i == 1 && !errors.Is(err, errs.ErrDuplicateIdentity) {
			t.Errorf("err = %v, want ErrDuplicateIdentity", err)
		}
	}
}

func TestSignup_BadBody(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Signup(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", httpErr.Code)
	}
}

func TestLogin_ReturnsToken(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	if _, err := h.svc.Register(context.Background(), validInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	body := `{"username":"amina","password":"s3cret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("empty access_token")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("token_type = %q, want bearer", resp.TokenType)
	}
	if resp.ExpiresIn != 1800 {
		t.Errorf("expires_in = %d, want 1800", resp.ExpiresIn)
	}
}

func meRequest(e *echo.Echo, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	ctx = context.WithValue(ctx, auth.UsernameKey, "amina")
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestMe_ReturnsAccount(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	u, err := h.svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	c, rec := meRequest(e, u.ID)
	if err := h.Me(c); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["username"] != "amina" {
		t.Errorf("username = %v", resp["username"])
	}
	if _, leaked := resp["hashed_password"]; leaked {
		t.Error("response leaks password hash")
	}
}

func TestMe_InactiveAccount(t *testing.T) {
	h, repo := newTestHandler()
	e := echo.New()

	u, err := h.svc.Register(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	repo.byID[u.ID].Active = false

	c, _ := meRequest(e, u.ID)
	if err := h.Me(c); !errors.Is(err, errs.ErrAccountInactive) {
		t.Errorf("err = %v, want ErrAccountInactive", err)
	}
}

func TestMe_Unauthenticated(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Me(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", httpErr.Code)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	body := `{"username":"ghost","password":"whatever1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Login(c)
	if !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}
