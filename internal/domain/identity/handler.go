package identity

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/afyajamii/afya/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the auth endpoints on g. Rate limits are applied by
// the caller so login and signup can carry different budgets.
func (h *Handler) RegisterRoutes(g *echo.Group, loginLimit, signupLimit echo.MiddlewareFunc) {
	g.POST("/signup", h.Signup, signupLimit)
	g.POST("/login", h.Login, loginLimit)
}

// RegisterProtectedRoutes mounts the endpoints that require a bearer token.
func (h *Handler) RegisterProtectedRoutes(g *echo.Group) {
	g.GET("/auth/me", h.Me)
}

type userResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	AccountType string `json:"account_type"`
	CreatedAt   string `json:"created_at"`
}

func (h *Handler) Signup(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	u, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		AccountType: string(u.AccountType),
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// Me returns the authenticated user's own account record.
func (h *Handler) Me(c echo.Context) error {
	userID, _, ok := auth.UserFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	u, err := h.svc.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		AccountType: string(u.AccountType),
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (h *Handler) Login(c echo.Context) error {
	var in loginRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, expiresIn, err := h.svc.Authenticate(c.Request().Context(), in.Username, in.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
	})
}
