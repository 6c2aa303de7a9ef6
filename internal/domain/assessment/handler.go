package assessment

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/afyajamii/afya/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/vitals/submit", h.Submit)
	g.POST("/chat/advice", h.Chat)
}

func (h *Handler) Submit(c echo.Context) error {
	userID, _, ok := auth.UserFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var in SubmitInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.svc.Submit(c.Request().Context(), userID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

type chatRequest struct {
	Question string `json:"question"`
}

func (h *Handler) Chat(c echo.Context) error {
	userID, _, ok := auth.UserFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var in chatRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.svc.FollowUp(c.Request().Context(), userID, in.Question)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
