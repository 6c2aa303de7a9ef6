package conversation

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/afyajamii/afya/internal/platform/auth"
	"github.com/afyajamii/afya/pkg/pagination"
)

// DefaultHistoryLimit is the page size when the client does not ask for one.
const DefaultHistoryLimit = 20

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/history/conversations", h.History)
}

// History returns the caller's conversation turns newest first.
func (h *Handler) History(c echo.Context) error {
	userID, _, ok := auth.UserFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	limit := pagination.LimitFromContext(c, DefaultHistoryLimit)
	turns, err := h.repo.ListByUser(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	if turns == nil {
		turns = []*Turn{}
	}
	return c.JSON(http.StatusOK, turns)
}
