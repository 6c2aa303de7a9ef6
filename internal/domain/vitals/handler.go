package vitals

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/afyajamii/afya/internal/platform/auth"
	"github.com/afyajamii/afya/pkg/pagination"
)

// DefaultHistoryLimit is the page size when the client does not ask for one.
const DefaultHistoryLimit = 10

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/history/vitals", h.History)
}

// History returns the caller's submissions newest first.
func (h *Handler) History(c echo.Context) error {
	userID, _, ok := auth.UserFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	limit := pagination.LimitFromContext(c, DefaultHistoryLimit)
	records, err := h.repo.ListByUser(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	if records == nil {
		records = []*Submission{}
	}
	return c.JSON(http.StatusOK, records)
}
