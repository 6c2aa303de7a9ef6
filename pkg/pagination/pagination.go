package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// MaxLimit caps the page size any client can request.
const MaxLimit = 100

// LimitFromContext parses the limit query parameter. Missing, zero or
// malformed values fall back to def; anything above MaxLimit is clamped.
func LimitFromContext(c echo.Context, def int) int {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = def
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit
}
