package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/kino/internal/service"
)

// SearchPage handles GET /search/?q=&page=.  A blank query redirects to the
// movie list; an out of range page is clamped.
func (h *PublicHandler) SearchPage(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	res, err := h.Search.Search(ctx, c.QueryParam("q"), c.QueryParam("page"), h.now())
	if errors.Is(err, service.ErrEmptyQuery) {
		return c.Redirect(http.StatusFound, "/movies/")
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
