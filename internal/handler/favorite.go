package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/kino/internal/middleware"
	"github.com/iliyamo/kino/internal/repository"
)

// FavoriteHandler manages the caller's bookmarked movies.  Routes are
// mounted behind JWTAuth.
type FavoriteHandler struct {
	Favorites *repository.FavoriteRepo
}

func NewFavoriteHandler(f *repository.FavoriteRepo) *FavoriteHandler {
	return &FavoriteHandler{Favorites: f}
}

// List handles GET /favorites/.
func (h *FavoriteHandler) List(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	items, err := h.Favorites.ListByUser(ctx, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Add handles POST /favorites/:movie_id/.  Adding a movie twice returns
// the existing record with 200.
func (h *FavoriteHandler) Add(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, ok := parseID(c, "movie_id")
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	fav, created, err := h.Favorites.Add(ctx, uid, movieID, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, fav)
}

// Remove handles DELETE /favorites/:movie_id/.
func (h *FavoriteHandler) Remove(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, ok := parseID(c, "movie_id")
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	if err := h.Favorites.Remove(ctx, uid, movieID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
