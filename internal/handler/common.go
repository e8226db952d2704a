// Package handler exposes the JSON HTTP endpoints: public browsing and
// search, accounts and favorites, and the staff-only catalog management.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/kino/internal/logging"
	"github.com/iliyamo/kino/internal/repository"
	"github.com/iliyamo/kino/internal/service"
)

// dbTimeout bounds the storage work of a single request.
const dbTimeout = 5 * time.Second

var notFound = []error{
	repository.ErrMovieNotFound,
	repository.ErrGenreNotFound,
	repository.ErrCinemaNotFound,
	repository.ErrHallNotFound,
	repository.ErrSessionNotFound,
	repository.ErrTicketNotFound,
	repository.ErrUserNotFound,
	repository.ErrFavoriteNotFound,
}

// requestCtx derives the storage context of a request.
func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func invalidID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
}

// respondError maps service and repository errors onto status codes.
// Anything unrecognised is logged and reported as a database error.
func respondError(c echo.Context, err error) error {
	if ve, ok := service.AsValidation(err); ok {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": ve.Fields})
	}
	for _, nf := range notFound {
		if errors.Is(err, nf) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": nf.Error()})
		}
	}
	switch {
	case errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrUsernameExists),
		errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	logging.Error().Err(err).
		Str("method", c.Request().Method).
		Str("route", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
