package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/service"
)

// MovieHandler is the staff movie editor.  The GET forms return the field
// schema, the current values and the genres to choose from.
type MovieHandler struct {
	Movies *service.MovieService
	Genres *service.GenreService
}

func NewMovieHandler(movies *service.MovieService, genres *service.GenreService) *MovieHandler {
	return &MovieHandler{Movies: movies, Genres: genres}
}

type movieForm struct {
	Fields []service.FormField `json:"fields"`
	Values service.MovieInput  `json:"values"`
	Genres []model.Genre       `json:"genres"`
}

func (h *MovieHandler) form(c echo.Context, values service.MovieInput) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	genres, err := h.Genres.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	if values.GenreIDs == nil {
		values.GenreIDs = []uint64{}
	}
	return c.JSON(http.StatusOK, movieForm{Fields: service.MovieForm, Values: values, Genres: genres})
}

// CreateForm handles GET /movies/create/.
func (h *MovieHandler) CreateForm(c echo.Context) error {
	return h.form(c, service.MovieInput{})
}

// Create handles POST /movies/create/.
func (h *MovieHandler) Create(c echo.Context) error {
	var in service.MovieInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	m, err := h.Movies.Create(ctx, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// EditForm handles GET /movies/:id/edit/.
func (h *MovieHandler) EditForm(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	m, err := h.Movies.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return h.form(c, service.MovieInputFrom(&m))
}

// Update handles POST and PUT /movies/:id/edit/.
func (h *MovieHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var in service.MovieInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	m, err := h.Movies.Update(ctx, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles POST and DELETE /movies/:id/delete/.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	if err := h.Movies.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
