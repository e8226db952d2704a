package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/service"
	"github.com/iliyamo/kino/internal/utils"
)

// PublicHandler serves the unauthenticated pages: home, the movie list,
// movie details and search.
type PublicHandler struct {
	Browse *service.BrowseService
	Movies *service.MovieService
	Search *service.SearchService
	// Now is the clock used for "upcoming" and "today".  Defaults to time.Now.
	Now func() time.Time
}

func NewPublicHandler(browse *service.BrowseService, movies *service.MovieService, search *service.SearchService) *PublicHandler {
	return &PublicHandler{Browse: browse, Movies: movies, Search: search, Now: time.Now}
}

func (h *PublicHandler) now() time.Time {
	if h.Now == nil {
		return time.Now().UTC()
	}
	return h.Now().UTC()
}

// movieCard is a movie in list responses.
type movieCard struct {
	model.Movie
	PosterURL string `json:"poster_url"`
}

// Home handles GET /.
func (h *PublicHandler) Home(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	page, err := h.Browse.Home(ctx, h.now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// ListMovies handles GET /movies/ and returns every movie ordered by title.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	movies, err := h.Movies.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]movieCard, 0, len(movies))
	for _, m := range movies {
		out = append(out, movieCard{Movie: m, PosterURL: utils.PosterURL(m.Poster)})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// MovieDetail handles GET /movies/:id/.
func (h *PublicHandler) MovieDetail(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	d, err := h.Browse.Detail(ctx, id, h.now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}
