// Package router registers the HTTP routes and their middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/kino/internal/handler"
	"github.com/iliyamo/kino/internal/metrics"
	"github.com/iliyamo/kino/internal/middleware"
	"github.com/iliyamo/kino/internal/model"
	"github.com/iliyamo/kino/internal/service"
)

// Handlers is everything the router mounts.
type Handlers struct {
	Health    *handler.HealthHandler
	Public    *handler.PublicHandler
	Auth      *handler.AuthHandler
	Movies    *handler.MovieHandler
	Favorites *handler.FavoriteHandler
	Admin     Admin
}

// Admin holds the staff CRUD handlers, one per catalog entity.
type Admin struct {
	Genres   *handler.AdminHandler[model.Genre, service.GenreInput]
	Cinemas  *handler.AdminHandler[model.Cinema, service.CinemaInput]
	Halls    *handler.AdminHandler[model.Hall, service.HallInput]
	Sessions *handler.AdminHandler[service.SessionView, service.SessionInput]
	Tickets  *handler.AdminHandler[model.Ticket, service.TicketInput]
}

// Options carries the per-group middleware.  Nil entries are skipped.
type Options struct {
	JWTSecret string
	// Cache wraps the public GET pages.
	Cache echo.MiddlewareFunc
	// Limit throttles every request.  Bearer tokens are resolved before it
	// runs so user-keyed buckets work on every route.
	Limit echo.MiddlewareFunc
	// AuthLimit throttles the /auth endpoints on top of Limit.
	AuthLimit echo.MiddlewareFunc
}

// Register mounts every route on e.
func Register(e *echo.Echo, h Handlers, opt Options) {
	if opt.Limit != nil {
		e.Use(middleware.Identify(opt.JWTSecret), opt.Limit)
	}
	RegisterRoutes(e, h.Health)
	RegisterPublic(e, h.Public, opt.Cache)
	RegisterAuth(e, h.Auth, opt.JWTSecret, opt.AuthLimit)
	RegisterFavorites(e, h.Favorites, opt.JWTSecret)
	RegisterMovies(e, h.Movies, opt.JWTSecret)
	RegisterAdmin(e, h.Admin, opt.JWTSecret)
}

func use(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, m := range mws {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// RegisterRoutes registers the operational endpoints.
func RegisterRoutes(e *echo.Echo, health *handler.HealthHandler) {
	e.GET("/healthz", health.Health)
	e.GET("/metrics", metrics.Handler())
}

// RegisterPublic registers the unauthenticated pages.  cache, when set,
// serves repeated anonymous requests from Redis.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	mw := use(cache)
	e.GET("/", p.Home, mw...)
	e.GET("/movies/", p.ListMovies, mw...)
	e.GET("/movies/:id/", p.MovieDetail, mw...)
	e.GET("/search/", p.SearchPage, mw...)
}

// RegisterAuth registers account routes.  Token exchange lives under /auth
// and is throttled by limit; /me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/auth", use(limit)...)
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a refresh token in the body or a bearer token,
	// so it is not behind JWTAuth.
	g.POST("/logout", a.Logout)

	e.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterFavorites registers the per-user bookmark routes.
func RegisterFavorites(e *echo.Echo, f *handler.FavoriteHandler, jwtSecret string) {
	g := e.Group("/favorites", middleware.JWTAuth(jwtSecret))
	g.GET("/", f.List)
	g.POST("/:movie_id/", f.Add)
	g.DELETE("/:movie_id/", f.Remove)
}

// RegisterMovies registers the staff movie editor next to the public movie
// pages.
func RegisterMovies(e *echo.Echo, m *handler.MovieHandler, jwtSecret string) {
	g := e.Group("/movies",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleStaff),
	)
	g.GET("/create/", m.CreateForm)
	g.POST("/create/", m.Create)
	g.GET("/:id/edit/", m.EditForm)
	g.POST("/:id/edit/", m.Update)
	g.PUT("/:id/edit/", m.Update)
	g.POST("/:id/delete/", m.Delete)
	g.DELETE("/:id/delete/", m.Delete)
}

// RegisterAdmin registers staff CRUD under /admin.
func RegisterAdmin(e *echo.Echo, a Admin, jwtSecret string) {
	g := e.Group("/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleStaff),
	)
	crud(g, "/genres", a.Genres)
	crud(g, "/cinemas", a.Cinemas)
	crud(g, "/halls", a.Halls)
	crud(g, "/sessions", a.Sessions)
	crud(g, "/tickets", a.Tickets)
}

func crud[T, In any](g *echo.Group, path string, h *handler.AdminHandler[T, In]) {
	g.GET(path+"/", h.List)
	g.POST(path+"/", h.Create)
	g.GET(path+"/:id/", h.Get)
	g.PUT(path+"/:id/", h.Update)
	g.PATCH(path+"/:id/", h.Update)
	g.DELETE(path+"/:id/", h.Delete)
}
