package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/david/scholarship-finder/internal/app"
	"github.com/david/scholarship-finder/internal/favorites"
	"github.com/david/scholarship-finder/internal/present"
	"github.com/david/scholarship-finder/internal/query"
)

type Options struct {
	State          app.State
	Store          favorites.Store
	Source         app.Source
	DeadlineWindow time.Duration
	CORSOrigins    []string
	AdminSecret    string
}

type Server struct {
	Echo       *echo.Echo
	Controller *app.Controller
	Source     app.Source
	Window     time.Duration
	Now        func() time.Time

	adminSecret string

	// mu serializes events: one handler reads or replaces state at a time.
	mu    sync.Mutex
	state app.State
}

var (
	adminSecretOnce    sync.Once
	adminSecretRuntime string
	adminSecretErr     error
)

// pageRenderer adapts the page template to echo's Renderer.
type pageRenderer struct {
	page *present.Renderer
}

func (r pageRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	pd, ok := data.(present.PageData)
	if !ok {
		return fmt.Errorf("template %q: unexpected data %T", name, data)
	}
	return r.page.Page(w, pd)
}

func NewServer(opts Options) (*Server, error) {
	renderer, err := present.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = pageRenderer{page: renderer}
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := append([]string{"http://localhost:8081"}, opts.CORSOrigins...)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	window := opts.DeadlineWindow
	if window <= 0 {
		window = present.DefaultDeadlineWindow
	}

	s := &Server{
		Echo:        e,
		Controller:  app.NewController(opts.Store),
		Source:      opts.Source,
		Window:      window,
		Now:         time.Now,
		adminSecret: opts.AdminSecret,
		state:       opts.State,
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	s.Echo.GET("/", s.handlePage)
	s.Echo.POST("/favorites/:id/toggle", s.handleToggleFavorite)

	api := s.Echo.Group("/api/v1")
	api.GET("/scholarships", s.handleListScholarships)
	api.GET("/suggestions", s.handleSuggestions)
	api.GET("/favorites", s.handleListFavorites)
	api.PUT("/favorites/:id", s.handleSaveFavorite)
	api.DELETE("/favorites/:id", s.handleRemoveFavorite)

	admin := api.Group("/admin")
	admin.Use(s.adminMiddleware)
	admin.POST("/reload", s.handleReload)
}

// State returns the current snapshot.
func (s *Server) State() app.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// viewParams reads the page form's query parameters.
func viewParams(v url.Values) (query.Filter, query.SortMode, bool) {
	f := query.Filter{
		Year:        strings.TrimSpace(v.Get("year")),
		Degree:      strings.TrimSpace(v.Get("degree")),
		Citizenship: query.ParseCitizenshipMode(v.Get("citizenship")),
		Text:        strings.TrimSpace(v.Get("q")),
	}
	favView := strings.EqualFold(v.Get("view"), "favorites")
	return f, query.ParseSortMode(v.Get("sort")), favView
}

func (s *Server) pageData(st app.State) present.PageData {
	return present.NewPageData(st.Filter, st.Sort, st.FavoritesView, st.Suggestions, st.Cards(s.Now(), s.Window), st.Notice)
}

func (s *Server) handlePage(c echo.Context) error {
	params := c.QueryParams()

	s.mu.Lock()
	if len(params) == 0 {
		s.state = s.state.Reset()
	} else {
		s.state = s.state.View(viewParams(params))
	}
	data := s.pageData(s.state)
	s.mu.Unlock()

	return c.Render(http.StatusOK, "page", data)
}

func (s *Server) handleToggleFavorite(c echo.Context) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid identifier"})
	}
	ret, _ := url.ParseQuery(c.FormValue("return"))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.View(viewParams(ret))
	next, err := s.Controller.ToggleFavorite(c.Request().Context(), s.state, id)
	if err != nil {
		c.Logger().Errorf("Failed to toggle favorite %q: %v", id, err)
		status := http.StatusServiceUnavailable
		if errors.Is(err, app.ErrUnknownRecord) {
			status = http.StatusNotFound
			next.Notice = "That scholarship is no longer in the catalog."
		}
		return c.Render(status, "page", s.pageData(next))
	}
	s.state = next

	return c.Redirect(http.StatusSeeOther, "/?"+ret.Encode())
}

func (s *Server) handleListScholarships(c echo.Context) error {
	s.mu.Lock()
	view := s.state.View(viewParams(c.QueryParams()))
	s.mu.Unlock()

	cards := view.Cards(s.Now(), s.Window)
	return c.JSON(http.StatusOK, map[string]any{
		"count":  len(cards),
		"label":  present.CountLabel(len(cards), view.FavoritesView),
		"cards":  cards,
		"notice": view.Notice,
	})
}

func (s *Server) handleSuggestions(c echo.Context) error {
	s.mu.Lock()
	sugg := s.state.Suggestions
	s.mu.Unlock()
	return c.JSON(http.StatusOK, sugg)
}

func (s *Server) handleListFavorites(c echo.Context) error {
	favs, err := s.Controller.List(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("Failed to list favorites: %v", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Favorites are unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]any{"count": len(favs), "favorites": favs})
}

func (s *Server) handleSaveFavorite(c echo.Context) error {
	return s.setFavorite(c, true)
}

func (s *Server) handleRemoveFavorite(c echo.Context) error {
	return s.setFavorite(c, false)
}

func (s *Server) setFavorite(c echo.Context, saved bool) error {
	id, err := pathParam(c, "id")
	if err != nil || id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid identifier"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.Controller.SetFavorite(c.Request().Context(), s.state, id, saved)
	if err != nil {
		if errors.Is(err, app.ErrUnknownRecord) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		c.Logger().Errorf("Failed to update favorite %q: %v", id, err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": next.Notice})
	}
	s.state = next

	return c.JSON(http.StatusOK, map[string]any{"id": id, "saved": saved})
}

func (s *Server) handleReload(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := app.Reload(c.Request().Context(), s.state, s.Source)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	s.state = next
	log.Printf("[api] dataset reloaded: %d records", len(next.Records))

	return c.JSON(http.StatusOK, map[string]any{
		"message":     "Dataset reloaded",
		"records":     len(next.Records),
		"suggestions": next.Suggestions,
	})
}

// pathParam returns a path parameter, decoding it when the request path
// carried escaped characters.
func pathParam(c echo.Context, name string) (string, error) {
	v := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret := s.adminSecret
		if secret == "" {
			var err error
			if secret, err = adminSecret(); err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server admin configuration error"})
			}
		}

		// Check X-Admin-Secret header or Bearer token
		authHeader := c.Request().Header.Get("Authorization")
		adminHeader := c.Request().Header.Get("X-Admin-Secret")

		if adminHeader == secret {
			return next(c)
		}
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == secret {
				return next(c)
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

// adminSecret is the ephemeral fallback used when no ADMIN_SECRET is configured.
func adminSecret() (string, error) {
	adminSecretOnce.Do(func() {
		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			adminSecretErr = fmt.Errorf("failed to generate ADMIN_SECRET fallback: %w", err)
			return
		}

		adminSecretRuntime = base64.RawURLEncoding.EncodeToString(buf)
		log.Print("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if adminSecretErr != nil {
		return "", adminSecretErr
	}
	if adminSecretRuntime == "" {
		return "", fmt.Errorf("admin secret unavailable")
	}

	return adminSecretRuntime, nil
}
