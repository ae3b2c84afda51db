// Package api is the main api web server
package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"mime"
	"net/http"
	"sync"

	"github.com/a-h/templ"
	"github.com/aouyang1/repogallery/api/models"
	"github.com/aouyang1/repogallery/api/web/templates"
	"github.com/aouyang1/repogallery/gallery"
	"github.com/aouyang1/repogallery/slideshow"
	"github.com/aouyang1/repogallery/store"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed web/static
var webFiles embed.FS

const pageTitle = "Repository Image Gallery"

type WebServer struct {
	router *gin.Engine
	db     *store.Database
	remote *RemoteManager

	sessionManager *SessionManager

	// this ensures session state is read and written back by one request at a time
	stateMu sync.Mutex
}

func NewWebServer(db *store.Database, remote *RemoteManager, sessionManager *SessionManager) (*WebServer, error) {
	if db == nil {
		return nil, errors.New("no database provided for web server")
	}
	if remote == nil {
		return nil, errors.New("no remote manager provided for web server")
	}

	router := gin.Default()

	ws := &WebServer{
		router:         router,
		db:             db,
		remote:         remote,
		sessionManager: sessionManager,
	}

	// Setup routes
	if err := ws.setupRoutes(); err != nil {
		return nil, err
	}

	return ws, nil
}

func (ws *WebServer) setupRoutes() error {
	// Create filesystem for static files (strip "web/" prefix)
	staticFS, err := fs.Sub(webFiles, "web/static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}

	// Serve static files from embedded filesystem
	ws.router.StaticFS("/static", http.FS(staticFS))
	ws.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ui := ws.router.Group("/", ws.sessionMiddleware)

	// UI routes
	ui.GET("/", ws.handleMainUI)
	ui.GET("/ui/view", ws.handleUIView)

	// API routes
	ui.GET("/settings", ws.handleGetSettings)
	ui.PUT("/settings", ws.handleUpdateSettings)
	ui.POST("/refresh", ws.handleRefresh)
	ui.POST("/slideshow/:action", ws.handleSlideshow)
	ui.GET("/images", ws.handleListImages)
	ui.GET("/images/:name/download", ws.handleDownloadImage)

	return nil
}

// Handler exposes the router, mainly for tests.
func (ws *WebServer) Handler() http.Handler {
	return ws.router
}

func (ws *WebServer) Start(ctx context.Context, addr string) error {
	if ws.sessionManager != nil {
		go ws.sessionManager.Run(ctx)
	}

	log.Printf("Starting web server on %s", addr)
	srv := &http.Server{Addr: addr, Handler: ws.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("web server stopped: %w", err)
	case <-ctx.Done():
		slog.Info("shutting down web server")
		return srv.Shutdown(context.Background())
	}
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

func (ws *WebServer) render(c *gin.Context, status int, component templ.Component) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		slog.Error("failed to render component", "path", c.FullPath(), "error", err)
	}
}

func (ws *WebServer) renderView(c *gin.Context, sess *store.Session) {
	ws.render(c, http.StatusOK, templates.View(ws.buildView(c.Request.Context(), sess)))
}

func (ws *WebServer) handleMainUI(c *gin.Context) {
	sess, err := ws.session(c)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("Error loading session: %v", err))
		return
	}

	ws.render(c, http.StatusOK, templates.Page(templates.PageData{
		Title:    pageTitle,
		Source:   ws.remote.Endpoint(),
		ViewMode: sess.ViewMode,
		Shuffle:  sess.Shuffle,
	}))
}

func (ws *WebServer) handleUIView(c *gin.Context) {
	sess, err := ws.session(c)
	if err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("Error loading session: %v", err))
		return
	}
	ws.renderView(c, sess)
}

func (ws *WebServer) handleGetSettings(c *gin.Context) {
	sess, err := ws.session(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get session: %v", err)})
		return
	}

	names, _ := ws.loadListing(c.Request.Context(), sess)
	c.JSON(http.StatusOK, models.SessionResponse{Session: sess, Total: len(names)})
}

func (ws *WebServer) handleUpdateSettings(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	if req.ViewMode != "" && req.ViewMode != string(gallery.ViewGrid) && req.ViewMode != string(gallery.ViewSlideshow) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "view_mode must be grid or slideshow"})
		return
	}

	ws.stateMu.Lock()
	sess, err := ws.session(c)
	if err != nil {
		ws.stateMu.Unlock()
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get session: %v", err)})
		return
	}

	if req.ViewMode != "" {
		sess.ViewMode = req.ViewMode
	}
	// a fresh order is drawn only when shuffle gets switched on
	if req.Shuffle && !sess.Shuffle {
		sess.ShuffleSeed = gallery.NewSeed()
	}
	sess.Shuffle = req.Shuffle

	err = ws.db.UpsertSession(sess)
	ws.stateMu.Unlock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to update settings: %v", err)})
		return
	}

	if isHTMX(c) {
		ws.renderView(c, sess)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (ws *WebServer) handleRefresh(c *gin.Context) {
	ws.remote.Invalidate()

	ws.stateMu.Lock()
	sess, err := ws.session(c)
	if err == nil && sess.Shuffle {
		// every reload gets its own shuffled order
		sess.ShuffleSeed = gallery.NewSeed()
		err = ws.db.UpsertSession(sess)
	}
	ws.stateMu.Unlock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to refresh: %v", err)})
		return
	}

	if isHTMX(c) {
		ws.renderView(c, sess)
		return
	}

	names, warnings := ws.loadListing(c.Request.Context(), sess)
	ws.listResponse(c, names, warnings)
}

func (ws *WebServer) handleSlideshow(c *gin.Context) {
	action := slideshow.Action(c.Param("action"))

	target := 0
	switch action {
	case slideshow.ActionPrevious, slideshow.ActionNext:
	case slideshow.ActionJump:
		var req models.JumpRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid position: %v", err)})
			return
		}
		target = req.Position
	default:
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Unknown slideshow action '%s'", action)})
		return
	}

	sess, err := ws.session(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get session: %v", err)})
		return
	}

	// the listing length bounds the transition
	names, _ := ws.loadListing(c.Request.Context(), sess)

	if len(names) > 0 {
		ws.stateMu.Lock()
		sess, err = ws.session(c)
		if err == nil {
			state := slideshow.New(sess.Position, len(names))
			sess.Position, _ = state.Apply(action, target)
			err = ws.db.UpdatePosition(sess.ID, sess.Position)
		}
		ws.stateMu.Unlock()
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to update position: %v", err)})
			return
		}
		slideshowTransitions.WithLabelValues(string(action)).Inc()
	}

	if isHTMX(c) {
		ws.renderView(c, sess)
		return
	}
	c.JSON(http.StatusOK, models.SessionResponse{Session: sess, Total: len(names)})
}

func (ws *WebServer) handleListImages(c *gin.Context) {
	sess, err := ws.session(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get session: %v", err)})
		return
	}

	names, warnings := ws.loadListing(c.Request.Context(), sess)
	ws.listResponse(c, names, warnings)
}

func (ws *WebServer) listResponse(c *gin.Context, names []string, warnings []string) {
	resp := models.ImageListResponse{
		Images: names,
		Total:  len(names),
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if len(warnings) > 0 {
		resp.Warning = warnings[0]
	}
	c.JSON(http.StatusOK, resp)
}

func (ws *WebServer) handleDownloadImage(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Image name is required"})
		return
	}

	names, err := ws.remote.ListImages(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: fmt.Sprintf("Error fetching images: %v", err)})
		return
	}
	if len(names) == 0 {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: gallery.ErrEmptyListing.Error()})
		return
	}
	if !mapset.NewThreadUnsafeSet(names...).Contains(name) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Image '%s' not found", name)})
		return
	}

	data, err := ws.remote.FetchImage(c.Request.Context(), name)
	if err != nil {
		slog.Warn("unable to fetch image for download", "name", name, "error", err)
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: fmt.Sprintf("Image '%s' is not available", name)})
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
}
