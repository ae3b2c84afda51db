package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aouyang1/repogallery/api/models"
	"github.com/aouyang1/repogallery/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "repogallery_session"
	sessionKey    = "session_id"
)

// sessionMiddleware binds every request to a session id carried in a
// browser-session cookie, issuing a new id when none or a bad one is sent.
func (ws *WebServer) sessionMiddleware(c *gin.Context) {
	id, err := c.Cookie(sessionCookie)
	if err != nil || !validSessionID(id) {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	}

	if err := ws.db.TouchSession(id, time.Now()); err != nil {
		slog.Error("unable to touch session", "session", id, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Session error: %v", err)})
		return
	}

	c.Set(sessionKey, id)
	c.Next()
}

func validSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (ws *WebServer) session(c *gin.Context) (*store.Session, error) {
	return ws.db.GetSession(c.GetString(sessionKey))
}
