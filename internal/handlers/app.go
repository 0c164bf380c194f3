package handlers

import (
	"net/http"

	"team-task-board/internal/identity"
	"team-task-board/internal/models"
	"team-task-board/internal/notify"
	"team-task-board/internal/realtime"
	"team-task-board/internal/session"
	"team-task-board/internal/store"

	"github.com/gin-gonic/gin"
)

// App bundles the collaborators the HTTP layer needs. It is constructed once
// in main and passed to the router; handlers are methods on it instead of
// reaching for package globals.
type App struct {
	Store    *store.Store
	Emitter  *notify.Emitter
	Sessions *session.Registry
	Verifier identity.Verifier
	Hub      *realtime.Hub
}

// actor resolves the authenticated user from the request context. The JWT
// only proves identity; role and relationships are read fresh from the store
// so a mid-session role change takes effect immediately.
func (a *App) actor(c *gin.Context) (models.User, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return models.User{}, false
	}
	user, err := a.Store.FindUserByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Unknown user",
		})
		return models.User{}, false
	}
	return user, true
}
