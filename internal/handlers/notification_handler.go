package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetNotifications handles GET /api/notifications
// Returns the currently visible in-app notifications.
func (a *App) GetNotifications(c *gin.Context) {
	if _, ok := a.actor(c); !ok {
		return
	}

	list := a.Emitter.Center().List()
	c.JSON(http.StatusOK, gin.H{
		"notifications": list,
		"count":         len(list),
	})
}

// DismissNotification handles DELETE /api/notifications/:id
func (a *App) DismissNotification(c *gin.Context) {
	if _, ok := a.actor(c); !ok {
		return
	}

	a.Emitter.Center().Dismiss(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Notification dismissed"})
}
