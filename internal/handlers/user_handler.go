package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"team-task-board/internal/models"
	"team-task-board/internal/policy"
	"team-task-board/internal/store"

	"github.com/gin-gonic/gin"
)

// UpdateUserRequest represents the request payload for editing a user
type UpdateUserRequest struct {
	Name      *string      `json:"name"`
	Role      *models.Role `json:"role"`
	AvatarURL *string      `json:"avatarUrl"`
}

// GetAllUsers handles GET /api/users
func (a *App) GetAllUsers(c *gin.Context) {
	if _, ok := a.actor(c); !ok {
		return
	}

	users, err := a.Store.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// UpdateUser handles PUT /api/users/:id
// Admins can edit anyone's name and role; everyone else only their own
// profile, and never their role.
func (a *App) UpdateUser(c *gin.Context) {
	actor, ok := a.actor(c)
	if !ok {
		return
	}

	targetID := c.Param("id")

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if d := policy.CanEditUser(actor, targetID, req.Role != nil); !d.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": d.Reason})
		return
	}

	user, err := a.Store.UpdateUser(targetID, store.UserUpdate{
		Name:      req.Name,
		Role:      req.Role,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, store.ErrLastAdmin):
			a.Emitter.Center().Push("You cannot demote the last admin user.", models.NotifyReminder)
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/:id
// Admin only; structural invariants (last admin, outstanding tasks, self)
// are enforced by the store and surfaced as reminder-style notifications.
func (a *App) DeleteUser(c *gin.Context) {
	actor, ok := a.actor(c)
	if !ok {
		return
	}

	if d := policy.CanManageUsers(actor); !d.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": d.Reason})
		return
	}

	targetID := c.Param("id")
	deleted, err := a.Store.DeleteUser(targetID, actor.ID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, store.ErrSelfDelete):
			a.Emitter.Center().Push("You cannot delete yourself.", models.NotifyReminder)
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrLastAdmin):
			a.Emitter.Center().Push("You cannot delete the last admin user.", models.NotifyReminder)
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrUserHasTasks):
			a.Emitter.Center().Push("Cannot delete user. Reassign their tasks first.", models.NotifyReminder)
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		}
		return
	}

	a.Emitter.EmitSuccess(fmt.Sprintf("User %s has been deleted.", deleted.Name))
	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
		"id":      targetID,
	})
}
