package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"team-task-board/internal/models"
	"team-task-board/internal/policy"
	"team-task-board/internal/store"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	AssigneeID  string              `json:"assigneeId" binding:"required"`
	Deadline    string              `json:"deadline" binding:"required"`
	Priority    models.TaskPriority `json:"priority"`
}

// UpdateTaskRequest represents the request payload for updating task details
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	AssigneeID  *string              `json:"assigneeId"`
	Deadline    *string              `json:"deadline"`
	Priority    *models.TaskPriority `json:"priority"`
}

// UpdateTaskStatusRequest represents a minimal request to change status
type UpdateTaskStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

// TransferTaskRequest hands a task to another user. Transfer is irreversible
// by policy, so the caller must confirm explicitly.
type TransferTaskRequest struct {
	AssigneeID string `json:"assigneeId" binding:"required"`
	Confirm    bool   `json:"confirm"`
}

// ScoreTaskRequest sets a completed task's score
type ScoreTaskRequest struct {
	Score *int `json:"score" binding:"required"`
}

// GetTasks handles GET /api/tasks
// Admins and viewers see the whole board; members see tasks they created or
// are assigned to.
func (a *App) GetTasks(c *gin.Context) {
	actor, ok := a.actor(c)
	if !ok {
		return
	}

	tasks, err := a.Store.ListTasks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	if actor.Role == models.RoleMember {
		visible := tasks[:0]
		for _, t := range tasks {
			if t.AssigneeID == actor.ID || t.CreatorID == actor.ID {
				visible = append(visible, t)
			}
		}
		tasks = visible
	}

	a.enrichAssignees(tasks)

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// GetTaskByID handles GET /api/tasks/:id
func (a *App) GetTaskByID(c *gin.Context) {
	if _, ok := a.actor(c); !ok {
		return
	}

	task, err := a.Store.FindTask(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		}
		return
	}

	a.enrichAssignee(&task)
	c.JSON(http.StatusOK, task)
}

// CreateTask handles POST /api/tasks
// Creates a new task; the authenticated user becomes the creator.
func (a *App) CreateTask(c *gin.Context) {
	actor, ok := a.actor(c)
	if !ok {
		return
	}

	if d := policy.CanCreateTask(actor); !d.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": d.Reason})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := a.Store.FindUserByID(req.AssigneeID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Assignee does not exist"})
		return
	}

	task, err := a.Store.AddTask(store.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Deadline:    req.Deadline,
		Priority:    req.Priority,
	}, actor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	a.enrichAssignee(&task)
	a.broadcastTaskEvent("task_created", task.ID)
	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/:id
// Edits full task details. Only admins and the creator may do this.
func (a *App) UpdateTask(c *gin.Context) {
	actor, ok := a.actor(c)
	if !ok {
		return
	}

	task, err := a.Store.FindTask(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		}
		return
	}

	if d := policy.CanEditDetails(actor, task); !d.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": d.Reason})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.AssigneeID != nil {
		if _, err := a.Store.FindUserByID(*req.AssigneeID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Assignee does not exist"})
			return
		}
	}

	updated, err := a.Store.UpdateTask(task.ID, store.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Deadline:    req.Deadline,
		Priority:    req.Priority,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	a.enrichAssignee(&updated)
	a.broadcastTaskEvent("task_updated", updated.ID)
	c.JSON(http.StatusOK, updated)
}

// UpdateTaskStatus handles PATCH /api/tasks/:id/status
// Moves a task between board columns. Admins and the assignee only.
// When an admin marks a scoreless task done, the response carries
// scorePrompt=true so the client opens the score editor.
func (a *App) UpdateTaskStatus(c *gin.Context) {
	actor, ok := a.actor(c)
	if !ok {
		return
	}

	task, err := a.Store.FindTask(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		}
		return
	}

	if d := policy.CanChangeStatus(actor, task); !d.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": d.Reason})
		return
	}

	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scorePrompt := policy.ScorePromptDue(actor, task, req.Status)

	updated, err := a.Store.UpdateTask(task.ID, store.TaskUpdate{Status: &req.Status})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	a.enrichAssignee(&updated)
	a.broadcastTaskEvent("task_status_changed", updated.ID)
	c.JSON(http.StatusOK, gin.H{
		"task":        updated,
		"scorePrompt": scorePrompt,
	})
}

// TransferTask handles POST /api/tasks/:id/transfer
// Reassigns a task. Requires confirm=true since a member loses access to the
// task once it leaves them.
func (a *App) TransferTask(c *gin.Context) {
	actor, ok := a.actor(c)
	if !ok {
		return
	}

	task, err := a.Store.FindTask(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		}
		return
	}

	if d := policy.CanTransfer(actor, task); !d.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": d.Reason})
		return
	}

	var req TransferTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Confirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transfer must be confirmed"})
		return
	}

	target, err := a.Store.FindUserByID(req.AssigneeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Target user does not exist"})
		return
	}

	updated, err := a.Store.UpdateTask(task.ID, store.TaskUpdate{AssigneeID: &req.AssigneeID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer task"})
		return
	}

	a.Emitter.EmitSuccess("Task transferred to " + target.Name + ".")
	a.enrichAssignee(&updated)
	a.broadcastTaskEvent("task_transferred", updated.ID)
	c.JSON(http.StatusOK, updated)
}

// ScoreTask handles PUT /api/tasks/:id/score
// Sets the 0..100 score. Admin only.
func (a *App) ScoreTask(c *gin.Context) {
	actor, ok := a.actor(c)
	if !ok {
		return
	}

	if d := policy.CanScore(actor); !d.Allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": d.Reason})
		return
	}

	task, err := a.Store.FindTask(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		}
		return
	}

	var req ScoreTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Score == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Score is required"})
		return
	}
	if *req.Score < 0 || *req.Score > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Score must be between 0 and 100"})
		return
	}

	updated, err := a.Store.UpdateTask(task.ID, store.TaskUpdate{Score: req.Score})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set score"})
		return
	}

	a.enrichAssignee(&updated)
	a.broadcastTaskEvent("task_scored", updated.ID)
	c.JSON(http.StatusOK, updated)
}

// enrichAssignees fills the denormalized assignee field for responses.
func (a *App) enrichAssignees(tasks []models.Task) {
	users, err := a.Store.ListUsers()
	if err != nil {
		return
	}
	userByID := make(map[string]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	for i := range tasks {
		if u, ok := userByID[tasks[i].AssigneeID]; ok {
			tasks[i].Assignee = models.Assignee{ID: u.ID, Name: u.Name}
		}
	}
}

func (a *App) enrichAssignee(task *models.Task) {
	if task.AssigneeID == "" {
		return
	}
	if u, err := a.Store.FindUserByID(task.AssigneeID); err == nil {
		task.Assignee = models.Assignee{ID: u.ID, Name: u.Name}
	}
}

func (a *App) broadcastTaskEvent(eventType, taskID string) {
	if a.Hub == nil {
		return
	}
	evt := map[string]any{
		"type":   eventType,
		"taskId": taskID,
	}
	if raw, err := json.Marshal(evt); err == nil {
		a.Hub.BroadcastAll(raw)
	}
}
