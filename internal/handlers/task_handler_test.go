package handlers_test

import (
	"net/http"
	"testing"

	"team-task-board/internal/models"
	"team-task-board/internal/store"

	"github.com/stretchr/testify/require"
)

func seedTask(t *testing.T, ta *testApp, creator, assignee models.User) models.Task {
	t.Helper()
	task, err := ta.app.Store.AddTask(store.TaskDraft{
		Title:      "Seeded task",
		AssigneeID: assignee.ID,
		Deadline:   "2030-01-15",
	}, creator.ID)
	require.NoError(t, err)
	return task
}

func TestCreateTask_Success(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.seedUser(t, "alice", models.RoleAdmin)
	member := ta.seedUser(t, "bob", models.RoleMember)
	token := ta.tokenFor(t, member)

	w := ta.do(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"title":      "Write docs",
		"assigneeId": admin.ID,
		"deadline":   "2030-01-15",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Task
	decodeBody(t, w, &created)
	require.Equal(t, member.ID, created.CreatorID)
	require.Equal(t, models.StatusTodo, created.Status)
	require.Equal(t, models.PriorityMedium, created.Priority)
	require.Equal(t, admin.Name, created.Assignee.Name)
}

func TestCreateTask_ViewerDenied(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.seedUser(t, "alice", models.RoleAdmin)
	viewer := ta.seedUser(t, "sam", models.RoleViewer)
	token := ta.tokenFor(t, viewer)

	w := ta.do(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"title":      "Nope",
		"assigneeId": admin.ID,
		"deadline":   "2030-01-15",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateTask_MissingFields(t *testing.T) {
	ta := newTestApp(t)
	member := ta.seedUser(t, "bob", models.RoleMember)
	token := ta.tokenFor(t, member)

	w := ta.do(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"title": "No deadline or assignee",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTasks_MemberSeesOnlyOwn(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.seedUser(t, "alice", models.RoleAdmin)
	member := ta.seedUser(t, "bob", models.RoleMember)
	other := ta.seedUser(t, "carol", models.RoleMember)

	seedTask(t, ta, admin, member) // visible: assignee
	seedTask(t, ta, member, admin) // visible: creator
	seedTask(t, ta, admin, other)  // hidden

	w := ta.do(t, http.MethodGet, "/api/tasks", ta.tokenFor(t, member), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Tasks []models.Task `json:"tasks"`
		Count int           `json:"count"`
	}
	decodeBody(t, w, &resp)
	require.Equal(t, 2, resp.Count)

	// Admins and viewers see the whole board.
	w = ta.do(t, http.MethodGet, "/api/tasks", ta.tokenFor(t, admin), nil)
	decodeBody(t, w, &resp)
	require.Equal(t, 3, resp.Count)
}

func TestUpdateTask_OnlyCreatorOrAdmin(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.seedUser(t, "alice", models.RoleAdmin)
	member := ta.seedUser(t, "bob", models.RoleMember)
	task := seedTask(t, ta, admin, member)

	// The assignee is not the creator: details stay closed to them.
	w := ta.do(t, http.MethodPut, "/api/tasks/"+task.ID, ta.tokenFor(t, member), map[string]any{
		"title": "Hijacked",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = ta.do(t, http.MethodPut, "/api/tasks/"+task.ID, ta.tokenFor(t, admin), map[string]any{
		"title": "Renamed",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Task
	decodeBody(t, w, &updated)
	require.Equal(t, "Renamed", updated.Title)
}

func TestUpdateTaskStatus_AssigneeAllowed(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.seedUser(t, "alice", models.RoleAdmin)
	member := ta.seedUser(t, "bob", models.RoleMember)
	task := seedTask(t, ta, admin, member)

	w := ta.do(t, http.MethodPatch, "/api/tasks/"+task.ID+"/status", ta.tokenFor(t, member), map[string]string{
		"status": "inProgress",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Task        models.Task `json:"task"`
		ScorePrompt bool        `json:"scorePrompt"`
	}
	decodeBody(t, w, &resp)
	require.Equal(t, models.StatusInProgress, resp.Task.Status)
	require.False(t, resp.ScorePrompt)
}

func TestUpdateTaskStatus_AdminDonePromptsForScore(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.seedUser(t, "alice", models.RoleAdmin)
	member := ta.seedUser(t, "bob", models.RoleMember)
	task := seedTask(t, ta, admin, member)

	w := ta.do(t, http.MethodPatch, "/api/tasks/"+task.ID+"/status", ta.tokenFor(t, admin), map[string]string{
		"status": "done",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ScorePrompt bool `json:"scorePrompt"`
	}
	decodeBody(t, w, &resp)
	require.True(t, resp.ScorePrompt)
}

func TestTransferTask_RequiresConfirmation(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.seedUser(t, "alice", models.RoleAdmin)
	member := ta.seedUser(t, "bob", models.RoleMember)
	other := ta.seedUser(t, "carol", models.RoleMember)
	task := seedTask(t, ta, admin, member)
	token := ta.tokenFor(t, member)

	w := ta.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/transfer", token, map[string]any{
		"assigneeId": other.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = ta.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/transfer", token, map[string]any{
		"assigneeId": other.ID,
		"confirm":    true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Task
	decodeBody(t, w, &updated)
	require.Equal(t, other.ID, updated.AssigneeID)
}

func TestTransferTask_NonAssigneeMemberDenied(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.seedUser(t, "alice", models.RoleAdmin)
	member := ta.seedUser(t, "bob", models.RoleMember)
	other := ta.seedUser(t, "carol", models.RoleMember)
	task := seedTask(t, ta, admin, member)

	w := ta.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/transfer", ta.tokenFor(t, other), map[string]any{
		"assigneeId": other.ID,
		"confirm":    true,
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestScoreTask_AdminOnlyAndBounded(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.seedUser(t, "alice", models.RoleAdmin)
	member := ta.seedUser(t, "bob", models.RoleMember)
	task := seedTask(t, ta, admin, member)

	w := ta.do(t, http.MethodPut, "/api/tasks/"+task.ID+"/score", ta.tokenFor(t, member), map[string]int{
		"score": 80,
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	adminToken := ta.tokenFor(t, admin)
	w = ta.do(t, http.MethodPut, "/api/tasks/"+task.ID+"/score", adminToken, map[string]int{
		"score": 101,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = ta.do(t, http.MethodPut, "/api/tasks/"+task.ID+"/score", adminToken, map[string]int{
		"score": 95,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Task
	decodeBody(t, w, &updated)
	require.NotNil(t, updated.Score)
	require.Equal(t, 95, *updated.Score)
}

func TestTaskRoutes_NotFound(t *testing.T) {
	ta := newTestApp(t)
	admin := ta.seedUser(t, "alice", models.RoleAdmin)
	token := ta.tokenFor(t, admin)

	w := ta.do(t, http.MethodGet, "/api/tasks/task-missing", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = ta.do(t, http.MethodPut, "/api/tasks/task-missing", token, map[string]string{"title": "x"})
	require.Equal(t, http.StatusNotFound, w.Code)
}
