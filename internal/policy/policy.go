package policy

import (
	"team-task-board/internal/models"
)

// Decision is the outcome of a policy check. A denied Decision carries the
// user-facing reason; denials are ordinary values, never errors.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CanCreateTask reports whether the actor may create a new task.
// The actor always becomes the creator of a task they create.
func CanCreateTask(actor models.User) Decision {
	if actor.Role == models.RoleViewer {
		return deny("viewers cannot create tasks")
	}
	return allow()
}

// CanEditDetails reports whether the actor may edit a task's full details
// (title, description, deadline, priority, assignee).
func CanEditDetails(actor models.User, task models.Task) Decision {
	switch {
	case actor.Role == models.RoleViewer:
		return deny("viewers cannot edit tasks")
	case actor.Role == models.RoleAdmin:
		return allow()
	case actor.ID == task.CreatorID:
		return allow()
	}
	return deny("only the creator or an admin can edit task details")
}

// CanChangeStatus reports whether the actor may move the task between
// board columns.
func CanChangeStatus(actor models.User, task models.Task) Decision {
	switch {
	case actor.Role == models.RoleViewer:
		return deny("viewers cannot change task status")
	case actor.Role == models.RoleAdmin:
		return allow()
	case actor.ID == task.AssigneeID:
		return allow()
	}
	return deny("only the assignee or an admin can change task status")
}

// CanTransfer reports whether the actor may hand the task to another user.
// Transfers additionally require explicit confirmation from the caller;
// that is checked at the request layer, not here.
func CanTransfer(actor models.User, task models.Task) Decision {
	switch {
	case actor.Role == models.RoleViewer:
		return deny("viewers cannot transfer tasks")
	case actor.Role == models.RoleAdmin:
		return allow()
	case actor.ID == task.AssigneeID:
		return allow()
	}
	return deny("only the assignee or an admin can transfer a task")
}

// CanScore reports whether the actor may set a task's score.
func CanScore(actor models.User) Decision {
	if actor.Role != models.RoleAdmin {
		return deny("only admins can score tasks")
	}
	return allow()
}

// CanManageUsers reports whether the actor may edit other users' name/role
// or delete users.
func CanManageUsers(actor models.User) Decision {
	if actor.Role != models.RoleAdmin {
		return deny("only admins can manage users")
	}
	return allow()
}

// CanEditUser reports whether the actor may apply a profile update to the
// target user. Admins may edit anyone; everyone else only themselves, and a
// non-admin cannot change their own role.
func CanEditUser(actor models.User, targetID string, roleChange bool) Decision {
	if actor.Role == models.RoleAdmin {
		return allow()
	}
	if actor.ID != targetID {
		return deny("only admins can edit other users")
	}
	if roleChange {
		return deny("only admins can change roles")
	}
	if actor.Role == models.RoleViewer {
		return deny("viewers cannot edit users")
	}
	return allow()
}

// ScorePromptDue reports whether marking the task with the given status
// obligates the caller to prompt for a score: an admin moving a scoreless
// task to done.
func ScorePromptDue(actor models.User, task models.Task, newStatus models.TaskStatus) bool {
	return actor.Role == models.RoleAdmin &&
		newStatus == models.StatusDone &&
		task.Score == nil
}
