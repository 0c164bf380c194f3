package models

import (
	"gorm.io/gorm"
)

// TaskStatus represents the status of a task on the board
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "inProgress"
	StatusDone       TaskStatus = "done"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Assignee represents a task assignee as rendered on the board
type Assignee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Task represents a task in the system.
// Deadline is a calendar date (no time-of-day component); reminder math
// strips both sides to midnight before subtracting.
// Score is set through the scoring endpoint only, but persists if the
// task is later reopened.
type Task struct {
	ID          string       `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status" gorm:"not null;default:'todo'"`
	AssigneeID  string       `json:"assigneeId" gorm:"column:assignee_id;index"`
	Assignee    Assignee     `json:"assignee" gorm:"-"`
	CreatorID   string       `json:"creatorId" gorm:"column:creator_id;index"`
	Deadline    string       `json:"deadline" gorm:"not null"`
	Priority    TaskPriority `json:"priority" gorm:"default:'medium'"`
	Score       *int         `json:"score,omitempty"`
	gorm.Model
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}
