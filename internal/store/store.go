package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"team-task-board/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Structural invariant violations. These are enforced here unconditionally,
// independent of what the authorization policy already allowed: policy governs
// who, the store governs what is structurally always true.
var (
	ErrNotFound       = errors.New("record not found")
	ErrLastAdmin      = errors.New("cannot delete the last admin user")
	ErrUserHasTasks   = errors.New("cannot delete user with assigned or created tasks")
	ErrSelfDelete     = errors.New("cannot delete your own account")
	ErrDuplicateEmail = errors.New("email is already registered")
)

// Store is the authoritative task/user collection. All mutations are
// serialized by a mutex so a scanner tick always observes a consistent
// snapshot, even though sqlite itself would tolerate interleaving.
type Store struct {
	mu sync.Mutex
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// TaskDraft carries the caller-supplied fields of a new task. ID, status and
// creator are assigned by the store.
type TaskDraft struct {
	Title       string
	Description string
	AssigneeID  string
	Deadline    string
	Priority    models.TaskPriority
}

// TaskUpdate is a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	AssigneeID  *string
	Deadline    *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	Score       *int
}

// UserUpdate is a partial update; nil fields are left untouched.
type UserUpdate struct {
	Name      *string
	Role      *models.Role
	AvatarURL *string
}

// AddTask inserts a new task with a fresh id, status todo and the given
// creator. Priority defaults to medium when unset.
func (s *Store) AddTask(draft TaskDraft, creatorID string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	priority := draft.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := models.Task{
		ID:          fmt.Sprintf("task-%s", uuid.NewString()),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      models.StatusTodo,
		AssigneeID:  draft.AssigneeID,
		CreatorID:   creatorID,
		Deadline:    draft.Deadline,
		Priority:    priority,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// UpdateTask applies a partial update and returns the stored result.
func (s *Store) UpdateTask(id string, update TaskUpdate) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var task models.Task
	if err := s.db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrNotFound
		}
		return models.Task{}, err
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.AssigneeID != nil {
		task.AssigneeID = *update.AssigneeID
	}
	if update.Deadline != nil {
		task.Deadline = *update.Deadline
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.Score != nil {
		task.Score = update.Score
	}

	if err := s.db.Save(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// FindTask returns the task with the given id.
func (s *Store) FindTask(id string) (models.Task, error) {
	var task models.Task
	if err := s.db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

// ListTasks returns every task, newest first.
func (s *Store) ListTasks() ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Order("created_at desc").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// AddUser inserts a new user with a fresh id. Email matching is
// case-insensitive; a duplicate is rejected with ErrDuplicateEmail.
func (s *Store) AddUser(name, email, passwordHash string, role models.Role, avatarURL string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return models.User{}, err
	}
	if count > 0 {
		return models.User{}, ErrDuplicateEmail
	}

	if role == "" {
		role = models.RoleMember
	}

	user := models.User{
		ID:        fmt.Sprintf("user-%s", uuid.NewString()),
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		Role:      role,
		AvatarURL: avatarURL,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateUser applies a partial update. Demoting the last admin is rejected
// to keep the at-least-one-admin invariant.
func (s *Store) UpdateUser(id string, update UserUpdate) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}

	if update.Role != nil && user.Role == models.RoleAdmin && *update.Role != models.RoleAdmin {
		var admins int64
		if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
			return models.User{}, err
		}
		if admins <= 1 {
			return models.User{}, ErrLastAdmin
		}
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}

	if err := s.db.Save(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes a user after checking the structural invariants:
// the target must not be the caller, must not be the last admin, and must
// have no assigned or created tasks.
func (s *Store) DeleteUser(id, actorID string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == actorID {
		return models.User{}, ErrSelfDelete
	}

	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}

	if user.Role == models.RoleAdmin {
		var admins int64
		if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
			return models.User{}, err
		}
		if admins <= 1 {
			return models.User{}, ErrLastAdmin
		}
	}

	var taskCount int64
	if err := s.db.Model(&models.Task{}).
		Where("assignee_id = ? OR creator_id = ?", id, id).
		Count(&taskCount).Error; err != nil {
		return models.User{}, err
	}
	if taskCount > 0 {
		return models.User{}, ErrUserHasTasks
	}

	if err := s.db.Delete(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindUserByID returns the user with the given id.
func (s *Store) FindUserByID(id string) (models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// FindUserByEmail returns the user with the given email (case-insensitive).
func (s *Store) FindUserByEmail(email string) (models.User, error) {
	var user models.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// ListUsers returns every user.
func (s *Store) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
