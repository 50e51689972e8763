package model

import (
	"time"
)

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	OwnerID     string     `json:"owner_id"`
	Owner       *TaskOwner `json:"owner,omitempty"` // Populated for admin views
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskOwner is the public projection of a task's owner, attached when an
// admin lists or fetches tasks belonging to other users.
type TaskOwner struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
