package domain

import (
	"fmt"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
)

// DefaultPriority is stored when a task is created without one.
const DefaultPriority = "medium"

// TaskStatuses lists every status in display order.
var TaskStatuses = []TaskStatus{TaskPending, TaskProcessing, TaskCompleted}

// ParseTaskStatus validates raw against the known statuses.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	for _, s := range TaskStatuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: task status %q", ErrInvalidInput, raw)
}

// Task is a unit of work, optionally assigned to an employee and linked to a project.
type Task struct {
	ID          string     `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Status      TaskStatus `json:"status" bson:"status"`
	Remarks     string     `json:"remarks,omitempty" bson:"remarks,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`
	Priority    string     `json:"priority" bson:"priority"`
	CreatedBy   string     `json:"created_by" bson:"created_by"`
	AssignedTo  *string    `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	ProjectID   *string    `json:"project_id,omitempty" bson:"project_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}
