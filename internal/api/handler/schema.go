package handler

import (
	"encoding/json"
	"time"
)

// dateLayout is the wire format of due dates and deadlines.
const dateLayout = "2006-01-02"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Session sessionResponse `json:"session"`
	// State is the session state as the dashboard sees it right after sign-in.
	State json.RawMessage `json:"state" swaggertype:"object"`
}

// --- Tasks ---

type createTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ProjectID   string `json:"project_id"`
	AssignedTo  string `json:"assigned_to"`
	DueDate     string `json:"due_date"    validate:"omitempty,datetime=2006-01-02"`
	Priority    string `json:"priority"    validate:"omitempty,oneof=low medium high"`
}

type updateTaskRequest struct {
	Status  string `json:"status"  validate:"required,oneof=pending processing completed"`
	Remarks string `json:"remarks" validate:"max=2000"`
}

type taskResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Status       string  `json:"status"`
	Remarks      string  `json:"remarks,omitempty"`
	DueDate      *string `json:"due_date,omitempty"`
	Priority     string  `json:"priority"`
	CreatedBy    string  `json:"created_by"`
	CreatorName  string  `json:"creator_name,omitempty"`
	AssignedTo   *string `json:"assigned_to,omitempty"`
	AssigneeName string  `json:"assignee_name"`
	ProjectID    *string `json:"project_id,omitempty"`
	ProjectName  string  `json:"project_name,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// --- Projects ---

type projectRequest struct {
	Name        string  `json:"name"         validate:"required,max=200"`
	Description string  `json:"description"  validate:"required"`
	Status      string  `json:"status"`
	ClientName  string  `json:"client_name"  validate:"required"`
	ClientEmail string  `json:"client_email" validate:"required,email"`
	Budget      float64 `json:"budget"       validate:"gte=0"`
	Deadline    string  `json:"deadline"     validate:"required,datetime=2006-01-02"`
}

type projectResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	ClientName  string  `json:"client_name"`
	ClientEmail string  `json:"client_email"`
	Budget      float64 `json:"budget"`
	Deadline    string  `json:"deadline"`
	CreatedAt   string  `json:"created_at"`
}

// --- Profiles ---

type updateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,max=120"`
}

type profileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type createEmployeeRequest struct {
	FullName string `json:"full_name" validate:"required,max=120"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=6"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Count: len(items)}
}
