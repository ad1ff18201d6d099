package views

import (
	"strconv"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
)

// Option is a select-list entry.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// TaskRow is a task as the task tables show it.
type TaskRow struct {
	ID          string
	Title       string
	Description string
	Status      domain.TaskStatus
	Remarks     string
	Priority    string
	DueDate     string
	Assignee    string
	Creator     string
	Project     string
	Created     string
}

// TaskRows prepares joined tasks for display.
func TaskRows(tasks []ports.TaskDetail) []TaskRow {
	rows := make([]TaskRow, 0, len(tasks))
	for _, t := range tasks {
		row := TaskRow{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			Remarks:     t.Remarks,
			Priority:    t.Priority,
			DueDate:     FormatDatePtr(t.DueDate, "No due date"),
			Assignee:    t.AssigneeName,
			Creator:     t.CreatorName,
			Project:     t.ProjectName,
			Created:     FormatDate(t.CreatedAt),
		}
		if row.Assignee == "" {
			row.Assignee = "Unassigned"
		}
		if row.Creator == "" {
			row.Creator = "Unknown"
		}
		if row.Project == "" {
			row.Project = "No project"
		}
		rows = append(rows, row)
	}
	return rows
}

// TaskForm holds the admin create-task form values.
type TaskForm struct {
	Title       string
	Description string
	ProjectID   string
	AssignedTo  string
	DueDate     string
	Error       string
}

// AdminData is the admin dashboard model.
type AdminData struct {
	Cards     []ports.StatCard
	Tasks     []TaskRow
	Projects  []Option
	Employees []Option
	Form      TaskForm
	CSRF      string
}

// EmployeeData is the employee dashboard model.
type EmployeeData struct {
	Tasks    []TaskRow
	Statuses []Option
	CSRF     string
}

// EmployeeRow is one entry of the employee roster.
type EmployeeRow struct {
	ID       string
	FullName string
	Joined   string
}

// EmployeeRows prepares profiles for the roster.
func EmployeeRows(profiles []*domain.Profile) []EmployeeRow {
	rows := make([]EmployeeRow, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, EmployeeRow{
			ID:       p.ID,
			FullName: p.DisplayName("Unnamed Employee"),
			Joined:   FormatDate(p.CreatedAt),
		})
	}
	return rows
}

// EmployeeForm holds the create-employee form values. The password is never
// echoed back.
type EmployeeForm struct {
	FullName string
	Email    string
	Error    string
}

// EmployeesData is the employees page model.
type EmployeesData struct {
	Employees []EmployeeRow
	Form      EmployeeForm
	CSRF      string
}

// ProfileData is the profile page model.
type ProfileData struct {
	Email    string
	FullName string
	Role     string
	Joined   string
	Error    string
	CSRF     string
}

// ProjectRow is a project as the projects table shows it.
type ProjectRow struct {
	ID          string
	Name        string
	Description string
	Status      string
	ClientName  string
	ClientEmail string
	Budget      string
	Deadline    string
}

// ProjectRows prepares projects for display.
func ProjectRows(projects []*domain.Project) []ProjectRow {
	rows := make([]ProjectRow, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, ProjectRow{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Status:      p.Status,
			ClientName:  p.ClientName,
			ClientEmail: p.ClientEmail,
			Budget:      FormatBudget(p.Budget),
			Deadline:    FormatDate(p.Deadline),
		})
	}
	return rows
}

// ProjectForm holds the shared create/edit project form. EditID is set when
// the form edits an existing project.
type ProjectForm struct {
	EditID      string
	Name        string
	Description string
	Status      string
	ClientName  string
	ClientEmail string
	Budget      string
	Deadline    string
	Error       string
}

// ProjectFormFrom pre-fills the form with p's current values.
func ProjectFormFrom(p *domain.Project) ProjectForm {
	return ProjectForm{
		EditID:      p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		ClientName:  p.ClientName,
		ClientEmail: p.ClientEmail,
		Budget:      strconv.FormatFloat(p.Budget, 'f', -1, 64),
		Deadline:    InputDate(p.Deadline),
	}
}

// ProjectsData is the projects page model.
type ProjectsData struct {
	Projects []ProjectRow
	Form     ProjectForm
	CSRF     string
}

// LoginData is the login form model.
type LoginData struct {
	Email string
	Error string
	CSRF  string
}
