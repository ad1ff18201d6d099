package views

import (
	"github.com/a-h/templ"

	"github.com/doable/dashboard/internal/core/ports"
)

func Landing(signedIn bool) templ.Component {
	return component("landing", struct{ SignedIn bool }{signedIn})
}

func Login(d LoginData) templ.Component { return component("login", d) }

// Loading is the placeholder shown while a session's role settles.
func Loading(message string) templ.Component {
	return component("loading", struct{ Message string }{message})
}

func Admin(d AdminData) templ.Component { return component("admin", d) }

// StatCards is the admin stats fragment refetched on change events.
func StatCards(cards []ports.StatCard) templ.Component { return component("stat-cards", cards) }

// TaskTable is the admin task list fragment refetched on change events.
func TaskTable(rows []TaskRow) templ.Component { return component("task-table", rows) }

func Employee(d EmployeeData) templ.Component { return component("employee", d) }

func Employees(d EmployeesData) templ.Component { return component("employees", d) }

func Profile(d ProfileData) templ.Component { return component("profile", d) }

func Projects(d ProjectsData) templ.Component { return component("projects", d) }

func NotFound() templ.Component { return component("not-found", nil) }

// Error is the generic failure page.
func Error(code int, message string) templ.Component {
	return component("error", struct {
		Code    int
		Message string
	}{code, message})
}
