package domain

import "time"

// Table names a persisted collection whose changes are broadcast.
type Table string

const (
	TableTasks    Table = "tasks"
	TableProjects Table = "projects"
	TableProfiles Table = "profiles"
)

// ChangeKind is the mutation that produced a ChangeEvent.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// ChangeEvent notifies subscribers that a row in Table changed.
type ChangeEvent struct {
	Table    Table      `json:"table"`
	Kind     ChangeKind `json:"kind"`
	RecordID string     `json:"record_id"`
	At       time.Time  `json:"at"`
}

// AuthEventKind enumerates auth-state transitions.
type AuthEventKind string

const (
	AuthSignedIn    AuthEventKind = "signed_in"
	AuthSignedOut   AuthEventKind = "signed_out"
	AuthUserUpdated AuthEventKind = "user_updated"
)

// AuthEvent is an auth-state-change notification.
type AuthEvent struct {
	Kind       AuthEventKind `json:"kind"`
	SessionID  string        `json:"session_id,omitempty"`
	IdentityID string        `json:"identity_id"`
	At         time.Time     `json:"at"`
}
