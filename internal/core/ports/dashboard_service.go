package ports

import (
	"context"

	"github.com/doable/dashboard/internal/core/domain"
)

// StatCard is one admin dashboard tile.
type StatCard struct {
	Title       string `json:"title"`
	Value       string `json:"value"`
	Change      string `json:"change"`
	Description string `json:"description"`
}

// DashboardStats holds the admin counts and the cards rendered from them.
type DashboardStats struct {
	PendingTasks           int64      `json:"pending_tasks"`
	PreviousPendingTasks   int64      `json:"previous_pending_tasks"`
	CompletedTasks         int64      `json:"completed_tasks"`
	PreviousCompletedTasks int64      `json:"previous_completed_tasks"`
	Projects               int64      `json:"projects"`
	PreviousProjects       int64      `json:"previous_projects"`
	Cards                  []StatCard `json:"cards"`
}

// DashboardService serves the cached admin dashboard reads.
type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	RecentTasks(ctx context.Context, actor domain.Actor) ([]TaskDetail, error)
}
