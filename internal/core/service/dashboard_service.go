package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
	"github.com/doable/dashboard/internal/core/querycache"
)

// Query names cached by the dashboard.
const (
	QueryTasks               = "tasks"
	QueryPendingTasksCount   = "pendingTasksCount"
	QueryCompletedTasksCount = "completedTasksCount"
	QueryProjectsCount       = "projectsCount"
)

// comparisonWindow is how far back the "previous" counts look.
const comparisonWindow = 7 * 24 * time.Hour

// CacheRules binds each table to the dashboard queries that read it.
func CacheRules() querycache.Rules {
	return querycache.Rules{
		domain.TableTasks:    {QueryTasks, QueryPendingTasksCount, QueryCompletedTasksCount},
		domain.TableProjects: {QueryProjectsCount, QueryTasks},
		domain.TableProfiles: {QueryTasks},
	}
}

// DashboardService serves the admin dashboard reads through the query cache.
type DashboardService struct {
	tasks    ports.TaskRepository
	projects ports.ProjectRepository
	taskSvc  ports.TaskService
	cache    *querycache.Cache
	now      func() time.Time
}

func NewDashboardService(tasks ports.TaskRepository, projects ports.ProjectRepository, taskSvc ports.TaskService, cache *querycache.Cache) *DashboardService {
	return &DashboardService{
		tasks:    tasks,
		projects: projects,
		taskSvc:  taskSvc,
		cache:    cache,
		now:      time.Now,
	}
}

// Stats loads the six dashboard counts concurrently. The "previous" counts
// are rows created more than a week ago, in their current state; they are not
// a historical snapshot.
func (s *DashboardService) Stats(ctx context.Context) (stats *ports.DashboardStats, err error) {
	ctx, span := startSpan(ctx, "DashboardService.Stats")
	defer func() { endSpan(span, err) }()

	stats = &ports.DashboardStats{}
	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int64, key querycache.Key, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := querycache.Fetch(gctx, s.cache, key, fn)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
			return nil
		})
	}

	count(&stats.PendingTasks, querycache.Key{Name: QueryPendingTasksCount, Params: "current"}, s.countTasks(domain.TaskPending, false))
	count(&stats.PreviousPendingTasks, querycache.Key{Name: QueryPendingTasksCount, Params: "previous"}, s.countTasks(domain.TaskPending, true))
	count(&stats.CompletedTasks, querycache.Key{Name: QueryCompletedTasksCount, Params: "current"}, s.countTasks(domain.TaskCompleted, false))
	count(&stats.PreviousCompletedTasks, querycache.Key{Name: QueryCompletedTasksCount, Params: "previous"}, s.countTasks(domain.TaskCompleted, true))
	count(&stats.Projects, querycache.Key{Name: QueryProjectsCount, Params: "current"}, s.countProjects(false))
	count(&stats.PreviousProjects, querycache.Key{Name: QueryProjectsCount, Params: "previous"}, s.countProjects(true))

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	stats.Cards = []ports.StatCard{
		{Title: "Pending Tasks", Value: strconv.FormatInt(stats.PendingTasks, 10), Change: PercentageChange(stats.PendingTasks, stats.PreviousPendingTasks), Description: "Tasks awaiting completion"},
		{Title: "Done Tasks", Value: strconv.FormatInt(stats.CompletedTasks, 10), Change: PercentageChange(stats.CompletedTasks, stats.PreviousCompletedTasks), Description: "Completed tasks"},
		{Title: "Projects", Value: strconv.FormatInt(stats.Projects, 10), Change: PercentageChange(stats.Projects, stats.PreviousProjects), Description: "Total active projects"},
		SystemStatusCard(),
	}
	return stats, nil
}

// RecentTasks returns the joined task list, newest first.
func (s *DashboardService) RecentTasks(ctx context.Context, actor domain.Actor) ([]ports.TaskDetail, error) {
	scope := "all"
	if !actor.IsAdmin() {
		scope = "assigned:" + actor.ID
	}
	return querycache.Fetch(ctx, s.cache, querycache.Key{Name: QueryTasks, Params: scope}, func(ctx context.Context) ([]ports.TaskDetail, error) {
		return s.taskSvc.List(ctx, actor, ports.ListTasksInput{})
	})
}

func (s *DashboardService) cutoff() time.Time {
	return s.now().UTC().Add(-comparisonWindow)
}

func (s *DashboardService) countTasks(status domain.TaskStatus, previous bool) func(context.Context) (int64, error) {
	return func(ctx context.Context) (int64, error) {
		filter := ports.TaskFilter{Status: status}
		if previous {
			filter.CreatedBefore = s.cutoff()
		}
		return s.tasks.Count(ctx, filter)
	}
}

func (s *DashboardService) countProjects(previous bool) func(context.Context) (int64, error) {
	return func(ctx context.Context) (int64, error) {
		var before time.Time
		if previous {
			before = s.cutoff()
		}
		return s.projects.Count(ctx, before)
	}
}

// SystemStatusCard is the fixed uptime tile shown next to the live counts.
func SystemStatusCard() ports.StatCard {
	return ports.StatCard{Title: "System Status", Value: "98.5%", Change: "+0.5%", Description: "System uptime"}
}

// PercentageChange formats the change from previous to current. With no
// previous baseline any growth reads as "+100%" and no growth as "0%".
func PercentageChange(current, previous int64) string {
	if previous == 0 {
		if current > 0 {
			return "+100%"
		}
		return "0%"
	}
	change := float64(current-previous) / float64(previous) * 100
	sign := ""
	if change > 0 {
		sign = "+"
	}
	return sign + strconv.FormatFloat(change, 'f', 1, 64) + "%"
}
