package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
)

type TaskService struct {
	tasks    ports.TaskRepository
	profiles ports.ProfileRepository
	projects ports.ProjectRepository
	changes  ports.ChangeFeed
	log      zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, profiles ports.ProfileRepository, projects ports.ProjectRepository, changes ports.ChangeFeed, log zerolog.Logger) *TaskService {
	return &TaskService{
		tasks:    tasks,
		profiles: profiles,
		projects: projects,
		changes:  changes,
		log:      log.With().Str("component", "tasks").Logger(),
	}
}

// Create stores a new pending task. Only admins create tasks; assignee and
// project are optional but must exist when given.
func (s *TaskService) Create(ctx context.Context, actor domain.Actor, in ports.CreateTaskInput) (task *domain.Task, err error) {
	ctx, span := startSpan(ctx, "TaskService.Create")
	defer func() { endSpan(span, err) }()

	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	task = &domain.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      domain.TaskPending,
		DueDate:     in.DueDate,
		Priority:    strings.TrimSpace(in.Priority),
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = domain.DefaultPriority
	}

	if in.ProjectID != "" {
		if _, err := s.projects.FindByID(ctx, in.ProjectID); err != nil {
			return nil, fmt.Errorf("create task: %w", err)
		}
		id := in.ProjectID
		task.ProjectID = &id
	}
	if in.AssignedTo != "" {
		if _, err := s.profiles.FindByID(ctx, in.AssignedTo); err != nil {
			return nil, fmt.Errorf("create task: assignee: %w", err)
		}
		id := in.AssignedTo
		task.AssignedTo = &id
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.log.Info().Str("task_id", task.ID).Str("created_by", actor.ID).Msg("task created")
	publishChange(ctx, s.changes, s.log, domain.TableTasks, domain.ChangeInsert, task.ID)
	return task, nil
}

// List returns tasks newest first, joined with assignee, creator and project
// names. Admins see every task; anyone else sees only tasks assigned to them.
func (s *TaskService) List(ctx context.Context, actor domain.Actor, in ports.ListTasksInput) (out []ports.TaskDetail, err error) {
	ctx, span := startSpan(ctx, "TaskService.List")
	defer func() { endSpan(span, err) }()

	var filter ports.TaskFilter
	if in.Status != "" {
		status, err := domain.ParseTaskStatus(in.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if !actor.IsAdmin() {
		if actor.ID == "" {
			return nil, domain.ErrForbidden
		}
		filter.AssignedTo = actor.ID
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return s.join(ctx, tasks)
}

// UpdateProgress sets status and remarks. Employees may only update tasks
// assigned to them.
func (s *TaskService) UpdateProgress(ctx context.Context, actor domain.Actor, in ports.UpdateTaskInput) (task *domain.Task, err error) {
	ctx, span := startSpan(ctx, "TaskService.UpdateProgress")
	defer func() { endSpan(span, err) }()

	status, err := domain.ParseTaskStatus(in.Status)
	if err != nil {
		return nil, err
	}
	current, err := s.tasks.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && (current.AssignedTo == nil || *current.AssignedTo != actor.ID) {
		return nil, domain.ErrForbidden
	}

	task, err = s.tasks.UpdateProgress(ctx, in.ID, status, strings.TrimSpace(in.Remarks), time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	publishChange(ctx, s.changes, s.log, domain.TableTasks, domain.ChangeUpdate, task.ID)
	return task, nil
}

func (s *TaskService) join(ctx context.Context, tasks []*domain.Task) ([]ports.TaskDetail, error) {
	profileIDs := make(map[string]struct{})
	projectIDs := make(map[string]struct{})
	for _, t := range tasks {
		profileIDs[t.CreatedBy] = struct{}{}
		if t.AssignedTo != nil {
			profileIDs[*t.AssignedTo] = struct{}{}
		}
		if t.ProjectID != nil {
			projectIDs[*t.ProjectID] = struct{}{}
		}
	}

	names := make(map[string]string, len(profileIDs))
	if len(profileIDs) > 0 {
		profiles, err := s.profiles.FindByIDs(ctx, keys(profileIDs))
		if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
			return nil, fmt.Errorf("list tasks: profiles: %w", err)
		}
		for _, p := range profiles {
			names[p.ID] = p.FullName
		}
	}
	projectNames := make(map[string]string, len(projectIDs))
	if len(projectIDs) > 0 {
		projects, err := s.projects.FindByIDs(ctx, keys(projectIDs))
		if err != nil && !errors.Is(err, domain.ErrProjectNotFound) {
			return nil, fmt.Errorf("list tasks: projects: %w", err)
		}
		for _, p := range projects {
			projectNames[p.ID] = p.Name
		}
	}

	out := make([]ports.TaskDetail, 0, len(tasks))
	for _, t := range tasks {
		d := ports.TaskDetail{Task: *t, CreatorName: names[t.CreatedBy]}
		if t.AssignedTo != nil {
			d.AssigneeName = names[*t.AssignedTo]
		}
		if t.ProjectID != nil {
			d.ProjectName = projectNames[*t.ProjectID]
		}
		out = append(out, d)
	}
	return out, nil
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
