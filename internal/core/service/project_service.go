package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
)

type ProjectService struct {
	repo    ports.ProjectRepository
	changes ports.ChangeFeed
	log     zerolog.Logger
}

func NewProjectService(repo ports.ProjectRepository, changes ports.ChangeFeed, log zerolog.Logger) *ProjectService {
	return &ProjectService{repo: repo, changes: changes, log: log.With().Str("component", "projects").Logger()}
}

func (s *ProjectService) List(ctx context.Context) ([]*domain.Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, in ports.ProjectInput) (project *domain.Project, err error) {
	ctx, span := startSpan(ctx, "ProjectService.Create")
	defer func() { endSpan(span, err) }()

	in, err = normalizeProjectInput(in)
	if err != nil {
		return nil, err
	}
	project = &domain.Project{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	applyProjectInput(project, in)

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	publishChange(ctx, s.changes, s.log, domain.TableProjects, domain.ChangeInsert, project.ID)
	return project, nil
}

// Update overwrites the editable fields of an existing project; ID and
// created_at are preserved.
func (s *ProjectService) Update(ctx context.Context, id string, in ports.ProjectInput) (project *domain.Project, err error) {
	ctx, span := startSpan(ctx, "ProjectService.Update")
	defer func() { endSpan(span, err) }()

	in, err = normalizeProjectInput(in)
	if err != nil {
		return nil, err
	}
	project, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProjectInput(project, in)

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	publishChange(ctx, s.changes, s.log, domain.TableProjects, domain.ChangeUpdate, project.ID)
	return project, nil
}

func (s *ProjectService) Options(ctx context.Context) ([]ports.ProjectOption, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("project options: %w", err)
	}
	out := make([]ports.ProjectOption, 0, len(projects))
	for _, p := range projects {
		out = append(out, ports.ProjectOption{ID: p.ID, Name: p.Name})
	}
	slices.SortStableFunc(out, func(a, b ports.ProjectOption) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out, nil
}

func normalizeProjectInput(in ports.ProjectInput) (ports.ProjectInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Status = strings.TrimSpace(in.Status)
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.ClientEmail = strings.TrimSpace(in.ClientEmail)
	if in.Status == "" {
		in.Status = domain.DefaultProjectStatus
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", in.Name},
		{"description", in.Description},
		{"client name", in.ClientName},
		{"client email", in.ClientEmail},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if in.Deadline.IsZero() {
		missing = append(missing, "deadline")
	}
	if len(missing) > 0 {
		return in, fmt.Errorf("%w: %s required", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	if in.Budget < 0 {
		return in, fmt.Errorf("%w: budget must not be negative", domain.ErrInvalidInput)
	}
	return in, nil
}

func applyProjectInput(p *domain.Project, in ports.ProjectInput) {
	p.Name = in.Name
	p.Description = in.Description
	p.Status = in.Status
	p.ClientName = in.ClientName
	p.ClientEmail = in.ClientEmail
	p.Budget = in.Budget
	p.Deadline = in.Deadline
}
