package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
)

// --- Request → Service input ---

func toCreateTaskInput(req createTaskRequest) (ports.CreateTaskInput, error) {
	in := ports.CreateTaskInput{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		ProjectID:   strings.TrimSpace(req.ProjectID),
		AssignedTo:  strings.TrimSpace(req.AssignedTo),
		Priority:    req.Priority,
	}
	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			return ports.CreateTaskInput{}, err
		}
		in.DueDate = &due
	}
	return in, nil
}

func toProjectInput(req projectRequest) (ports.ProjectInput, error) {
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		return ports.ProjectInput{}, err
	}
	return ports.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Budget:      req.Budget,
		Deadline:    deadline,
	}, nil
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", domain.ErrInvalidInput, raw)
	}
	return t, nil
}

// --- Domain → Response ---

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toTaskResponse(t ports.TaskDetail) taskResponse {
	resp := taskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		Remarks:      t.Remarks,
		Priority:     t.Priority,
		CreatedBy:    t.CreatedBy,
		CreatorName:  t.CreatorName,
		AssignedTo:   t.AssignedTo,
		AssigneeName: t.AssigneeName,
		ProjectID:    t.ProjectID,
		ProjectName:  t.ProjectName,
		CreatedAt:    formatTime(t.CreatedAt),
		UpdatedAt:    formatTime(t.UpdatedAt),
	}
	if resp.AssigneeName == "" {
		resp.AssigneeName = "Unassigned"
	}
	if t.DueDate != nil {
		due := t.DueDate.UTC().Format(dateLayout)
		resp.DueDate = &due
	}
	return resp
}

func toTaskResponses(tasks []ports.TaskDetail) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		ClientName:  p.ClientName,
		ClientEmail: p.ClientEmail,
		Budget:      p.Budget,
		Deadline:    p.Deadline.UTC().Format(dateLayout),
		CreatedAt:   formatTime(p.CreatedAt),
	}
}

func toProfileViewResponse(v *ports.ProfileView) profileResponse {
	return profileResponse{
		ID:        v.ID,
		Email:     v.Email,
		FullName:  v.FullName,
		Role:      v.Role.String(),
		CreatedAt: formatTime(v.CreatedAt),
	}
}

func toEmployeeResponse(p *domain.Profile) profileResponse {
	return profileResponse{
		ID:        p.ID,
		FullName:  p.DisplayName("Unnamed Employee"),
		Role:      p.Role.String(),
		CreatedAt: formatTime(p.CreatedAt),
	}
}
