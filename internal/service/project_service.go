package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "reelforge/internal/errors"
	"reelforge/internal/model"
	"reelforge/internal/repository"
)

var errProjectNotFound = apperrors.NotFound("Project not found")

// ProjectInput carries the editable fields of a project.
type ProjectInput struct {
	Title          string
	TimelineBlocks []json.RawMessage
	Notes          string
	Attachments    []json.RawMessage
}

func (in ProjectInput) applyTo(p *model.Project) {
	p.Title = in.Title
	p.TimelineBlocks = in.TimelineBlocks
	p.Notes = in.Notes
	p.Attachments = in.Attachments
	p.ApplyDefaults()
}

// ProjectService manages editor drafts. Every call is scoped to ownerID and a
// project owned by someone else is reported as not found.
type ProjectService interface {
	List(ctx context.Context, ownerID string) ([]model.Project, error)
	Get(ctx context.Context, ownerID, id string) (*model.Project, error)
	Create(ctx context.Context, ownerID string, in ProjectInput) (*model.Project, error)
	Update(ctx context.Context, ownerID, id string, in ProjectInput) (*model.Project, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type projectService struct {
	repo repository.ProjectRepository
}

// NewProjectService creates a new project service.
func NewProjectService(repo repository.ProjectRepository) ProjectService {
	return &projectService{repo: repo}
}

func (s *projectService) List(ctx context.Context, ownerID string) ([]model.Project, error) {
	projects, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return projects, nil
}

func (s *projectService) Get(ctx context.Context, ownerID, id string) (*model.Project, error) {
	project, err := s.repo.FindByIDForOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return project, nil
}

func (s *projectService) Create(ctx context.Context, ownerID string, in ProjectInput) (*model.Project, error) {
	project := &model.Project{OwnerID: ownerID}
	in.applyTo(project)
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

func (s *projectService) Update(ctx context.Context, ownerID, id string, in ProjectInput) (*model.Project, error) {
	project, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(project)
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.DeleteForOwner(ctx, id, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errProjectNotFound
		}
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
