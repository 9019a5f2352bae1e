package project

import (
	"context"
	defError "errors"
	"fmt"
	"strings"
	"time"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"github.com/appdotbuilder/ai-dev-assistant/internal/errors"
	"github.com/appdotbuilder/ai-dev-assistant/internal/logger"
	"github.com/appdotbuilder/ai-dev-assistant/internal/worker"
	"github.com/appdotbuilder/ai-dev-assistant/redis"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service interface {
	CreateProject(ctx context.Context, input CreateProjectInput) (*domain.Project, error)
	UpdateProject(ctx context.Context, projectID string, input UpdateProjectInput) (*domain.Project, error)
	ListProjects(ctx context.Context, sessionID string) ([]domain.Project, error)
	DeleteProject(ctx context.Context, projectID string, sessionID string) (bool, error)
	ShareProject(ctx context.Context, input ShareProjectInput) (*domain.Collaboration, error)
	ListCollaborations(ctx context.Context, projectID string) ([]domain.Collaboration, error)
}

// SessionProvider gives access to session rows owned by another package.
type SessionProvider interface {
	FindByID(ctx context.Context, id string) (*domain.Session, error)
}

// TemplateProvider gives access to template rows owned by another package.
type TemplateProvider interface {
	FindByID(ctx context.Context, id string) (*domain.Template, error)
}

type CreateProjectInput struct {
	Name        string
	Description *string
	Type        string
	TemplateID  *string
	SessionID   string
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

type ShareProjectInput struct {
	ProjectID   string
	SessionID   string
	Role        string
	Permissions []string
}

type DefaultService struct {
	repository     ProjectRepository
	sessions       SessionProvider
	templates      TemplateProvider
	cache          *redis.Cache
	pool           *worker.Pool
	log            *logger.Logger
	previewBaseURL string
}

func NewService(
	repository ProjectRepository,
	sessions SessionProvider,
	templates TemplateProvider,
	cache *redis.Cache,
	pool *worker.Pool,
	log *logger.Logger,
	previewBaseURL string,
) Service {
	return &DefaultService{
		repository:     repository,
		sessions:       sessions,
		templates:      templates,
		cache:          cache,
		pool:           pool,
		log:            log,
		previewBaseURL: previewBaseURL,
	}
}

func (s *DefaultService) CreateProject(ctx context.Context, input CreateProjectInput) (*domain.Project, error) {
	if _, err := s.sessions.FindByID(ctx, input.SessionID); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Session not found", err)
		}
		return nil, err
	}

	now := time.Now().UTC()
	projectID := uuid.NewString()
	previewURL := fmt.Sprintf("%s/%s", strings.TrimRight(s.previewBaseURL, "/"), projectID)

	project := &domain.Project{
		ID:          projectID,
		Name:        input.Name,
		Description: input.Description,
		Type:        input.Type,
		TemplateID:  input.TemplateID,
		SessionID:   input.SessionID,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsPublic:    false,
		PreviewURL:  &previewURL,
	}

	var files []domain.File
	if input.TemplateID != nil {
		template, err := s.templates.FindByID(ctx, *input.TemplateID)
		if err != nil {
			if defError.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.NotFound("Template not found", err)
			}
			return nil, err
		}
		files = copyTemplateFiles(projectID, template.Files.Data(), now)
	}

	if err := s.repository.Create(ctx, project, files); err != nil {
		return nil, err
	}

	s.cache.IncrementVersion(ctx, projectListVersionKey(input.SessionID))
	return project, nil
}

// copyTemplateFiles snapshots a template's bundled files into independent
// rows; the file name is the last path segment.
func copyTemplateFiles(projectID string, snapshots []domain.TemplateFile, now time.Time) []domain.File {
	files := make([]domain.File, 0, len(snapshots))
	for _, snapshot := range snapshots {
		segments := strings.Split(snapshot.Path, "/")
		name := segments[len(segments)-1]
		files = append(files, domain.File{
			ID:        uuid.NewString(),
			ProjectID: projectID,
			Name:      name,
			Path:      snapshot.Path,
			Content:   snapshot.Content,
			Type:      snapshot.Type,
			Size:      int64(len(snapshot.Content)),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return files
}

func (s *DefaultService) UpdateProject(ctx context.Context, projectID string, input UpdateProjectInput) (*domain.Project, error) {
	project, err := s.repository.FindByID(ctx, projectID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Project not found", err)
		}
		return nil, err
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = input.Description
	}
	if input.IsPublic != nil {
		project.IsPublic = *input.IsPublic
	}
	project.UpdatedAt = time.Now().UTC()

	if err := s.repository.Save(ctx, project); err != nil {
		return nil, err
	}

	s.cache.IncrementVersion(ctx, projectListVersionKey(project.SessionID))
	return project, nil
}

func (s *DefaultService) ListProjects(ctx context.Context, sessionID string) ([]domain.Project, error) {
	v := s.cache.GetVersion(ctx, projectListVersionKey(sessionID))
	cacheKey := fmt.Sprintf("projects:s:%s:v:%d", sessionID, v)

	var cached []domain.Project
	if found, _ := s.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	projects, err := s.repository.ListVisibleToSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []domain.Project{}
	}

	result := projects
	s.pool.Submit(func(ctx context.Context) error {
		return s.cache.Set(ctx, cacheKey, result, 24*time.Hour)
	})

	return projects, nil
}

// DeleteProject returns false, without an error, when the project is missing
// or the caller doesn't own it; nothing is touched in either case.
func (s *DefaultService) DeleteProject(ctx context.Context, projectID string, sessionID string) (bool, error) {
	project, err := s.repository.FindByID(ctx, projectID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if project.SessionID != sessionID {
		return false, nil
	}

	if err := s.repository.DeleteCascade(ctx, projectID); err != nil {
		return false, err
	}
	s.log.Info("project deleted", "project_id", projectID, "session_id", sessionID)

	s.cache.IncrementVersion(ctx, projectListVersionKey(sessionID))
	return true, nil
}

func (s *DefaultService) ShareProject(ctx context.Context, input ShareProjectInput) (*domain.Collaboration, error) {
	if _, err := s.repository.FindByID(ctx, input.ProjectID); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Project not found", err)
		}
		return nil, err
	}

	if _, err := s.sessions.FindByID(ctx, input.SessionID); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Session not found", err)
		}
		return nil, err
	}

	if _, err := s.repository.FindCollaboration(ctx, input.ProjectID, input.SessionID); err == nil {
		return nil, errors.Conflict("Collaboration already exists for this session", nil)
	} else if !defError.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	permissions := input.Permissions
	if len(permissions) == 0 {
		permissions = domain.DefaultPermissions(input.Role)
	}

	collab := &domain.Collaboration{
		ID:          uuid.NewString(),
		ProjectID:   input.ProjectID,
		SessionID:   input.SessionID,
		Role:        input.Role,
		InvitedAt:   time.Now().UTC(),
		Permissions: datatypes.NewJSONSlice(permissions),
	}

	if err := s.repository.CreateCollaboration(ctx, collab); err != nil {
		if defError.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.Conflict("Collaboration already exists for this session", err)
		}
		return nil, err
	}

	// the invited session now sees this project in its list
	s.cache.IncrementVersion(ctx, projectListVersionKey(input.SessionID))
	return collab, nil
}

func (s *DefaultService) ListCollaborations(ctx context.Context, projectID string) ([]domain.Collaboration, error) {
	collabs, err := s.repository.ListCollaborations(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if collabs == nil {
		collabs = []domain.Collaboration{}
	}
	return collabs, nil
}

func projectListVersionKey(sessionID string) string {
	return fmt.Sprintf("session:%s:projects:version", sessionID)
}
