package template

import (
	"context"
	defError "errors"
	"fmt"
	"time"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"github.com/appdotbuilder/ai-dev-assistant/internal/errors"
	"github.com/appdotbuilder/ai-dev-assistant/internal/worker"
	"github.com/appdotbuilder/ai-dev-assistant/redis"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const catalogVersionKey = "templates:version"

type Service interface {
	ListTemplates(ctx context.Context) ([]domain.Template, error)
	CreateFromProject(ctx context.Context, input CreateFromProjectInput) (*domain.Template, error)
}

// ProjectProvider gives access to project rows owned by another package.
type ProjectProvider interface {
	FindByID(ctx context.Context, id string) (*domain.Project, error)
}

// FileProvider lists a project's live files for snapshotting.
type FileProvider interface {
	ListActiveByProject(ctx context.Context, projectID string) ([]domain.File, error)
}

type CreateFromProjectInput struct {
	ProjectID   string
	Name        string
	Description string
	Tags        []string
}

type DefaultService struct {
	repository TemplateRepository
	projects   ProjectProvider
	files      FileProvider
	cache      *redis.Cache
	pool       *worker.Pool
}

func NewService(
	repository TemplateRepository,
	projects ProjectProvider,
	files FileProvider,
	cache *redis.Cache,
	pool *worker.Pool,
) Service {
	return &DefaultService{
		repository: repository,
		projects:   projects,
		files:      files,
		cache:      cache,
		pool:       pool,
	}
}

func (s *DefaultService) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	v := s.cache.GetVersion(ctx, catalogVersionKey)
	cacheKey := catalogCacheKey(v)

	var cached []domain.Template
	if found, _ := s.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	templates, err := s.repository.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []domain.Template{}
	}

	result := templates
	s.pool.Submit(func(ctx context.Context) error {
		return s.cache.Set(ctx, cacheKey, result, 24*time.Hour)
	})

	return templates, nil
}

// CreateFromProject captures the project's current non-deleted files as an
// immutable template bundle. New templates are never featured and start at
// zero usage.
func (s *DefaultService) CreateFromProject(ctx context.Context, input CreateFromProjectInput) (*domain.Template, error) {
	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Project not found", err)
		}
		return nil, err
	}

	files, err := s.files.ListActiveByProject(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}

	snapshots := make([]domain.TemplateFile, 0, len(files))
	for _, f := range files {
		snapshots = append(snapshots, domain.TemplateFile{
			Path:    f.Path,
			Content: f.Content,
			Type:    f.Type,
		})
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	template := &domain.Template{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Type:        project.Type,
		Files:       datatypes.NewJSONType(snapshots),
		Tags:        datatypes.NewJSONSlice(tags),
		IsFeatured:  false,
		CreatedAt:   time.Now().UTC(),
		UsageCount:  0,
	}

	if err := s.repository.Create(ctx, template); err != nil {
		return nil, err
	}

	s.cache.IncrementVersion(ctx, catalogVersionKey)
	return template, nil
}

func catalogCacheKey(version int64) string {
	return fmt.Sprintf("templates:catalog:v:%d", version)
}
