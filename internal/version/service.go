package version

import (
	"context"
	defError "errors"
	"fmt"
	"time"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"github.com/appdotbuilder/ai-dev-assistant/internal/errors"
	"github.com/appdotbuilder/ai-dev-assistant/internal/logger"
	"github.com/appdotbuilder/ai-dev-assistant/redis"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service interface {
	CreateVersion(ctx context.Context, input CreateVersionInput) (*domain.Version, error)
	ListVersions(ctx context.Context, projectID string) ([]domain.Version, error)
	RollbackVersion(ctx context.Context, projectID, versionID, sessionID string) (bool, error)
}

// ProjectProvider gives access to project rows owned by another package.
type ProjectProvider interface {
	FindByID(ctx context.Context, id string) (*domain.Project, error)
}

type CreateVersionInput struct {
	ProjectID   string
	Message     string
	Author      string
	FileChanges []domain.FileChange
}

type DefaultService struct {
	repository VersionRepository
	projects   ProjectProvider
	cache      *redis.Cache
	log        *logger.Logger
}

func NewService(repository VersionRepository, projects ProjectProvider, cache *redis.Cache, log *logger.Logger) Service {
	return &DefaultService{
		repository: repository,
		projects:   projects,
		cache:      cache,
		log:        log,
	}
}

// CreateVersion appends a commit record. The change payload is stored
// verbatim; the log trusts its caller and never checks it against current
// file state.
func (s *DefaultService) CreateVersion(ctx context.Context, input CreateVersionInput) (*domain.Version, error) {
	if _, err := s.projects.FindByID(ctx, input.ProjectID); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Project not found", err)
		}
		return nil, err
	}

	now := time.Now().UTC()
	version := &domain.Version{
		ID:          uuid.NewString(),
		ProjectID:   input.ProjectID,
		CommitHash:  ComputeCommitHash(input.FileChanges, now, input.ProjectID),
		Message:     input.Message,
		Author:      input.Author,
		CreatedAt:   now,
		FileChanges: datatypes.NewJSONType(input.FileChanges),
	}

	if err := s.repository.Create(ctx, version); err != nil {
		return nil, err
	}
	return version, nil
}

// ListVersions returns the project's versions newest first. Unknown projects
// yield an empty list, not an error.
func (s *DefaultService) ListVersions(ctx context.Context, projectID string) ([]domain.Version, error) {
	versions, err := s.repository.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if versions == nil {
		versions = []domain.Version{}
	}
	return versions, nil
}

// RollbackVersion applies the inverse of the target version's changes and
// records that inverse as a new system-authored version. Only the project's
// owning session may roll back; collaborator roles, including owner-by-role,
// are deliberately not honored here.
func (s *DefaultService) RollbackVersion(ctx context.Context, projectID, versionID, sessionID string) (bool, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return false, errors.Forbidden("Access denied: project not owned by this session", err)
		}
		return false, err
	}
	if project.SessionID != sessionID {
		return false, errors.Forbidden("Access denied: project not owned by this session", nil)
	}

	target, err := s.repository.FindByID(ctx, versionID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return false, errors.NotFound("Version not found", err)
		}
		return false, err
	}
	if target.ProjectID != projectID {
		return false, errors.NotFound("Version not found for this project", nil)
	}

	result, err := s.repository.Rollback(ctx, project, target)
	if err != nil {
		return false, err
	}

	for _, fileID := range result.SyntheticRestores {
		s.log.Warn("restored file with synthetic metadata",
			"file_id", fileID,
			"version_id", target.ID,
			"project_id", projectID,
		)
	}
	s.log.Info("rollback applied",
		"project_id", projectID,
		"target_version_id", target.ID,
		"rollback_version_id", result.Version.ID,
		"changes", len(result.Version.Changes()),
	)

	// project updated_at changed, owner's cached list is stale
	s.cache.IncrementVersion(ctx, fmt.Sprintf("session:%s:projects:version", sessionID))

	return true, nil
}
