package deployment

import (
	"context"
	defError "errors"
	"time"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"github.com/appdotbuilder/ai-dev-assistant/internal/errors"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const initialBuildLog = "Deployment queued. Waiting for build slot..."

type Service interface {
	CreateDeployment(ctx context.Context, input CreateDeploymentInput) (*domain.Deployment, error)
	ListDeployments(ctx context.Context, projectID string) ([]domain.Deployment, error)
}

// ProjectProvider gives access to project rows owned by another package.
type ProjectProvider interface {
	FindByID(ctx context.Context, id string) (*domain.Project, error)
}

// VersionProvider gives access to version rows owned by another package.
type VersionProvider interface {
	FindByID(ctx context.Context, id string) (*domain.Version, error)
}

type CreateDeploymentInput struct {
	ProjectID string
	VersionID string
	Config    map[string]interface{}
}

type DefaultService struct {
	repository DeploymentRepository
	projects   ProjectProvider
	versions   VersionProvider
}

func NewService(repository DeploymentRepository, projects ProjectProvider, versions VersionProvider) Service {
	return &DefaultService{
		repository: repository,
		projects:   projects,
		versions:   versions,
	}
}

// CreateDeployment records a deployment request against a specific version.
// Multiple deployments of the same version are allowed. Status transitions
// are not driven here; records start pending with seeded build logs.
func (s *DefaultService) CreateDeployment(ctx context.Context, input CreateDeploymentInput) (*domain.Deployment, error) {
	if _, err := s.projects.FindByID(ctx, input.ProjectID); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Project not found", err)
		}
		return nil, err
	}

	version, err := s.versions.FindByID(ctx, input.VersionID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Version not found", err)
		}
		return nil, err
	}
	if version.ProjectID != input.ProjectID {
		return nil, errors.Conflict("Version does not belong to project", nil)
	}

	buildLogs := initialBuildLog
	deployment := &domain.Deployment{
		ID:        uuid.NewString(),
		ProjectID: input.ProjectID,
		VersionID: input.VersionID,
		Status:    domain.DeploymentPending,
		BuildLogs: &buildLogs,
		CreatedAt: time.Now().UTC(),
	}
	if input.Config != nil {
		deployment.Config = datatypes.JSONMap(input.Config)
	}

	if err := s.repository.Create(ctx, deployment); err != nil {
		return nil, err
	}
	return deployment, nil
}

func (s *DefaultService) ListDeployments(ctx context.Context, projectID string) ([]domain.Deployment, error) {
	deployments, err := s.repository.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if deployments == nil {
		deployments = []domain.Deployment{}
	}
	return deployments, nil
}
