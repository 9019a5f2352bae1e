package deployment

import (
	"context"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"gorm.io/gorm"
)

// DeploymentRepository defines the interface for deployment data access
type DeploymentRepository interface {
	Create(ctx context.Context, deployment *domain.Deployment) error
	ListByProject(ctx context.Context, projectID string) ([]domain.Deployment, error)
}

type DeploymentRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new deployment repository
func NewRepository(db *gorm.DB) DeploymentRepository {
	return &DeploymentRepositoryImpl{db: db}
}

func (r *DeploymentRepositoryImpl) Create(ctx context.Context, deployment *domain.Deployment) error {
	return r.db.WithContext(ctx).Create(deployment).Error
}

func (r *DeploymentRepositoryImpl) ListByProject(ctx context.Context, projectID string) ([]domain.Deployment, error) {
	var deployments []domain.Deployment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&deployments).Error
	return deployments, err
}
