package project

import (
	"context"
	"time"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"gorm.io/gorm"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project, files []domain.File) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	Save(ctx context.Context, project *domain.Project) error
	ListVisibleToSession(ctx context.Context, sessionID string) ([]domain.Project, error)
	DeleteCascade(ctx context.Context, projectID string) error
	CreateCollaboration(ctx context.Context, collab *domain.Collaboration) error
	FindCollaboration(ctx context.Context, projectID, sessionID string) (*domain.Collaboration, error)
	ListCollaborations(ctx context.Context, projectID string) ([]domain.Collaboration, error)
}

type ProjectRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new project repository
func NewRepository(db *gorm.DB) ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

// Create inserts the project and any template-derived files, and bumps the
// source template's usage counter, in one transaction.
func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *domain.Project, files []domain.File) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		if len(files) > 0 {
			if err := tx.Create(&files).Error; err != nil {
				return err
			}
		}
		if project.TemplateID != nil {
			if err := tx.Model(&domain.Template{}).
				Where("id = ?", *project.TemplateID).
				UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ProjectRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) Save(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// ListVisibleToSession returns owned plus shared projects, deduplicated by
// project id through the single OR query.
func (r *ProjectRepositoryImpl) ListVisibleToSession(ctx context.Context, sessionID string) ([]domain.Project, error) {
	var projects []domain.Project
	shared := r.db.Model(&domain.Collaboration{}).
		Select("project_id").
		Where("session_id = ?", sessionID)
	err := r.db.WithContext(ctx).
		Where("session_id = ? OR id IN (?)", sessionID, shared).
		Order("updated_at DESC").
		Find(&projects).Error
	return projects, err
}

// DeleteCascade removes a project and its dependents in one transaction:
// files are soft-deleted and kept; chats, collaborations, deployments and
// versions are hard-deleted; the project row goes last.
func (r *ProjectRepositoryImpl) DeleteCascade(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		if err := tx.Model(&domain.File{}).
			Where("project_id = ?", projectID).
			Updates(map[string]interface{}{"is_deleted": true, "updated_at": now}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&domain.AiChat{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&domain.Collaboration{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&domain.Deployment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&domain.Version{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Project{}, "id = ?", projectID).Error
	})
}

func (r *ProjectRepositoryImpl) CreateCollaboration(ctx context.Context, collab *domain.Collaboration) error {
	return r.db.WithContext(ctx).Create(collab).Error
}

func (r *ProjectRepositoryImpl) FindCollaboration(ctx context.Context, projectID, sessionID string) (*domain.Collaboration, error) {
	var collab domain.Collaboration
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND session_id = ?", projectID, sessionID).
		First(&collab).Error
	if err != nil {
		return nil, err
	}
	return &collab, nil
}

func (r *ProjectRepositoryImpl) ListCollaborations(ctx context.Context, projectID string) ([]domain.Collaboration, error) {
	var collabs []domain.Collaboration
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("invited_at ASC").
		Find(&collabs).Error
	return collabs, err
}
