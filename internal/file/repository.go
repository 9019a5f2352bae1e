package file

import (
	"context"
	"time"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"gorm.io/gorm"
)

// FileRepository defines the interface for file data access
type FileRepository interface {
	Create(ctx context.Context, file *domain.File) error
	FindByID(ctx context.Context, id string) (*domain.File, error)
	FindActiveByPath(ctx context.Context, projectID, path string) (*domain.File, error)
	ListActiveByProject(ctx context.Context, projectID string) ([]domain.File, error)
	Save(ctx context.Context, file *domain.File) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

type FileRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new file repository
func NewRepository(db *gorm.DB) FileRepository {
	return &FileRepositoryImpl{db: db}
}

func (r *FileRepositoryImpl) Create(ctx context.Context, file *domain.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

// FindByID returns the row whether or not it is soft-deleted.
func (r *FileRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.File, error) {
	var file domain.File
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepositoryImpl) FindActiveByPath(ctx context.Context, projectID, path string) (*domain.File, error) {
	var file domain.File
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND path = ? AND is_deleted = ?", projectID, path, false).
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepositoryImpl) ListActiveByProject(ctx context.Context, projectID string) ([]domain.File, error) {
	var files []domain.File
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND is_deleted = ?", projectID, false).
		Order("path ASC").
		Find(&files).Error
	return files, err
}

func (r *FileRepositoryImpl) Save(ctx context.Context, file *domain.File) error {
	return r.db.WithContext(ctx).Save(file).Error
}

func (r *FileRepositoryImpl) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.File{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": true, "updated_at": at}).Error
}
