package template

import (
	"context"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"gorm.io/gorm"
)

// TemplateRepository defines the interface for template data access
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.Template) error
	FindByID(ctx context.Context, id string) (*domain.Template, error)
	ListAll(ctx context.Context) ([]domain.Template, error)
}

type TemplateRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new template repository
func NewRepository(db *gorm.DB) TemplateRepository {
	return &TemplateRepositoryImpl{db: db}
}

func (r *TemplateRepositoryImpl) Create(ctx context.Context, template *domain.Template) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *TemplateRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Template, error) {
	var template domain.Template
	err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// ListAll returns the catalog, featured templates first, then most used.
func (r *TemplateRepositoryImpl) ListAll(ctx context.Context) ([]domain.Template, error) {
	var templates []domain.Template
	err := r.db.WithContext(ctx).
		Order("is_featured DESC").
		Order("usage_count DESC").
		Find(&templates).Error
	return templates, err
}
