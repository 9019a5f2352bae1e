package template

import (
	"context"
	"testing"
	"time"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"github.com/appdotbuilder/ai-dev-assistant/internal/logger"
	"github.com/appdotbuilder/ai-dev-assistant/internal/worker"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&domain.Project{}, &domain.File{}, &domain.Template{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

type dbProjects struct {
	db *gorm.DB
}

func (p dbProjects) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	if err := p.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

type dbFiles struct {
	db *gorm.DB
}

func (p dbFiles) ListActiveByProject(ctx context.Context, projectID string) ([]domain.File, error) {
	var files []domain.File
	err := p.db.WithContext(ctx).
		Where("project_id = ? AND is_deleted = ?", projectID, false).
		Order("path ASC").
		Find(&files).Error
	return files, err
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	pool := worker.NewPool(1, logger.NewNop())
	t.Cleanup(pool.Shutdown)
	return NewService(NewRepository(db), dbProjects{db: db}, dbFiles{db: db}, nil, pool)
}

func seedTemplate(t *testing.T, db *gorm.DB, name string, featured bool, usage int64) *domain.Template {
	t.Helper()
	template := &domain.Template{
		ID:         uuid.NewString(),
		Name:       name,
		Type:       "react",
		Files:      datatypes.NewJSONType([]domain.TemplateFile{}),
		IsFeatured: featured,
		CreatedAt:  time.Now().UTC(),
		UsageCount: usage,
	}
	if err := db.Create(template).Error; err != nil {
		t.Fatalf("failed to seed template: %v", err)
	}
	return template
}

func TestListTemplates_FeaturedThenUsageOrder(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(t, db)

	popular := seedTemplate(t, db, "popular", false, 50)
	featuredQuiet := seedTemplate(t, db, "featured quiet", true, 1)
	featuredPopular := seedTemplate(t, db, "featured popular", true, 10)
	unused := seedTemplate(t, db, "unused", false, 0)

	templates, err := service.ListTemplates(context.Background())
	assert.NoError(t, err)
	if assert.Len(t, templates, 4) {
		assert.Equal(t, featuredPopular.ID, templates[0].ID)
		assert.Equal(t, featuredQuiet.ID, templates[1].ID)
		assert.Equal(t, popular.ID, templates[2].ID)
		assert.Equal(t, unused.ID, templates[3].ID)
	}
}

func TestListTemplates_Empty(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(t, db)

	templates, err := service.ListTemplates(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []domain.Template{}, templates)
}

func TestCreateFromProject_SnapshotsActiveFilesOnly(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(t, db)

	now := time.Now().UTC()
	project := &domain.Project{
		ID: uuid.NewString(), Name: "source", Type: "vue",
		SessionID: "session-1", CreatedAt: now, UpdatedAt: now,
	}
	assert.NoError(t, db.Create(project).Error)
	assert.NoError(t, db.Create(&domain.File{
		ID: uuid.NewString(), ProjectID: project.ID,
		Name: "app.vue", Path: "/app.vue", Content: "<template/>", Type: "vue",
		CreatedAt: now, UpdatedAt: now,
	}).Error)
	assert.NoError(t, db.Create(&domain.File{
		ID: uuid.NewString(), ProjectID: project.ID,
		Name: "old.vue", Path: "/old.vue", Content: "gone", Type: "vue",
		CreatedAt: now, UpdatedAt: now, IsDeleted: true,
	}).Error)

	template, err := service.CreateFromProject(context.Background(), CreateFromProjectInput{
		ProjectID:   project.ID,
		Name:        "vue starter",
		Description: "from project",
		Tags:        []string{"vue", "starter"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "vue", template.Type)
	assert.False(t, template.IsFeatured)
	assert.Equal(t, int64(0), template.UsageCount)
	snapshots := template.Files.Data()
	if assert.Len(t, snapshots, 1) {
		assert.Equal(t, "/app.vue", snapshots[0].Path)
		assert.Equal(t, "<template/>", snapshots[0].Content)
	}
}

func TestCreateFromProject_ProjectNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(t, db)

	_, err := service.CreateFromProject(context.Background(), CreateFromProjectInput{
		ProjectID: "missing",
		Name:      "nope",
	})
	assert.ErrorContains(t, err, "not found")
}

func TestCreateFromProject_NilTagsStoredEmpty(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(t, db)

	now := time.Now().UTC()
	project := &domain.Project{
		ID: uuid.NewString(), Name: "source", Type: "react",
		SessionID: "session-1", CreatedAt: now, UpdatedAt: now,
	}
	assert.NoError(t, db.Create(project).Error)

	template, err := service.CreateFromProject(context.Background(), CreateFromProjectInput{
		ProjectID: project.ID,
		Name:      "bare",
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{}, []string(template.Tags))
}
