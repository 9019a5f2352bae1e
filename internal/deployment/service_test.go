package deployment

import (
	"context"
	"testing"
	"time"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
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

	if err := db.AutoMigrate(&domain.Project{}, &domain.Version{}, &domain.Deployment{}); err != nil {
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

type dbVersions struct {
	db *gorm.DB
}

func (p dbVersions) FindByID(ctx context.Context, id string) (*domain.Version, error) {
	var version domain.Version
	if err := p.db.WithContext(ctx).First(&version, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &version, nil
}

func newTestService(db *gorm.DB) Service {
	return NewService(NewRepository(db), dbProjects{db: db}, dbVersions{db: db})
}

func seedProject(t *testing.T, db *gorm.DB) *domain.Project {
	t.Helper()
	now := time.Now().UTC()
	project := &domain.Project{
		ID:        uuid.NewString(),
		Name:      "demo",
		Type:      "react",
		SessionID: "session-1",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return project
}

func seedVersion(t *testing.T, db *gorm.DB, projectID string) *domain.Version {
	t.Helper()
	version := &domain.Version{
		ID:         uuid.NewString(),
		ProjectID:  projectID,
		CommitHash: "ab12cd34",
		Message:    "initial",
		Author:     "alice",
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.Create(version).Error; err != nil {
		t.Fatalf("failed to seed version: %v", err)
	}
	return version
}

func TestCreateDeployment_PendingWithSeededLogs(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	project := seedProject(t, db)
	version := seedVersion(t, db, project.ID)

	deployment, err := service.CreateDeployment(context.Background(), CreateDeploymentInput{
		ProjectID: project.ID,
		VersionID: version.ID,
		Config:    map[string]interface{}{"region": "eu-west-1"},
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.DeploymentPending, deployment.Status)
	if assert.NotNil(t, deployment.BuildLogs) {
		assert.Contains(t, *deployment.BuildLogs, "queued")
	}
	assert.Nil(t, deployment.URL)
	assert.Nil(t, deployment.DeployedAt)
}

func TestCreateDeployment_ProjectNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	_, err := service.CreateDeployment(context.Background(), CreateDeploymentInput{
		ProjectID: "missing",
		VersionID: "v1",
	})
	assert.ErrorContains(t, err, "not found")
}

func TestCreateDeployment_VersionNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	project := seedProject(t, db)

	_, err := service.CreateDeployment(context.Background(), CreateDeploymentInput{
		ProjectID: project.ID,
		VersionID: "missing",
	})
	assert.ErrorContains(t, err, "not found")
}

func TestCreateDeployment_VersionFromOtherProject(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	project := seedProject(t, db)
	other := seedProject(t, db)
	version := seedVersion(t, db, other.ID)

	_, err := service.CreateDeployment(context.Background(), CreateDeploymentInput{
		ProjectID: project.ID,
		VersionID: version.ID,
	})
	assert.ErrorContains(t, err, "does not belong to project")
}

func TestCreateDeployment_SameVersionTwice(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	project := seedProject(t, db)
	version := seedVersion(t, db, project.ID)

	input := CreateDeploymentInput{ProjectID: project.ID, VersionID: version.ID}
	first, err := service.CreateDeployment(context.Background(), input)
	assert.NoError(t, err)
	second, err := service.CreateDeployment(context.Background(), input)
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestListDeployments_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	project := seedProject(t, db)
	version := seedVersion(t, db, project.ID)

	now := time.Now().UTC()
	older := &domain.Deployment{
		ID: uuid.NewString(), ProjectID: project.ID, VersionID: version.ID,
		Status: domain.DeploymentDeployed, CreatedAt: now.Add(-time.Hour),
	}
	newer := &domain.Deployment{
		ID: uuid.NewString(), ProjectID: project.ID, VersionID: version.ID,
		Status: domain.DeploymentPending, CreatedAt: now,
	}
	assert.NoError(t, db.Create(older).Error)
	assert.NoError(t, db.Create(newer).Error)

	deployments, err := service.ListDeployments(context.Background(), project.ID)
	assert.NoError(t, err)
	if assert.Len(t, deployments, 2) {
		assert.Equal(t, newer.ID, deployments[0].ID)
		assert.Equal(t, older.ID, deployments[1].ID)
	}
}

func TestListDeployments_UnknownProjectEmpty(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	deployments, err := service.ListDeployments(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Equal(t, []domain.Deployment{}, deployments)
}
