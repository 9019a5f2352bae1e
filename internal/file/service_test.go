package file

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

	if err := db.AutoMigrate(&domain.Project{}, &domain.File{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

type dbProjects struct {
	db *gorm.DB
}

func (p dbProjects) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	err := p.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func newTestService(db *gorm.DB) Service {
	return NewService(NewRepository(db), dbProjects{db: db})
}

func seedProject(t *testing.T, db *gorm.DB, sessionID string) *domain.Project {
	t.Helper()
	now := time.Now().UTC()
	project := &domain.Project{
		ID:        uuid.NewString(),
		Name:      "demo",
		Type:      "vue",
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return project
}

func strPtr(s string) *string {
	return &s
}

func TestCreateFile_Success(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	project := seedProject(t, db, "session-1")

	file, err := service.CreateFile(context.Background(), CreateFileInput{
		ProjectID: project.ID,
		Name:      "a.js",
		Path:      "/a.js",
		Content:   "x",
		Type:      "javascript",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), file.Size)
	assert.False(t, file.IsDeleted)
}

func TestCreateFile_ProjectNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	_, err := service.CreateFile(context.Background(), CreateFileInput{
		ProjectID: "missing",
		Name:      "a.js",
		Path:      "/a.js",
		Type:      "javascript",
	})

	assert.ErrorContains(t, err, "not found")
}

func TestCreateFile_PathConflict(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	project := seedProject(t, db, "session-1")

	input := CreateFileInput{ProjectID: project.ID, Name: "a.js", Path: "/a.js", Type: "javascript"}
	_, err := service.CreateFile(context.Background(), input)
	assert.NoError(t, err)

	_, err = service.CreateFile(context.Background(), input)
	assert.ErrorContains(t, err, "already exists")
}

func TestCreateFile_SoftDeletedPathReusable(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	project := seedProject(t, db, "session-1")

	input := CreateFileInput{ProjectID: project.ID, Name: "a.js", Path: "/a.js", Type: "javascript"}
	first, err := service.CreateFile(context.Background(), input)
	assert.NoError(t, err)

	ok, err := service.DeleteFile(context.Background(), first.ID, "session-1")
	assert.NoError(t, err)
	assert.True(t, ok)

	second, err := service.CreateFile(context.Background(), input)
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestFileSize_MultiByteUTF8(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	project := seedProject(t, db, "session-1")

	file, err := service.CreateFile(context.Background(), CreateFileInput{
		ProjectID: project.ID,
		Name:      "hello.txt",
		Path:      "/hello.txt",
		Content:   "Hello 世界",
		Type:      "text",
	})

	assert.NoError(t, err)
	// byte length, not rune count
	assert.Equal(t, int64(12), file.Size)
}

func TestUpdateFile_RecomputesSize(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	project := seedProject(t, db, "session-1")

	file, err := service.CreateFile(context.Background(), CreateFileInput{
		ProjectID: project.ID,
		Name:      "a.js",
		Path:      "/a.js",
		Content:   "x",
		Type:      "javascript",
	})
	assert.NoError(t, err)

	updated, err := service.UpdateFile(context.Background(), file.ID, UpdateFileInput{
		Content: strPtr("longer content"),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(len("longer content")), updated.Size)
}

func TestUpdateFile_NotFound(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	_, err := service.UpdateFile(context.Background(), "missing", UpdateFileInput{})
	assert.ErrorContains(t, err, "not found")
}

func TestUpdateFile_AlwaysRefreshesUpdatedAt(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	project := seedProject(t, db, "session-1")

	file, err := service.CreateFile(context.Background(), CreateFileInput{
		ProjectID: project.ID,
		Name:      "a.js",
		Path:      "/a.js",
		Type:      "javascript",
	})
	assert.NoError(t, err)

	stale := time.Now().UTC().Add(-time.Hour)
	assert.NoError(t, db.Model(&domain.File{}).Where("id = ?", file.ID).Update("updated_at", stale).Error)

	// empty update still touches updated_at
	updated, err := service.UpdateFile(context.Background(), file.ID, UpdateFileInput{})
	assert.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(stale))
}

func TestDeleteFile_AccessDenied(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	project := seedProject(t, db, "session-1")

	file, err := service.CreateFile(context.Background(), CreateFileInput{
		ProjectID: project.ID,
		Name:      "a.js",
		Path:      "/a.js",
		Type:      "javascript",
	})
	assert.NoError(t, err)

	ok, err := service.DeleteFile(context.Background(), file.ID, "someone-else")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "Access denied")
}

func TestDeleteFile_AlreadyDeletedConflict(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	project := seedProject(t, db, "session-1")

	file, err := service.CreateFile(context.Background(), CreateFileInput{
		ProjectID: project.ID,
		Name:      "a.js",
		Path:      "/a.js",
		Type:      "javascript",
	})
	assert.NoError(t, err)

	ok, err := service.DeleteFile(context.Background(), file.ID, "session-1")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = service.DeleteFile(context.Background(), file.ID, "session-1")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "already deleted")
}

func TestListFiles_ExcludesDeleted(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	project := seedProject(t, db, "session-1")

	kept, err := service.CreateFile(context.Background(), CreateFileInput{
		ProjectID: project.ID, Name: "a.js", Path: "/a.js", Type: "javascript",
	})
	assert.NoError(t, err)
	gone, err := service.CreateFile(context.Background(), CreateFileInput{
		ProjectID: project.ID, Name: "b.js", Path: "/b.js", Type: "javascript",
	})
	assert.NoError(t, err)

	_, err = service.DeleteFile(context.Background(), gone.ID, "session-1")
	assert.NoError(t, err)

	files, err := service.ListFiles(context.Background(), project.ID)
	assert.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, kept.ID, files[0].ID)
}

func TestListFiles_UnknownProjectEmpty(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	files, err := service.ListFiles(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Equal(t, []domain.File{}, files)
}
