package aichat

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

	if err := db.AutoMigrate(&domain.Session{}, &domain.Project{}, &domain.File{}, &domain.AiChat{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

type dbSessions struct {
	db *gorm.DB
}

func (p dbSessions) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	if err := p.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
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

func (p dbFiles) FindByID(ctx context.Context, id string) (*domain.File, error) {
	var file domain.File
	if err := p.db.WithContext(ctx).First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func newTestService(db *gorm.DB) Service {
	return NewService(NewRepository(db), dbSessions{db: db}, dbProjects{db: db}, dbFiles{db: db}, "gpt-4o-mini")
}

func seedSession(t *testing.T, db *gorm.DB) *domain.Session {
	t.Helper()
	now := time.Now().UTC()
	session := &domain.Session{
		ID:           uuid.NewString(),
		Status:       domain.SessionActive,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(24 * time.Hour),
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return session
}

func seedProject(t *testing.T, db *gorm.DB, sessionID string) *domain.Project {
	t.Helper()
	now := time.Now().UTC()
	project := &domain.Project{
		ID:        uuid.NewString(),
		Name:      "demo",
		Type:      "react",
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return project
}

func seedFile(t *testing.T, db *gorm.DB, projectID string) *domain.File {
	t.Helper()
	now := time.Now().UTC()
	file := &domain.File{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Name:      "app.js",
		Path:      "/app.js",
		Content:   "x",
		Type:      "javascript",
		Size:      1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(file).Error; err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}
	return file
}

func strPtr(s string) *string {
	return &s
}

func TestChat_SessionNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	_, err := service.Chat(context.Background(), ChatInput{
		SessionID: "missing",
		Message:   "hello",
	})
	assert.ErrorContains(t, err, "not found")
}

func TestChat_ContextFilesRequireProject(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	session := seedSession(t, db)

	_, err := service.Chat(context.Background(), ChatInput{
		SessionID:      session.ID,
		Message:        "look at this",
		ContextFileIDs: []string{"f1"},
	})
	assert.ErrorContains(t, err, "require a project id")
}

func TestChat_ContextFileNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	session := seedSession(t, db)
	project := seedProject(t, db, session.ID)

	_, err := service.Chat(context.Background(), ChatInput{
		SessionID:      session.ID,
		ProjectID:      &project.ID,
		Message:        "look at this",
		ContextFileIDs: []string{"missing"},
	})
	assert.ErrorContains(t, err, "Context file not found: missing")
}

func TestChat_ContextFileFromOtherProject(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	session := seedSession(t, db)
	project := seedProject(t, db, session.ID)
	other := seedProject(t, db, session.ID)
	foreign := seedFile(t, db, other.ID)

	_, err := service.Chat(context.Background(), ChatInput{
		SessionID:      session.ID,
		ProjectID:      &project.ID,
		Message:        "look at this",
		ContextFileIDs: []string{foreign.ID},
	})
	assert.ErrorContains(t, err, "does not belong to project")
}

func TestChat_CannedResponseByIntent(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	session := seedSession(t, db)

	chat, err := service.Chat(context.Background(), ChatInput{
		SessionID: session.ID,
		Message:   "how do I deploy this?",
	})
	assert.NoError(t, err)
	assert.Contains(t, chat.Response, "deploy")

	chat, err = service.Chat(context.Background(), ChatInput{
		SessionID: session.ID,
		Message:   "there's a bug somewhere",
	})
	assert.NoError(t, err)
	assert.Contains(t, chat.Response, "error")
}

func TestChat_TokensAndModelDefaults(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	session := seedSession(t, db)

	message := "hello there"
	chat, err := service.Chat(context.Background(), ChatInput{
		SessionID: session.ID,
		Message:   message,
	})
	assert.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", chat.Model)
	assert.Equal(t, int64(len(message)+len(chat.Response))/4, chat.TokensUsed)

	chat, err = service.Chat(context.Background(), ChatInput{
		SessionID: session.ID,
		Message:   message,
		Model:     strPtr("gpt-4o"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "gpt-4o", chat.Model)
}

func TestHistory_OldestFirstScopedToSession(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)
	session := seedSession(t, db)
	other := seedSession(t, db)

	first, err := service.Chat(context.Background(), ChatInput{SessionID: session.ID, Message: "one"})
	assert.NoError(t, err)
	second, err := service.Chat(context.Background(), ChatInput{SessionID: session.ID, Message: "two"})
	assert.NoError(t, err)
	_, err = service.Chat(context.Background(), ChatInput{SessionID: other.ID, Message: "elsewhere"})
	assert.NoError(t, err)

	// force distinct timestamps, sqlite keeps sub-second precision but the
	// inserts above may land on the same tick
	assert.NoError(t, db.Model(&domain.AiChat{}).Where("id = ?", first.ID).
		Update("created_at", time.Now().UTC().Add(-time.Minute)).Error)

	history, err := service.History(context.Background(), session.ID)
	assert.NoError(t, err)
	if assert.Len(t, history, 2) {
		assert.Equal(t, first.ID, history[0].ID)
		assert.Equal(t, second.ID, history[1].ID)
	}
}

func TestHistory_UnknownSessionEmpty(t *testing.T) {
	db := setupTestDB(t)
	service := newTestService(db)

	history, err := service.History(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Equal(t, []domain.AiChat{}, history)
}
