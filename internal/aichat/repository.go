package aichat

import (
	"context"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"gorm.io/gorm"
)

// ChatRepository defines the interface for chat log data access
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.AiChat) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.AiChat, error)
}

type ChatRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new chat repository
func NewRepository(db *gorm.DB) ChatRepository {
	return &ChatRepositoryImpl{db: db}
}

func (r *ChatRepositoryImpl) Create(ctx context.Context, chat *domain.AiChat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

func (r *ChatRepositoryImpl) ListBySession(ctx context.Context, sessionID string) ([]domain.AiChat, error) {
	var chats []domain.AiChat
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&chats).Error
	return chats, err
}
