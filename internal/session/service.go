package session

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

// Service defines the interface for session business logic
type Service interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*domain.Session, error)
	GetSession(ctx context.Context, id string) (*domain.Session, error)
}

type CreateSessionInput struct {
	BrowserFingerprint string
	IPAddress          string
	UserAgent          string
	Metadata           map[string]interface{}
}

type DefaultService struct {
	repository SessionRepository
	ttl        time.Duration
}

// NewService creates a new session service. ttl is the fixed session
// lifetime measured from creation.
func NewService(repository SessionRepository, ttl time.Duration) Service {
	return &DefaultService{repository: repository, ttl: ttl}
}

// CreateSession issues a fresh anonymous session. It only fails on storage
// errors.
func (s *DefaultService) CreateSession(ctx context.Context, input CreateSessionInput) (*domain.Session, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		ID:                 uuid.NewString(),
		BrowserFingerprint: input.BrowserFingerprint,
		IPAddress:          input.IPAddress,
		UserAgent:          input.UserAgent,
		Status:             domain.SessionActive,
		CreatedAt:          now,
		LastActivity:       now,
		ExpiresAt:          now.Add(s.ttl),
	}
	if input.Metadata != nil {
		session.Metadata = datatypes.JSONMap(input.Metadata)
	}

	if err := s.repository.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession looks up a session and refreshes last_activity. The expiry
// itself stays pinned at creation time; reads never extend it.
func (s *DefaultService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Session not found", err)
		}
		return nil, err
	}

	now := time.Now().UTC()
	if session.Expired(now) && session.Status == domain.SessionActive {
		if err := s.repository.UpdateStatus(ctx, id, domain.SessionExpired); err != nil {
			return nil, err
		}
		session.Status = domain.SessionExpired
	}

	if err := s.repository.UpdateLastActivity(ctx, id, now); err != nil {
		return nil, err
	}
	session.LastActivity = now

	return session, nil
}
