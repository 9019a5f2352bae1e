package aichat

import (
	"context"
	defError "errors"
	"strings"
	"time"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"github.com/appdotbuilder/ai-dev-assistant/internal/errors"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service interface {
	Chat(ctx context.Context, input ChatInput) (*domain.AiChat, error)
	History(ctx context.Context, sessionID string) ([]domain.AiChat, error)
}

// SessionProvider gives access to session rows owned by another package.
type SessionProvider interface {
	FindByID(ctx context.Context, id string) (*domain.Session, error)
}

// ProjectProvider gives access to project rows owned by another package.
type ProjectProvider interface {
	FindByID(ctx context.Context, id string) (*domain.Project, error)
}

// FileProvider gives access to file rows owned by another package.
type FileProvider interface {
	FindByID(ctx context.Context, id string) (*domain.File, error)
}

type ChatInput struct {
	SessionID      string
	ProjectID      *string
	Message        string
	Model          *string
	ContextFileIDs []string
}

type DefaultService struct {
	repository   ChatRepository
	sessions     SessionProvider
	projects     ProjectProvider
	files        FileProvider
	defaultModel string
}

func NewService(
	repository ChatRepository,
	sessions SessionProvider,
	projects ProjectProvider,
	files FileProvider,
	defaultModel string,
) Service {
	return &DefaultService{
		repository:   repository,
		sessions:     sessions,
		projects:     projects,
		files:        files,
		defaultModel: defaultModel,
	}
}

// Chat logs a message/response exchange. Responses are canned; there is no
// model call behind this.
func (s *DefaultService) Chat(ctx context.Context, input ChatInput) (*domain.AiChat, error) {
	if _, err := s.sessions.FindByID(ctx, input.SessionID); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Session not found", err)
		}
		return nil, err
	}

	if len(input.ContextFileIDs) > 0 && input.ProjectID == nil {
		return nil, errors.BadRequest("Context files require a project id", nil)
	}

	if input.ProjectID != nil {
		if _, err := s.projects.FindByID(ctx, *input.ProjectID); err != nil {
			if defError.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.NotFound("Project not found", err)
			}
			return nil, err
		}

		for _, fileID := range input.ContextFileIDs {
			file, err := s.files.FindByID(ctx, fileID)
			if err != nil {
				if defError.Is(err, gorm.ErrRecordNotFound) {
					return nil, errors.BadRequest("Context file not found: "+fileID, err)
				}
				return nil, err
			}
			if file.ProjectID != *input.ProjectID {
				return nil, errors.BadRequest("Context file does not belong to project: "+fileID, nil)
			}
		}
	}

	model := s.defaultModel
	if input.Model != nil && *input.Model != "" {
		model = *input.Model
	}

	response := cannedResponse(input.Message)

	chat := &domain.AiChat{
		ID:         uuid.NewString(),
		SessionID:  input.SessionID,
		ProjectID:  input.ProjectID,
		Message:    input.Message,
		Response:   response,
		Model:      model,
		TokensUsed: int64(len(input.Message)+len(response)) / 4,
		CreatedAt:  time.Now().UTC(),
	}
	if input.ContextFileIDs != nil {
		chat.ContextFiles = datatypes.NewJSONSlice(input.ContextFileIDs)
	}

	if err := s.repository.Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *DefaultService) History(ctx context.Context, sessionID string) ([]domain.AiChat, error) {
	chats, err := s.repository.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if chats == nil {
		chats = []domain.AiChat{}
	}
	return chats, nil
}

// cannedResponse picks a stock assistant reply by rough message intent.
func cannedResponse(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "component"):
		return "I'd suggest splitting that into a small, focused component. Create a new file under /src, export a single function component, and pass data in through props rather than reaching into shared state."
	case strings.Contains(lower, "style") || strings.Contains(lower, "css"):
		return "For styling, keep a single stylesheet per component and lean on CSS custom properties for theme values. I can sketch out the class structure if you share the markup."
	case strings.Contains(lower, "error") || strings.Contains(lower, "bug") || strings.Contains(lower, "fix"):
		return "Let's narrow it down: check the browser console for the exact error, then look at the last file you changed. If you add that file to the chat context I can take a closer look."
	case strings.Contains(lower, "deploy"):
		return "You can deploy straight from the project page: pick the version you want to ship and hit deploy. The build logs will show up on the deployment record."
	default:
		return "Got it. Tell me a bit more about what you want to build or change, and add the relevant files to the context so I can give you concrete suggestions."
	}
}
