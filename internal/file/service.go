package file

import (
	"context"
	defError "errors"
	"time"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"github.com/appdotbuilder/ai-dev-assistant/internal/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the interface for file business logic
type Service interface {
	CreateFile(ctx context.Context, input CreateFileInput) (*domain.File, error)
	UpdateFile(ctx context.Context, fileID string, input UpdateFileInput) (*domain.File, error)
	ListFiles(ctx context.Context, projectID string) ([]domain.File, error)
	DeleteFile(ctx context.Context, fileID string, sessionID string) (bool, error)
}

// ProjectProvider gives access to project rows owned by another package.
type ProjectProvider interface {
	FindByID(ctx context.Context, id string) (*domain.Project, error)
}

type CreateFileInput struct {
	ProjectID string
	Name      string
	Path      string
	Content   string
	Type      string
}

type UpdateFileInput struct {
	Content *string
	Name    *string
	Path    *string
}

type DefaultService struct {
	repository FileRepository
	projects   ProjectProvider
}

func NewService(repository FileRepository, projects ProjectProvider) Service {
	return &DefaultService{repository: repository, projects: projects}
}

func (s *DefaultService) CreateFile(ctx context.Context, input CreateFileInput) (*domain.File, error) {
	if _, err := s.projects.FindByID(ctx, input.ProjectID); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Project not found", err)
		}
		return nil, err
	}

	// Path must be free among non-deleted files; a soft-deleted file's path
	// may be reused by a brand new row.
	if _, err := s.repository.FindActiveByPath(ctx, input.ProjectID, input.Path); err == nil {
		return nil, errors.Conflict("File already exists at this path", nil)
	} else if !defError.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	file := &domain.File{
		ID:        uuid.NewString(),
		ProjectID: input.ProjectID,
		Name:      input.Name,
		Path:      input.Path,
		Content:   input.Content,
		Type:      input.Type,
		Size:      int64(len(input.Content)),
		CreatedAt: now,
		UpdatedAt: now,
		IsDeleted: false,
	}

	if err := s.repository.Create(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *DefaultService) UpdateFile(ctx context.Context, fileID string, input UpdateFileInput) (*domain.File, error) {
	file, err := s.repository.FindByID(ctx, fileID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("File not found", err)
		}
		return nil, err
	}

	if input.Content != nil {
		file.Content = *input.Content
		// size is derived, never trusted from the caller
		file.Size = int64(len(*input.Content))
	}
	if input.Name != nil {
		file.Name = *input.Name
	}
	if input.Path != nil {
		file.Path = *input.Path
	}
	file.UpdatedAt = time.Now().UTC()

	if err := s.repository.Save(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

// ListFiles returns the project's non-deleted files. An unknown project
// yields an empty list, not an error.
func (s *DefaultService) ListFiles(ctx context.Context, projectID string) ([]domain.File, error) {
	files, err := s.repository.ListActiveByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []domain.File{}
	}
	return files, nil
}

// DeleteFile soft-deletes a file. Only the owner of the file's project may
// delete; collaborators are not honored here.
func (s *DefaultService) DeleteFile(ctx context.Context, fileID string, sessionID string) (bool, error) {
	file, err := s.repository.FindByID(ctx, fileID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return false, errors.NotFound("File not found", err)
		}
		return false, err
	}

	project, err := s.projects.FindByID(ctx, file.ProjectID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return false, errors.NotFound("Project not found", err)
		}
		return false, err
	}
	if project.SessionID != sessionID {
		return false, errors.Forbidden("Access denied: only the project owner can delete files", nil)
	}

	if file.IsDeleted {
		return false, errors.Conflict("File already deleted", nil)
	}

	if err := s.repository.SoftDelete(ctx, fileID, time.Now().UTC()); err != nil {
		return false, err
	}
	return true, nil
}
