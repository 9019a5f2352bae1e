package version

import (
	"context"
	defError "errors"
	"path"
	"strings"
	"time"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RollbackResult carries the compensating version appended by a rollback and
// the ids of files that had to be restored with synthetic metadata.
type RollbackResult struct {
	Version           *domain.Version
	SyntheticRestores []string
}

// VersionRepository defines the interface for version data access
type VersionRepository interface {
	Create(ctx context.Context, version *domain.Version) error
	FindByID(ctx context.Context, id string) (*domain.Version, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Version, error)
	Rollback(ctx context.Context, project *domain.Project, target *domain.Version) (*RollbackResult, error)
}

type VersionRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new version repository
func NewRepository(db *gorm.DB) VersionRepository {
	return &VersionRepositoryImpl{db: db}
}

func (r *VersionRepositoryImpl) Create(ctx context.Context, version *domain.Version) error {
	return r.db.WithContext(ctx).Create(version).Error
}

func (r *VersionRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Version, error) {
	var version domain.Version
	err := r.db.WithContext(ctx).First(&version, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *VersionRepositoryImpl) ListByProject(ctx context.Context, projectID string) ([]domain.Version, error) {
	var versions []domain.Version
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&versions).Error
	return versions, err
}

// Rollback applies the inverse of the target version's changes to current
// file state and appends the compensating version, all in one transaction.
// Any lookup or update failure aborts the whole rollback.
func (r *VersionRepositoryImpl) Rollback(ctx context.Context, project *domain.Project, target *domain.Version) (*RollbackResult, error) {
	result := &RollbackResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		compensating := make([]domain.FileChange, 0, len(target.Changes()))

		for _, change := range target.Changes() {
			switch change.Action {
			case domain.ActionCreated:
				record, err := undoCreate(tx, change, now)
				if err != nil {
					return err
				}
				if record != nil {
					compensating = append(compensating, *record)
				}

			case domain.ActionModified:
				record, err := undoModify(tx, change, now)
				if err != nil {
					return err
				}
				if record != nil {
					compensating = append(compensating, *record)
				}

			case domain.ActionDeleted:
				record, synthetic, err := undoDelete(tx, project.ID, change, now)
				if err != nil {
					return err
				}
				if record != nil {
					compensating = append(compensating, *record)
				}
				if synthetic {
					result.SyntheticRestores = append(result.SyntheticRestores, change.FileID)
				}
			}
		}

		rollback := &domain.Version{
			ID:          uuid.NewString(),
			ProjectID:   project.ID,
			CommitHash:  ComputeCommitHash(compensating, now, project.ID),
			Message:     "Rollback to version: " + target.Message,
			Author:      "system",
			CreatedAt:   now,
			FileChanges: datatypes.NewJSONType(compensating),
		}
		if err := tx.Create(rollback).Error; err != nil {
			return err
		}

		if err := tx.Model(&domain.Project{}).
			Where("id = ?", project.ID).
			Update("updated_at", now).Error; err != nil {
			return err
		}

		result.Version = rollback
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// undoCreate soft-deletes the file the original change created. A missing
// row is a no-op with nothing to compensate.
func undoCreate(tx *gorm.DB, change domain.FileChange, now time.Time) (*domain.FileChange, error) {
	var file domain.File
	err := tx.First(&file, "id = ?", change.FileID).Error
	if defError.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	current := file.Content
	if err := tx.Model(&domain.File{}).
		Where("id = ?", file.ID).
		Updates(map[string]interface{}{"is_deleted": true, "updated_at": now}).Error; err != nil {
		return nil, err
	}

	return &domain.FileChange{
		FileID:        change.FileID,
		Action:        domain.ActionDeleted,
		ContentBefore: &current,
	}, nil
}

// undoModify puts the recorded content_before back. Skipped when the file is
// gone or the change never recorded a before-state.
func undoModify(tx *gorm.DB, change domain.FileChange, now time.Time) (*domain.FileChange, error) {
	if change.ContentBefore == nil {
		return nil, nil
	}

	var file domain.File
	err := tx.First(&file, "id = ?", change.FileID).Error
	if defError.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	prior := file.Content
	restored := *change.ContentBefore
	if err := tx.Model(&domain.File{}).
		Where("id = ?", file.ID).
		Updates(map[string]interface{}{
			"content":    restored,
			"size":       int64(len(restored)),
			"updated_at": now,
		}).Error; err != nil {
		return nil, err
	}

	return &domain.FileChange{
		FileID:        change.FileID,
		Action:        domain.ActionModified,
		ContentBefore: &prior,
		ContentAfter:  change.ContentBefore,
	}, nil
}

// undoDelete restores a deleted file. A still-present soft-deleted row is
// revived in place; a fully absent row is re-created with metadata recovered
// from the project's version history, falling back to synthetic values.
func undoDelete(tx *gorm.DB, projectID string, change domain.FileChange, now time.Time) (*domain.FileChange, bool, error) {
	if change.ContentBefore == nil {
		return nil, false, nil
	}
	restored := *change.ContentBefore

	var file domain.File
	err := tx.First(&file, "id = ?", change.FileID).Error
	synthetic := false
	switch {
	case err == nil:
		if err := tx.Model(&domain.File{}).
			Where("id = ?", file.ID).
			Updates(map[string]interface{}{
				"is_deleted": false,
				"content":    restored,
				"size":       int64(len(restored)),
				"updated_at": now,
			}).Error; err != nil {
			return nil, false, err
		}

	case defError.Is(err, gorm.ErrRecordNotFound):
		name, filePath, fileType, recovered := recoverFileMetadata(tx, projectID, change.FileID)
		synthetic = !recovered
		if err := tx.Create(&domain.File{
			ID:        change.FileID,
			ProjectID: projectID,
			Name:      name,
			Path:      filePath,
			Content:   restored,
			Type:      fileType,
			Size:      int64(len(restored)),
			CreatedAt: now,
			UpdatedAt: now,
		}).Error; err != nil {
			return nil, false, err
		}

	default:
		return nil, false, err
	}

	return &domain.FileChange{
		FileID:       change.FileID,
		Action:       domain.ActionCreated,
		ContentAfter: change.ContentBefore,
	}, synthetic, nil
}

// recoverFileMetadata scans the project's version history for name/path/type
// hints recorded against the same file id. Returns synthetic fallbacks, and
// recovered=false, when no hint exists anywhere.
func recoverFileMetadata(tx *gorm.DB, projectID, fileID string) (name, filePath, fileType string, recovered bool) {
	var versions []domain.Version
	if err := tx.Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&versions).Error; err == nil {
		for _, v := range versions {
			for _, c := range v.Changes() {
				if c.FileID != fileID {
					continue
				}
				if name == "" && c.FileName != nil {
					name = *c.FileName
				}
				if filePath == "" && c.FilePath != nil {
					filePath = *c.FilePath
				}
				if fileType == "" && c.FileType != nil {
					fileType = *c.FileType
				}
			}
		}
	}

	recovered = name != "" || filePath != "" || fileType != ""

	if name == "" {
		if filePath != "" {
			name = path.Base(filePath)
		} else {
			name = "restored_file"
		}
	}
	if filePath == "" {
		filePath = "/" + strings.TrimPrefix(name, "/")
	}
	if fileType == "" {
		fileType = fileTypeFromName(name)
	}
	return name, filePath, fileType, recovered
}

// fileTypeFromName infers a file type from the name's extension, defaulting
// to a generic text type.
func fileTypeFromName(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".js", ".jsx", ".mjs":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	case ".css":
		return "css"
	case ".html", ".htm":
		return "html"
	case ".json":
		return "json"
	case ".md":
		return "markdown"
	case ".vue":
		return "vue"
	case ".svelte":
		return "svelte"
	default:
		return "text"
	}
}
