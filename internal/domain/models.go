package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Session statuses
const (
	SessionActive   = "active"
	SessionInactive = "inactive"
	SessionExpired  = "expired"
)

// Collaborator roles
const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Deployment statuses
const (
	DeploymentPending  = "pending"
	DeploymentBuilding = "building"
	DeploymentDeployed = "deployed"
	DeploymentFailed   = "failed"
)

// File change actions recorded in a version
const (
	ActionCreated  = "created"
	ActionModified = "modified"
	ActionDeleted  = "deleted"
)

// Session is an anonymous identity handle. Everything else is scoped by it.
type Session struct {
	ID                 string    `gorm:"primaryKey" json:"id"`
	BrowserFingerprint string    `json:"browser_fingerprint"`
	IPAddress          string    `json:"ip_address"`
	UserAgent          string    `json:"user_agent"`
	Status             string    `gorm:"default:active" json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	LastActivity       time.Time `json:"last_activity"`
	ExpiresAt          time.Time `json:"expires_at"`
	Metadata           datatypes.JSONMap `json:"metadata,omitempty"`
}

// Expired reports whether the session's fixed expiry has passed.
// Expiry is pinned at creation, not slid on activity.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type Project struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Type          string    `json:"type"`
	TemplateID    *string   `gorm:"index" json:"template_id,omitempty"`
	SessionID     string    `gorm:"index" json:"session_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	IsPublic      bool      `gorm:"default:false" json:"is_public"`
	PreviewURL    *string   `json:"preview_url,omitempty"`
	DeploymentURL *string   `json:"deployment_url,omitempty"`
}

type File struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ProjectID string    `gorm:"index" json:"project_id"`
	Name      string    `json:"name"`
	Path      string    `gorm:"index" json:"path"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsDeleted bool      `gorm:"default:false" json:"is_deleted"`
}

// FileChange is one entry in a version's change list. Name/path/type hints
// are optional; rollback uses them to recover metadata for files whose rows
// are gone entirely.
type FileChange struct {
	FileID        string  `json:"file_id"`
	Action        string  `json:"action"`
	ContentBefore *string `json:"content_before,omitempty"`
	ContentAfter  *string `json:"content_after,omitempty"`
	FileName      *string `json:"file_name,omitempty"`
	FilePath      *string `json:"file_path,omitempty"`
	FileType      *string `json:"file_type,omitempty"`
}

// Version is an append-only commit record. Rows are never mutated; only a
// cascading project delete removes them.
type Version struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	ProjectID   string    `gorm:"index" json:"project_id"`
	CommitHash  string    `json:"commit_hash"`
	Message     string    `json:"message"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
	FileChanges datatypes.JSONType[[]FileChange] `json:"file_changes"`
}

// Changes unwraps the JSON column.
func (v *Version) Changes() []FileChange {
	return v.FileChanges.Data()
}

type Collaboration struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	ProjectID   string     `gorm:"index:idx_collab_project_session,unique" json:"project_id"`
	SessionID   string     `gorm:"index:idx_collab_project_session,unique" json:"session_id"`
	Role        string     `json:"role"`
	InvitedAt   time.Time  `json:"invited_at"`
	LastActive  *time.Time `json:"last_active,omitempty"`
	Permissions datatypes.JSONSlice[string] `json:"permissions"`
}

// DefaultPermissions maps a collaborator role to its permission set.
func DefaultPermissions(role string) []string {
	switch role {
	case RoleOwner:
		return []string{"read", "write", "delete", "share", "deploy"}
	case RoleEditor:
		return []string{"read", "write"}
	default:
		return []string{"read"}
	}
}

type Deployment struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	ProjectID  string     `gorm:"index" json:"project_id"`
	VersionID  string     `gorm:"index" json:"version_id"`
	Status     string     `gorm:"default:pending" json:"status"`
	URL        *string    `json:"url,omitempty"`
	BuildLogs  *string    `json:"build_logs,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	DeployedAt *time.Time `json:"deployed_at,omitempty"`
	Config     datatypes.JSONMap `json:"config,omitempty"`
}

// TemplateFile is an immutable file snapshot inside a template bundle.
type TemplateFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

type Template struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Files       datatypes.JSONType[[]TemplateFile] `json:"files"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	IsFeatured  bool      `gorm:"default:false" json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
	UsageCount  int64     `gorm:"default:0" json:"usage_count"`
}

type AiChat struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	SessionID    string    `gorm:"index" json:"session_id"`
	ProjectID    *string   `gorm:"index" json:"project_id,omitempty"`
	Message      string    `json:"message"`
	Response     string    `json:"response"`
	Model        string    `json:"model"`
	TokensUsed   int64     `json:"tokens_used"`
	CreatedAt    time.Time `json:"created_at"`
	ContextFiles datatypes.JSONSlice[string] `json:"context_files,omitempty"`
}
