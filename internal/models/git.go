package models

import (
	"time"
)

// ClaudeActivityState represents the current activity state of a Claude
// session attached to a worktree.
type ClaudeActivityState string

const (
	// ClaudeInactive means no Claude session exists
	ClaudeInactive ClaudeActivityState = "inactive"
	// ClaudeRunning means a PTY session exists but no recent Claude activity
	ClaudeRunning ClaudeActivityState = "running"
	// ClaudeActive means recent Claude activity was detected
	ClaudeActive ClaudeActivityState = "active"
)

// TitleEntry represents a session title with its timestamp and commit hash
type TitleEntry struct {
	Title      string    `json:"title"`
	Timestamp  time.Time `json:"timestamp"`
	CommitHash string    `json:"commit_hash,omitempty"`
}

// Repository represents a Git repository managed by the server
type Repository struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Path          string    `json:"path"`
	DefaultBranch string    `json:"default_branch"`
	Available     bool      `json:"available"`
	CreatedAt     time.Time `json:"created_at"`
	LastAccessed  time.Time `json:"last_accessed"`
	Description   string    `json:"description,omitempty"`
}

// Worktree represents a Git worktree with branch and status information
type Worktree struct {
	ID                  string              `json:"id"`
	RepoID              string              `json:"repo_id"`
	Name                string              `json:"name"`
	Path                string              `json:"path"`
	Branch              string              `json:"branch"`
	SourceBranch        string              `json:"source_branch"`
	CommitHash          string              `json:"commit_hash"`
	CommitCount         int                 `json:"commit_count"`
	CommitsBehind       int                 `json:"commits_behind"`
	IsDirty             bool                `json:"is_dirty"`
	HasConflicts        bool                `json:"has_conflicts"`
	CreatedAt           time.Time           `json:"created_at"`
	LastAccessed        time.Time           `json:"last_accessed"`
	SessionTitle        *TitleEntry         `json:"session_title,omitempty"`
	ClaudeActivityState ClaudeActivityState `json:"claude_activity_state"`
	PullRequestURL      string              `json:"pull_request_url,omitempty"`
	PullRequestTitle    string              `json:"pull_request_title,omitempty"`
	PullRequestBody     string              `json:"pull_request_body,omitempty"`
}

// SessionName returns the PTY session identifier for this worktree, which the
// server derives from the repository and branch ("repo/branch").
func (w *Worktree) SessionName() string {
	return w.Name
}

// GitStatus represents the server's current Git status
type GitStatus struct {
	Repositories  map[string]*Repository `json:"repositories"`
	WorktreeCount int                    `json:"worktree_count"`
}

// WorktreeDiffResponse carries the raw git diff output for a worktree
type WorktreeDiffResponse struct {
	Diff string `json:"diff"`
}

// CreatePullRequestRequest represents a request to create or update a pull
// request for a worktree branch
type CreatePullRequestRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	ForcePush bool   `json:"force_push,omitempty"`
}

// PullRequestResponse represents the server's response after creating or
// updating a pull request
type PullRequestResponse struct {
	Number     int    `json:"number"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	HeadBranch string `json:"head_branch"`
	BaseBranch string `json:"base_branch"`
	Repository string `json:"repository"`
}

// PullRequestInfo represents information about an existing pull request
type PullRequestInfo struct {
	HasCommitsAhead bool   `json:"has_commits_ahead"`
	Exists          bool   `json:"exists"`
	Title           string `json:"title,omitempty"`
	Body            string `json:"body,omitempty"`
	Number          int    `json:"number,omitempty"`
	URL             string `json:"url,omitempty"`
}
