package models

import (
	"time"
)

// ClaudeSessionSummary represents aggregated Claude session information for a
// worktree, as returned by /v1/claude/sessions.
type ClaudeSessionSummary struct {
	WorktreePath     string     `json:"worktreePath"`
	SessionStartTime *time.Time `json:"sessionStartTime"`
	SessionEndTime   *time.Time `json:"sessionEndTime"`
	TurnCount        int        `json:"turnCount"`
	IsActive         bool       `json:"isActive"`
	LastSessionId    *string    `json:"lastSessionId"`
	CurrentSessionId *string    `json:"currentSessionId,omitempty"`

	// Metrics from the most recent completed session
	LastCost              *float64 `json:"lastCost,omitempty"`
	LastDuration          *int     `json:"lastDuration,omitempty"`
	LastTotalInputTokens  *int     `json:"lastTotalInputTokens,omitempty"`
	LastTotalOutputTokens *int     `json:"lastTotalOutputTokens,omitempty"`
}

// FullSessionData represents complete session data for one session UUID,
// including the full conversation history.
type FullSessionData struct {
	SessionInfo  *ClaudeSessionSummary   `json:"sessionInfo"`
	Messages     []*ClaudeSessionMessage `json:"messages,omitempty"`
	MessageCount int                     `json:"messageCount,omitempty"`
}

// ClaudeSessionMessage represents one entry of a recorded session transcript.
// The nested message payload keeps the provider's loose shape; RenderText
// extracts the displayable pieces.
type ClaudeSessionMessage struct {
	Cwd         string         `json:"cwd"`
	IsMeta      bool           `json:"isMeta"`
	IsSidechain bool           `json:"isSidechain"`
	Message     map[string]any `json:"message"`
	ParentUuid  string         `json:"parentUuid"`
	SessionId   string         `json:"sessionId"`
	Timestamp   string         `json:"timestamp"`
	Type        string         `json:"type"`
	UserType    string         `json:"userType"`
	Uuid        string         `json:"uuid"`
}

// Role returns the speaker of the message ("user", "assistant", "system").
func (m *ClaudeSessionMessage) Role() string {
	if role, ok := m.Message["role"].(string); ok {
		return role
	}
	return m.Type
}

// RenderText flattens the message content into displayable markdown. Content
// is either a plain string or a list of typed blocks; only text blocks are
// rendered, tool use and results are summarized by name.
func (m *ClaudeSessionMessage) RenderText() string {
	content, ok := m.Message["content"]
	if !ok {
		return ""
	}

	switch c := content.(type) {
	case string:
		return c
	case []any:
		var out string
		for _, block := range c {
			blockMap, ok := block.(map[string]any)
			if !ok {
				continue
			}
			switch blockMap["type"] {
			case "text":
				if text, ok := blockMap["text"].(string); ok {
					if out != "" {
						out += "\n\n"
					}
					out += text
				}
			case "tool_use":
				if name, ok := blockMap["name"].(string); ok {
					if out != "" {
						out += "\n\n"
					}
					out += "*[tool: " + name + "]*"
				}
			}
		}
		return out
	}
	return ""
}
