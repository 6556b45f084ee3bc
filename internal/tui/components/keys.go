package components

// Key Command Groups:
// 1. Global Navigation - Always available with Ctrl modifier
// 2. View-Specific - Available only in specific views
// 3. Terminal Pass-through - All other keys in terminal view

// Global Navigation Keys (require Ctrl modifier)
const (
	// Quit - available everywhere except the terminal view, where ctrl+q
	// is required so ctrl+c can reach the agent
	KeyQuit    = "ctrl+q"
	KeyQuitAlt = "ctrl+c"

	// View navigation
	KeyWorkspaces  = "ctrl+w"
	KeyTerminal    = "ctrl+t"
	KeyPullRequest = "ctrl+g"
	KeyTranscript  = "ctrl+y"

	// Terminal view: request write permission
	KeyPromote = "ctrl+p"

	// Common keys
	KeyEscape    = "esc"
	KeyEnter     = "enter"
	KeyTab       = "tab"
	KeyBackspace = "backspace"
)

// Navigation keys
const (
	KeyUp       = "up"
	KeyDown     = "down"
	KeyLeft     = "left"
	KeyRight    = "right"
	KeyPageUp   = "pgup"
	KeyPageDown = "pgdown"
	KeyHome     = "home"
	KeyEnd      = "end"
)

// Vim-style navigation
const (
	KeyVimUp     = "k"
	KeyVimDown   = "j"
	KeyVimTop    = "g"
	KeyVimBottom = "G"
)

// Workspaces view specific keys
const (
	KeyWorkspaceOpen       = "enter"
	KeyWorkspaceDelete     = "d"
	KeyWorkspaceRefresh    = "r"
	KeyWorkspacePR         = "p"
	KeyWorkspaceTranscript = "t"
)

// Pull request view specific keys
const (
	KeyPRCreate  = "c"
	KeyPRCopyURL = "y"
	KeyPROpen    = "o"
)

// Terminal view scrolling (Alt/Option for Mac compatibility)
const (
	KeyTermScrollUp   = "alt+up"
	KeyTermScrollDown = "alt+down"
	KeyTermPageUp     = "alt+pgup"
	KeyTermPageDown   = "alt+pgdown"
)

// Control keys
const (
	KeyCtrlC = "ctrl+c"
	KeyCtrlD = "ctrl+d"
	KeyCtrlZ = "ctrl+z"
)

// IsGlobalNavigationKey checks if a key is a global navigation command
func IsGlobalNavigationKey(key string) bool {
	switch key {
	case KeyQuit, KeyWorkspaces, KeyTerminal, KeyPullRequest, KeyTranscript:
		return true
	}
	return false
}
