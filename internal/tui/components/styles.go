package components

import "github.com/charmbracelet/lipgloss"

// Color scheme
const (
	ColorPrimary   = "6"  // Cyan
	ColorSecondary = "8"  // Gray
	ColorSuccess   = "2"  // Green
	ColorWarning   = "3"  // Yellow
	ColorError     = "1"  // Red
	ColorInfo      = "4"  // Blue
	ColorHighlight = "5"  // Magenta
	ColorText      = "15" // White
	ColorMuted     = "8"  // Dark gray
	ColorAccent    = "11" // Bright yellow
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorPrimary)).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	SectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(ColorSuccess))
)

// Text styles
var (
	KeyHighlightStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorAccent)).
				Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorError))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorMuted))

	StatusConnectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorSuccess))

	StatusDisconnectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorError))
)

// Workspace card styles
var (
	CardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorMuted)).
			Padding(0, 1)

	SelectedCardStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorPrimary)).
				Padding(0, 1)

	ActivityActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorSuccess)).
				Bold(true)

	ActivityRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorWarning))
)

// Terminal view styles
var (
	TermHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorText)).
			Background(lipgloss.Color(ColorMuted)).
			Padding(0, 1)

	ReadOnlyBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color(ColorWarning)).
				Padding(0, 1)

	ReadOnlyShakeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorText)).
				Background(lipgloss.Color(ColorError)).
				Bold(true).
				Padding(0, 1)
)

// Container styles
var (
	MainContentStyle = lipgloss.NewStyle().
				Padding(1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorMuted)).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			Padding(0, 1)

	CenteredStyle = lipgloss.NewStyle().
			Align(lipgloss.Center)

	OverlayStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(ColorAccent)).
			Padding(1, 2)
)
