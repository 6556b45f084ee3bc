package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanpelt/catnip-tui/internal/models"
	"github.com/vanpelt/catnip-tui/internal/term"
	"github.com/vanpelt/catnip-tui/internal/tui/components"
)

// WorkspacesViewImpl lists the worktrees the server manages as cards.
type WorkspacesViewImpl struct{}

// NewWorkspacesView creates a new workspaces view instance
func NewWorkspacesView() *WorkspacesViewImpl {
	return &WorkspacesViewImpl{}
}

// GetViewType returns the view type identifier
func (v *WorkspacesViewImpl) GetViewType() ViewType {
	return WorkspacesView
}

// Update handles workspace-specific message processing
func (v *WorkspacesViewImpl) Update(m *Model, msg tea.Msg) (*Model, tea.Cmd) {
	return m, nil
}

// HandleKey processes key messages for the workspaces view
func (v *WorkspacesViewImpl) HandleKey(m *Model, msg tea.KeyMsg) (*Model, tea.Cmd) {
	// Pending delete confirmation eats the next key
	if m.confirmDelete {
		switch msg.String() {
		case "y", components.KeyEnter:
			m.confirmDelete = false
			if wt := m.SelectedWorktree(); wt != nil {
				return m, m.deleteWorktree(wt.ID)
			}
			return m, nil
		default:
			m.confirmDelete = false
			return m, nil
		}
	}

	switch msg.String() {
	case components.KeyUp, components.KeyVimUp:
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
		return m, nil

	case components.KeyDown, components.KeyVimDown:
		if m.selectedIndex < len(m.worktrees)-1 {
			m.selectedIndex++
		}
		return m, nil

	case components.KeyVimTop:
		m.selectedIndex = 0
		return m, nil

	case components.KeyVimBottom:
		if len(m.worktrees) > 0 {
			m.selectedIndex = len(m.worktrees) - 1
		}
		return m, nil

	case components.KeyWorkspaceOpen:
		if wt := m.SelectedWorktree(); wt != nil {
			return m.openTerminal(wt)
		}
		return m, nil

	case components.KeyWorkspacePR:
		if wt := m.SelectedWorktree(); wt != nil {
			return m.openPullRequest(wt)
		}
		return m, nil

	case components.KeyWorkspaceTranscript:
		if wt := m.SelectedWorktree(); wt != nil {
			return m.openTranscript(wt)
		}
		return m, nil

	case components.KeyWorkspaceDelete:
		if m.SelectedWorktree() != nil {
			m.confirmDelete = true
		}
		return m, nil

	case components.KeyWorkspaceRefresh:
		return m, tea.Batch(m.fetchWorktrees(), m.fetchClaudeSessions(), m.fetchPorts())

	case "a":
		return m, m.startAuth()
	}

	return m, nil
}

// HandleResize processes window resize for the workspaces view
func (v *WorkspacesViewImpl) HandleResize(m *Model, msg tea.WindowSizeMsg) (*Model, tea.Cmd) {
	return m, nil
}

// Render generates the workspaces view content
func (v *WorkspacesViewImpl) Render(m *Model) string {
	header := components.HeaderStyle.Width(m.width - 2).
		Render(fmt.Sprintf("Catnip Workspaces (%d)%s", len(m.worktrees), v.renderPorts(m)))

	if m.err != nil {
		header = lipgloss.JoinVertical(lipgloss.Left, header,
			components.ErrorStyle.Render(m.err.Error()))
	}

	if len(m.worktrees) == 0 {
		empty := components.CenteredStyle.
			Width(m.width - 2).
			Height(m.height - 6).
			Render("No workspaces yet.\n\nCreate one from the web UI or the CLI, it will show up here.")
		return lipgloss.JoinVertical(lipgloss.Left, header, empty)
	}

	compact := term.ClassifySize(m.width, m.height) == term.SizeSmall

	var cards []string
	for i, wt := range m.worktrees {
		cards = append(cards, v.renderCard(m, wt, i == m.selectedIndex, compact))
	}

	list := strings.Join(cards, "\n")
	if m.confirmDelete {
		if wt := m.SelectedWorktree(); wt != nil {
			prompt := components.ErrorStyle.Render(
				fmt.Sprintf("Delete %s and its branch? y to confirm, any other key cancels", wt.Name))
			list = lipgloss.JoinVertical(lipgloss.Left, list, "", prompt)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, list)
}

// renderPorts summarizes the services the container has exposed.
func (v *WorkspacesViewImpl) renderPorts(m *Model) string {
	if len(m.ports) == 0 {
		return ""
	}
	ports := make([]int, 0, len(m.ports))
	for port := range m.ports {
		ports = append(ports, port)
	}
	sort.Ints(ports)
	parts := make([]string, 0, len(ports))
	for _, port := range ports {
		parts = append(parts, strconv.Itoa(port))
	}
	return "  ·  ports " + strings.Join(parts, ", ")
}

func (v *WorkspacesViewImpl) renderCard(m *Model, wt *models.Worktree, selected, compact bool) string {
	style := components.CardStyle
	if selected {
		style = components.SelectedCardStyle
	}

	title := wt.Name
	if wt.SessionTitle != nil && wt.SessionTitle.Title != "" {
		title = wt.SessionTitle.Title
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render(title))

	status := v.renderActivity(wt)
	branchLine := fmt.Sprintf("%s %s", wt.Branch, status)
	if wt.IsDirty {
		branchLine += " " + components.ActivityRunningStyle.Render("✗ dirty")
	}
	if wt.HasConflicts {
		branchLine += " " + components.ErrorStyle.Render("conflicts")
	}
	lines = append(lines, branchLine)

	if !compact {
		counts := fmt.Sprintf("%d ahead", wt.CommitCount)
		if wt.CommitsBehind > 0 {
			counts += fmt.Sprintf(", %d behind", wt.CommitsBehind)
		}
		if summary := m.sessionSummaryFor(wt); summary != nil {
			counts += fmt.Sprintf(" · %d turns", summary.TurnCount)
			if summary.LastCost != nil {
				counts += fmt.Sprintf(" · $%.2f", *summary.LastCost)
			}
		}
		lines = append(lines, components.MutedStyle.Render(counts))

		if wt.PullRequestURL != "" {
			lines = append(lines, components.MutedStyle.Render("PR: "+wt.PullRequestURL))
		}
	}

	return style.Width(m.width - 6).Render(strings.Join(lines, "\n"))
}

func (v *WorkspacesViewImpl) renderActivity(wt *models.Worktree) string {
	switch wt.ClaudeActivityState {
	case models.ClaudeActive:
		return components.ActivityActiveStyle.Render("● active")
	case models.ClaudeRunning:
		return components.ActivityRunningStyle.Render("● running")
	default:
		return components.MutedStyle.Render("○ idle")
	}
}
