package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/vanpelt/catnip-tui/internal/models"
	"github.com/vanpelt/catnip-tui/internal/tui/components"
)

// PullRequestViewImpl shows the worktree diff and the create/update PR form.
type PullRequestViewImpl struct{}

// NewPullRequestView creates a new pull request view instance
func NewPullRequestView() *PullRequestViewImpl {
	return &PullRequestViewImpl{}
}

// GetViewType returns the view type identifier
func (v *PullRequestViewImpl) GetViewType() ViewType {
	return PullRequestView
}

// Update handles pull-request-specific message processing
func (v *PullRequestViewImpl) Update(m *Model, msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case diffMsg:
		if m.currentWorktree == nil || msg.worktreeID != m.currentWorktree.ID {
			return m, nil
		}
		m.prDiffLoading = false
		m.prDiffErr = msg.err
		m.prDiff = msg.diff
		if msg.err == nil {
			m.prViewport.SetContent(highlightDiff(msg.diff))
			m.prViewport.GotoTop()
		}
		return m, nil

	case prInfoMsg:
		if m.currentWorktree == nil || msg.worktreeID != m.currentWorktree.ID {
			return m, nil
		}
		if msg.err == nil {
			m.prInfo = msg.info
			if msg.info.Exists {
				if m.prTitleInput.Value() == "" {
					m.prTitleInput.SetValue(msg.info.Title)
				}
				if m.prBodyInput.Value() == "" {
					m.prBodyInput.SetValue(msg.info.Body)
				}
			}
		}
		return m, nil

	case prResultMsg:
		if m.currentWorktree == nil || msg.worktreeID != m.currentWorktree.ID {
			return m, nil
		}
		m.prSubmitting = false
		if msg.err != nil {
			m.prStatus = components.ErrorStyle.Render(msg.err.Error())
			return m, nil
		}
		m.prResult = msg.resp
		m.prFormActive = false
		m.prStatus = components.StatusConnectedStyle.Render(
			fmt.Sprintf("PR #%d · %s · y to copy URL", msg.resp.Number, msg.resp.URL))
		m.currentWorktree.PullRequestURL = msg.resp.URL
		m.currentWorktree.PullRequestTitle = msg.resp.Title
		return m, m.fetchPRInfo(msg.worktreeID)
	}

	if m.prFormActive {
		var cmd tea.Cmd
		if m.prFocusBody {
			m.prBodyInput, cmd = m.prBodyInput.Update(msg)
		} else {
			m.prTitleInput, cmd = m.prTitleInput.Update(msg)
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.prViewport, cmd = m.prViewport.Update(msg)
	return m, cmd
}

// HandleKey processes key messages for the pull request view
func (v *PullRequestViewImpl) HandleKey(m *Model, msg tea.KeyMsg) (*Model, tea.Cmd) {
	if m.prFormActive {
		return v.handleFormKey(m, msg)
	}

	switch msg.String() {
	case components.KeyEscape:
		m.SwitchToView(WorkspacesView)
		return m, nil

	case components.KeyPRCreate:
		if m.prSubmitting {
			return m, nil
		}
		m.prFormActive = true
		m.prFocusBody = false
		m.prStatus = ""
		m.prTitleInput.Focus()
		m.prBodyInput.Blur()
		return m, nil

	case components.KeyPRCopyURL:
		if url := v.pullRequestURL(m); url != "" {
			return m, copyToClipboard(url)
		}
		return m, nil

	case components.KeyUp, components.KeyVimUp:
		m.prViewport.ScrollUp(1)
		return m, nil
	case components.KeyDown, components.KeyVimDown:
		m.prViewport.ScrollDown(1)
		return m, nil
	case components.KeyPageUp:
		m.prViewport.PageUp()
		return m, nil
	case components.KeyPageDown:
		m.prViewport.PageDown()
		return m, nil
	}

	return m, nil
}

func (v *PullRequestViewImpl) handleFormKey(m *Model, msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case components.KeyEscape:
		m.prFormActive = false
		m.prTitleInput.Blur()
		m.prBodyInput.Blur()
		return m, nil

	case components.KeyTab:
		m.prFocusBody = !m.prFocusBody
		if m.prFocusBody {
			m.prTitleInput.Blur()
			m.prBodyInput.Focus()
		} else {
			m.prBodyInput.Blur()
			m.prTitleInput.Focus()
		}
		return m, nil

	case "ctrl+s":
		return v.submit(m)
	}

	var cmd tea.Cmd
	if m.prFocusBody {
		m.prBodyInput, cmd = m.prBodyInput.Update(msg)
	} else {
		m.prTitleInput, cmd = m.prTitleInput.Update(msg)
	}
	return m, cmd
}

func (v *PullRequestViewImpl) submit(m *Model) (*Model, tea.Cmd) {
	if m.currentWorktree == nil {
		return m, nil
	}
	title := strings.TrimSpace(m.prTitleInput.Value())
	if title == "" {
		m.prStatus = components.ErrorStyle.Render("title is required")
		return m, nil
	}

	m.prSubmitting = true
	m.prStatus = "Submitting..."
	req := &models.CreatePullRequestRequest{
		Title: title,
		Body:  m.prBodyInput.Value(),
	}
	update := m.prInfo != nil && m.prInfo.Exists
	return m, m.submitPullRequest(m.currentWorktree.ID, req, update)
}

// HandleResize processes window resize for the pull request view
func (v *PullRequestViewImpl) HandleResize(m *Model, msg tea.WindowSizeMsg) (*Model, tea.Cmd) {
	m.prViewport.Width = msg.Width - 2
	m.prViewport.Height = msg.Height - 8
	m.prTitleInput.Width = msg.Width - 20
	m.prBodyInput.SetWidth(msg.Width - 20)
	return m, nil
}

// Render generates the pull request view content
func (v *PullRequestViewImpl) Render(m *Model) string {
	if m.currentWorktree == nil {
		return components.CenteredStyle.
			Width(m.width - 2).
			Height(m.height - 4).
			Render("No workspace selected.\n\nPress Ctrl+W to pick one.")
	}

	header := components.HeaderStyle.Width(m.width - 2).
		Render(fmt.Sprintf("Pull request · %s", m.currentWorktree.Name))

	if m.prFormActive {
		return lipgloss.JoinVertical(lipgloss.Left, header, v.renderForm(m))
	}

	var sections []string
	sections = append(sections, header, v.renderStatusLine(m))

	switch {
	case m.prDiffLoading:
		sections = append(sections, components.MutedStyle.Render("Loading diff..."))
	case m.prDiffErr != nil:
		sections = append(sections, components.ErrorStyle.Render("diff failed: "+m.prDiffErr.Error()))
	case strings.TrimSpace(m.prDiff) == "":
		sections = append(sections, components.MutedStyle.Render("No changes against the source branch."))
	default:
		sections = append(sections, m.prViewport.View())
	}

	if m.prStatus != "" {
		sections = append(sections, m.prStatus)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *PullRequestViewImpl) renderStatusLine(m *Model) string {
	if m.prInfo == nil {
		return components.MutedStyle.Render("Checking for an existing pull request...")
	}
	if m.prInfo.Exists {
		return fmt.Sprintf("%s %s",
			components.StatusConnectedStyle.Render(fmt.Sprintf("PR #%d", m.prInfo.Number)),
			components.MutedStyle.Render(m.prInfo.URL+" · c to update"))
	}
	if !m.prInfo.HasCommitsAhead {
		return components.MutedStyle.Render("No commits ahead of the base branch yet.")
	}
	return components.MutedStyle.Render("No pull request yet · c to create one")
}

func (v *PullRequestViewImpl) renderForm(m *Model) string {
	action := "Create"
	if m.prInfo != nil && m.prInfo.Exists {
		action = "Update"
	}

	var b strings.Builder
	b.WriteString(components.SectionHeaderStyle.Render(action + " pull request"))
	b.WriteString("\n\nTitle\n")
	b.WriteString(m.prTitleInput.View())
	b.WriteString("\n\nBody\n")
	b.WriteString(m.prBodyInput.View())
	b.WriteString("\n\n")
	b.WriteString(components.MutedStyle.Render("tab switch field · ctrl+s submit · esc cancel"))
	if m.prStatus != "" {
		b.WriteString("\n" + m.prStatus)
	}
	return components.MainContentStyle.Render(b.String())
}

func (v *PullRequestViewImpl) pullRequestURL(m *Model) string {
	if m.prResult != nil {
		return m.prResult.URL
	}
	if m.prInfo != nil && m.prInfo.Exists {
		return m.prInfo.URL
	}
	if m.currentWorktree != nil {
		return m.currentWorktree.PullRequestURL
	}
	return ""
}

// highlightDiff renders unified diff output with syntax colors. Falls back
// to the raw text when highlighting fails.
func highlightDiff(diff string) string {
	if strings.TrimSpace(diff) == "" {
		return diff
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, diff, "diff", "terminal256", "monokai"); err != nil {
		return diff
	}
	return buffer.String()
}
