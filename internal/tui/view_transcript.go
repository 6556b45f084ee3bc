package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanpelt/catnip-tui/internal/models"
	"github.com/vanpelt/catnip-tui/internal/tui/components"
)

// TranscriptViewImpl browses the recorded agent session for a worktree.
type TranscriptViewImpl struct{}

// NewTranscriptView creates a new transcript view instance
func NewTranscriptView() *TranscriptViewImpl {
	return &TranscriptViewImpl{}
}

// GetViewType returns the view type identifier
func (v *TranscriptViewImpl) GetViewType() ViewType {
	return TranscriptView
}

// Update handles transcript-specific message processing
func (v *TranscriptViewImpl) Update(m *Model, msg tea.Msg) (*Model, tea.Cmd) {
	if msg, ok := msg.(transcriptMsg); ok {
		m.transcriptLoading = false
		m.transcriptErr = msg.err
		m.transcript = msg.messages
		if msg.err == nil {
			m.transcriptViewport.SetContent(renderTranscript(msg.messages, m.width-4))
			m.transcriptViewport.GotoBottom()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.transcriptViewport, cmd = m.transcriptViewport.Update(msg)
	return m, cmd
}

// HandleKey processes key messages for the transcript view
func (v *TranscriptViewImpl) HandleKey(m *Model, msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case components.KeyEscape:
		m.SwitchToView(WorkspacesView)
		return m, nil
	case components.KeyUp, components.KeyVimUp:
		m.transcriptViewport.ScrollUp(1)
	case components.KeyDown, components.KeyVimDown:
		m.transcriptViewport.ScrollDown(1)
	case components.KeyPageUp:
		m.transcriptViewport.PageUp()
	case components.KeyPageDown:
		m.transcriptViewport.PageDown()
	case components.KeyVimTop:
		m.transcriptViewport.GotoTop()
	case components.KeyVimBottom:
		m.transcriptViewport.GotoBottom()
	}
	return m, nil
}

// HandleResize processes window resize for the transcript view
func (v *TranscriptViewImpl) HandleResize(m *Model, msg tea.WindowSizeMsg) (*Model, tea.Cmd) {
	m.transcriptViewport.Width = msg.Width - 2
	m.transcriptViewport.Height = msg.Height - 5
	if len(m.transcript) > 0 {
		m.transcriptViewport.SetContent(renderTranscript(m.transcript, msg.Width-4))
	}
	return m, nil
}

// Render generates the transcript view content
func (v *TranscriptViewImpl) Render(m *Model) string {
	if m.currentWorktree == nil {
		return components.CenteredStyle.
			Width(m.width - 2).
			Height(m.height - 4).
			Render("No workspace selected.\n\nPress Ctrl+W to pick one.")
	}

	header := components.HeaderStyle.Width(m.width - 2).
		Render(fmt.Sprintf("Transcript · %s", m.currentWorktree.Name))

	switch {
	case m.transcriptLoading:
		body := components.MutedStyle.Render("Loading transcript...")
		return lipgloss.JoinVertical(lipgloss.Left, header, body)
	case m.transcriptErr != nil:
		body := components.ErrorStyle.Render("transcript failed: " + m.transcriptErr.Error())
		return lipgloss.JoinVertical(lipgloss.Left, header, body)
	case len(m.transcript) == 0:
		body := components.MutedStyle.Render("No recorded session for this workspace yet.")
		return lipgloss.JoinVertical(lipgloss.Left, header, body)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.transcriptViewport.View())
}

// renderTranscript turns the session messages into a markdown document and
// renders it with glamour. Meta and sidechain entries are skipped.
func renderTranscript(messages []*models.ClaudeSessionMessage, width int) string {
	if width < 40 {
		width = 40
	}

	var doc strings.Builder
	for _, msg := range messages {
		if msg.IsMeta || msg.IsSidechain {
			continue
		}
		text := msg.RenderText()
		if strings.TrimSpace(text) == "" {
			continue
		}
		switch msg.Role() {
		case "user":
			doc.WriteString("## You\n\n")
		case "assistant":
			doc.WriteString("## Agent\n\n")
		default:
			continue
		}
		doc.WriteString(text)
		doc.WriteString("\n\n")
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return doc.String()
	}
	rendered, err := renderer.Render(doc.String())
	if err != nil {
		return doc.String()
	}
	return rendered
}
