// Package tui is the interactive terminal front end: a scrollback viewport
// over the conversation plus a single-line prompt.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jdondlinger/groqee/internal/service/companion"
	"github.com/jdondlinger/groqee/pkg/log"
)

type replyMsg struct {
	text     string
	degraded bool
}

type model struct {
	ctx       context.Context
	companion *companion.Companion

	viewport   viewport.Model
	input      textinput.Model
	transcript []string
	waiting    bool
	ready      bool
	width      int
}

func newModel(ctx context.Context, comp *companion.Companion) model {
	ti := textinput.New()
	ti.Placeholder = "Say something..."
	ti.Focus()
	ti.CharLimit = 2000

	m := model{
		ctx:       ctx,
		companion: comp,
		input:     ti,
	}

	// Seed the transcript with the persisted history so a restarted session
	// picks up where it left off.
	for _, turn := range comp.History() {
		if turn.User != "" {
			m.transcript = append(m.transcript, userLabelStyle.Render("You: ")+turn.User)
		}
		if turn.Assistant != "" {
			m.transcript = append(m.transcript, botLabelStyle.Render("Groqee: ")+turn.Assistant)
		}
	}
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := msg.Height - 5 // title + status + input rows
		if height < 3 {
			height = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = height
		}
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.waiting {
				break
			}
			m.input.Reset()
			m.waiting = true
			m.transcript = append(m.transcript, userLabelStyle.Render("You: ")+text)
			m.refreshViewport()
			return m, m.converse(text)
		}

	case replyMsg:
		m.waiting = false
		line := botLabelStyle.Render("Groqee: ") + msg.text
		if msg.degraded {
			line = warnStyle.Render("Groqee: " + msg.text)
		}
		m.transcript = append(m.transcript, line)
		m.refreshViewport()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) converse(text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.companion.Converse(m.ctx, text)
		return replyMsg{text: reply, degraded: err != nil}
	}
}

func (m *model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

func (m model) View() string {
	if !m.ready {
		return "starting..."
	}

	emotions := m.companion.Emotions()
	status := fmt.Sprintf("%s · happiness %.0f · energy %.0f · %d turns",
		m.companion.Persona().Name, emotions.Happiness, emotions.Energy, m.companion.InteractionCount())
	if m.waiting {
		status += " · thinking..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Groqee"),
		viewportStyle.Render(m.viewport.View()),
		statusStyle.Render(status),
		" "+m.input.View(),
	)
}

// App runs the terminal UI as a managed service. Start and Shutdown run on
// different goroutines, so the program handle is mutex-guarded.
type App struct {
	companion *companion.Companion

	mu      sync.Mutex
	program *tea.Program
}

func NewApp(comp *companion.Companion) *App {
	return &App{companion: comp}
}

func (a *App) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting terminal ui")

	p := tea.NewProgram(newModel(ctx, a.companion), tea.WithContext(ctx), tea.WithAltScreen())
	a.mu.Lock()
	a.program = p
	a.mu.Unlock()

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		// Context cancellation surfaces as an error; shutdown is not a failure.
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	p := a.program
	a.mu.Unlock()

	if p != nil {
		p.Quit()
	}
	return nil
}
