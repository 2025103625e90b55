// Package tui hosts the like toggle in a terminal.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/cafe-likes/internal/liketoggle"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Renderer is the liketoggle.View of the terminal UI. Renders are queued on a
// channel and picked up by the bubbletea loop.
type Renderer struct {
	ch chan liketoggle.Buttons
}

// NewRenderer creates a Renderer; pass it to liketoggle.New.
func NewRenderer() *Renderer {
	return &Renderer{ch: make(chan liketoggle.Buttons, 16)}
}

// Render queues b. If the loop has fallen behind the oldest queued render is
// dropped; only the latest one matters.
func (r *Renderer) Render(b liketoggle.Buttons) {
	for {
		select {
		case r.ch <- b:
			return
		default:
		}
		select {
		case <-r.ch:
		default:
		}
	}
}

type renderMsg liketoggle.Buttons

type actionDoneMsg struct{ err error }

func (r *Renderer) wait() tea.Cmd {
	return func() tea.Msg {
		return renderMsg(<-r.ch)
	}
}

type keyMap struct {
	Toggle key.Binding
	Retry  key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding { return []key.Binding{k.Toggle, k.Retry, k.Quit} }

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var keys = keyMap{
	Toggle: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "toggle")),
	Retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	likeStyle  = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Foreground(lipgloss.Color("205"))
	unlikeStyle = likeStyle.
			BorderForeground(lipgloss.Color("245")).
			Foreground(lipgloss.Color("252"))
	disabledStyle = likeStyle.
			BorderForeground(lipgloss.Color("240")).
			Foreground(lipgloss.Color("240"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the bubbletea model around a like toggle controller.
type Model struct {
	ctx      context.Context
	ctrl     *liketoggle.Controller
	renderer *Renderer

	buttons liketoggle.Buttons
	loaded  bool
	spinner spinner.Model
	help    help.Model
}

// NewModel creates the model. renderer must be the View the controller was
// built with.
func NewModel(ctx context.Context, ctrl *liketoggle.Controller, renderer *Renderer) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = mutedStyle

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		renderer: renderer,
		spinner:  sp,
		help:     help.New(),
	}
}

// Init starts the spinner, the render listener and the initial status query.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.renderer.wait(), m.loadCmd())
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: m.ctrl.DisplayProperButtons(m.ctx)}
	}
}

func (m Model) clickCmd() tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: m.ctrl.Click(m.ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Toggle):
			if m.buttons.Busy || m.buttons.Visible() == 0 {
				return m, nil
			}
			return m, m.clickCmd()
		case key.Matches(msg, keys.Retry):
			if m.buttons.Busy {
				return m, nil
			}
			return m, m.loadCmd()
		}

	case renderMsg:
		m.buttons = liketoggle.Buttons(msg)
		m.loaded = true
		return m, m.renderer.wait()

	case actionDoneMsg:
		// The controller has already rendered the outcome, errors included.
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Cafe #%d", m.ctrl.CafeID())))
	b.WriteString("\n")

	switch {
	case !m.loaded || (m.buttons.Visible() == 0 && m.buttons.Busy):
		b.WriteString(m.spinner.View() + mutedStyle.Render(" checking like status..."))
	case m.buttons.LikeVisible:
		b.WriteString(m.button("♡ Like", likeStyle))
	case m.buttons.UnlikeVisible:
		b.WriteString(m.button("♥ Unlike", unlikeStyle))
	}
	b.WriteString("\n")

	if m.buttons.Err != "" {
		b.WriteString(errorStyle.Render(m.buttons.Err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	b.WriteString("\n")
	return b.String()
}

func (m Model) button(label string, style lipgloss.Style) string {
	if m.buttons.Busy {
		return lipgloss.JoinHorizontal(lipgloss.Center, disabledStyle.Render(label), " ", m.spinner.View())
	}
	return style.Render(label)
}

// Run drives the model until the user quits.
func Run(ctx context.Context, ctrl *liketoggle.Controller, renderer *Renderer, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(NewModel(ctx, ctrl, renderer), opts...).Run(); err != nil {
		return fmt.Errorf("run like toggle ui: %w", err)
	}
	return nil
}
