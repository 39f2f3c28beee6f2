// Package tui is a terminal client for the elf hotline: a parent asks
// questions, the elf answers, and anything the conversation reveals about
// the family accretes onto the session profile.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/elfplan/internal/journey"
	"github.com/abhisek/elfplan/internal/session"
)

const turnTimeout = 60 * time.Second

type replyMsg struct {
	reply string
	err   error
}

// Model is the hotline chat screen.
type Model struct {
	journeys  *journey.Service
	sessionID string

	input   textinput.Model
	turns   []session.ChatTurn
	waiting bool
	lastErr error
	width   int
	height  int
}

// New creates the hotline model, seeding the transcript from any prior
// hotline history on the session.
func New(journeys *journey.Service, sessionID string, history []session.ChatTurn) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask the elf anything..."
	ti.Focus()

	return Model{
		journeys:  journeys,
		sessionID: sessionID,
		input:     ti,
		turns:     append([]session.ChatTurn{}, history...),
	}
}

func (m Model) Init() tea.Cmd {
	return m.input.Focus()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.waiting {
				return m, nil
			}
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.turns = append(m.turns, session.ChatTurn{
				Role: session.SpeakerParent,
				Text: question,
				At:   time.Now().UnixMilli(),
			})
			m.input.Reset()
			m.waiting = true
			m.lastErr = nil
			return m, m.ask(question)
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.lastErr = msg.err
			return m, nil
		}
		m.turns = append(m.turns, session.ChatTurn{
			Role: session.SpeakerElf,
			Text: msg.reply,
			At:   time.Now().UnixMilli(),
		})
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()

		reply, _, err := m.journeys.HotlineTurn(ctx, m.sessionID, question)
		return replyMsg{reply: reply, err: err}
	}
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	var b strings.Builder
	b.WriteString(titleStyle.Render("🎄 Elf Hotline"))
	b.WriteString("\n\n")

	for _, t := range m.visibleTurns() {
		switch t.Role {
		case session.SpeakerElf:
			fmt.Fprintf(&b, "%s %s\n", elfStyle.Render("elf:"), bodyStyle.Render(t.Text))
		default:
			fmt.Fprintf(&b, "%s %s\n", parentStyle.Render("you:"), bodyStyle.Render(t.Text))
		}
	}

	if m.waiting {
		b.WriteString(hintStyle.Render("the elf is thinking...") + "\n")
	}
	if m.lastErr != nil {
		b.WriteString(errStyle.Render("error: "+m.lastErr.Error()) + "\n")
	}

	b.WriteString("\n" + m.input.View())
	b.WriteString("\n" + hintStyle.Render("enter to send · esc to quit"))

	v.SetContent(b.String())
	return v
}

// visibleTurns trims the transcript to what fits the window, keeping the
// most recent exchanges.
func (m Model) visibleTurns() []session.ChatTurn {
	if m.height == 0 {
		return m.turns
	}
	budget := m.height - 7
	if budget < 1 {
		budget = 1
	}
	if len(m.turns) <= budget {
		return m.turns
	}
	return m.turns[len(m.turns)-budget:]
}

// Run starts the hotline program.
func Run(journeys *journey.Service, sessionID string, history []session.ChatTurn) error {
	p := tea.NewProgram(New(journeys, sessionID, history))
	_, err := p.Run()
	return err
}
