// Copyright 2026 The StudyHall Authors
// SPDX-License-Identifier: Apache-2.0

// Package chatui is the interactive direct-message view: a scrollback
// viewport over the conversation with an input line below it. A
// background poller keeps the transcript current; sending a message
// triggers an immediate refetch so the sent message appears without
// waiting out the poll interval.
package chatui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/studyhall-dev/studyhall/forum"
)

// Config configures a chat session.
type Config struct {
	// Client performs the API calls.
	Client *forum.Client

	// ConversationID is the conversation to display.
	ConversationID int64

	// SelfID is the authenticated user's ID, used to align and color
	// the user's own messages differently from the other side's.
	SelfID int64

	// Title is shown in the header, typically the other user's name.
	Title string

	// Logger receives background errors. Required.
	Logger *slog.Logger
}

// messagesMsg delivers a fresh transcript from the poller, oldest
// first.
type messagesMsg struct {
	messages []forum.Message
}

// sentMsg reports the outcome of an asynchronous send.
type sentMsg struct {
	err error
}

// Run starts the chat TUI and blocks until the user quits.
func Run(ctx context.Context, config Config) error {
	if config.Client == nil || config.Logger == nil {
		return fmt.Errorf("chatui: Client and Logger are required")
	}

	model := newModel(config)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	poller, err := config.Client.PollConversation(forum.PollerConfig{
		ConversationID: config.ConversationID,
		OnMessages: func(messages []forum.Message) {
			program.Send(messagesMsg{messages: messages})
		},
		Logger: config.Logger,
	})
	if err != nil {
		return err
	}

	model.poller = poller
	poller.Start(ctx)
	defer poller.Stop()

	_, err = program.Run()
	return err
}

type model struct {
	config Config
	poller *forum.ConversationPoller

	viewport  viewport.Model
	input     textinput.Model
	messages  []forum.Message
	sendError string
	width     int
	height    int
	ready     bool

	headerStyle lipgloss.Style
	selfStyle   lipgloss.Style
	otherStyle  lipgloss.Style
	timeStyle   lipgloss.Style
	errorStyle  lipgloss.Style
}

func newModel(config Config) *model {
	input := textinput.New()
	input.Placeholder = "Type a message (enter to send, esc to quit)"
	input.Focus()
	input.CharLimit = 4000

	return &model{
		config:      config,
		input:       input,
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		selfStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")),
		otherStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("176")),
		timeStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		errorStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		viewportHeight := msg.Height - 4 // header, divider, input, error line
		if viewportHeight < 1 {
			viewportHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		m.viewport.SetContent(m.transcript())
		m.viewport.GotoBottom()
		return m, nil

	case messagesMsg:
		atBottom := m.viewport.AtBottom()
		m.messages = msg.messages
		if m.ready {
			m.viewport.SetContent(m.transcript())
			if atBottom {
				m.viewport.GotoBottom()
			}
		}
		return m, nil

	case sentMsg:
		if msg.err != nil {
			m.sendError = msg.err.Error()
		} else {
			m.sendError = ""
			m.poller.Refresh()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			content := strings.TrimSpace(m.input.Value())
			if content == "" {
				return m, nil
			}
			m.input.Reset()
			return m, m.send(content)
		}
	}

	var inputCmd, viewportCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	m.viewport, viewportCmd = m.viewport.Update(msg)
	return m, tea.Batch(inputCmd, viewportCmd)
}

// send performs the API call off the update loop; the poller refresh
// on success repaints the transcript with the server's copy.
func (m *model) send(content string) tea.Cmd {
	client := m.config.Client
	conversationID := m.config.ConversationID
	return func() tea.Msg {
		_, err := client.SendMessage(context.Background(), conversationID, content)
		return sentMsg{err: err}
	}
}

func (m *model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.headerStyle.Render(m.config.Title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", m.width))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.sendError != "" {
		b.WriteString(m.errorStyle.Render("send failed: " + m.sendError))
	}
	return b.String()
}

// transcript renders the message list, oldest first, one block per
// message: styled sender and time, then the wrapped content.
func (m *model) transcript() string {
	if len(m.messages) == 0 {
		return m.timeStyle.Render("no messages yet")
	}

	width := m.viewport.Width
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	for i, message := range m.messages {
		if i > 0 {
			b.WriteString("\n")
		}

		style := m.otherStyle
		if message.SenderID == m.config.SelfID {
			style = m.selfStyle
		}
		name := message.SenderName
		if name == "" {
			name = message.SenderUsername
		}

		b.WriteString(style.Render(name))
		if message.CreatedAt != "" {
			b.WriteString(" " + m.timeStyle.Render(message.CreatedAt))
		}
		if message.EditedAt != "" {
			b.WriteString(" " + m.timeStyle.Render("(edited)"))
		}
		b.WriteString("\n")
		b.WriteString(ansi.Wrap(message.Content, width, " ,.;-"))
		b.WriteString("\n")
	}
	return b.String()
}
