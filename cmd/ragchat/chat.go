package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/informatika-uin-malang/ragchat/client"
	"github.com/informatika-uin-malang/ragchat/models"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

type ChatCommand struct {
	ServerURL    string `help:"The URL of the chat API." env:"RAGCHAT_SERVER_URL" default:"http://localhost:8000"`
	ServerAPIKey string `help:"The API key for the chat API." env:"RAGCHAT_SERVER_API_KEY" default:""`
	MaxSources   int    `help:"The maximum number of sources to show under each answer." env:"MAX_CONTEXT_DOCS" default:"3"`
}

func (c ChatCommand) Run(ctx context.Context) (err error) {
	rsc := client.New(c.ServerURL, c.ServerAPIKey)
	p := tea.NewProgram(newModel(ctx, rsc, c.MaxSources), tea.WithContext(ctx))
	if _, err = p.Run(); err != nil {
		return err
	}
	return nil
}

// Dracula color scheme.
var (
	Background  = lipgloss.Color("#282a36")
	CurrentLine = lipgloss.Color("#44475a")
	Comment     = lipgloss.Color("#6272a4")
	Cyan        = lipgloss.Color("#8be9fd")
	Pink        = lipgloss.Color("#ff79c6")
	Purple      = lipgloss.Color("#bd93f9")
	Red         = lipgloss.Color("#ff5555")
)

var headerStyle = lipgloss.NewStyle().Background(CurrentLine).Foreground(Purple).Bold(true).Margin(1).Padding(1)

const header = `Chatbot Prodi TI

Ask anything about the programme. Answers are mocked until the RAG pipeline lands.`

type messageType string

const (
	messageTypeHuman messageType = "human"
	messageTypeAI    messageType = "ai"
	messageTypeError messageType = "error"
)

type message struct {
	Type      messageType
	Content   string
	Sources   []models.Source
	LatencyMS int64
}

type chatResponseMsg models.ChatPostResponse

type chatErrorMsg struct{ err error }

type model struct {
	viewport viewport.Model
	textarea textarea.Model
	ctx      context.Context

	client     client.Client
	maxSources int
	messages   []message
	waiting    bool
}

func newModel(ctx context.Context, c client.Client, maxSources int) model {
	ta := textarea.New()
	ta.Placeholder = "Send a message..."
	ta.Focus()

	ta.Prompt = "┃ "
	ta.CharLimit = 1000

	ta.SetHeight(3)

	// Remove cursor line styling
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()

	ta.ShowLineNumbers = false

	vp := viewport.New(80, 20)
	vp.SetContent(headerStyle.Render(header))

	ta.KeyMap.InsertNewline.SetEnabled(false)

	return model{
		ctx:        ctx,
		textarea:   ta,
		viewport:   vp,
		client:     c,
		maxSources: maxSources,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) ask(query string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.client.ChatPost(m.ctx, models.ChatPostRequest{Query: query})
		if err != nil {
			return chatErrorMsg{err: err}
		}
		return chatResponseMsg(resp)
	}
}

var messageTypeToStyle = map[messageType]lipgloss.Style{
	messageTypeHuman: lipgloss.NewStyle().Padding(1).Margin(1).MarginBottom(0).Background(Background).Foreground(Pink),
	messageTypeAI:    lipgloss.NewStyle().Padding(1).Margin(1).MarginBottom(0).Background(Background).Foreground(Cyan),
	messageTypeError: lipgloss.NewStyle().Padding(1).Margin(1).MarginBottom(0).Background(Background).Foreground(Red),
}

var messageTypeToIcon = map[messageType]string{
	messageTypeHuman: "🥷",
	messageTypeAI:    "✨",
	messageTypeError: "⚠️",
}

var sourceStyle = lipgloss.NewStyle().Foreground(Comment)

func formatMessage(msg message, maxSources int) string {
	style, ok := messageTypeToStyle[msg.Type]
	if !ok {
		return msg.Content
	}
	icon, ok := messageTypeToIcon[msg.Type]
	if !ok {
		icon = "🤷"
	}
	var sb strings.Builder
	sb.WriteString(wordwrap.String(strings.TrimSpace(icon+" "+msg.Content), 80))
	sources := msg.Sources
	if maxSources >= 0 && len(sources) > maxSources {
		sources = sources[:maxSources]
	}
	if len(sources) > 0 {
		sb.WriteString("\n\nSources:")
		for i, s := range sources {
			sb.WriteString(sourceStyle.Render(fmt.Sprintf("\n[%d] %s - %s", i+1, s.Title, s.URL)))
			if s.Snippet != "" {
				sb.WriteString(sourceStyle.Render("\n    " + wordwrap.String(s.Snippet, 76)))
			}
		}
	}
	if msg.Type == messageTypeAI {
		sb.WriteString(sourceStyle.Render(fmt.Sprintf("\n\nResponse received in %d ms", msg.LatencyMS)))
	}
	return style.Render(sb.String())
}

func renderTranscript(msgs []message, maxSources int, waiting bool) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(header))
	sb.WriteString("\n")
	for _, msg := range msgs {
		sb.WriteString(formatMessage(msg, maxSources))
		sb.WriteString("\n")
	}
	if waiting {
		sb.WriteString(sourceStyle.Render("\n  thinking..."))
	}
	return sb.String()
}

func (m model) refresh() model {
	m.viewport.SetContent(renderTranscript(m.messages, m.maxSources, m.waiting))
	m.viewport.GotoBottom()
	return m
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case chatErrorMsg:
		m.waiting = false
		m.messages = append(m.messages, message{Type: messageTypeError, Content: msg.err.Error()})
		return m.refresh(), nil
	case chatResponseMsg:
		m.waiting = false
		m.messages = append(m.messages, message{
			Type:      messageTypeAI,
			Content:   msg.Answer,
			Sources:   msg.Sources,
			LatencyMS: msg.Usage.LatencyMS,
		})
		return m.refresh(), nil
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - m.textarea.Height() - 3
		m.textarea.SetWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			v := strings.TrimSpace(m.textarea.Value())
			if v == "" || m.waiting {
				return m, nil
			}
			m.textarea.Reset()
			m.waiting = true
			m.messages = append(m.messages, message{Type: messageTypeHuman, Content: v})
			return m.refresh(), m.ask(v)
		default:
			// Send all other keypresses to the textarea.
			var cmd tea.Cmd
			m.textarea, cmd = m.textarea.Update(msg)
			return m, cmd
		}

	case cursor.BlinkMsg:
		// Textarea should also process cursor blinks.
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

func (m model) View() string {
	return fmt.Sprintf("%s\n\n%s",
		m.viewport.View(),
		m.textarea.View(),
	) + "\n\n"
}
