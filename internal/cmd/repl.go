package cmd

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/plotworks/gpdrive/internal/session"
)

const replHistoryLines = 200

var (
	replPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	replErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	replReplyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive prompt against a live engine session",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := newRegistry(false)
		defer func() { _ = reg.QuitAll() }()

		sess, err := reg.Get("repl")
		if err != nil {
			return err
		}

		p := tea.NewProgram(newReplModel(sess))
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

type replyMsg struct {
	stmt  string
	reply string
	err   error
}

type replModel struct {
	sess  *session.Session
	input textinput.Model
	lines []string
	busy  bool
}

func newReplModel(sess *session.Session) replModel {
	ti := textinput.New()
	ti.Prompt = "gnuplot> "
	ti.Focus()
	return replModel{
		sess:  sess,
		input: ti,
		lines: []string{"gpdrive " + Version + " (type a gnuplot statement, exit to quit)"},
	}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			stmt := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if stmt == "" {
				return m, nil
			}
			if stmt == "exit" || stmt == "quit" {
				return m, tea.Quit
			}
			m.append(replPromptStyle.Render("gnuplot> ") + stmt)
			m.busy = true
			// Sessions are single-writer: busy gates the next statement
			// until this one's reply arrives.
			return m, execStatement(m.sess, stmt)
		}
	case replyMsg:
		m.busy = false
		if msg.err != nil {
			m.append(replErrorStyle.Render(msg.err.Error()))
			break
		}
		if msg.reply != "" {
			for _, line := range strings.Split(msg.reply, "\n") {
				m.append(replReplyStyle.Render(line))
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) append(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > replHistoryLines {
		m.lines = m.lines[len(m.lines)-replHistoryLines:]
	}
}

func (m replModel) View() string {
	var b strings.Builder
	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(m.input.View())
	return b.String()
}

func execStatement(sess *session.Session, stmt string) tea.Cmd {
	return func() tea.Msg {
		reply, err := sess.Execute(stmt)
		if err != nil {
			return replyMsg{stmt: stmt, err: err}
		}
		return replyMsg{stmt: stmt, reply: reply}
	}
}
