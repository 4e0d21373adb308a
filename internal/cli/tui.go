package cli

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/query"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/report"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/session"
)

var (
	inputPromptStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	inputTextStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	cursorStyle      = lipgloss.NewStyle().Reverse(true)
	footerStyle      = lipgloss.NewStyle().Foreground(colorDim).MarginTop(1)
)

// fetchResultMsg carries a finished fetch back to the update loop.
type fetchResultMsg struct {
	result session.Result
}

// compareModel is the bubbletea model of the interactive comparison.
// Every keystroke re-parses the input; fetches run as commands and their
// results are applied in Update, so the session is only touched from the
// bubbletea goroutine.
type compareModel struct {
	ctx     context.Context
	sess    *session.Session
	fetcher session.Fetcher
	sem     chan struct{}

	input    string
	inFlight int
}

func newCompareModel(ctx context.Context, sess *session.Session, f session.Fetcher, concurrency int, initial string) *compareModel {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &compareModel{
		ctx:     ctx,
		sess:    sess,
		fetcher: f,
		sem:     make(chan struct{}, concurrency),
		input:   query.Format(query.Parse(initial)),
	}
}

func (m *compareModel) Init() tea.Cmd {
	return m.schedule(m.sess.SetInput(m.ctx, m.input))
}

func (m *compareModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchResultMsg:
		m.inFlight--
		m.sess.Apply(msg.result)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.sess.Close()
			return m, tea.Quit
		case tea.KeyCtrlR:
			return m, m.schedule(m.sess.Refresh(m.ctx))
		case tea.KeyCtrlU:
			return m, m.setInput("")
		case tea.KeyBackspace:
			if r := []rune(m.input); len(r) > 0 {
				return m, m.setInput(string(r[:len(r)-1]))
			}
		case tea.KeySpace:
			return m, m.setInput(m.input + " ")
		case tea.KeyRunes:
			return m, m.setInput(m.input + string(msg.Runes))
		}
	}
	return m, nil
}

func (m *compareModel) setInput(input string) tea.Cmd {
	m.input = input
	return m.schedule(m.sess.SetInput(m.ctx, input))
}

// schedule turns tasks into commands. At most cap(m.sem) of them fetch at
// once; a task whose cycle is cancelled while waiting returns without
// fetching.
func (m *compareModel) schedule(tasks []session.Task) tea.Cmd {
	if len(tasks) == 0 {
		return nil
	}
	m.inFlight += len(tasks)
	cmds := make([]tea.Cmd, len(tasks))
	for i, t := range tasks {
		cmds[i] = func() tea.Msg {
			select {
			case m.sem <- struct{}{}:
			case <-t.Context().Done():
				return fetchResultMsg{session.Result{Cycle: t.Cycle, Name: t.Name, Err: t.Context().Err()}}
			}
			defer func() { <-m.sem }()
			return fetchResultMsg{t.Run(m.fetcher)}
		}
	}
	return tea.Batch(cmds...)
}

func (m *compareModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("bundlephobia compare"))
	b.WriteString("\n\n")
	b.WriteString(inputPromptStyle.Render("› ") + inputTextStyle.Render(m.input) + cursorStyle.Render(" "))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("separate groups with spaces or commas, join packages with +"))
	b.WriteString("\n\n")

	if entries := m.sess.Ranking(); len(entries) > 0 {
		b.WriteString(report.Table(entries))
	} else {
		b.WriteString(StyleDim.Render("no results yet"))
	}
	b.WriteString("\n")

	footer := "?" + query.QueryString(m.sess.Groups())
	if m.inFlight > 0 {
		footer = "fetching… · " + footer
	}
	footer += " · ctrl+r refresh · ctrl+u clear · esc quit"
	b.WriteString(footerStyle.Render(footer))
	b.WriteString("\n")
	return b.String()
}
