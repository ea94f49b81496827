package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"abiscope/internal/abi"
	"abiscope/internal/constant"
	"abiscope/internal/funcabi"
	"abiscope/internal/oracle"
	"abiscope/internal/record"
	"abiscope/internal/types"
	"abiscope/internal/unit"
)

type entryKind uint8

const (
	entryRecord entryKind = iota
	entryFunction
	entryConstant
)

type exploreEntry struct {
	kind entryKind
	name string
	decl oracle.DeclID
}

type exploreModel struct {
	u       *unit.Unit
	target  abi.Target
	entries []exploreEntry
	cursor  int
	detail  viewport.Model
	ready   bool
}

// NewExploreModel returns a Bubble Tea model for browsing a unit's
// projections. Templates are instantiated up front so their layouts show.
func NewExploreModel(u *unit.Unit, target abi.Target) tea.Model {
	u.InstantiateAll()

	var entries []exploreEntry
	for _, decl := range u.Records() {
		d, _ := u.Decl(decl)
		entries = append(entries, exploreEntry{kind: entryRecord, name: d.Name, decl: decl})
	}
	for _, decl := range u.Functions() {
		d, _ := u.Decl(decl)
		entries = append(entries, exploreEntry{kind: entryFunction, name: d.Name, decl: decl})
	}
	for _, decl := range u.Vars() {
		d, _ := u.Decl(decl)
		entries = append(entries, exploreEntry{kind: entryConstant, name: d.Name, decl: decl})
	}
	return &exploreModel{u: u, target: target, entries: entries}
}

func (m *exploreModel) Init() tea.Cmd { return nil }

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.refreshDetail()
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				m.refreshDetail()
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		listHeight := len(m.entries) + 3
		h := msg.Height - listHeight
		if h < 4 {
			h = 4
		}
		if !m.ready {
			m.detail = viewport.New(msg.Width, h)
			m.ready = true
			m.refreshDetail()
		} else {
			m.detail.Width = msg.Width
			m.detail.Height = h
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *exploreModel) View() string {
	if len(m.entries) == 0 {
		return "empty unit\n"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%s)", m.u.Name(), m.target.Triple)))
	b.WriteString("\n")
	for i, e := range m.entries {
		marker := "  "
		style := dimStyle
		if i == m.cursor {
			marker = "> "
			style = lipgloss.NewStyle().Bold(true)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", marker, kindStyle.Render(entryLabel(e.kind)), style.Render(e.name)))
	}
	b.WriteString("\n")
	if m.ready {
		b.WriteString(m.detail.View())
	}
	return b.String()
}

func (m *exploreModel) refreshDetail() {
	if !m.ready || len(m.entries) == 0 {
		return
	}
	e := m.entries[m.cursor]
	m.detail.SetContent(m.renderEntry(e))
	m.detail.GotoTop()
}

func (m *exploreModel) renderEntry(e exploreEntry) string {
	switch e.kind {
	case entryRecord:
		layout, err := record.Project(m.u, m.target, e.decl)
		if err != nil {
			return errorStyle.Render(err.Error())
		}
		if layout == nil {
			return dimStyle.Render("incomplete type")
		}
		return FormatLayout(m.u.Types(), e.name, layout)
	case entryFunction:
		arranged := funcabi.Project(m.u, e.decl, oracle.VariantComplete)
		if arranged == nil {
			return dimStyle.Render("no arrangement recorded")
		}
		out := FormatArranged(m.u.Types(), e.name, arranged)
		if d, ok := m.u.Decl(e.decl); ok && d.Type != types.NoTypeID {
			out += FormatBlockers(e.name, funcabi.CheckCallable(m.u, d.Type))
		}
		return out
	default:
		v, err := constant.Compute(m.u, oracle.DeclCursor(e.decl))
		if err != nil {
			return errorStyle.Render(err.Error())
		}
		if v == nil {
			return dimStyle.Render("no initializer")
		}
		return FormatValue(e.name, v)
	}
}

func entryLabel(k entryKind) string {
	switch k {
	case entryRecord:
		return "record "
	case entryFunction:
		return "func   "
	default:
		return "const  "
	}
}
