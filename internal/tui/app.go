// Package tui is the interactive history browser: a session timeline,
// a per-session command detail view, and incremental full-text search.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/recall-sh/recall/internal/search"
	"github.com/recall-sh/recall/internal/store"
)

type view int

const (
	viewTimeline view = iota
	viewDetail
	viewSearch
)

// timelineSessions caps how many sessions the browser loads.
const timelineSessions = 200

// sessionInfo is one timeline row: a session plus the aggregates shown
// alongside it.
type sessionInfo struct {
	session      store.Session
	commandCount int
	repos        []string
	hasFailures  bool
}

type Model struct {
	store *store.Store

	view     view
	infos    []sessionInfo
	cursor   int
	offset   int
	width    int
	height   int
	quitting bool

	// detail view
	commands   []store.Command
	cmdCursor  int
	cmdOffset  int
	detailInfo *sessionInfo

	// search view
	searchInput   textinput.Model
	searchResults []store.SearchResult
	searchCursor  int
	searchOffset  int
}

// NewModel loads the timeline and builds the initial model.
func NewModel(s *store.Store) (Model, error) {
	infos, err := loadSessionInfos(s)
	if err != nil {
		return Model{}, err
	}

	si := textinput.New()
	si.Placeholder = "search command history..."
	si.CharLimit = 200

	return Model{
		store:       s,
		infos:       infos,
		searchInput: si,
		width:       120,
		height:      30,
	}, nil
}

// Run starts the browser and blocks until the user quits.
func Run(s *store.Store) error {
	m, err := NewModel(s)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func loadSessionInfos(s *store.Store) ([]sessionInfo, error) {
	sessions, err := s.SessionsPage(timelineSessions, 0)
	if err != nil {
		return nil, err
	}

	infos := make([]sessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		cmds, err := s.CommandsInSession(sess.ID)
		if err != nil {
			return nil, err
		}
		info := sessionInfo{
			session:      sess,
			commandCount: len(cmds),
		}
		seen := map[string]struct{}{}
		for i := range cmds {
			if cmds[i].Failed() {
				info.hasFailures = true
			}
			if r := cmds[i].GitRepo; r != nil && *r != "" {
				if _, ok := seen[*r]; !ok {
					seen[*r] = struct{}{}
					info.repos = append(info.repos, *r)
				}
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case viewTimeline:
			return m.updateTimeline(msg)
		case viewDetail:
			return m.updateDetail(msg)
		case viewSearch:
			return m.updateSearch(msg)
		}
	}
	return m, nil
}

func (m Model) updateTimeline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.offset = clampOffset(m.cursor, m.offset, m.visibleRows())
		}

	case "down", "j":
		if m.cursor < len(m.infos)-1 {
			m.cursor++
			m.offset = clampOffset(m.cursor, m.offset, m.visibleRows())
		}

	case "g", "home":
		m.cursor, m.offset = 0, 0

	case "G", "end":
		if len(m.infos) > 0 {
			m.cursor = len(m.infos) - 1
			m.offset = clampOffset(m.cursor, m.offset, m.visibleRows())
		}

	case "enter":
		if m.cursor < len(m.infos) {
			info := m.infos[m.cursor]
			cmds, err := m.store.CommandsInSession(info.session.ID)
			if err == nil {
				m.commands = cmds
				m.cmdCursor, m.cmdOffset = 0, 0
				m.detailInfo = &info
				m.view = viewDetail
			}
		}

	case "/":
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		m.searchResults = nil
		m.searchCursor, m.searchOffset = 0, 0
		m.view = viewSearch
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.view = viewTimeline

	case "up", "k":
		if m.cmdCursor > 0 {
			m.cmdCursor--
			m.cmdOffset = clampOffset(m.cmdCursor, m.cmdOffset, m.visibleRows())
		}

	case "down", "j":
		if m.cmdCursor < len(m.commands)-1 {
			m.cmdCursor++
			m.cmdOffset = clampOffset(m.cmdCursor, m.cmdOffset, m.visibleRows())
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.searchInput.Blur()
		m.view = viewTimeline
		return m, nil

	case "up":
		if m.searchCursor > 0 {
			m.searchCursor--
			m.searchOffset = clampOffset(m.searchCursor, m.searchOffset, m.visibleRows())
		}
		return m, nil

	case "down":
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
			m.searchOffset = clampOffset(m.searchCursor, m.searchOffset, m.visibleRows())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" {
		m.searchResults = nil
	} else if results, err := search.Search(m.store, search.Options{Query: query}); err == nil {
		m.searchResults = results
	}
	m.searchCursor, m.searchOffset = 0, 0
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.view {
	case viewDetail:
		return m.viewDetail()
	case viewSearch:
		return m.viewSearch()
	default:
		return m.viewTimeline()
	}
}

// ─── Timeline ───────────────────────────────────────────────────────────────

func (m Model) viewTimeline() string {
	var b strings.Builder
	title := titleStyle.Render("recall")
	b.WriteString(title + dimStyle.Render(fmt.Sprintf("  %d sessions", len(m.infos))) + "\n")
	b.WriteString(headerStyle.Render(pad("Time", 14)+" "+pad("Commands", 9)+" "+pad("Repos", 30)+" Status") + "\n")

	if len(m.infos) == 0 {
		b.WriteString(dimStyle.Render("\n  No sessions recorded yet. Run: eval \"$(recall init zsh)\"\n"))
	}

	visible := m.visibleRows()
	end := min(m.offset+visible, len(m.infos))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.timelineRow(i) + "\n")
	}
	for i := end - m.offset; i < visible; i++ {
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("  Enter: open  /: search  q: quit"))
	return b.String()
}

func (m Model) timelineRow(i int) string {
	info := m.infos[i]
	when := time.UnixMilli(info.session.StartTime).Format("01-02 15:04")

	status := okStyle.Render("ok")
	if info.hasFailures {
		status = failStyle.Render("failures")
	}

	row := pad(when, 14) + " " + pad(fmt.Sprintf("%d", info.commandCount), 9) + " " +
		pad(strings.Join(info.repos, ", "), 30) + " " + status

	if i == m.cursor {
		plain := pad(when, 14) + " " + pad(fmt.Sprintf("%d", info.commandCount), 9) + " " +
			pad(strings.Join(info.repos, ", "), 30) + " "
		if info.hasFailures {
			plain += "failures"
		} else {
			plain += "ok"
		}
		return selectedStyle.Render(lipgloss.PlaceHorizontal(max(0, m.width-2), lipgloss.Left, plain))
	}
	return row
}

// ─── Detail ─────────────────────────────────────────────────────────────────

func (m Model) viewDetail() string {
	var b strings.Builder
	header := "session"
	if m.detailInfo != nil {
		header = fmt.Sprintf("session %s — %s", shortID(m.detailInfo.session.ID),
			time.UnixMilli(m.detailInfo.session.StartTime).Format("2006-01-02 15:04"))
	}
	b.WriteString(titleStyle.Render(header) + "\n\n")

	visible := m.visibleRows()
	end := min(m.cmdOffset+visible, len(m.commands))
	for i := m.cmdOffset; i < end; i++ {
		b.WriteString(m.commandRow(i) + "\n")
	}
	for i := end - m.cmdOffset; i < visible; i++ {
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("  Esc: back  q: quit"))
	return b.String()
}

func (m Model) commandRow(i int) string {
	c := m.commands[i]
	ts := time.UnixMilli(c.Timestamp).Format("15:04:05")
	text := truncate(c.CommandText, max(20, m.width-24))

	line := dimStyle.Render(ts) + "  " + text
	if c.Failed() {
		line += failStyle.Render(fmt.Sprintf("  [exit %d]", *c.ExitCode))
	}
	if i == m.cmdCursor {
		plain := ts + "  " + text
		if c.Failed() {
			plain += fmt.Sprintf("  [exit %d]", *c.ExitCode)
		}
		return selectedStyle.Render(lipgloss.PlaceHorizontal(max(0, m.width-2), lipgloss.Left, plain))
	}
	return line
}

// ─── Search ─────────────────────────────────────────────────────────────────

func (m Model) viewSearch() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("search") + "\n")
	b.WriteString(statusBarStyle.Render("/") + " " + m.searchInput.View() + "\n\n")

	visible := m.visibleRows()
	end := min(m.searchOffset+visible, len(m.searchResults))
	for i := m.searchOffset; i < end; i++ {
		r := m.searchResults[i]
		ts := time.UnixMilli(r.Timestamp).Format("2006-01-02 15:04")
		text := truncate(r.CommandText, max(20, m.width-28))
		line := dimStyle.Render(ts) + "  " + text
		if i == m.searchCursor {
			line = selectedStyle.Render(lipgloss.PlaceHorizontal(max(0, m.width-2), lipgloss.Left, ts+"  "+text))
		}
		b.WriteString(line + "\n")
	}
	for i := end - m.searchOffset; i < visible; i++ {
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("  type to search  Esc: back"))
	return b.String()
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func (m Model) visibleRows() int {
	rows := m.height - 5
	if rows < 1 {
		rows = 1
	}
	return rows
}

func clampOffset(cursor, offset, visible int) int {
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+visible {
		return cursor - visible + 1
	}
	return offset
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 2 {
		return string(runes[:width])
	}
	return string(runes[:width-2]) + ".."
}
