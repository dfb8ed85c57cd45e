package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/recall-sh/recall/internal/store"
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dirStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	repoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func printHeader(title string, count int) {
	fmt.Println()
	fmt.Printf("  %s %s  %s\n",
		accentStyle.Render("◉"),
		boldStyle.Render(title),
		dimStyle.Render(fmt.Sprintf("%d commands", count)))
	fmt.Printf("  %s\n", dimStyle.Render(strings.Repeat("─", 60)))
}

func printEmpty(msg string) {
	fmt.Printf("\n  %s %s\n\n", dimStyle.Render("●"), dimStyle.Render(msg))
}

func printNotice(msg string) {
	fmt.Printf("\n  %s\n\n", noticeStyle.Render(msg))
}

func printAnswer(answer string) {
	divider := dimStyle.Render(strings.Repeat("─", 60))
	fmt.Printf("\n  %s\n", divider)
	for _, line := range strings.Split(answer, "\n") {
		fmt.Printf("  %s\n", line)
	}
	fmt.Printf("  %s\n\n", divider)
}

// printCommandsGrouped renders commands grouped by consecutive session,
// one block per session with a context line on top.
func printCommandsGrouped(commands []store.Command) {
	type group struct {
		sessionID string
		cmds      []store.Command
	}
	var groups []group
	for _, cmd := range commands {
		if len(groups) > 0 && groups[len(groups)-1].sessionID == cmd.SessionID {
			groups[len(groups)-1].cmds = append(groups[len(groups)-1].cmds, cmd)
			continue
		}
		groups = append(groups, group{sessionID: cmd.SessionID, cmds: []store.Command{cmd}})
	}

	for _, g := range groups {
		printSessionHeader(g.sessionID, g.cmds)
		for i := range g.cmds {
			printCommandLine(&g.cmds[i], i == len(g.cmds)-1)
		}
	}
	fmt.Println()
}

func printSessionHeader(sessionID string, cmds []store.Command) {
	first := cmds[0]
	ts := time.UnixMilli(first.Timestamp).Format("15:04")

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s %s  %s",
		dimStyle.Render("┌"),
		boldStyle.Render(ts),
		dimStyle.Render(shortID(sessionID)))

	if first.Cwd != nil && *first.Cwd != "" {
		b.WriteString("  " + dirStyle.Render(lastSegment(*first.Cwd)))
	}
	if repo := firstValue(cmds, func(c *store.Command) *string { return c.GitRepo }); repo != "" {
		b.WriteString("  " + repoStyle.Render(lastSegment(repo)))
		if branch := firstValue(cmds, func(c *store.Command) *string { return c.GitBranch }); branch != "" {
			b.WriteString(dimStyle.Render(":") + branchStyle.Render(branch))
		}
	}

	failCount := 0
	for i := range cmds {
		if cmds[i].Failed() {
			failCount++
		}
	}
	if failCount > 0 {
		b.WriteString("  " + failStyle.Render(fmt.Sprintf("%d failed", failCount)))
	}
	fmt.Println(b.String())
}

func printCommandLine(c *store.Command, last bool) {
	connector := "│"
	if last {
		connector = "└"
	}

	exitIcon := dimStyle.Render("·")
	text := c.CommandText
	switch {
	case c.ExitCode == nil:
	case *c.ExitCode == 0:
		exitIcon = okStyle.Render("✓")
	default:
		exitIcon = failStyle.Render("✗")
		text = failStyle.Render(text)
	}

	ts := time.UnixMilli(c.Timestamp).Format("15:04:05")
	fmt.Printf("  %s %s %s %s  %s\n",
		dimStyle.Render(connector),
		exitIcon,
		dimStyle.Render(ts),
		dimStyle.Render(fmt.Sprintf("%7s", formatDuration(c.DurationMS))),
		text)
}

func formatDuration(ms *int64) string {
	if ms == nil {
		return "-"
	}
	d := *ms
	switch {
	case d >= 60_000:
		return fmt.Sprintf("%dm%ds", d/60_000, (d%60_000)/1000)
	case d >= 1000:
		return fmt.Sprintf("%d.%ds", d/1000, (d%1000)/100)
	default:
		return fmt.Sprintf("%dms", d)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 && i+1 < len(path) {
		return path[i+1:]
	}
	return path
}

// firstValue returns the first non-empty value of field across cmds.
func firstValue(cmds []store.Command, field func(*store.Command) *string) string {
	for i := range cmds {
		if v := field(&cmds[i]); v != nil && *v != "" {
			return *v
		}
	}
	return ""
}
