package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/vebulogmetra/pports/internal/ui"
)

const (
	minWidth          = 60
	defaultCmdWidth   = 50
	columnWidthOffset = 52
)

func (m Model) View() string {
	var sb strings.Builder

	title := "pports watch"
	badges := []string{}
	if m.proto != protoAll {
		badges = append(badges, m.proto.label())
	}
	if m.state != stateAll {
		badges = append(badges, m.state.label())
	}
	if m.force {
		badges = append(badges, "FORCE")
	}
	if len(badges) > 0 {
		title += " [" + strings.Join(badges, " · ") + "]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteByte('\n')

	header := fmt.Sprintf("   %-7s %-6s %-12s %-8s %-16s %-12s %s",
		"PORT", "PROTO", "STATE", "PID", "PROCESS", "USER", "CMDLINE")
	sb.WriteString(headerStyle.Render(header))
	sb.WriteByte('\n')

	filtered := m.filteredRows()
	if len(filtered) == 0 {
		if m.query != "" {
			sb.WriteString(emptyStyle.Render(fmt.Sprintf("no records match %q", m.query)))
		} else {
			sb.WriteString(emptyStyle.Render("no active ports found"))
		}
		sb.WriteByte('\n')
	}

	for i, r := range filtered {
		mark := "  "
		if r.protected {
			mark = protectedStyle.Render("! ")
		}

		cmdWidth := defaultCmdWidth
		if m.width > minWidth {
			cmdWidth = m.width - columnWidthOffset
		}
		cmdline := clip(r.cmdline, cmdWidth)

		line := fmt.Sprintf("%s%-7d %-6s %-12s %-8s %-16s %-12s %s",
			mark,
			r.rec.LocalPort,
			r.rec.Protocol,
			stateOrDash(r),
			pidOrDash(r),
			pad(r.name, 16),
			pad(r.user, 12),
			cmdline,
		)

		if i == m.cursor {
			sb.WriteString(cursorStyle.Render(line))
		} else if r.protected {
			sb.WriteString(protectedStyle.Render(line))
		} else {
			sb.WriteString(normalStyle.Render(line))
		}
		sb.WriteByte('\n')
	}

	if len(filtered) > 0 && m.cursor < len(filtered) && !m.confirming {
		r := filtered[m.cursor]
		detail := "> " + ui.FormatAddr(r.rec.LocalAddr, r.rec.LocalPort)
		if r.cmdline != "" {
			detail += "  " + r.cmdline
		}
		if maxLen := m.width - 2; maxLen > 20 {
			detail = clip(detail, maxLen)
		}
		sb.WriteByte('\n')
		sb.WriteString(detailStyle.Render(detail))
	}

	if m.confirming {
		verb := "Terminate"
		if m.force {
			verb = "Force-kill"
		}
		prompt := fmt.Sprintf("\n%s %s (PID %d) on port %d? (y/n)",
			verb, m.target.name, m.target.rec.PID, m.target.rec.LocalPort)
		if m.target.protected && !m.force {
			prompt += "  [protected: will be refused without force]"
		}
		sb.WriteString(confirmStyle.Render(prompt))
	}

	if m.killing {
		sb.WriteByte('\n')
		sb.WriteString(statusStyle.Render("terminating..."))
	}

	if m.status != "" && time.Since(m.statusTime) < statusDisplayFor {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		sb.WriteByte('\n')
		sb.WriteString(style.Render(m.status))
	}

	if m.searching {
		sb.WriteByte('\n')
		sb.WriteString(searchStyle.Render("/" + m.query + "▌"))
	} else if m.query != "" {
		sb.WriteByte('\n')
		sb.WriteString(filterStyle.Render("filter: " + m.query))
		sb.WriteByte('\n')
		sb.WriteString(helpStyle.Render("↑/k ↓/j move • enter/x terminate • / search • esc clear • q quit"))
	} else {
		sb.WriteByte('\n')
		sb.WriteString(helpStyle.Render("↑/k ↓/j move • enter/x terminate • f force • p proto • s state • / search • r refresh • q quit"))
	}

	return sb.String()
}

func stateOrDash(r row) string {
	if r.rec.State == "" {
		return "-"
	}
	return string(r.rec.State)
}

func pidOrDash(r row) string {
	if r.rec.PID == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", r.rec.PID)
}

// pad and clip size by rune so multibyte names are never cut mid-character.
func pad(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}

func clip(s string, width int) string {
	r := []rune(s)
	if width > 3 && len(r) > width {
		return string(r[:width-3]) + "..."
	}
	return s
}
