package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vebulogmetra/pports/internal/inventory"
	"github.com/vebulogmetra/pports/internal/process"
)

// RenderRecords renders a port snapshot as a bordered table. infos carries
// the lazily resolved owners keyed by PID; missing entries render as "-".
func RenderRecords(records []inventory.PortRecord, infos map[int32]*process.Info, details bool) string {
	headers := []string{"PORT", "PROTO", "STATE", "PID", "PROCESS"}
	if details {
		headers = append(headers, "USER", "ADDRESS", "CMDLINE")
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		name, user, cmdline := "-", "-", "-"
		if info := infos[r.PID]; info != nil {
			if info.Name != "" {
				name = info.Name
			}
			if info.User != "" {
				user = info.User
			}
			if info.Cmdline != "" {
				cmdline = truncate(info.Cmdline, 60)
			}
		}

		row := []string{
			fmt.Sprintf("%d", r.LocalPort),
			string(r.Protocol),
			stateLabel(r.State),
			pidLabel(r.PID),
			name,
		}
		if details {
			row = append(row, user, FormatAddr(r.LocalAddr, r.LocalPort), cmdline)
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle := lipgloss.NewStyle().PaddingRight(1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.Render()
}

// FormatAddr joins an address and port the way netstat prints them.
func FormatAddr(addr string, port uint32) string {
	if addr == "" {
		return "-"
	}
	if strings.Contains(addr, ":") {
		return fmt.Sprintf("[%s]:%d", addr, port)
	}
	return fmt.Sprintf("%s:%d", addr, port)
}

func stateLabel(s inventory.State) string {
	if s == inventory.StateNone {
		return "-"
	}
	return string(s)
}

func pidLabel(pid int32) string {
	if pid == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", pid)
}

// truncate cuts on rune boundaries so multibyte command lines never render
// a garbled trailing byte.
func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > maxLen {
		return string(r[:maxLen-3]) + "..."
	}
	return s
}
