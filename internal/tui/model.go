// Package tui is the interactive front-end: a table bound to the latest
// inventory snapshot, refreshed on a timer and wholly replaced on each poll.
package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vebulogmetra/pports/internal/control"
	"github.com/vebulogmetra/pports/internal/inventory"
	"github.com/vebulogmetra/pports/internal/process"
)

const statusDisplayFor = 3 * time.Second

// row is one rendered record plus its lazily joined owner metadata.
type row struct {
	rec       inventory.PortRecord
	name      string
	user      string
	cmdline   string
	protected bool
}

func (r row) matchesQuery(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strconv.FormatUint(uint64(r.rec.LocalPort), 10), q) {
		return true
	}
	if strings.Contains(strings.ToLower(r.name), q) {
		return true
	}
	return strings.Contains(strings.ToLower(r.cmdline), q)
}

type protoFilter int

const (
	protoAll protoFilter = iota
	protoTCP
	protoUDP
)

func (f protoFilter) label() string {
	switch f {
	case protoTCP:
		return "tcp"
	case protoUDP:
		return "udp"
	default:
		return "all"
	}
}

type stateFilter int

const (
	stateAll stateFilter = iota
	stateListen
	stateEstablished
)

func (f stateFilter) label() string {
	switch f {
	case stateListen:
		return "listening"
	case stateEstablished:
		return "established"
	default:
		return "all"
	}
}

type Model struct {
	scanner   *inventory.Scanner
	ctrl      *control.Controller
	protected control.ProtectedSet
	interval  time.Duration
	timeout   time.Duration

	rows   []row
	cursor int
	width  int
	height int

	// pollSeq numbers the most recently issued poll; snapshots from any
	// earlier poll are stale and dropped whole.
	pollSeq int

	confirming bool
	killing    bool
	target     row
	force      bool

	searching bool
	query     string
	proto     protoFilter
	state     stateFilter

	status     string
	statusErr  bool
	statusTime time.Time
}

func New(scanner *inventory.Scanner, ctrl *control.Controller, protected control.ProtectedSet, interval, timeout time.Duration) Model {
	return Model{
		scanner:   scanner,
		ctrl:      ctrl,
		protected: protected,
		interval:  interval,
		timeout:   timeout,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.pollCmd(m.pollSeq), m.tickCmd())
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) pollCmd(seq int) tea.Cmd {
	scanner := m.scanner
	protected := m.protected
	return func() tea.Msg {
		records, err := scanner.List(inventory.Filter{})
		if err != nil {
			return snapshotMsg{seq: seq, err: err}
		}

		infos := make(map[int32]*process.Info)
		rows := make([]row, 0, len(records))
		for _, rec := range records {
			info, seen := infos[rec.PID]
			if !seen {
				info, _ = scanner.Lookup(rec.PID)
				infos[rec.PID] = info
			}
			r := row{rec: rec}
			if info != nil {
				r.name = info.Name
				r.user = info.User
				r.cmdline = info.Cmdline
			}
			r.protected = protected.Name(r.name) || protected.Port(rec.LocalPort)
			rows = append(rows, r)
		}
		return snapshotMsg{seq: seq, rows: rows}
	}
}

func (m Model) killCmd(target row, force bool) tea.Cmd {
	ctrl := m.ctrl
	timeout := m.timeout
	return func() tea.Msg {
		outcome := ctrl.Terminate(
			control.Target{PID: target.rec.PID},
			control.Options{Force: force, Timeout: timeout},
		)
		return killDoneMsg{outcome: outcome}
	}
}

// refreshSuspended reports whether periodic re-polls are paused. A poll
// racing a termination could resolve a reused PID, so refresh stays off
// from the confirmation prompt until the kill completes.
func (m Model) refreshSuspended() bool {
	return m.confirming || m.killing
}

func (m Model) filteredRows() []row {
	var out []row
	for _, r := range m.rows {
		if m.proto == protoTCP && r.rec.Protocol != inventory.ProtocolTCP {
			continue
		}
		if m.proto == protoUDP && r.rec.Protocol != inventory.ProtocolUDP {
			continue
		}
		if m.state == stateListen && r.rec.State != inventory.StateListen {
			continue
		}
		if m.state == stateEstablished && r.rec.State != inventory.StateEstablished {
			continue
		}
		if m.query != "" && !r.matchesQuery(m.query) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (m *Model) clampCursor() {
	if n := len(m.filteredRows()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
	m.statusTime = time.Now()
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
	m.statusTime = time.Now()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if m.refreshSuspended() {
			return m, m.tickCmd()
		}
		m.pollSeq++
		return m, tea.Batch(m.pollCmd(m.pollSeq), m.tickCmd())

	case snapshotMsg:
		if msg.seq < m.pollSeq {
			// a newer poll is already in flight; this snapshot is stale
			return m, nil
		}
		if msg.err != nil {
			m.setError("scan failed: " + msg.err.Error())
			return m, nil
		}
		m.rows = msg.rows
		m.clampCursor()

	case killDoneMsg:
		m.killing = false
		if msg.outcome.Success() {
			m.setStatus(msg.outcome.Message())
		} else {
			m.setError(msg.outcome.Message())
		}
		m.pollSeq++
		return m, m.pollCmd(m.pollSeq)
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		switch {
		case key.Matches(msg, keys.Confirm):
			m.confirming = false
			m.killing = true
			return m, m.killCmd(m.target, m.force)
		case key.Matches(msg, keys.Cancel):
			m.confirming = false
			m.setStatus("cancelled")
		}
		return m, nil
	}

	if m.searching {
		switch msg.Type {
		case tea.KeyEsc:
			m.searching = false
			m.query = ""
			m.clampCursor()
		case tea.KeyBackspace:
			if len(m.query) > 0 {
				m.query = m.query[:len(m.query)-1]
				m.clampCursor()
			}
		case tea.KeyEnter:
			m.searching = false
		case tea.KeyRunes:
			m.query += string(msg.Runes)
			m.cursor = 0
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Search):
		m.searching = true

	case key.Matches(msg, keys.Cancel):
		if m.query != "" {
			m.query = ""
			m.cursor = 0
		}

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.filteredRows())-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Proto):
		m.proto = (m.proto + 1) % 3
		m.clampCursor()
		m.setStatus("protocol: " + m.proto.label())

	case key.Matches(msg, keys.State):
		m.state = (m.state + 1) % 3
		m.clampCursor()
		m.setStatus("state: " + m.state.label())

	case key.Matches(msg, keys.Force):
		m.force = !m.force
		if m.force {
			m.setStatus("force armed: protection overridden, SIGKILL direct")
		} else {
			m.setStatus("force disarmed")
		}

	case key.Matches(msg, keys.Refresh):
		m.setStatus("refreshing...")
		m.pollSeq++
		return m, m.pollCmd(m.pollSeq)

	case key.Matches(msg, keys.Kill):
		filtered := m.filteredRows()
		if len(filtered) == 0 || m.cursor >= len(filtered) {
			return m, nil
		}
		target := filtered[m.cursor]
		if target.rec.PID == 0 {
			m.setStatus("owning process undisclosed, nothing to terminate")
			return m, nil
		}
		m.target = target
		m.confirming = true
	}

	return m, nil
}
