package inventory

import (
	"errors"
	"fmt"
	"slices"
	"syscall"

	gopsNet "github.com/shirou/gopsutil/v4/net"

	"github.com/vebulogmetra/pports/internal/process"
)

// ErrEnumeration signals that the OS socket query itself failed, typically
// under insufficient permissions. An empty result with no error means the
// query succeeded and nothing matched.
var ErrEnumeration = errors.New("port enumeration failed")

type connLister func(kind string) ([]gopsNet.ConnectionStat, error)

// Scanner produces PortRecord snapshots from the OS. It holds no state
// between calls; every List is a fresh enumeration pass.
type Scanner struct {
	conns connLister
	prov  process.Provider
}

func NewScanner(prov process.Provider) *Scanner {
	return &Scanner{conns: gopsNet.Connections, prov: prov}
}

// List performs one enumeration pass and returns the records matching f,
// sorted by (protocol, port, pid). Calling it repeatedly with an unchanged
// system yields identical tuples modulo timing-sensitive connection state.
func (s *Scanner) List(f Filter) ([]PortRecord, error) {
	kind := "inet"
	switch f.Protocol {
	case ProtocolTCP:
		kind = "tcp"
	case ProtocolUDP:
		kind = "udp"
	}

	conns, err := s.conns(kind)
	if err != nil && kind == "inet" {
		// Restricted environments sometimes expose TCP sockets only.
		conns, err = s.conns("tcp")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnumeration, err)
	}

	names := make(map[int32]string)
	var records []PortRecord
	for _, c := range conns {
		r, ok := recordFromConn(c)
		if !ok {
			continue
		}
		var name string
		if f.wantsName() && r.PID != 0 {
			name = s.nameFor(r.PID, names)
		}
		if !f.matches(r, name) {
			continue
		}
		records = append(records, r)
	}

	slices.SortFunc(records, compareRecords)
	return records, nil
}

// Lookup resolves the owning process metadata for one record. A nil Info
// with a nil error means the process exited or is undisclosed.
func (s *Scanner) Lookup(pid int32) (*process.Info, error) {
	if pid == 0 {
		return nil, nil
	}
	info, err := s.prov.Lookup(pid)
	if errors.Is(err, process.ErrNotFound) {
		return nil, nil
	}
	return info, err
}

func (s *Scanner) nameFor(pid int32, cache map[int32]string) string {
	if name, ok := cache[pid]; ok {
		return name
	}
	name := ""
	if info, err := s.prov.Lookup(pid); err == nil && info != nil {
		name = info.Name
	}
	cache[pid] = name
	return name
}

func recordFromConn(c gopsNet.ConnectionStat) (PortRecord, bool) {
	if c.Laddr.Port == 0 {
		return PortRecord{}, false
	}

	var proto Protocol
	switch c.Type {
	case syscall.SOCK_STREAM:
		proto = ProtocolTCP
	case syscall.SOCK_DGRAM:
		proto = ProtocolUDP
	default:
		return PortRecord{}, false
	}

	state := State(c.Status)
	if c.Status == "NONE" || proto == ProtocolUDP {
		state = StateNone
	}

	return PortRecord{
		Protocol:   proto,
		LocalAddr:  c.Laddr.IP,
		LocalPort:  c.Laddr.Port,
		RemoteAddr: c.Raddr.IP,
		RemotePort: c.Raddr.Port,
		State:      state,
		PID:        c.Pid,
	}, true
}

func compareRecords(a, b PortRecord) int {
	if a.Protocol != b.Protocol {
		if a.Protocol < b.Protocol {
			return -1
		}
		return 1
	}
	if a.LocalPort != b.LocalPort {
		return int(a.LocalPort) - int(b.LocalPort)
	}
	return int(a.PID) - int(b.PID)
}
