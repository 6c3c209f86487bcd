// Package inventory enumerates active network ports and joins each to its
// owning process where the operating system discloses it.
package inventory

type Protocol string

const (
	ProtocolTCP Protocol = "tcp"
	ProtocolUDP Protocol = "udp"
)

// State is a TCP connection state as reported by the OS. UDP sockets carry
// no state and are recorded with StateNone.
type State string

const (
	StateNone        State = ""
	StateListen      State = "LISTEN"
	StateEstablished State = "ESTABLISHED"
	StateTimeWait    State = "TIME_WAIT"
	StateCloseWait   State = "CLOSE_WAIT"
)

// PortRecord is an immutable snapshot of one socket, recreated on every
// poll. PID is 0 when the owner is undisclosed (restricted permissions) and
// consumers must handle that.
type PortRecord struct {
	Protocol   Protocol
	LocalAddr  string
	LocalPort  uint32
	RemoteAddr string
	RemotePort uint32
	State      State
	PID        int32
}

// Bound reports whether the socket owns its local port: a TCP listener or a
// stateless UDP socket. Established peers share the port number without
// owning it.
func (r PortRecord) Bound() bool {
	return r.State == StateListen || r.State == StateNone
}
