package control

import "strings"

// ProtectedSet marks ports and process names considered sensitive.
// It is built once at startup from configuration and never mutated.
type ProtectedSet struct {
	ports map[uint32]struct{}
	names map[string]struct{}
}

func NewProtectedSet(ports []uint32, names []string) ProtectedSet {
	s := ProtectedSet{
		ports: make(map[uint32]struct{}, len(ports)),
		names: make(map[string]struct{}, len(names)),
	}
	for _, p := range ports {
		s.ports[p] = struct{}{}
	}
	for _, n := range names {
		s.names[strings.ToLower(n)] = struct{}{}
	}
	return s
}

func (s ProtectedSet) Port(port uint32) bool {
	_, ok := s.ports[port]
	return ok
}

func (s ProtectedSet) Name(name string) bool {
	if name == "" {
		return false
	}
	_, ok := s.names[strings.ToLower(name)]
	return ok
}
