package target

import (
	"slices"
	"sync"
)

type Kind int

const (
	Remote Kind = iota
	Local
)

func (k Kind) String() string {
	switch k {
	case Remote:
		return "remote"
	case Local:
		return "local"
	default:
		return "unknown"
	}
}

// Target is one distinct image reference. Request is an absolute URL for
// Remote targets and an absolute filesystem path for Local ones.
type Target struct {
	ID      string
	Kind    Kind
	Request string
	Display string
	Sources []string
}

func (t Target) Occurrences() int {
	return len(t.Sources)
}

func MakeID(kind Kind, request string) string {
	return kind.String() + "::" + request
}

// Set collapses repeated sightings of the same reference into one Target
// and keeps first-discovery order. It is safe for concurrent use.
type Set struct {
	mu      sync.Mutex
	order   []string
	targets map[string]*Target
	seen    map[string]map[string]struct{}
}

func NewSet() *Set {
	return &Set{
		targets: make(map[string]*Target),
		seen:    make(map[string]map[string]struct{}),
	}
}

// Add records a sighting of request in source and returns the target ID.
func (s *Set) Add(kind Kind, request, display, source string) string {
	id := MakeID(kind, request)

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.targets[id]
	if !ok {
		t = &Target{ID: id, Kind: kind, Request: request, Display: display}
		s.targets[id] = t
		s.seen[id] = make(map[string]struct{})
		s.order = append(s.order, id)
	}
	if source == "" {
		return id
	}
	if _, dup := s.seen[id][source]; !dup {
		s.seen[id][source] = struct{}{}
		t.Sources = append(t.Sources, source)
	}
	return id
}

func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Targets returns a copy of every target in discovery order.
func (s *Set) Targets() []Target {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Target, 0, len(s.order))
	for _, id := range s.order {
		t := *s.targets[id]
		t.Sources = slices.Clone(t.Sources)
		out = append(out, t)
	}
	return out
}

func (s *Set) Occurrences(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.targets[id]; ok {
		return len(t.Sources)
	}
	return 0
}
