package probe

import (
	"fmt"
	"strings"

	"github.com/scottbass3/imgprobe/internal/target"
)

type Dimensions struct {
	Width  int
	Height int
}

// Record is the outcome of probing one target. Size and Dims are nil when
// unknown; Dims is never partially known.
type Record struct {
	ID     string
	Target string
	Kind   target.Kind
	Size   *int64
	Dims   *Dimensions
	Status []Status
}

func (r *Record) add(s Status) {
	r.Status = append(r.Status, s)
}

func (r *Record) setSize(n int64) {
	r.Size = &n
}

// SizeOrUnknown returns the size, or -1 when it is unknown.
func (r Record) SizeOrUnknown() int64 {
	if r.Size == nil {
		return -1
	}
	return *r.Size
}

func (r Record) StatusText() string {
	parts := make([]string, 0, len(r.Status))
	for _, s := range r.Status {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ", ")
}

func (r Record) HasStatus(token string) bool {
	for _, s := range r.Status {
		if s.String() == token {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	out := r
	if r.Size != nil {
		size := *r.Size
		out.Size = &size
	}
	if r.Dims != nil {
		dims := *r.Dims
		out.Dims = &dims
	}
	out.Status = append([]Status(nil), r.Status...)
	return out
}

type Phase string

const (
	PhaseHead   Phase = "HEAD"
	PhaseGet    Phase = "GET"
	PhaseFile   Phase = "file"
	PhaseDecode Phase = "decode"
	PhaseProbe  Phase = "probe"
)

type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeHTTPStatus
	OutcomeTimeout
	OutcomeFailed
	OutcomeNotFound
	OutcomePermission
	OutcomeNotFile
)

// Status is one diagnostic entry. Code holds the HTTP status for HTTP
// phases and Detail the underlying error message.
type Status struct {
	Phase   Phase
	Outcome Outcome
	Code    int
	Detail  string
}

func (s Status) String() string {
	switch s.Outcome {
	case OutcomeOK:
		if s.Phase == PhaseGet && s.Code == 206 {
			return "OK(Range)"
		}
		return fmt.Sprintf("OK(%s)", s.Phase)
	case OutcomeHTTPStatus:
		return fmt.Sprintf("%s %d", s.Phase, s.Code)
	case OutcomeTimeout:
		return fmt.Sprintf("%s timeout", s.Phase)
	case OutcomeNotFound:
		return "file not found"
	case OutcomePermission:
		return "permission denied"
	case OutcomeNotFile:
		return "Not a file"
	default:
		if s.Detail == "" {
			return fmt.Sprintf("%s failed", s.Phase)
		}
		return fmt.Sprintf("%s failed: %s", s.Phase, s.Detail)
	}
}

func (s Status) IsOK() bool {
	return s.Outcome == OutcomeOK
}

func failed(phase Phase, err error) Status {
	return Status{Phase: phase, Outcome: OutcomeFailed, Detail: err.Error()}
}
