package sheetmerge

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrNoDetection is returned by Session operations that need a change set.
var ErrNoDetection = errors.New("sheetmerge: no detection has run")

// State is a step of the review workflow.
type State int

const (
	StateIdle State = iota
	StateDetecting
	StateReviewing
	StateFinalizing
	StateExporting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDetecting:
		return "detecting"
	case StateReviewing:
		return "reviewing"
	case StateFinalizing:
		return "finalizing"
	case StateExporting:
		return "exporting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Inputs are the decoded inputs of one detection run.
type Inputs struct {
	Document    any
	Rows        []Row
	KeyColumn   string
	ValueColumn string
	Options     []DetectOption
}

// Session holds the review state of one document: the original, the current
// change set and the last final document. A new detection replaces all of it.
type Session struct {
	mu       sync.Mutex
	state    State
	original any
	changes  *ChangeSet
	final    any
	last     *Detection
	pending  bool // keep flags changed since final was computed
}

// NewSession returns an idle session.
func NewSession() *Session { return &Session{} }

// State reports the current workflow step.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Detect runs change detection and replaces any previous review state. On
// failure the session returns to idle with no change set.
func (s *Session) Detect(in Inputs) (*Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateDetecting
	det, err := Detect(in.Document, in.Rows, in.KeyColumn, in.ValueColumn, in.Options...)
	if err != nil {
		s.reset()
		return nil, err
	}
	s.original = Clone(in.Document)
	s.changes = det.Changes
	s.final = det.Working
	s.last = det
	s.pending = false
	s.state = StateReviewing

	out := *det
	out.Working = Clone(det.Working)
	out.Changes = NewChangeSet(det.Changes.Records()...)
	return &out, nil
}

// Restore resumes a review from a previously saved change set. The final
// document is recomputed from the saved keep flags.
func (s *Session) Restore(original any, changes *ChangeSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.original = Clone(original)
	s.changes = changes
	if s.changes == nil {
		s.changes = NewChangeSet()
	}
	s.final = Apply(s.original, s.changes)
	s.last = nil
	s.pending = false
	s.state = StateReviewing
}

// Reset discards all review state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Session) reset() {
	s.state = StateIdle
	s.original, s.changes, s.final, s.last = nil, nil, nil, nil
	s.pending = false
}

// Toggle flips the keep flag of the change at path.
func (s *Session) Toggle(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReviewing {
		return false
	}
	if !s.changes.Toggle(path) {
		return false
	}
	s.pending = true
	return true
}

// Pending reports whether keep flags changed since the final document was
// last computed. Export writes the last final document, so pending decisions
// are not in it until Apply runs.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Changes returns a copy of the current change records.
func (s *Session) Changes() []Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changes.Records()
}

// ChangeSet returns a snapshot of the current change set.
func (s *Session) ChangeSet() *ChangeSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewChangeSet(s.changes.Records()...)
}

// Apply recomputes the final document from the original and the kept changes.
func (s *Session) Apply() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return nil, ErrNoDetection
	}
	s.state = StateFinalizing
	s.final = Apply(s.original, s.changes)
	s.pending = false
	s.state = StateReviewing
	return Clone(s.final), nil
}

// Original returns a copy of the original document.
func (s *Session) Original() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Clone(s.original)
}

// Final returns a copy of the last final document. Before the first Apply
// this is the detector's working copy with every change applied.
func (s *Session) Final() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Clone(s.final)
}

// Detection returns the statistics of the last detection run, if any.
func (s *Session) Detection() (rows, skipped int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return 0, 0, false
	}
	return s.last.Rows, s.last.Skipped, true
}

// Diff compares the original with the last final document.
func (s *Session) Diff(opts DiffOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return "", ErrNoDetection
	}
	return Diff(s.original, s.final, opts)
}

// Export writes the last final document to w. It does not change the review state.
func (s *Session) Export(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return ErrNoDetection
	}
	prev := s.state
	s.state = StateExporting
	defer func() { s.state = prev }()

	b, err := MarshalDocument(s.final)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("sheetmerge: export: %w", err)
	}
	return nil
}
