// Package session owns the authoritative editing state for one workout: the
// document, the validation reconciler, and the confirmation set, behind an
// explicit store with Get / Apply / Subscribe. The core engines are pure;
// this is the single place state is replaced, so surfaces (HTTP, MCP) stay
// free of ambient mutable state.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/supergeri/workout-content-transformation-sub001/internal/document"
	"github.com/supergeri/workout-content-transformation-sub001/internal/editor"
	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
	"github.com/supergeri/workout-content-transformation-sub001/internal/project"
	"github.com/supergeri/workout-content-transformation-sub001/internal/reconcile"
)

// Op names a state transition the store knows how to apply.
type Op string

const (
	OpMoveBlock        Op = "move_block"
	OpAddBlock         Op = "add_block"
	OpDeleteBlock      Op = "delete_block"
	OpMoveExercise     Op = "move_exercise"
	OpAddExercise      Op = "add_exercise"
	OpDeleteExercise   Op = "delete_exercise"
	OpReplaceExercise  Op = "replace_exercise"
	OpAddSuperset      Op = "add_superset"
	OpDeleteSuperset   Op = "delete_superset"
	OpLoadValidation   Op = "load_validation"
	OpApplyMapping     Op = "apply_mapping"
	OpAcceptMapping    Op = "accept_mapping"
	OpConfirmAll       Op = "confirm_all"
)

// ErrBadCommand signals a command missing the fields its op requires.
var ErrBadCommand = errors.New("bad command")

// ErrUnknownOp signals an op the store does not implement.
var ErrUnknownOp = errors.New("unknown op")

// Command is one state transition request. Only the fields relevant to the
// op need to be set.
type Command struct {
	Op Op `json:"op"`

	// Block moves.
	SourceIndex int `json:"source_index,omitempty"`
	TargetIndex int `json:"target_index,omitempty"`

	// Exercise moves.
	Source *editor.Source `json:"source,omitempty"`
	Target *editor.Target `json:"target,omitempty"`

	// Container addressing for add/delete/replace.
	BlockIndex    int  `json:"block_index,omitempty"`
	ExerciseIndex int  `json:"exercise_index,omitempty"`
	SupersetIndex *int `json:"superset_index,omitempty"`

	Exercise *models.Exercise `json:"exercise,omitempty"`
	Block    *models.Block    `json:"block,omitempty"`

	// Mapping transitions.
	Name     string `json:"name,omitempty"`
	MappedTo string `json:"mapped_to,omitempty"`

	Validation *models.ValidationResponse `json:"validation,omitempty"`
}

// Snapshot is an immutable view of session state. The document pointer is
// replaced wholesale on every effective edit, so consumers holding an old
// snapshot can compare Revision (or the document fingerprint) to detect
// change.
type Snapshot struct {
	SessionID      uuid.UUID                  `json:"session_id"`
	Document       *models.WorkoutStructure   `json:"document"`
	Validation     *models.ValidationResponse `json:"validation,omitempty"`
	Confirmed      []string                   `json:"confirmed,omitempty"`
	Revision       int64                      `json:"revision"`
	ExerciseCount  int                        `json:"exercise_count"`
	CanProceed     bool                       `json:"can_proceed"`
	FinalCanExport bool                       `json:"final_can_export"`

	// Diagnostic is set when the last command degraded to a no-op.
	Diagnostic string `json:"diagnostic,omitempty"`
}

// Session is the store for one workout's editing state. All methods are safe
// for concurrent use.
type Session struct {
	id  uuid.UUID
	log *slog.Logger

	mu        sync.Mutex
	doc       *models.WorkoutStructure
	rec       *reconcile.Reconciler
	revision  int64
	nextSub   int
	subs      map[int]func(Snapshot)
	validated bool
}

func newSession(doc *models.WorkoutStructure, threshold float64, log *slog.Logger) *Session {
	repaired := document.Normalize(document.EnsureIDs(doc))
	return &Session{
		id:   uuid.New(),
		log:  log,
		doc:  repaired,
		rec:  reconcile.New(threshold),
		subs: make(map[int]func(Snapshot)),
	}
}

// ID returns the session's identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Get returns the current snapshot.
func (s *Session) Get() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked("")
}

// Subscribe registers a listener invoked with the new snapshot after every
// effective state change. The returned function unsubscribes.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Apply runs one command against the session. Structural anomalies (stale
// index, deleted container, unknown exercise name) degrade to no-ops carried
// in Snapshot.Diagnostic; the error return is reserved for malformed or
// unknown commands.
func (s *Session) Apply(cmd Command) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.doc
	revBefore := s.revision
	diag := ""

	var err error
	switch cmd.Op {
	case OpMoveBlock:
		s.doc, err = editor.MoveBlock(s.doc, cmd.SourceIndex, cmd.TargetIndex)
	case OpAddBlock:
		if cmd.Block == nil {
			return Snapshot{}, fmt.Errorf("%w: %s requires block", ErrBadCommand, cmd.Op)
		}
		s.doc, err = editor.AddBlock(s.doc, *cmd.Block)
	case OpDeleteBlock:
		s.doc, err = editor.DeleteBlock(s.doc, cmd.BlockIndex)
	case OpMoveExercise:
		if cmd.Source == nil || cmd.Target == nil {
			return Snapshot{}, fmt.Errorf("%w: %s requires source and target", ErrBadCommand, cmd.Op)
		}
		s.doc, err = editor.MoveExercise(s.doc, *cmd.Source, *cmd.Target)
	case OpAddExercise:
		if cmd.Exercise == nil {
			return Snapshot{}, fmt.Errorf("%w: %s requires exercise", ErrBadCommand, cmd.Op)
		}
		s.doc, err = editor.AddExercise(s.doc, cmd.BlockIndex, *cmd.Exercise, cmd.SupersetIndex)
	case OpDeleteExercise:
		s.doc, err = editor.DeleteExercise(s.doc, cmd.BlockIndex, cmd.ExerciseIndex, cmd.SupersetIndex)
	case OpReplaceExercise:
		if cmd.Source == nil || cmd.Exercise == nil {
			return Snapshot{}, fmt.Errorf("%w: %s requires source and exercise", ErrBadCommand, cmd.Op)
		}
		s.doc, err = editor.ReplaceExercise(s.doc, *cmd.Source, *cmd.Exercise)
	case OpAddSuperset:
		s.doc, err = editor.AddSuperset(s.doc, cmd.BlockIndex)
	case OpDeleteSuperset:
		s.doc, err = editor.DeleteSuperset(s.doc, cmd.BlockIndex, cmd.SupersetIndex0())
	case OpLoadValidation:
		if cmd.Validation == nil {
			return Snapshot{}, fmt.Errorf("%w: %s requires validation", ErrBadCommand, cmd.Op)
		}
		s.rec.Load(cmd.Validation)
		s.validated = true
		s.revision++
	case OpApplyMapping:
		if cmd.Name == "" || cmd.MappedTo == "" {
			return Snapshot{}, fmt.Errorf("%w: %s requires name and mapped_to", ErrBadCommand, cmd.Op)
		}
		if err := s.rec.ApplyMapping(cmd.Name, cmd.MappedTo); err != nil {
			diag = err.Error()
		} else {
			s.revision++
		}
	case OpAcceptMapping:
		if cmd.Name == "" {
			return Snapshot{}, fmt.Errorf("%w: %s requires name", ErrBadCommand, cmd.Op)
		}
		if err := s.rec.AcceptMapping(cmd.Name); err != nil {
			diag = err.Error()
		} else {
			s.revision++
		}
	case OpConfirmAll:
		if n := s.rec.ConfirmAll(); n == 0 {
			diag = "nothing to confirm"
		} else {
			s.revision++
		}
	default:
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
	}

	if err != nil {
		diag = err.Error()
		s.log.Warn("command degraded to no-op", "session", s.id, "op", cmd.Op, "reason", diag)
	}
	if s.doc != before {
		s.revision++
	}

	snap := s.snapshotLocked(diag)
	if s.revision != revBefore {
		for _, fn := range s.subs {
			fn(snap)
		}
	}
	return snap, nil
}

// Project runs the mapping projector over the current document using the
// reconciler's confirmed mappings. The session's own document is untouched;
// projection produces the document handed downstream for export.
func (s *Session) Project(device models.Device) *models.WorkoutStructure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return project.Project(s.doc, s.rec.ConfirmedMappings(), device)
}

func (s *Session) snapshotLocked(diag string) Snapshot {
	snap := Snapshot{
		SessionID:      s.id,
		Document:       s.doc,
		Confirmed:      s.rec.ConfirmedNames(),
		Revision:       s.revision,
		ExerciseCount:  document.CountExercises(s.doc),
		CanProceed:     s.rec.CanProceed(),
		FinalCanExport: s.rec.FinalCanExport(),
		Diagnostic:     diag,
	}
	if s.validated {
		snap.Validation = s.rec.Response()
	}
	return snap
}

// SupersetIndex0 returns the superset index or zero; delete-superset
// addresses the superset directly rather than optionally.
func (c Command) SupersetIndex0() int {
	if c.SupersetIndex != nil {
		return *c.SupersetIndex
	}
	return 0
}
