// Package editor implements the structural editing operations over a workout
// document. Every operation is pure: it takes a document and returns a new
// one, cloning only the chain it touches (document -> block -> exercise or
// superset slice) so untouched subtrees keep sharing memory with the input.
//
// Expected anomalies — a stale index, a container deleted by an earlier
// command — degrade to no-ops: the input document comes back unchanged
// together with a diagnostic error the caller can log. Operations never
// panic on bad indices.
package editor

import (
	"errors"
	"fmt"

	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
)

var (
	// ErrNoSuchBlock signals a block index outside the document.
	ErrNoSuchBlock = errors.New("no such block")
	// ErrNoSuchSuperset signals a superset index outside the block.
	ErrNoSuchSuperset = errors.New("no such superset")
	// ErrNoSuchExercise signals an exercise index outside its container.
	ErrNoSuchExercise = errors.New("no such exercise")
	// ErrNilDocument signals an absent document.
	ErrNilDocument = errors.New("nil document")
)

// Source identifies an exercise to take out of the document. Superset is nil
// for the block's flat exercise list.
type Source struct {
	Block    int  `json:"block_index"`
	Exercise int  `json:"exercise_index"`
	Superset *int `json:"superset_index,omitempty"`
}

// Target identifies where a moved exercise should land. Index is the raw
// insertion index within the target container as resolved by the caller
// (e.g. a drop handler); the editor adjusts it for same-container moves and
// clamps it into range.
type Target struct {
	Block    int  `json:"block_index"`
	Index    int  `json:"raw_index"`
	Superset *int `json:"superset_index,omitempty"`
}

// cloneDoc copies the document shell and its block slice header so blocks can
// be swapped out without touching the input.
func cloneDoc(doc *models.WorkoutStructure) *models.WorkoutStructure {
	out := *doc
	out.Blocks = make([]models.Block, len(doc.Blocks))
	copy(out.Blocks, doc.Blocks)
	return &out
}

// cloneBlockAt replaces doc.Blocks[i] with a copy owning fresh exercise and
// superset slices, and returns a pointer into the document for mutation.
// Exercises themselves are values, so copying the slices is enough.
func cloneBlockAt(doc *models.WorkoutStructure, i int) *models.Block {
	b := &doc.Blocks[i]
	b.Exercises = append([]models.Exercise(nil), b.Exercises...)
	b.Supersets = append([]models.Superset(nil), b.Supersets...)
	return b
}

// cloneSupersetAt gives doc.Blocks[bi].Supersets[si] a fresh exercise slice.
// The block must already be cloned.
func cloneSupersetAt(b *models.Block, si int) *models.Superset {
	ss := &b.Supersets[si]
	ss.Exercises = append([]models.Exercise(nil), ss.Exercises...)
	return ss
}

func checkBlock(doc *models.WorkoutStructure, i int) error {
	if doc == nil {
		return ErrNilDocument
	}
	if i < 0 || i >= len(doc.Blocks) {
		return fmt.Errorf("%w: index %d of %d blocks", ErrNoSuchBlock, i, len(doc.Blocks))
	}
	return nil
}

func checkSuperset(b *models.Block, i int) error {
	if i < 0 || i >= len(b.Supersets) {
		return fmt.Errorf("%w: index %d of %d supersets in block %q", ErrNoSuchSuperset, i, len(b.Supersets), b.Label)
	}
	return nil
}

func clamp(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

// sameContainer reports whether a source and target resolve to the same
// exercise list.
func sameContainer(src Source, tgt Target) bool {
	if src.Block != tgt.Block {
		return false
	}
	if (src.Superset == nil) != (tgt.Superset == nil) {
		return false
	}
	return src.Superset == nil || *src.Superset == *tgt.Superset
}
