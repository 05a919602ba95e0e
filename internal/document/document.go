// Package document holds identity, ordering, and counting utilities for the
// workout document tree. Everything here is pure: functions either return
// their input unchanged or a new value, never mutate arguments in place,
// except where a function is explicitly documented as a repair pass.
package document

import (
	"sort"

	"github.com/google/uuid"
	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
)

// EnsureIDs returns a document in which every block, superset, and exercise
// carries a non-empty id. When the input is already fully identified the same
// pointer is returned, so callers can use reference equality to skip
// downstream work. A nil document normalizes to an empty-blocks document.
func EnsureIDs(doc *models.WorkoutStructure) *models.WorkoutStructure {
	if doc == nil {
		return &models.WorkoutStructure{Blocks: []models.Block{}}
	}
	if FullyIdentified(doc) {
		return doc
	}

	out := *doc
	out.Blocks = make([]models.Block, len(doc.Blocks))
	for i, b := range doc.Blocks {
		nb := b
		if nb.ID == "" {
			nb.ID = uuid.NewString()
		}
		nb.Exercises = make([]models.Exercise, len(b.Exercises))
		for j, ex := range b.Exercises {
			if ex.ID == "" {
				ex.ID = uuid.NewString()
			}
			nb.Exercises[j] = ex
		}
		nb.Supersets = make([]models.Superset, len(b.Supersets))
		for j, ss := range b.Supersets {
			ns := ss
			if ns.ID == "" {
				ns.ID = uuid.NewString()
			}
			ns.Exercises = make([]models.Exercise, len(ss.Exercises))
			for k, ex := range ss.Exercises {
				if ex.ID == "" {
					ex.ID = uuid.NewString()
				}
				ns.Exercises[k] = ex
			}
			nb.Supersets[j] = ns
		}
		out.Blocks[i] = nb
	}
	return &out
}

// FullyIdentified reports whether every node in the tree already has an id.
// The check is deliberately exhaustive: a shallow check that stops at the
// first level misses freshly added exercises inside supersets.
func FullyIdentified(doc *models.WorkoutStructure) bool {
	for _, b := range doc.Blocks {
		if b.ID == "" {
			return false
		}
		for _, ex := range b.Exercises {
			if ex.ID == "" {
				return false
			}
		}
		for _, ss := range b.Supersets {
			if ss.ID == "" {
				return false
			}
			for _, ex := range ss.Exercises {
				if ex.ID == "" {
					return false
				}
			}
		}
	}
	return true
}

// CountExercises counts every exercise in the document, block-level and
// inside supersets. Structural edits must conserve this count modulo the
// exercises a single call explicitly adds or removes.
func CountExercises(doc *models.WorkoutStructure) int {
	if doc == nil {
		return 0
	}
	n := 0
	for _, b := range doc.Blocks {
		n += len(b.Exercises)
		for _, ss := range b.Supersets {
			n += len(ss.Exercises)
		}
	}
	return n
}

// EntryKind discriminates the two collections a block interleaves.
type EntryKind int

const (
	EntryExercise EntryKind = iota
	EntrySuperset
)

// Entry is one position in a block's display sequence: either a block-level
// exercise or a superset, referenced by index into the owning slice.
type Entry struct {
	Kind  EntryKind
	Index int
}

// BlockEntries returns the block's display sequence: flat exercises and
// supersets merged and sorted by their Position ordinals. The sort is stable,
// so entries sharing a position keep slice order with supersets first, which
// matches the legacy convention for documents that predate explicit
// positions.
func BlockEntries(b *models.Block) []Entry {
	entries := make([]Entry, 0, len(b.Exercises)+len(b.Supersets))
	for i := range b.Supersets {
		entries = append(entries, Entry{Kind: EntrySuperset, Index: i})
	}
	for i := range b.Exercises {
		entries = append(entries, Entry{Kind: EntryExercise, Index: i})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entryPosition(b, entries[i]) < entryPosition(b, entries[j])
	})
	return entries
}

func entryPosition(b *models.Block, e Entry) int {
	if e.Kind == EntrySuperset {
		return b.Supersets[e.Index].Position
	}
	return b.Exercises[e.Index].Position
}

// MaxPosition returns the highest Position ordinal in the block, or -1 for a
// block with no entries.
func MaxPosition(b *models.Block) int {
	max := -1
	for _, ex := range b.Exercises {
		if ex.Position > max {
			max = ex.Position
		}
	}
	for _, ss := range b.Supersets {
		if ss.Position > max {
			max = ss.Position
		}
	}
	return max
}

// Renumber rewrites the block's Position ordinals to the dense sequence
// 0..n-1 following the current display order. Mutates the block; callers own
// the clone.
func Renumber(b *models.Block) {
	for i, e := range BlockEntries(b) {
		if e.Kind == EntrySuperset {
			b.Supersets[e.Index].Position = i
		} else {
			b.Exercises[e.Index].Position = i
		}
	}
}

// Normalize assigns display positions to a document that lacks them. The
// generation service emits no position field; its implied order is: first
// block-level exercise (if present), then all supersets, then the remaining
// block-level exercises. Blocks where any entry already carries a non-zero
// position are left alone. Returns the same pointer when nothing changed.
func Normalize(doc *models.WorkoutStructure) *models.WorkoutStructure {
	needs := false
	for i := range doc.Blocks {
		if blockNeedsPositions(&doc.Blocks[i]) {
			needs = true
			break
		}
	}
	if !needs {
		return doc
	}

	out := *doc
	out.Blocks = make([]models.Block, len(doc.Blocks))
	copy(out.Blocks, doc.Blocks)
	for i := range out.Blocks {
		b := &out.Blocks[i]
		if !blockNeedsPositions(b) {
			continue
		}
		b.Exercises = append([]models.Exercise(nil), b.Exercises...)
		b.Supersets = append([]models.Superset(nil), b.Supersets...)
		assignLegacyPositions(b)
	}
	return &out
}

// NormalizeBlock applies the legacy position assignment to a single block
// when none of its entries carry an explicit position yet.
func NormalizeBlock(b *models.Block) {
	if blockNeedsPositions(b) {
		assignLegacyPositions(b)
	}
}

func blockNeedsPositions(b *models.Block) bool {
	if len(b.Exercises)+len(b.Supersets) < 2 {
		return false
	}
	for _, ex := range b.Exercises {
		if ex.Position != 0 {
			return false
		}
	}
	for _, ss := range b.Supersets {
		if ss.Position != 0 {
			return false
		}
	}
	return true
}

func assignLegacyPositions(b *models.Block) {
	pos := 0
	if len(b.Exercises) > 0 {
		b.Exercises[0].Position = pos
		pos++
	}
	for i := range b.Supersets {
		b.Supersets[i].Position = pos
		pos++
	}
	for i := 1; i < len(b.Exercises); i++ {
		b.Exercises[i].Position = pos
		pos++
	}
}
