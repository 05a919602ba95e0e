package editor

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supergeri/workout-content-transformation-sub001/internal/document"
	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
)

// MoveExercise takes the exercise at src out of its container and inserts it
// into the container named by tgt. When source and target are the same list
// and the source index precedes the raw target index, the target shifts left
// by one to account for the removal; the final index is then clamped into
// [0, len]. A missing source or target container returns the input document
// with a diagnostic.
func MoveExercise(doc *models.WorkoutStructure, src Source, tgt Target) (*models.WorkoutStructure, error) {
	if err := checkBlock(doc, src.Block); err != nil {
		return doc, err
	}
	if err := checkBlock(doc, tgt.Block); err != nil {
		return doc, err
	}
	srcBlock := &doc.Blocks[src.Block]
	if src.Superset != nil {
		if err := checkSuperset(srcBlock, *src.Superset); err != nil {
			return doc, err
		}
	}
	tgtBlock := &doc.Blocks[tgt.Block]
	if tgt.Superset != nil {
		if err := checkSuperset(tgtBlock, *tgt.Superset); err != nil {
			return doc, err
		}
	}
	srcLen := len(srcBlock.Exercises)
	if src.Superset != nil {
		srcLen = len(srcBlock.Supersets[*src.Superset].Exercises)
	}
	if src.Exercise < 0 || src.Exercise >= srcLen {
		return doc, fmt.Errorf("%w: index %d of %d", ErrNoSuchExercise, src.Exercise, srcLen)
	}

	out := cloneDoc(doc)

	// Remove from the source container.
	var moved models.Exercise
	sb := cloneBlockAt(out, src.Block)
	if src.Superset != nil {
		ss := cloneSupersetAt(sb, *src.Superset)
		moved = ss.Exercises[src.Exercise]
		ss.Exercises = append(ss.Exercises[:src.Exercise], ss.Exercises[src.Exercise+1:]...)
	} else {
		moved = sb.Exercises[src.Exercise]
		sb.Exercises = append(sb.Exercises[:src.Exercise], sb.Exercises[src.Exercise+1:]...)
		document.Renumber(sb)
	}

	// Insert into the target container.
	tb := sb
	if tgt.Block != src.Block {
		tb = cloneBlockAt(out, tgt.Block)
	}
	idx := tgt.Index
	if sameContainer(src, tgt) && src.Exercise < tgt.Index {
		idx--
	}
	if tgt.Superset != nil {
		ss := &tb.Supersets[*tgt.Superset]
		if src.Superset == nil || src.Block != tgt.Block || *src.Superset != *tgt.Superset {
			ss = cloneSupersetAt(tb, *tgt.Superset)
		}
		idx = clamp(idx, len(ss.Exercises))
		ss.Exercises = insertExercise(ss.Exercises, idx, moved)
	} else {
		idx = clamp(idx, len(tb.Exercises))
		tb.Exercises = insertExercise(tb.Exercises, idx, moved)
		placeExercise(tb, idx)
		document.Renumber(tb)
	}
	return out, nil
}

// AddExercise appends an exercise to the block's flat list, or to the named
// superset. A block-level exercise always lands after every current entry in
// the block's display order, including all supersets — so the first flat
// exercise added to a superset-only block still iterates after the supersets.
func AddExercise(doc *models.WorkoutStructure, blockIndex int, ex models.Exercise, supersetIndex *int) (*models.WorkoutStructure, error) {
	if err := checkBlock(doc, blockIndex); err != nil {
		return doc, err
	}
	if supersetIndex != nil {
		if err := checkSuperset(&doc.Blocks[blockIndex], *supersetIndex); err != nil {
			return doc, err
		}
	}
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}

	out := cloneDoc(doc)
	b := cloneBlockAt(out, blockIndex)
	if supersetIndex != nil {
		ss := cloneSupersetAt(b, *supersetIndex)
		ex.Position = 0
		ss.Exercises = append(ss.Exercises, ex)
		return out, nil
	}
	ex.Position = document.MaxPosition(b) + 1
	b.Exercises = append(b.Exercises, ex)
	return out, nil
}

// DeleteExercise removes the exercise at the given position from the block's
// flat list or from the named superset.
func DeleteExercise(doc *models.WorkoutStructure, blockIndex, exerciseIndex int, supersetIndex *int) (*models.WorkoutStructure, error) {
	if err := checkBlock(doc, blockIndex); err != nil {
		return doc, err
	}
	b := &doc.Blocks[blockIndex]
	if supersetIndex != nil {
		if err := checkSuperset(b, *supersetIndex); err != nil {
			return doc, err
		}
		if n := len(b.Supersets[*supersetIndex].Exercises); exerciseIndex < 0 || exerciseIndex >= n {
			return doc, fmt.Errorf("%w: index %d of %d", ErrNoSuchExercise, exerciseIndex, n)
		}
	} else if exerciseIndex < 0 || exerciseIndex >= len(b.Exercises) {
		return doc, fmt.Errorf("%w: index %d of %d", ErrNoSuchExercise, exerciseIndex, len(b.Exercises))
	}

	out := cloneDoc(doc)
	nb := cloneBlockAt(out, blockIndex)
	if supersetIndex != nil {
		ss := cloneSupersetAt(nb, *supersetIndex)
		ss.Exercises = append(ss.Exercises[:exerciseIndex], ss.Exercises[exerciseIndex+1:]...)
		return out, nil
	}
	nb.Exercises = append(nb.Exercises[:exerciseIndex], nb.Exercises[exerciseIndex+1:]...)
	document.Renumber(nb)
	return out, nil
}

// ReplaceExercise swaps the exercise at src for the given value, keeping the
// original's id and display position. This is the clone-replace path used by
// edit dialogs.
func ReplaceExercise(doc *models.WorkoutStructure, src Source, ex models.Exercise) (*models.WorkoutStructure, error) {
	if err := checkBlock(doc, src.Block); err != nil {
		return doc, err
	}
	b := &doc.Blocks[src.Block]
	if src.Superset != nil {
		if err := checkSuperset(b, *src.Superset); err != nil {
			return doc, err
		}
		if n := len(b.Supersets[*src.Superset].Exercises); src.Exercise < 0 || src.Exercise >= n {
			return doc, fmt.Errorf("%w: index %d of %d", ErrNoSuchExercise, src.Exercise, n)
		}
	} else if src.Exercise < 0 || src.Exercise >= len(b.Exercises) {
		return doc, fmt.Errorf("%w: index %d of %d", ErrNoSuchExercise, src.Exercise, len(b.Exercises))
	}

	out := cloneDoc(doc)
	nb := cloneBlockAt(out, src.Block)
	if src.Superset != nil {
		ss := cloneSupersetAt(nb, *src.Superset)
		old := ss.Exercises[src.Exercise]
		ex.ID = old.ID
		ex.Position = old.Position
		ss.Exercises[src.Exercise] = ex
		return out, nil
	}
	old := nb.Exercises[src.Exercise]
	ex.ID = old.ID
	ex.Position = old.Position
	nb.Exercises[src.Exercise] = ex
	return out, nil
}

func insertExercise(list []models.Exercise, i int, ex models.Exercise) []models.Exercise {
	list = append(list, models.Exercise{})
	copy(list[i+1:], list[i:])
	list[i] = ex
	return list
}

// placeExercise assigns a display position to the freshly inserted exercise
// at arrayIdx so it sits next to its neighbors in the flat list: after the
// exercise preceding it, before the exercise following it, or — when it is
// the only flat exercise — after every superset.
func placeExercise(b *models.Block, arrayIdx int) {
	switch {
	case arrayIdx > 0:
		b.Exercises[arrayIdx].Position = b.Exercises[arrayIdx-1].Position
	case len(b.Exercises) > 1:
		b.Exercises[arrayIdx].Position = b.Exercises[1].Position
	default:
		max := -1
		for _, ss := range b.Supersets {
			if ss.Position > max {
				max = ss.Position
			}
		}
		b.Exercises[arrayIdx].Position = max + 1
	}
}
