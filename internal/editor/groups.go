package editor

import (
	"github.com/google/uuid"
	"github.com/supergeri/workout-content-transformation-sub001/internal/document"
	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
)

// MoveBlock removes the block at sourceIndex and reinserts it at targetIndex.
// Because the removal shifts every later block left by one, the effective
// insertion index is targetIndex-1 whenever sourceIndex < targetIndex. Equal
// indices are a no-op returning the input document.
func MoveBlock(doc *models.WorkoutStructure, sourceIndex, targetIndex int) (*models.WorkoutStructure, error) {
	if err := checkBlock(doc, sourceIndex); err != nil {
		return doc, err
	}
	if err := checkBlock(doc, targetIndex); err != nil {
		return doc, err
	}
	if sourceIndex == targetIndex {
		return doc, nil
	}

	out := cloneDoc(doc)
	moved := out.Blocks[sourceIndex]
	out.Blocks = append(out.Blocks[:sourceIndex], out.Blocks[sourceIndex+1:]...)
	idx := targetIndex
	if sourceIndex < targetIndex {
		idx--
	}
	idx = clamp(idx, len(out.Blocks))
	out.Blocks = append(out.Blocks, models.Block{})
	copy(out.Blocks[idx+1:], out.Blocks[idx:])
	out.Blocks[idx] = moved
	return out, nil
}

// AddBlock appends a block to the document, assigning ids to the block and
// anything it already contains.
func AddBlock(doc *models.WorkoutStructure, b models.Block) (*models.WorkoutStructure, error) {
	if doc == nil {
		return doc, ErrNilDocument
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Exercises == nil {
		b.Exercises = []models.Exercise{}
	}
	for i := range b.Exercises {
		if b.Exercises[i].ID == "" {
			b.Exercises[i].ID = uuid.NewString()
		}
	}
	for i := range b.Supersets {
		if b.Supersets[i].ID == "" {
			b.Supersets[i].ID = uuid.NewString()
		}
		for j := range b.Supersets[i].Exercises {
			if b.Supersets[i].Exercises[j].ID == "" {
				b.Supersets[i].Exercises[j].ID = uuid.NewString()
			}
		}
	}

	out := cloneDoc(doc)
	out.Blocks = append(out.Blocks, b)
	document.NormalizeBlock(&out.Blocks[len(out.Blocks)-1])
	return out, nil
}

// DeleteBlock removes the block at the given index along with everything it
// contains.
func DeleteBlock(doc *models.WorkoutStructure, blockIndex int) (*models.WorkoutStructure, error) {
	if err := checkBlock(doc, blockIndex); err != nil {
		return doc, err
	}
	out := cloneDoc(doc)
	out.Blocks = append(out.Blocks[:blockIndex], out.Blocks[blockIndex+1:]...)
	return out, nil
}

// AddSuperset appends an empty superset to the block, positioned after every
// current entry in the block's display order.
func AddSuperset(doc *models.WorkoutStructure, blockIndex int) (*models.WorkoutStructure, error) {
	if err := checkBlock(doc, blockIndex); err != nil {
		return doc, err
	}
	out := cloneDoc(doc)
	b := cloneBlockAt(out, blockIndex)
	b.Supersets = append(b.Supersets, models.Superset{
		ID:        uuid.NewString(),
		Exercises: []models.Exercise{},
		Position:  document.MaxPosition(b) + 1,
	})
	return out, nil
}

// DeleteSuperset removes the superset at the given index. Its exercises are
// discarded with it, not promoted to the block's flat list.
func DeleteSuperset(doc *models.WorkoutStructure, blockIndex, supersetIndex int) (*models.WorkoutStructure, error) {
	if err := checkBlock(doc, blockIndex); err != nil {
		return doc, err
	}
	if err := checkSuperset(&doc.Blocks[blockIndex], supersetIndex); err != nil {
		return doc, err
	}
	out := cloneDoc(doc)
	b := cloneBlockAt(out, blockIndex)
	b.Supersets = append(b.Supersets[:supersetIndex], b.Supersets[supersetIndex+1:]...)
	document.Renumber(b)
	return out, nil
}
