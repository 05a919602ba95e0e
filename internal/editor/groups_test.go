package editor

import (
	"errors"
	"testing"

	"github.com/supergeri/workout-content-transformation-sub001/internal/document"
	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
)

func labeledDoc(labels ...string) *models.WorkoutStructure {
	doc := &models.WorkoutStructure{Blocks: make([]models.Block, len(labels))}
	for i, l := range labels {
		doc.Blocks[i] = models.Block{
			ID: l, Label: l,
			Exercises: []models.Exercise{{ID: l + "-e", Name: l + " work", Position: 0}},
		}
	}
	return doc
}

func wantLabels(t *testing.T, doc *models.WorkoutStructure, want ...string) {
	t.Helper()
	if len(doc.Blocks) != len(want) {
		t.Fatalf("got %d blocks, want %d", len(doc.Blocks), len(want))
	}
	for i, l := range want {
		if doc.Blocks[i].Label != l {
			got := make([]string, len(doc.Blocks))
			for j, b := range doc.Blocks {
				got[j] = b.Label
			}
			t.Fatalf("block order = %v, want %v", got, want)
		}
	}
}

// TestMoveBlockForward verifies the effective index drops by one when the
// source precedes the target, because removal shifts later blocks left.
func TestMoveBlockForward(t *testing.T) {
	doc := labeledDoc("A", "B", "C")

	got, err := MoveBlock(doc, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantLabels(t, got, "B", "A", "C")
	wantLabels(t, doc, "A", "B", "C")
}

// TestMoveBlockBackward verifies no adjustment happens moving toward the
// front.
func TestMoveBlockBackward(t *testing.T) {
	doc := labeledDoc("A", "B", "C")

	got, err := MoveBlock(doc, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantLabels(t, got, "C", "A", "B")
}

// TestMoveBlockSameIndexNoOp verifies equal indices return the input
// document unchanged, same pointer.
func TestMoveBlockSameIndexNoOp(t *testing.T) {
	doc := labeledDoc("A", "B")
	got, err := MoveBlock(doc, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != doc {
		t.Error("expected same pointer for same-index move")
	}
}

// TestMoveBlockOutOfRange verifies stale indices no-op with a diagnostic.
func TestMoveBlockOutOfRange(t *testing.T) {
	doc := labeledDoc("A", "B")
	for _, pair := range [][2]int{{-1, 0}, {0, 5}, {7, 1}} {
		got, err := MoveBlock(doc, pair[0], pair[1])
		if got != doc {
			t.Errorf("move %v: document replaced on no-op", pair)
		}
		if !errors.Is(err, ErrNoSuchBlock) {
			t.Errorf("move %v: error = %v, want ErrNoSuchBlock", pair, err)
		}
	}
}

// TestMoveBlockConservation verifies block and exercise counts survive an
// arbitrary move sequence.
func TestMoveBlockConservation(t *testing.T) {
	doc := labeledDoc("A", "B", "C", "D")
	wantBlocks := len(doc.Blocks)
	wantExercises := document.CountExercises(doc)

	for _, pair := range [][2]int{{0, 3}, {2, 0}, {1, 2}, {3, 1}, {0, 0}} {
		var err error
		doc, err = MoveBlock(doc, pair[0], pair[1])
		if err != nil {
			t.Fatalf("move %v: unexpected error: %v", pair, err)
		}
		if len(doc.Blocks) != wantBlocks {
			t.Fatalf("move %v: block count = %d, want %d", pair, len(doc.Blocks), wantBlocks)
		}
		if got := document.CountExercises(doc); got != wantExercises {
			t.Fatalf("move %v: exercise count = %d, want %d", pair, got, wantExercises)
		}
	}
}

// TestAddBlockAssignsIDs verifies a new block and its contents get ids and
// legacy positions.
func TestAddBlockAssignsIDs(t *testing.T) {
	doc := labeledDoc("A")

	got, err := AddBlock(doc, models.Block{
		Label:     "Finisher",
		Exercises: []models.Exercise{{Name: "Burpees"}, {Name: "Plank"}},
		Supersets: []models.Superset{{Exercises: []models.Exercise{{Name: "Swing"}}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := got.Blocks[1]
	if b.ID == "" || b.Exercises[0].ID == "" || b.Supersets[0].ID == "" || b.Supersets[0].Exercises[0].ID == "" {
		t.Error("ids not assigned throughout new block")
	}
	// Legacy order: first exercise, superset, second exercise.
	if b.Exercises[0].Position != 0 || b.Supersets[0].Position != 1 || b.Exercises[1].Position != 2 {
		t.Errorf("positions = %d,%d,%d, want 0,1,2",
			b.Exercises[0].Position, b.Supersets[0].Position, b.Exercises[1].Position)
	}
	if len(doc.Blocks) != 1 {
		t.Error("input document mutated")
	}
}

// TestDeleteBlock verifies removal drops the block's exercises from the
// total count.
func TestDeleteBlock(t *testing.T) {
	doc := labeledDoc("A", "B", "C")

	got, err := DeleteBlock(doc, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantLabels(t, got, "A", "C")
	if document.CountExercises(got) != document.CountExercises(doc)-1 {
		t.Error("exercise count did not drop with the deleted block")
	}
}

// TestAddSupersetPositionedLast verifies a new superset lands after every
// existing entry in display order.
func TestAddSupersetPositionedLast(t *testing.T) {
	doc := labeledDoc("A")

	got, err := AddSuperset(doc, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := got.Blocks[0]
	if len(b.Supersets) != 1 {
		t.Fatalf("got %d supersets, want 1", len(b.Supersets))
	}
	if b.Supersets[0].ID == "" {
		t.Error("superset has no id")
	}
	if b.Supersets[0].Position != 1 {
		t.Errorf("superset position = %d, want 1", b.Supersets[0].Position)
	}
	if b.Supersets[0].Exercises == nil {
		t.Error("superset exercises should be an empty slice, not nil")
	}
}

// TestDeleteSupersetDiscardsExercises verifies deletion drops the superset's
// exercises instead of promoting them to the block.
func TestDeleteSupersetDiscardsExercises(t *testing.T) {
	doc := &models.WorkoutStructure{Blocks: []models.Block{
		{
			ID:        "b0",
			Exercises: []models.Exercise{{ID: "e", Name: "Squat", Position: 0}},
			Supersets: []models.Superset{
				{ID: "s", Position: 1, Exercises: []models.Exercise{
					{ID: "x", Name: "Row"}, {ID: "y", Name: "Curl"},
				}},
			},
		},
	}}
	before := document.CountExercises(doc)

	got, err := DeleteSuperset(doc, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Blocks[0].Supersets) != 0 {
		t.Fatal("superset not removed")
	}
	if len(got.Blocks[0].Exercises) != 1 {
		t.Error("superset exercises were promoted to the block")
	}
	if document.CountExercises(got) != before-2 {
		t.Errorf("count = %d, want %d", document.CountExercises(got), before-2)
	}

	_, err = DeleteSuperset(doc, 0, 4)
	if !errors.Is(err, ErrNoSuchSuperset) {
		t.Errorf("error = %v, want ErrNoSuchSuperset", err)
	}
}
