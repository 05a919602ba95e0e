package project

import (
	"testing"

	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
)

func sampleDoc() *models.WorkoutStructure {
	return &models.WorkoutStructure{
		Title: "Upper A",
		Blocks: []models.Block{
			{
				ID:    "b1",
				Label: "Main",
				Exercises: []models.Exercise{
					{ID: "e1", Name: "Squat", Sets: 3, Reps: 5, Notes: "Pause at bottom"},
					{ID: "e2", Name: "Bench Press", Sets: 3, Reps: 8},
				},
			},
			{
				ID:    "b2",
				Label: "Accessories",
				Supersets: []models.Superset{
					{ID: "s1", Exercises: []models.Exercise{
						{ID: "e3", Name: "KB Swing", Sets: 3, Reps: 15},
						{ID: "e4", Name: "Plank", Sets: 3, DurationSec: 45},
					}},
				},
			},
		},
	}
}

// TestProjectGarminAnnotatesNotes reproduces the rename-with-annotation case:
// on Garmin the original name is preserved in notes, appended after existing
// text when any is present.
func TestProjectGarminAnnotatesNotes(t *testing.T) {
	doc := sampleDoc()
	out := Project(doc, map[string]string{
		"Squat":    "Barbell Back Squat",
		"KB Swing": "Kettlebell Swing",
	}, models.DeviceGarmin)

	got := out.Blocks[0].Exercises[0]
	if got.Name != "Barbell Back Squat" {
		t.Errorf("name = %q", got.Name)
	}
	if got.Notes != "Pause at bottom (Original: Squat)" {
		t.Errorf("notes = %q", got.Notes)
	}

	got = out.Blocks[1].Supersets[0].Exercises[0]
	if got.Name != "Kettlebell Swing" {
		t.Errorf("superset name = %q", got.Name)
	}
	if got.Notes != "Original: KB Swing" {
		t.Errorf("superset notes = %q", got.Notes)
	}

	// Untouched exercises keep their names and empty notes.
	if out.Blocks[0].Exercises[1].Name != "Bench Press" {
		t.Errorf("unmapped name changed: %q", out.Blocks[0].Exercises[1].Name)
	}
	if out.Blocks[1].Supersets[0].Exercises[1].Notes != "" {
		t.Errorf("unmapped exercise gained notes: %q", out.Blocks[1].Supersets[0].Exercises[1].Notes)
	}
}

// TestProjectNonGarminSkipsAnnotation verifies devices that do not preserve
// original names get the rename only.
func TestProjectNonGarminSkipsAnnotation(t *testing.T) {
	for _, device := range []models.Device{models.DeviceZwift, models.DeviceApple} {
		out := Project(sampleDoc(), map[string]string{"Squat": "Barbell Back Squat"}, device)
		got := out.Blocks[0].Exercises[0]
		if got.Name != "Barbell Back Squat" {
			t.Errorf("%s: name = %q", device, got.Name)
		}
		if got.Notes != "Pause at bottom" {
			t.Errorf("%s: notes = %q", device, got.Notes)
		}
	}
}

// TestProjectEmptyTableSamePointer verifies a projection with nothing to do
// returns the input document itself.
func TestProjectEmptyTableSamePointer(t *testing.T) {
	doc := sampleDoc()
	if out := Project(doc, nil, models.DeviceGarmin); out != doc {
		t.Error("nil table should return the same document")
	}
	if out := Project(doc, map[string]string{}, models.DeviceGarmin); out != doc {
		t.Error("empty table should return the same document")
	}
}

// TestProjectIdentityMappingsFiltered verifies self-mappings and empty
// targets count as nothing to do.
func TestProjectIdentityMappingsFiltered(t *testing.T) {
	doc := sampleDoc()
	out := Project(doc, map[string]string{
		"Squat":       "Squat",
		"Bench Press": "",
	}, models.DeviceGarmin)
	if out != doc {
		t.Error("identity-only table should return the same document")
	}
}

// TestProjectLeavesInputUntouched verifies the input document and its
// untouched blocks survive a projection unchanged, with untouched blocks
// sharing slices with the output.
func TestProjectLeavesInputUntouched(t *testing.T) {
	doc := sampleDoc()
	out := Project(doc, map[string]string{"Squat": "Barbell Back Squat"}, models.DeviceGarmin)
	if out == doc {
		t.Fatal("projection with a real rename should clone")
	}
	if doc.Blocks[0].Exercises[0].Name != "Squat" {
		t.Errorf("input mutated: %q", doc.Blocks[0].Exercises[0].Name)
	}
	if &out.Blocks[1].Supersets[0].Exercises[0] != &doc.Blocks[1].Supersets[0].Exercises[0] {
		t.Error("untouched block should share exercise storage with the input")
	}
}
