// Package project substitutes confirmed canonical exercise names into a
// workout document ahead of export.
package project

import (
	"fmt"

	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
)

// Project returns a copy of the document in which every exercise whose name
// appears in the confirmed mapping table is renamed to its canonical form.
// Entries mapping a name to itself are ignored. When the device preserves
// original names (Garmin), the pre-mapping name is appended to the exercise's
// notes, after any text already there. An effectively empty table returns the
// input document unchanged, with no clone.
func Project(doc *models.WorkoutStructure, confirmed map[string]string, device models.Device) *models.WorkoutStructure {
	if doc == nil {
		return nil
	}
	table := make(map[string]string, len(confirmed))
	for original, mapped := range confirmed {
		if mapped != "" && mapped != original {
			table[original] = mapped
		}
	}
	if len(table) == 0 {
		return doc
	}

	out := *doc
	out.Blocks = make([]models.Block, len(doc.Blocks))
	copy(out.Blocks, doc.Blocks)
	for i := range out.Blocks {
		projectBlock(&out.Blocks[i], table, device)
	}
	return &out
}

func projectBlock(b *models.Block, table map[string]string, device models.Device) {
	touched := false
	for _, ex := range b.Exercises {
		if _, ok := table[ex.Name]; ok {
			touched = true
			break
		}
	}
	if !touched {
	supersets:
		for _, ss := range b.Supersets {
			for _, ex := range ss.Exercises {
				if _, ok := table[ex.Name]; ok {
					touched = true
					break supersets
				}
			}
		}
	}
	if !touched {
		return
	}

	b.Exercises = append([]models.Exercise(nil), b.Exercises...)
	for i := range b.Exercises {
		projectExercise(&b.Exercises[i], table, device)
	}
	b.Supersets = append([]models.Superset(nil), b.Supersets...)
	for i := range b.Supersets {
		ss := &b.Supersets[i]
		ss.Exercises = append([]models.Exercise(nil), ss.Exercises...)
		for j := range ss.Exercises {
			projectExercise(&ss.Exercises[j], table, device)
		}
	}
}

func projectExercise(ex *models.Exercise, table map[string]string, device models.Device) {
	mapped, ok := table[ex.Name]
	if !ok {
		return
	}
	original := ex.Name
	ex.Name = mapped
	if !device.PreservesOriginalName() {
		return
	}
	if ex.Notes == "" {
		ex.Notes = fmt.Sprintf("Original: %s", original)
	} else {
		ex.Notes = fmt.Sprintf("%s (Original: %s)", ex.Notes, original)
	}
}
