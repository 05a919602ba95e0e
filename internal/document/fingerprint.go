package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
)

// Fingerprint digests the fields that matter for change detection: ids,
// names, positions, and the mutable numeric prescription. Two documents that
// are logically identical produce the same fingerprint even when they are
// distinct clones, so consumers must not rely on pointer identity alone to
// decide whether anything changed after a no-op edit.
func Fingerprint(doc *models.WorkoutStructure) string {
	if doc == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(doc.Title)
	for _, b := range doc.Blocks {
		fmt.Fprintf(&sb, "|b:%s:%s:%s", b.ID, b.Label, b.Structure)
		for _, ex := range b.Exercises {
			writeExercise(&sb, ex)
		}
		for _, ss := range b.Supersets {
			fmt.Fprintf(&sb, "|s:%s:%d:%d:%d", ss.ID, ss.Position, ss.Rounds, ss.RestBetweenSec)
			for _, ex := range ss.Exercises {
				writeExercise(&sb, ex)
			}
		}
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

func writeExercise(sb *strings.Builder, ex models.Exercise) {
	rest := -1
	if ex.RestSec != nil {
		rest = *ex.RestSec
	}
	fmt.Fprintf(sb, "|e:%s:%s:%d:%d:%s:%d:%g:%s:%d:%d:%s",
		ex.ID, ex.Name, ex.Sets, ex.Reps, ex.RepsRange,
		ex.DurationSec, ex.DistanceM, ex.DistanceRange,
		rest, ex.Position, ex.Notes)
}
