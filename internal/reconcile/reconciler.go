// Package reconcile tracks, for every exercise name in a workout, whether it
// has been matched to a canonical device-exercise name, with what confidence,
// and whether the user has confirmed that match.
//
// Classification is a partition, not three independent lists: the reconciler
// keeps a single record per original name and derives the validated /
// needs-review / unmapped buckets from each record's status on read, so a
// name can never appear in two buckets no matter what sequence of
// transitions runs.
package reconcile

import (
	"errors"
	"fmt"
	"sort"

	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
)

const (
	// DefaultThreshold is the confidence at or above which the mapping
	// service classifies a suggestion as validated.
	DefaultThreshold = 0.8
	// ConfirmedConfidence is the floor applied when a user confirms a
	// mapping. Confidence is only ever raised on confirmation.
	ConfirmedConfidence = 0.95
)

// ErrUnknownExercise signals an operation on a name the reconciler has never
// seen. Absence is legal state, not corruption; callers log and move on.
var ErrUnknownExercise = errors.New("unknown exercise name")

// ErrNoSuggestion signals an accept on a record that carries no mapping
// suggestion to accept.
var ErrNoSuggestion = errors.New("no suggested mapping to accept")

// ErrAlreadyValidated signals an apply/accept on a record that already sits
// in the validated bucket; the call is a no-op.
var ErrAlreadyValidated = errors.New("exercise already validated")

type record struct {
	result    models.ValidationResult
	confirmed bool
	order     int
}

// Reconciler is the per-workout validation state machine. Not safe for
// concurrent use; the owning session store serializes access.
type Reconciler struct {
	threshold float64
	records   map[string]*record
	seq       int
}

// New returns an empty reconciler using the given validation confidence
// threshold (zero or negative selects DefaultThreshold).
func New(threshold float64) *Reconciler {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Reconciler{threshold: threshold, records: make(map[string]*record)}
}

// Load replaces all state with the contents of a fresh ValidationResponse and
// resets the confirmed set. Duplicate names across the response's lists are
// collapsed to a single record; the first occurrence wins, scanning validated,
// then needs-review, then unmapped. Suggestion-carrying results are
// reclassified against the reconciler's threshold regardless of which list
// the service put them in: confidence at or above the threshold is validated,
// below it needs review. Results with no suggestion always land unmapped.
func (rc *Reconciler) Load(resp *models.ValidationResponse) {
	rc.records = make(map[string]*record)
	rc.seq = 0
	if resp == nil {
		return
	}
	ingest := func(results []models.ValidationResult) {
		for _, r := range results {
			if r.OriginalName == "" {
				continue
			}
			if _, seen := rc.records[r.OriginalName]; seen {
				continue
			}
			switch {
			case !r.HasSuggestion():
				r.Status = models.StatusUnmapped
			case r.Confidence >= rc.threshold:
				r.Status = models.StatusValid
			default:
				r.Status = models.StatusNeedsReview
			}
			rc.records[r.OriginalName] = &record{result: r, order: rc.seq}
			rc.seq++
		}
	}
	ingest(resp.Validated)
	ingest(resp.NeedsReview)
	ingest(resp.Unmapped)
}

// ApplyMapping records a user-chosen canonical name for an exercise currently
// awaiting review or unmapped. The record moves to the validated bucket with
// confidence ConfirmedConfidence and counts as confirmed. The needs-review
// bucket is searched before unmapped because a record there already carries a
// suggestion and is the more authoritative home for the name.
func (rc *Reconciler) ApplyMapping(name, mappedTo string) error {
	r, err := rc.findPending(name)
	if err != nil {
		return err
	}
	r.result.MappedTo = mappedTo
	r.result.Confidence = ConfirmedConfidence
	r.result.Status = models.StatusValid
	r.confirmed = true
	r.order = rc.seq
	rc.seq++
	return nil
}

// AcceptMapping confirms the suggestion an exercise already carries without
// changing it, moving the record to the validated bucket.
func (rc *Reconciler) AcceptMapping(name string) error {
	r, err := rc.findPending(name)
	if err != nil {
		return err
	}
	if !r.result.HasSuggestion() {
		return fmt.Errorf("%w: %q", ErrNoSuggestion, name)
	}
	if r.result.Confidence < ConfirmedConfidence {
		r.result.Confidence = ConfirmedConfidence
	}
	r.result.Status = models.StatusValid
	r.confirmed = true
	r.order = rc.seq
	rc.seq++
	return nil
}

// ConfirmAll confirms every record across the needs-review and validated
// buckets whose suggestion is a real rename (mapped name differs from the
// original) and is not yet confirmed, migrating needs-review records to
// validated. Returns how many records it confirmed; zero is an informational
// no-op, not an error.
func (rc *Reconciler) ConfirmAll() int {
	names := rc.orderedNames()
	n := 0
	for _, name := range names {
		r := rc.records[name]
		if r.result.Status == models.StatusUnmapped {
			continue
		}
		if !r.result.HasSuggestion() || r.result.IsExactMatch() || r.confirmed {
			continue
		}
		r.confirmed = true
		if r.result.Confidence < ConfirmedConfidence {
			r.result.Confidence = ConfirmedConfidence
		}
		if r.result.Status == models.StatusNeedsReview {
			r.result.Status = models.StatusValid
			r.order = rc.seq
			rc.seq++
		}
		n++
	}
	return n
}

// findPending searches the non-validated buckets for a name, needs-review
// first.
func (rc *Reconciler) findPending(name string) (*record, error) {
	r, ok := rc.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExercise, name)
	}
	switch r.result.Status {
	case models.StatusNeedsReview, models.StatusUnmapped:
		return r, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrAlreadyValidated, name)
}

// CanProceed is the service-level readiness flag: no unmapped exercises.
func (rc *Reconciler) CanProceed() bool {
	for _, r := range rc.records {
		if r.result.Status == models.StatusUnmapped {
			return false
		}
	}
	return true
}

// FinalCanExport is the stricter local gate: no unmapped exercises, and no
// validated or needs-review record whose real rename lacks confirmation.
// Downstream export must use this flag; CanProceed alone ignores confirmation
// state entirely.
func (rc *Reconciler) FinalCanExport() bool {
	for _, r := range rc.records {
		switch r.result.Status {
		case models.StatusUnmapped:
			return false
		case models.StatusValid, models.StatusNeedsReview:
			if r.result.HasSuggestion() && !r.result.IsExactMatch() && !r.confirmed {
				return false
			}
		}
	}
	return true
}

// Confirmed reports whether the user has confirmed the name's mapping.
func (rc *Reconciler) Confirmed(name string) bool {
	r, ok := rc.records[name]
	return ok && r.confirmed
}

// ConfirmedNames returns the confirmed set in confirmation-stable order.
func (rc *Reconciler) ConfirmedNames() []string {
	var names []string
	for _, name := range rc.orderedNames() {
		if rc.records[name].confirmed {
			names = append(names, name)
		}
	}
	return names
}

// ConfirmedMappings returns original -> canonical for every confirmed real
// rename, the exact table the projector consumes.
func (rc *Reconciler) ConfirmedMappings() map[string]string {
	out := make(map[string]string)
	for name, r := range rc.records {
		if r.confirmed && r.result.HasSuggestion() && !r.result.IsExactMatch() {
			out[name] = r.result.MappedTo
		}
	}
	return out
}

// Response derives the wire-shaped ValidationResponse from the partition.
// Bucket ordering follows each record's transition order, so a record moved
// to validated appends after the records already there.
func (rc *Reconciler) Response() *models.ValidationResponse {
	resp := &models.ValidationResponse{
		Validated:   []models.ValidationResult{},
		NeedsReview: []models.ValidationResult{},
		Unmapped:    []models.ValidationResult{},
	}
	for _, name := range rc.orderedNames() {
		r := rc.records[name]
		switch r.result.Status {
		case models.StatusValid:
			resp.Validated = append(resp.Validated, r.result)
		case models.StatusNeedsReview:
			resp.NeedsReview = append(resp.NeedsReview, r.result)
		case models.StatusUnmapped:
			resp.Unmapped = append(resp.Unmapped, r.result)
		}
	}
	resp.TotalExercises = len(rc.records)
	resp.CanProceed = len(resp.Unmapped) == 0
	return resp
}

func (rc *Reconciler) orderedNames() []string {
	names := make([]string, 0, len(rc.records))
	for name := range rc.records {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return rc.records[names[i]].order < rc.records[names[j]].order
	})
	return names
}
