package reconcile

import (
	"errors"
	"testing"

	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
)

func loadedReconciler() *Reconciler {
	rc := New(0)
	rc.Load(&models.ValidationResponse{
		Validated: []models.ValidationResult{
			{OriginalName: "Bench Press", MappedTo: "Bench Press", Confidence: 1.0},
			{OriginalName: "Deadlift", MappedTo: "Barbell Deadlift", Confidence: 0.9},
		},
		NeedsReview: []models.ValidationResult{
			{OriginalName: "Squat", MappedTo: "Barbell Back Squat", Confidence: 0.6},
			{OriginalName: "KB Swing", MappedTo: "Kettlebell Swing", Confidence: 0.7},
		},
		Unmapped: []models.ValidationResult{
			{OriginalName: "Mystery Move"},
		},
	})
	return rc
}

// buckets returns the three bucket name lists for partition assertions.
func buckets(rc *Reconciler) (valid, review, unmapped []string) {
	resp := rc.Response()
	for _, r := range resp.Validated {
		valid = append(valid, r.OriginalName)
	}
	for _, r := range resp.NeedsReview {
		review = append(review, r.OriginalName)
	}
	for _, r := range resp.Unmapped {
		unmapped = append(unmapped, r.OriginalName)
	}
	return
}

// assertPartition fails if any name appears in more than one bucket.
func assertPartition(t *testing.T, rc *Reconciler) {
	t.Helper()
	valid, review, unmapped := buckets(rc)
	seen := map[string]int{}
	for _, n := range valid {
		seen[n]++
	}
	for _, n := range review {
		seen[n]++
	}
	for _, n := range unmapped {
		seen[n]++
	}
	for n, c := range seen {
		if c > 1 {
			t.Errorf("%q appears in %d buckets", n, c)
		}
	}
}

// TestApplyMappingFromNeedsReview reproduces the core transition: a user picks
// a canonical name for an exercise awaiting review, and the record moves to
// validated with raised confidence.
func TestApplyMappingFromNeedsReview(t *testing.T) {
	rc := loadedReconciler()

	if err := rc.ApplyMapping("Squat", "Barbell Back Squat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp := rc.Response()
	last := resp.Validated[len(resp.Validated)-1]
	if last.OriginalName != "Squat" {
		t.Fatalf("Squat not appended to validated; last = %q", last.OriginalName)
	}
	if last.MappedTo != "Barbell Back Squat" {
		t.Errorf("mapped_to = %q", last.MappedTo)
	}
	if last.Confidence != ConfirmedConfidence {
		t.Errorf("confidence = %v, want %v", last.Confidence, ConfirmedConfidence)
	}
	if last.Status != models.StatusValid {
		t.Errorf("status = %q, want valid", last.Status)
	}
	for _, r := range resp.NeedsReview {
		if r.OriginalName == "Squat" {
			t.Error("Squat still in needs_review")
		}
	}
	if resp.CanProceed {
		t.Error("can_proceed should stay false while Mystery Move is unmapped")
	}
	assertPartition(t, rc)
}

// TestApplyMappingFromUnmapped verifies the unmapped bucket is searched when
// needs-review has no record, and that draining it flips can_proceed.
func TestApplyMappingFromUnmapped(t *testing.T) {
	rc := loadedReconciler()

	if err := rc.ApplyMapping("Mystery Move", "Mountain Climber"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp := rc.Response()
	if len(resp.Unmapped) != 0 {
		t.Fatalf("unmapped not drained: %v", resp.Unmapped)
	}
	if !resp.CanProceed {
		t.Error("can_proceed should be true with no unmapped exercises")
	}
	assertPartition(t, rc)
}

// TestApplyMappingUnknownName verifies operating on a never-seen name is a
// diagnostic, not corruption: state is untouched.
func TestApplyMappingUnknownName(t *testing.T) {
	rc := loadedReconciler()
	before := rc.Response()

	err := rc.ApplyMapping("Ghost", "Anything")
	if !errors.Is(err, ErrUnknownExercise) {
		t.Errorf("error = %v, want ErrUnknownExercise", err)
	}
	after := rc.Response()
	if after.TotalExercises != before.TotalExercises {
		t.Error("total changed on unknown-name apply")
	}
}

// TestApplyMappingAlreadyValidated verifies applying to a validated record is
// rejected as a no-op rather than double-processing it.
func TestApplyMappingAlreadyValidated(t *testing.T) {
	rc := loadedReconciler()
	if err := rc.ApplyMapping("Deadlift", "Sumo Deadlift"); !errors.Is(err, ErrAlreadyValidated) {
		t.Errorf("error = %v, want ErrAlreadyValidated", err)
	}
}

// TestAcceptMappingKeepsSuggestion verifies acceptance moves the record to
// validated without altering the suggested name, raising confidence to the
// confirmation floor.
func TestAcceptMappingKeepsSuggestion(t *testing.T) {
	rc := loadedReconciler()

	if err := rc.AcceptMapping("KB Swing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp := rc.Response()
	last := resp.Validated[len(resp.Validated)-1]
	if last.OriginalName != "KB Swing" || last.MappedTo != "Kettlebell Swing" {
		t.Errorf("record = %+v", last)
	}
	if last.Confidence != ConfirmedConfidence {
		t.Errorf("confidence = %v, want %v", last.Confidence, ConfirmedConfidence)
	}
	if !rc.Confirmed("KB Swing") {
		t.Error("name not in confirmed set")
	}
	assertPartition(t, rc)
}

// TestAcceptMappingNoSuggestion verifies accepting an unmapped record with no
// suggestion is refused.
func TestAcceptMappingNoSuggestion(t *testing.T) {
	rc := loadedReconciler()
	if err := rc.AcceptMapping("Mystery Move"); !errors.Is(err, ErrNoSuggestion) {
		t.Errorf("error = %v, want ErrNoSuggestion", err)
	}
}

// TestConfirmAll reproduces the batch confirmation example: two needs-review
// records and one validated record carry unconfirmed real renames; all three
// confirm, the needs-review pair migrates, and the strict export gate opens
// once nothing is unmapped.
func TestConfirmAll(t *testing.T) {
	rc := New(0)
	rc.Load(&models.ValidationResponse{
		Validated: []models.ValidationResult{
			{OriginalName: "Deadlift", MappedTo: "Barbell Deadlift", Confidence: 0.9},
		},
		NeedsReview: []models.ValidationResult{
			{OriginalName: "Squat", MappedTo: "Barbell Back Squat", Confidence: 0.6},
			{OriginalName: "KB Swing", MappedTo: "Kettlebell Swing", Confidence: 0.7},
		},
	})

	if rc.FinalCanExport() {
		t.Fatal("strict gate open before confirmation")
	}

	n := rc.ConfirmAll()
	if n != 3 {
		t.Errorf("confirmed %d records, want 3", n)
	}
	if got := len(rc.ConfirmedNames()); got != 3 {
		t.Errorf("confirmed set size = %d, want 3", got)
	}

	resp := rc.Response()
	if len(resp.NeedsReview) != 0 {
		t.Errorf("needs_review not drained: %v", resp.NeedsReview)
	}
	if len(resp.Validated) != 3 {
		t.Errorf("validated size = %d, want 3", len(resp.Validated))
	}
	if !rc.FinalCanExport() {
		t.Error("strict gate should open with everything confirmed and nothing unmapped")
	}
	assertPartition(t, rc)
}

// TestConfirmAllIdempotent verifies a second confirm-all with no intervening
// mutation changes nothing and reports zero.
func TestConfirmAllIdempotent(t *testing.T) {
	rc := loadedReconciler()
	rc.ConfirmAll()

	confirmedBefore := rc.ConfirmedNames()
	respBefore := rc.Response()

	if n := rc.ConfirmAll(); n != 0 {
		t.Errorf("second confirm-all confirmed %d records, want 0", n)
	}

	confirmedAfter := rc.ConfirmedNames()
	if len(confirmedAfter) != len(confirmedBefore) {
		t.Errorf("confirmed set changed: %v -> %v", confirmedBefore, confirmedAfter)
	}
	respAfter := rc.Response()
	if len(respAfter.Validated) != len(respBefore.Validated) ||
		len(respAfter.NeedsReview) != len(respBefore.NeedsReview) ||
		len(respAfter.Unmapped) != len(respBefore.Unmapped) {
		t.Error("bucket partition changed on idempotent confirm-all")
	}
}

// TestConfirmAllSkipsExactMatches verifies a record whose suggestion equals
// its original name never needs confirmation.
func TestConfirmAllSkipsExactMatches(t *testing.T) {
	rc := loadedReconciler()
	rc.ConfirmAll()
	if rc.Confirmed("Bench Press") {
		t.Error("exact match was confirmed; it requires no user action")
	}
}

// TestConfirmedSetMonotonic verifies the confirmed set only grows through
// operations and resets solely on a validation reload.
func TestConfirmedSetMonotonic(t *testing.T) {
	rc := loadedReconciler()

	sizes := []int{len(rc.ConfirmedNames())}
	rc.AcceptMapping("Squat")
	sizes = append(sizes, len(rc.ConfirmedNames()))
	rc.ApplyMapping("Mystery Move", "Mountain Climber")
	sizes = append(sizes, len(rc.ConfirmedNames()))
	rc.ConfirmAll()
	sizes = append(sizes, len(rc.ConfirmedNames()))

	for i := 1; i < len(sizes); i++ {
		if sizes[i] < sizes[i-1] {
			t.Fatalf("confirmed set shrank: %v", sizes)
		}
	}

	rc.Load(&models.ValidationResponse{})
	if len(rc.ConfirmedNames()) != 0 {
		t.Error("confirmed set survived a validation reload")
	}
}

// TestLoadDeduplicatesNames verifies a name arriving in two buckets collapses
// to one record, keeping the partition a partition.
func TestLoadDeduplicatesNames(t *testing.T) {
	rc := New(0)
	rc.Load(&models.ValidationResponse{
		Validated: []models.ValidationResult{
			{OriginalName: "Squat", MappedTo: "Barbell Back Squat", Confidence: 0.9},
		},
		NeedsReview: []models.ValidationResult{
			{OriginalName: "Squat", MappedTo: "Front Squat", Confidence: 0.5},
		},
		Unmapped: []models.ValidationResult{
			{OriginalName: "Squat"},
		},
	})

	resp := rc.Response()
	if resp.TotalExercises != 1 {
		t.Errorf("total = %d, want 1", resp.TotalExercises)
	}
	if len(resp.Validated) != 1 || len(resp.NeedsReview) != 0 || len(resp.Unmapped) != 0 {
		t.Errorf("partition = %d/%d/%d, want 1/0/0",
			len(resp.Validated), len(resp.NeedsReview), len(resp.Unmapped))
	}
	if resp.Validated[0].MappedTo != "Barbell Back Squat" {
		t.Errorf("kept %q, want the validated occurrence", resp.Validated[0].MappedTo)
	}
	assertPartition(t, rc)
}

// TestPartitionUnderMixedSequence hammers the reconciler with a mixed
// operation sequence and asserts mutual exclusivity after every step.
func TestPartitionUnderMixedSequence(t *testing.T) {
	rc := loadedReconciler()

	steps := []func(){
		func() { rc.ApplyMapping("Squat", "Barbell Back Squat") },
		func() { rc.AcceptMapping("KB Swing") },
		func() { rc.ApplyMapping("Mystery Move", "Mountain Climber") },
		func() { rc.ConfirmAll() },
		func() { rc.ApplyMapping("Squat", "Front Squat") }, // already validated: no-op
		func() { rc.ConfirmAll() },
	}
	for i, step := range steps {
		step()
		assertPartition(t, rc)
		resp := rc.Response()
		if resp.TotalExercises != 5 {
			t.Fatalf("step %d: total = %d, want 5", i, resp.TotalExercises)
		}
	}
	if !rc.FinalCanExport() {
		t.Error("strict gate should be open at the end of the sequence")
	}
}

// TestTwoTierReadiness verifies can_proceed and the strict export gate
// diverge exactly when an unconfirmed real rename remains.
func TestTwoTierReadiness(t *testing.T) {
	rc := New(0)
	rc.Load(&models.ValidationResponse{
		Validated: []models.ValidationResult{
			{OriginalName: "Push Up", MappedTo: "Push-Up (Standard)", Confidence: 0.92},
		},
	})

	if !rc.CanProceed() {
		t.Error("can_proceed should be true with nothing unmapped")
	}
	if rc.FinalCanExport() {
		t.Error("strict gate must stay closed while the rename is unconfirmed")
	}

	rc.ConfirmAll()
	if !rc.FinalCanExport() {
		t.Error("strict gate should open after confirmation")
	}
}

// TestConfidenceNeverLowered verifies confirmation raises confidence to the
// floor but never lowers an already higher value. The threshold sits above
// the record's confidence so the load leaves it awaiting review.
func TestConfidenceNeverLowered(t *testing.T) {
	rc := New(0.995)
	rc.Load(&models.ValidationResponse{
		NeedsReview: []models.ValidationResult{
			{OriginalName: "Thruster", MappedTo: "Barbell Thruster", Confidence: 0.99},
		},
	})

	if err := rc.AcceptMapping("Thruster"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp := rc.Response()
	if got := resp.Validated[0].Confidence; got != 0.99 {
		t.Errorf("confidence = %v, want 0.99 preserved", got)
	}
}

// TestLoadAppliesThreshold verifies classification is the reconciler's own
// judgment: the same response partitions differently under different
// confidence thresholds, whichever list the service put a result in.
func TestLoadAppliesThreshold(t *testing.T) {
	resp := func() *models.ValidationResponse {
		return &models.ValidationResponse{
			Validated: []models.ValidationResult{
				{OriginalName: "Deadlift", MappedTo: "Barbell Deadlift", Confidence: 0.6},
			},
			NeedsReview: []models.ValidationResult{
				{OriginalName: "Squat", MappedTo: "Barbell Back Squat", Confidence: 0.99},
			},
			Unmapped: []models.ValidationResult{
				{OriginalName: "Mystery Move"},
			},
		}
	}

	tests := []struct {
		threshold            float64
		wantValid, wantReview []string
	}{
		{0.5, []string{"Deadlift", "Squat"}, nil},
		{0.8, []string{"Squat"}, []string{"Deadlift"}},
		{0.999, nil, []string{"Deadlift", "Squat"}},
	}
	for _, tt := range tests {
		rc := New(tt.threshold)
		rc.Load(resp())

		valid, review, unmapped := buckets(rc)
		if len(valid) != len(tt.wantValid) {
			t.Errorf("threshold %v: validated = %v, want %v", tt.threshold, valid, tt.wantValid)
		}
		for i, name := range tt.wantValid {
			if valid[i] != name {
				t.Errorf("threshold %v: validated = %v, want %v", tt.threshold, valid, tt.wantValid)
				break
			}
		}
		if len(review) != len(tt.wantReview) {
			t.Errorf("threshold %v: needs_review = %v, want %v", tt.threshold, review, tt.wantReview)
		}
		for i, name := range tt.wantReview {
			if review[i] != name {
				t.Errorf("threshold %v: needs_review = %v, want %v", tt.threshold, review, tt.wantReview)
				break
			}
		}
		// A result with no suggestion is unmapped at any threshold.
		if len(unmapped) != 1 || unmapped[0] != "Mystery Move" {
			t.Errorf("threshold %v: unmapped = %v, want [Mystery Move]", tt.threshold, unmapped)
		}
		assertPartition(t, rc)
	}
}
