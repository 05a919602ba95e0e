package models

// MappingStatus classifies one exercise name's mapping against the canonical
// device-exercise catalog. The three values partition the document: a name is
// in exactly one bucket at any time.
type MappingStatus string

const (
	StatusValid       MappingStatus = "valid"
	StatusNeedsReview MappingStatus = "needs_review"
	StatusUnmapped    MappingStatus = "unmapped"
)

// ValidationResult is the mapping service's verdict for a single exercise
// name. MappedTo is empty when the service had no suggestion at all.
type ValidationResult struct {
	OriginalName string        `json:"original_name"`
	MappedTo     string        `json:"mapped_to,omitempty"`
	Confidence   float64       `json:"confidence"`
	Status       MappingStatus `json:"status"`
}

// HasSuggestion reports whether the service proposed a canonical name.
func (r ValidationResult) HasSuggestion() bool {
	return r.MappedTo != ""
}

// IsExactMatch reports whether the suggested name equals the original, in
// which case no user confirmation is ever required.
func (r ValidationResult) IsExactMatch() bool {
	return r.MappedTo == r.OriginalName
}

// ValidationResponse is the wire shape exchanged with the mapping service:
// three ordered, mutually exclusive buckets plus derived totals. CanProceed
// is the service-level readiness flag (no unmapped exercises); the stricter
// local export gate additionally requires every real mapping to be confirmed
// and is not part of this wire shape.
type ValidationResponse struct {
	Validated      []ValidationResult `json:"validated_exercises"`
	NeedsReview    []ValidationResult `json:"needs_review"`
	Unmapped       []ValidationResult `json:"unmapped_exercises"`
	TotalExercises int                `json:"total_exercises"`
	CanProceed     bool               `json:"can_proceed"`
}
