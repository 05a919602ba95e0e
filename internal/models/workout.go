package models

// Exercise is the leaf unit of a workout: a name plus its prescription.
// ID is assigned once and stable for the life of the editing session; Name is
// the only key used to cross-reference validation results.
//
// Reps and RepsRange are mutually exclusive, as are DurationSec and
// DistanceM/DistanceRange. RestSec is a pointer because absence means
// "inherit rest from the containing block or workout settings", which is
// distinct from an explicit zero.
type Exercise struct {
	ID            string  `json:"id,omitempty"`
	Name          string  `json:"name"`
	Sets          int     `json:"sets,omitempty"`
	Reps          int     `json:"reps,omitempty"`
	RepsRange     string  `json:"reps_range,omitempty"`
	DurationSec   int     `json:"duration_sec,omitempty"`
	DistanceM     float64 `json:"distance_m,omitempty"`
	DistanceRange string  `json:"distance_range,omitempty"`
	RestSec       *int    `json:"rest_sec,omitempty"`
	RestType      string  `json:"rest_type,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	WarmupSets    int     `json:"warmup_sets,omitempty"`
	WarmupReps    int     `json:"warmup_reps,omitempty"`

	// Position is the display ordinal of this exercise within its block,
	// shared with the block's supersets. Only meaningful for block-level
	// exercises; exercises inside a superset are ordered by slice index.
	Position int `json:"position,omitempty"`
}

// Superset is an ordered group of exercises performed back-to-back with
// shared rest and round semantics. A superset is owned by exactly one block;
// its exercises never appear in the block's flat exercise list.
type Superset struct {
	ID             string     `json:"id,omitempty"`
	Exercises      []Exercise `json:"exercises"`
	RestBetweenSec int        `json:"rest_between_sec,omitempty"`
	Rounds         int        `json:"rounds,omitempty"`
	RestType       string     `json:"rest_type,omitempty"`

	// Position is the display ordinal of this superset within its block,
	// shared with the block's flat exercises.
	Position int `json:"position,omitempty"`
}

// RestOverride replaces the workout-level rest defaults for one block.
type RestOverride struct {
	Enabled bool   `json:"enabled"`
	Type    string `json:"type,omitempty"`
	Seconds int    `json:"seconds,omitempty"`
}

// WarmupConfig describes an optional warm-up activity for a block or for the
// workout as a whole.
type WarmupConfig struct {
	Enabled     bool   `json:"enabled"`
	Activity    string `json:"activity,omitempty"`
	DurationSec int    `json:"duration_sec,omitempty"`
}

// Block is a top-level section of a workout ("Warm-up", "Main Set"). It owns
// an ordered list of flat exercises and an ordered list of supersets; display
// order across the two collections is carried by each entry's Position field.
type Block struct {
	ID           string        `json:"id,omitempty"`
	Label        string        `json:"label"`
	Structure    string        `json:"structure,omitempty"`
	Exercises    []Exercise    `json:"exercises"`
	Supersets    []Superset    `json:"supersets,omitempty"`
	RestOverride *RestOverride `json:"rest_override,omitempty"`
	Warmup       *WarmupConfig `json:"warmup,omitempty"`
}

// WorkoutSettings holds workout-wide defaults that blocks and exercises
// inherit when they carry no override of their own.
type WorkoutSettings struct {
	DefaultRestSec  int           `json:"default_rest_sec,omitempty"`
	DefaultRestType string        `json:"default_rest_type,omitempty"`
	Warmup          *WarmupConfig `json:"warmup,omitempty"`
}

// WorkoutStructure is the document root produced by the generation service
// and edited in place (via clone-replace) until export.
type WorkoutStructure struct {
	Title    string          `json:"title"`
	Source   string          `json:"source,omitempty"`
	Settings WorkoutSettings `json:"settings"`
	Blocks   []Block         `json:"blocks"`
}

// Device identifies an export target. Some devices need the original
// exercise name preserved alongside the canonical one.
type Device string

const (
	DeviceGarmin Device = "garmin"
	DeviceZwift  Device = "zwift"
	DeviceApple  Device = "apple"
)

// PreservesOriginalName reports whether projection for this device must keep
// the pre-mapping exercise name as a note annotation.
func (d Device) PreservesOriginalName() bool {
	return d == DeviceGarmin
}

// Valid reports whether d names a known export target.
func (d Device) Valid() bool {
	switch d {
	case DeviceGarmin, DeviceZwift, DeviceApple:
		return true
	}
	return false
}
