package features

import "fmt"

// The seven categorical features of an authorization request. Bounds are
// inclusive upper limits matching the model's vocabulary; the lower bound
// of 0 is implicit in the unsigned representation.
const (
	MaxBudget   = 15
	MaxTrust    = 7
	MaxAmount   = 15
	MaxCategory = 3
	MaxVelocity = 7
	MaxDay      = 7
	MaxTime     = 3
)

// Features holds the categorical inputs to the authorization model.
type Features struct {
	Budget   uint32 `json:"budget"`
	Trust    uint32 `json:"trust"`
	Amount   uint32 `json:"amount"`
	Category uint32 `json:"category"`
	Velocity uint32 `json:"velocity"`
	Day      uint32 `json:"day"`
	Time     uint32 `json:"time"`
}

// RangeError reports a feature value outside its model-defined bound.
type RangeError struct {
	Feature string
	Value   uint32
	Max     uint32
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("feature '%s' value %d out of range (0..=%d)", e.Feature, e.Value, e.Max)
}

type namedFeature struct {
	name  string
	value uint32
	max   uint32
}

// named returns the features in their fixed encoding order.
func (f Features) named() [7]namedFeature {
	return [7]namedFeature{
		{"budget", f.Budget, MaxBudget},
		{"trust", f.Trust, MaxTrust},
		{"amount", f.Amount, MaxAmount},
		{"category", f.Category, MaxCategory},
		{"velocity", f.Velocity, MaxVelocity},
		{"day", f.Day, MaxDay},
		{"time", f.Time, MaxTime},
	}
}

// Validate checks every feature against its inclusive upper bound and
// returns a *RangeError for the first violation found. It must run before
// encoding so malformed input never reaches the model.
func (f Features) Validate() error {
	for _, c := range f.named() {
		if c.value > c.max {
			return &RangeError{Feature: c.name, Value: c.value, Max: c.max}
		}
	}
	return nil
}
