package domain

// SafetyFlag is a classification of a single piece of user input.
type SafetyFlag string

const (
	FlagSelfHarm       SafetyFlag = "self_harm_or_imminent_danger"
	FlagMedicalRequest SafetyFlag = "medical_request"
	FlagNone           SafetyFlag = "none"
)

// Valid reports whether f is a known flag.
func (f SafetyFlag) Valid() bool {
	return f == FlagSelfHarm || f == FlagMedicalRequest || f == FlagNone
}

// SafetyCheckResult is the outcome of classifying one input.
// FlagNone is present iff no other flag is; ShouldStop iff FlagSelfHarm;
// EmergencyMessage is set iff ShouldStop.
type SafetyCheckResult struct {
	Flags            []SafetyFlag `json:"flags" validate:"min=1,dive,safetyflag"`
	ShouldStop       bool         `json:"shouldStop"`
	EmergencyMessage string       `json:"emergencyMessage,omitempty"`
}

// Has reports whether the result carries flag f.
func (r SafetyCheckResult) Has(f SafetyFlag) bool {
	for _, flag := range r.Flags {
		if flag == f {
			return true
		}
	}
	return false
}
