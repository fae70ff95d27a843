// Package domain holds the data model shared by the profiling orchestrator,
// the itinerary engine, the persistence adapters and the HTTP layer.
package domain

import "time"

// ============================================================
// Enumerations
// ============================================================

// Phase is a stage of the profiling conversation.
type Phase string

const (
	PhaseState       Phase = "state"
	PhaseBody        Phase = "body"
	PhaseSocial      Phase = "social"
	PhaseSensory     Phase = "sensory"
	PhaseConstraints Phase = "constraints"
	PhaseRecap       Phase = "recap"
	PhaseDone        Phase = "done"
)

// PhaseOrder is the fixed, total order of the conversation. PhaseDone is terminal.
var PhaseOrder = []Phase{
	PhaseState,
	PhaseBody,
	PhaseSocial,
	PhaseSensory,
	PhaseConstraints,
	PhaseRecap,
	PhaseDone,
}

// Index returns the position of p in PhaseOrder, or -1 for an unknown phase.
func (p Phase) Index() int {
	switch p {
	case PhaseState:
		return 0
	case PhaseBody:
		return 1
	case PhaseSocial:
		return 2
	case PhaseSensory:
		return 3
	case PhaseConstraints:
		return 4
	case PhaseRecap:
		return 5
	case PhaseDone:
		return 6
	}
	return -1
}

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool { return p.Index() >= 0 }

// Next returns the phase that follows p. Recap and done both lead to done,
// and so does any unknown phase.
func (p Phase) Next() Phase {
	switch p {
	case PhaseState:
		return PhaseBody
	case PhaseBody:
		return PhaseSocial
	case PhaseSocial:
		return PhaseSensory
	case PhaseSensory:
		return PhaseConstraints
	case PhaseConstraints:
		return PhaseRecap
	case PhaseRecap, PhaseDone:
		return PhaseDone
	}
	return PhaseDone
}

// Locale is the conversation language, fixed when a session is created.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleJA Locale = "ja"
)

// Valid reports whether l is a supported locale.
func (l Locale) Valid() bool { return l == LocaleEN || l == LocaleJA }

// OrDefault returns l, or English when l is not supported.
func (l Locale) OrDefault() Locale {
	if l.Valid() {
		return l
	}
	return LocaleEN
}

// InputMode says how a turn's content was produced.
type InputMode string

const (
	InputText   InputMode = "text"
	InputVoice  InputMode = "voice"
	InputSystem InputMode = "system"
)

// Valid reports whether m is a known input mode.
func (m InputMode) Valid() bool {
	return m == InputText || m == InputVoice || m == InputSystem
}

// Role is the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// Intensity is the activity level a traveler prefers, also used on blocks.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Valid reports whether i is a known intensity.
func (i Intensity) Valid() bool {
	return i == IntensityLow || i == IntensityMedium || i == IntensityHigh
}

// ============================================================
// Session state
// ============================================================

// Turn is one immutable message of a profiling conversation.
type Turn struct {
	TurnNumber int       `json:"turnNumber" validate:"gt=0"`
	Role       Role      `json:"role" validate:"required,role"`
	Content    string    `json:"content" validate:"required"`
	InputMode  InputMode `json:"inputMode" validate:"required,inputmode"`
	Timestamp  time.Time `json:"timestamp"`
}

// TravelDates is the optional travel window a traveler mentioned.
type TravelDates struct {
	Start    *string `json:"start,omitempty"`
	End      *string `json:"end,omitempty"`
	Flexible *bool   `json:"flexible,omitempty"`
}

// ExtractedData is the mergeable bag of preference signals collected over a
// conversation. A nil pointer or nil slice means the signal is absent.
type ExtractedData struct {
	EmotionalState      []string     `json:"emotionalState,omitempty"`
	StressLevel         *int         `json:"stressLevel,omitempty" validate:"omitempty,min=1,max=10"`
	SleepQuality        *string      `json:"sleepQuality,omitempty"`
	HealthConditions    []string     `json:"healthConditions,omitempty"`
	DietaryRestrictions []string     `json:"dietaryRestrictions,omitempty"`
	MobilityLevel       *string      `json:"mobilityLevel,omitempty"`
	CompanionCount      *int         `json:"companionCount,omitempty" validate:"omitempty,gt=0"`
	PreferredPillars    []Pillar     `json:"preferredPillars,omitempty" validate:"omitempty,dive,pillar"`
	AvoidPillars        []Pillar     `json:"avoidPillars,omitempty" validate:"omitempty,dive,pillar"`
	BudgetRange         *string      `json:"budgetRange,omitempty"`
	TravelDates         *TravelDates `json:"travelDates,omitempty"`
	Intensity           *Intensity   `json:"intensity,omitempty" validate:"omitempty,intensity"`
	SpecialRequests     []string     `json:"specialRequests,omitempty"`
}

// SessionContext is the live conversation state. It is owned by the caller;
// the orchestrator only ever returns new snapshots.
type SessionContext struct {
	SessionID     string        `json:"sessionId" validate:"required,uuid"`
	UserID        string        `json:"userId" validate:"required,uuid"`
	Phase         Phase         `json:"phase" validate:"required,phase"`
	Turns         []Turn        `json:"turns" validate:"dive"`
	ExtractedData ExtractedData `json:"extractedData"`
	Locale        Locale        `json:"locale" validate:"required,locale"`
}

// Clone returns a copy of s whose turn slice does not alias the original.
func (s SessionContext) Clone() SessionContext {
	out := s
	out.Turns = make([]Turn, len(s.Turns))
	copy(out.Turns, s.Turns)
	out.ExtractedData = s.ExtractedData.Clone()
	return out
}

// Clone returns a deep copy of d.
func (d ExtractedData) Clone() ExtractedData {
	out := ExtractedData{
		EmotionalState:      cloneSlice(d.EmotionalState),
		StressLevel:         clonePtr(d.StressLevel),
		SleepQuality:        clonePtr(d.SleepQuality),
		HealthConditions:    cloneSlice(d.HealthConditions),
		DietaryRestrictions: cloneSlice(d.DietaryRestrictions),
		MobilityLevel:       clonePtr(d.MobilityLevel),
		CompanionCount:      clonePtr(d.CompanionCount),
		PreferredPillars:    cloneSlice(d.PreferredPillars),
		AvoidPillars:        cloneSlice(d.AvoidPillars),
		BudgetRange:         clonePtr(d.BudgetRange),
		Intensity:           clonePtr(d.Intensity),
		SpecialRequests:     cloneSlice(d.SpecialRequests),
	}
	if d.TravelDates != nil {
		out.TravelDates = &TravelDates{
			Start:    clonePtr(d.TravelDates.Start),
			End:      clonePtr(d.TravelDates.End),
			Flexible: clonePtr(d.TravelDates.Flexible),
		}
	}
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v. Handy for building ExtractedData literals.
func Ptr[T any](v T) *T { return &v }

// ============================================================
// Collaborator contracts
// ============================================================

// Transcription is what a speech-to-text collaborator returns.
type Transcription struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence" validate:"min=0,max=1"`
	Locale     Locale  `json:"locale" validate:"required,locale"`
}

// NextTurnInput is handed to the response generation collaborator.
type NextTurnInput struct {
	Phase          Phase
	Transcript     string
	SessionContext SessionContext
	Locale         Locale
}

// NextTurnOutput is what a response generation collaborator produces for one turn.
type NextTurnOutput struct {
	Response                 string
	NextPhase                Phase
	ExtractedData            ExtractedData
	ShouldProceedToItinerary bool
}
