package domain

// TimeSlot is the part of the day a block is scheduled in.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
	SlotNight     TimeSlot = "night"
)

// DaySlots are the three slots filled on every itinerary day, in order.
var DaySlots = []TimeSlot{SlotMorning, SlotAfternoon, SlotEvening}

// Valid reports whether s is a known time slot.
func (s TimeSlot) Valid() bool {
	return s == SlotMorning || s == SlotAfternoon || s == SlotEvening || s == SlotNight
}

// PlanB is the fallback offered for a block.
type PlanB struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// Block is a single scheduled activity. Blocks are never mutated after the
// engine creates them; pinning is tracked outside the block.
type Block struct {
	ID              string    `json:"id" validate:"required,uuid"`
	DayNumber       int       `json:"dayNumber" validate:"gt=0"`
	SequenceOrder   int       `json:"sequenceOrder" validate:"gte=0"`
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description" validate:"required"`
	Pillar          Pillar    `json:"pillar" validate:"required,pillar"`
	TimeSlot        TimeSlot  `json:"timeSlot" validate:"required,timeslot"`
	DurationMinutes int       `json:"durationMinutes" validate:"gt=0"`
	Intensity       Intensity `json:"intensity" validate:"required,intensity"`
	PlanB           *PlanB    `json:"planB,omitempty" validate:"omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// Day is one day of an itinerary.
type Day struct {
	DayNumber int     `json:"dayNumber" validate:"gt=0"`
	Theme     string  `json:"theme" validate:"required"`
	Narrative string  `json:"narrative" validate:"required"`
	Blocks    []Block `json:"blocks" validate:"dive"`
}

// Itinerary is the immutable output of the itinerary engine.
type Itinerary struct {
	ID               string        `json:"id" validate:"required,uuid"`
	Title            string        `json:"title" validate:"required"`
	Description      string        `json:"description" validate:"required"`
	Days             []Day         `json:"days" validate:"dive"`
	TotalDays        int           `json:"totalDays" validate:"gt=0"`
	OverallNarrative string        `json:"overallNarrative" validate:"required"`
	PillarWeights    PillarWeights `json:"pillarWeights" validate:"required,dive,keys,pillar,endkeys,min=0,max=1"`
	IntensityCurve   []float64     `json:"intensityCurve" validate:"dive,min=0,max=1"`
}

// GenerationInput drives one itinerary generation. TargetDays of zero means
// the engine default.
type GenerationInput struct {
	ProfileData ExtractedData `json:"profileData"`
	Locale      Locale        `json:"locale" validate:"required,locale"`
	TargetDays  int           `json:"targetDays,omitempty" validate:"gte=0"`
}
