package domain

import "time"

// ============================================================
// Persisted rows (rij_* tables)
// ============================================================

// ConsentType is one of the three consents collected before profiling.
type ConsentType string

const (
	ConsentAudioRecording   ConsentType = "audio_recording"
	ConsentBiometricData    ConsentType = "biometric_data"
	ConsentLocationTracking ConsentType = "location_tracking"
)

// ConsentVersion is the version of the consent copy users agree to.
const ConsentVersion = "1.0"

// ConsentRecord is a row of rij_consents. IPHash and UserAgentHash hold keyed
// digests, never the raw values.
type ConsentRecord struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	ConsentType   ConsentType `json:"consent_type"`
	Version       string      `json:"version"`
	Consented     bool        `json:"consented"`
	IPHash        string      `json:"ip_address,omitempty"`
	UserAgentHash string      `json:"user_agent,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// SessionStatus is the lifecycle state of a persisted profiling session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionHalted    SessionStatus = "halted"
)

// SessionMetadata is the JSON metadata column of rij_profiling_sessions.
type SessionMetadata struct {
	Locale        Locale        `json:"locale"`
	CurrentPhase  Phase         `json:"currentPhase"`
	ExtractedData ExtractedData `json:"extractedData"`
}

// ProfilingSessionRecord is a row of rij_profiling_sessions.
type ProfilingSessionRecord struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Status    SessionStatus   `json:"status"`
	Metadata  SessionMetadata `json:"metadata"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProfilingTurnRecord is a row of rij_profiling_turns.
type ProfilingTurnRecord struct {
	SessionID  string    `json:"session_id"`
	TurnNumber int       `json:"turn_number"`
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	InputMode  InputMode `json:"input_mode"`
	Phase      Phase     `json:"phase"`
	CreatedAt  time.Time `json:"created_at"`
}

// Turn converts the row back into a conversation turn.
func (r ProfilingTurnRecord) Turn() Turn {
	return Turn{
		TurnNumber: r.TurnNumber,
		Role:       r.Role,
		Content:    r.Content,
		InputMode:  r.InputMode,
		Timestamp:  r.CreatedAt,
	}
}

// ItineraryMetadata is the JSON metadata column of rij_itineraries.
type ItineraryMetadata struct {
	Locale           Locale        `json:"locale"`
	ExtractedData    ExtractedData `json:"extractedData"`
	PillarWeights    PillarWeights `json:"pillarWeights"`
	IntensityCurve   []float64     `json:"intensityCurve"`
	OverallNarrative string        `json:"overallNarrative"`
	Days             []Day         `json:"days"`
}

// ItineraryRecord is a row of rij_itineraries.
type ItineraryRecord struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	ProfileID   string            `json:"profile_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	TotalDays   int               `json:"total_days"`
	Metadata    ItineraryMetadata `json:"metadata"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Itinerary rebuilds the engine output stored in the row.
func (r ItineraryRecord) Itinerary() *Itinerary {
	return &Itinerary{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Days:             r.Metadata.Days,
		TotalDays:        r.TotalDays,
		OverallNarrative: r.Metadata.OverallNarrative,
		PillarWeights:    r.Metadata.PillarWeights,
		IntensityCurve:   r.Metadata.IntensityCurve,
	}
}

// ItineraryRevisionRecord is a row of rij_itinerary_revisions.
type ItineraryRevisionRecord struct {
	ID              string    `json:"id"`
	ItineraryID     string    `json:"itinerary_id"`
	RevisedID       string    `json:"revised_itinerary_id,omitempty"`
	UserID          string    `json:"user_id"`
	RevisionRequest string    `json:"revision_request"`
	PinnedBlockIDs  []string  `json:"pinned_block_ids"`
	InputMode       InputMode `json:"input_mode"`
	CreatedAt       time.Time `json:"created_at"`
}

// TripSessionRecord is a row of rij_trip_sessions.
type TripSessionRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ItineraryID  string    `json:"itinerary_id"`
	Status       string    `json:"status"`
	PinnedBlocks []string  `json:"pinned_blocks"`
	CreatedAt    time.Time `json:"created_at"`
}
