package domain

// ============================================================
// API request/response DTOs
// ============================================================

// AnonymousAuthResponse is returned by POST /v1/auth/anonymous.
type AnonymousAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	UserID      string `json:"user_id"`
}

// ConsentRequest is the body of POST /v1/consents.
type ConsentRequest struct {
	AudioRecording   bool `json:"audioRecording"`
	BiometricData    bool `json:"biometricData"`
	LocationTracking bool `json:"locationTracking"`
}

// ConsentResponse lists a user's recorded consents.
type ConsentResponse struct {
	Consents []ConsentRecord `json:"consents"`
}

// StartSessionRequest is the body of POST /v1/profiling/sessions.
type StartSessionRequest struct {
	Locale Locale `json:"locale" validate:"omitempty,locale"`
}

// SessionResponse wraps a session snapshot with its progress.
type SessionResponse struct {
	Session  SessionContext `json:"session"`
	Status   SessionStatus  `json:"status"`
	Progress int            `json:"progress"`
}

// SubmitTurnRequest is the body of POST /v1/profiling/sessions/{id}/turns.
type SubmitTurnRequest struct {
	Text      string    `json:"text" validate:"required"`
	InputMode InputMode `json:"inputMode" validate:"omitempty,inputmode"`
}

// TurnResponse is the outcome of one submitted turn.
type TurnResponse struct {
	Session           SessionContext `json:"session"`
	AssistantResponse string         `json:"assistantResponse"`
	ShouldStop        bool           `json:"shouldStop"`
	ReadyForItinerary bool           `json:"readyForItinerary"`
	SafetyFlags       []SafetyFlag   `json:"safetyFlags"`
	EmergencyMessage  string         `json:"emergencyMessage,omitempty"`
	Progress          int            `json:"progress"`
}

// SummaryResponse is returned by GET /v1/profiling/sessions/{id}/summary.
type SummaryResponse struct {
	SessionID     string        `json:"sessionId"`
	Phase         Phase         `json:"phase"`
	Status        SessionStatus `json:"status"`
	Progress      int           `json:"progress"`
	IsComplete    bool          `json:"isComplete"`
	Summary       string        `json:"summary"`
	ExtractedData ExtractedData `json:"extractedData"`
}

// GenerateItineraryRequest is the body of POST /v1/profiling/sessions/{id}/itinerary.
type GenerateItineraryRequest struct {
	TargetDays int `json:"targetDays" validate:"gte=0,lte=14"`
}

// ReviseItineraryRequest is the body of POST /v1/itineraries/{id}/revisions.
type ReviseItineraryRequest struct {
	Request        string    `json:"request" validate:"required"`
	PinnedBlockIDs []string  `json:"pinnedBlockIds"`
	InputMode      InputMode `json:"inputMode" validate:"omitempty,inputmode"`
}

// RevisionResponse carries the regenerated itinerary.
type RevisionResponse struct {
	RevisionID    string     `json:"revisionId"`
	Itinerary     *Itinerary `json:"itinerary"`
	ChangeSummary string     `json:"changeSummary"`
}

// StartTripRequest is the body of POST /v1/itineraries/{id}/trips.
type StartTripRequest struct {
	PinnedBlockIDs []string `json:"pinnedBlockIds"`
}

// TranscribeResponse is returned by POST /v1/profiling/transcribe.
type TranscribeResponse struct {
	Text string `json:"text"`
}
