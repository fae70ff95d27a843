package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
	Error       string `json:"error,omitempty"`
}

// ProfilingMetrics is returned by GET /v1/metrics/profiling.
type ProfilingMetrics struct {
	SessionsStarted      int64            `json:"sessionsStarted"`
	TurnsProcessed       int64            `json:"turnsProcessed"`
	TurnsByPhase         map[string]int64 `json:"turnsByPhase"`
	SafetyStops          int64            `json:"safetyStops"`
	MedicalRedirects     int64            `json:"medicalRedirects"`
	ItinerariesGenerated int64            `json:"itinerariesGenerated"`
	ItinerariesRevised   int64            `json:"itinerariesRevised"`
	CacheHitRate         float64          `json:"cacheHitRate"`
	ExternalErrors       int64            `json:"externalErrors"`
	Period               string           `json:"period"`
}
