// Package provider holds the offline, deterministic collaborators of the
// profiling orchestrator: a keyword-driven responder and a placeholder
// transcriber.
package provider

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/safety"
)

// keywordBucket maps a value to the phrases that select it. Buckets are
// checked in slice order and the first hit wins unless noted otherwise.
type keywordBucket[T any] struct {
	value    T
	keywords []string
}

var emotionBuckets = []keywordBucket[string]{
	{"stressed", []string{"stress", "stressed", "anxious", "worry", "overwhelmed"}},
	{"tired", []string{"tired", "exhausted", "fatigue", "drained"}},
	{"restless", []string{"restless", "can't relax", "tense"}},
	{"peaceful", []string{"peaceful", "calm", "relaxed", "serene"}},
}

// Most severe tier first.
var stressTiers = []keywordBucket[int]{
	{8, []string{"very stress", "extremely"}},
	{7, []string{"quite stress", "high stress"}},
	{6, []string{"stress"}},
	{4, []string{"little stress", "somewhat"}},
}

var pillarBuckets = []keywordBucket[domain.Pillar]{
	{domain.PillarToji, []string{"hot spring", "onsen", "spa", "thermal", "bath"}},
	{domain.PillarZen, []string{"meditation", "mindful", "zen", "quiet", "stillness", "temple"}},
	{domain.PillarShinrinyoku, []string{"forest", "nature", "trees", "hiking", "outdoor"}},
	{domain.PillarShokuyojo, []string{"food", "culinary", "cooking", "eat", "cuisine", "meal"}},
	{domain.PillarMatsuri, []string{"festival", "culture", "tradition", "celebration"}},
	{domain.PillarMovement, []string{"yoga", "exercise", "walk", "activity", "physical"}},
	{domain.PillarRest, []string{"sleep", "rest", "relax", "unwind", "recharge"}},
}

var intensityBuckets = []keywordBucket[domain.Intensity]{
	{domain.IntensityLow, []string{"gentle", "easy", "slow pace"}},
	{domain.IntensityMedium, []string{"moderate", "balanced", "medium"}},
	{domain.IntensityHigh, []string{"active", "energetic", "intense"}},
}

var companionBuckets = []keywordBucket[int]{
	{1, []string{"solo", "alone", "by myself"}},
	{2, []string{"partner", "spouse"}},
	{3, []string{"family", "group"}},
}

var budgetBuckets = []keywordBucket[string]{
	{"budget", []string{"budget", "affordable"}},
	{"moderate", []string{"moderate", "mid-range"}},
	{"luxury", []string{"luxury", "premium"}},
}

var headcountPattern = regexp.MustCompile(`(?i)\b(\d+)\s+(people|person)`)

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func firstMatch[T any](lower string, buckets []keywordBucket[T]) (T, bool) {
	for _, b := range buckets {
		if containsAny(lower, b.keywords) {
			return b.value, true
		}
	}
	var zero T
	return zero, false
}

func allMatches[T any](lower string, buckets []keywordBucket[T]) []T {
	var out []T
	for _, b := range buckets {
		if containsAny(lower, b.keywords) {
			out = append(out, b.value)
		}
	}
	return out
}

func extractEmotionalState(lower string) []string {
	if emotions := allMatches(lower, emotionBuckets); len(emotions) > 0 {
		return emotions
	}
	return []string{"seeking_balance"}
}

func extractCompanionCount(transcript, lower string) *int {
	if n, ok := firstMatch(lower, companionBuckets); ok {
		return &n
	}
	m := headcountPattern.FindStringSubmatch(transcript)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

// RuleBased is a Responder that extracts preferences with phase-scoped
// keyword tables and answers with a fixed question per phase.
type RuleBased struct{}

// NewRuleBased creates the keyword responder.
func NewRuleBased() *RuleBased { return &RuleBased{} }

// NextTurn never fails; the error return satisfies port.Responder.
func (r *RuleBased) NextTurn(_ context.Context, in domain.NextTurnInput) (*domain.NextTurnOutput, error) {
	locale := in.Locale.OrDefault()

	check := safety.DetectFlags(in.Transcript, locale)
	if safety.ShouldStop(check) {
		return &domain.NextTurnOutput{
			Response:  check.EmergencyMessage,
			NextPhase: domain.PhaseDone,
		}, nil
	}

	extracted := extract(in.Phase, in.Transcript, in.SessionContext.ExtractedData)

	nextPhase := in.Phase.Next()

	var b strings.Builder
	if check.Has(domain.FlagMedicalRequest) {
		if comfort := safety.ComfortFocusedResponse(in.Transcript, locale); comfort != "" {
			b.WriteString(comfort)
			b.WriteString("\n\n")
		}
	}
	b.WriteString(questionFor(nextPhase, locale))

	response := b.String()
	if nextPhase == domain.PhaseDone {
		response = closingMessage(locale)
	}

	return &domain.NextTurnOutput{
		Response:                 response,
		NextPhase:                nextPhase,
		ExtractedData:            extracted,
		ShouldProceedToItinerary: nextPhase == domain.PhaseDone,
	}, nil
}

func extract(phase domain.Phase, transcript string, prev domain.ExtractedData) domain.ExtractedData {
	lower := strings.ToLower(transcript)
	var out domain.ExtractedData

	switch phase {
	case domain.PhaseState:
		out.EmotionalState = extractEmotionalState(lower)
		if level, ok := firstMatch(lower, stressTiers); ok {
			out.StressLevel = &level
		}
		if pillars := allMatches(lower, pillarBuckets); len(pillars) > 0 {
			out.PreferredPillars = pillars
		}
	case domain.PhaseBody:
		if pillars := allMatches(lower, pillarBuckets); len(pillars) > 0 {
			out.PreferredPillars = withPrevious(prev.PreferredPillars, pillars)
		}
		if intensity, ok := firstMatch(lower, intensityBuckets); ok {
			out.Intensity = &intensity
		}
	case domain.PhaseSocial:
		out.CompanionCount = extractCompanionCount(transcript, lower)
	case domain.PhaseSensory:
		if pillars := allMatches(lower, pillarBuckets); len(pillars) > 0 {
			out.PreferredPillars = withPrevious(prev.PreferredPillars, pillars)
		}
	case domain.PhaseConstraints:
		if budget, ok := firstMatch(lower, budgetBuckets); ok {
			out.BudgetRange = &budget
		}
	case domain.PhaseRecap, domain.PhaseDone:
	}
	return out
}

func withPrevious(prev, found []domain.Pillar) []domain.Pillar {
	out := make([]domain.Pillar, 0, len(prev)+len(found))
	out = append(out, prev...)
	for _, p := range found {
		dup := false
		for _, q := range out {
			if p == q {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}
