package profiling

import "github.com/boddenberg/rij-wellness-bfa/internal/domain"

// MergeExtractedData folds next into prev and returns a new value.
//
// Scalars take the newest non-nil value. Slices other than PreferredPillars
// are replaced whenever next carries one. PreferredPillars is a deduplicated
// union keeping first-seen order; avoided pillars are not removed here, they
// only lose their weight at itinerary time.
func MergeExtractedData(prev, next domain.ExtractedData) domain.ExtractedData {
	out := prev.Clone()
	n := next.Clone()

	if n.EmotionalState != nil {
		out.EmotionalState = n.EmotionalState
	}
	if n.StressLevel != nil {
		out.StressLevel = n.StressLevel
	}
	if n.SleepQuality != nil {
		out.SleepQuality = n.SleepQuality
	}
	if n.HealthConditions != nil {
		out.HealthConditions = n.HealthConditions
	}
	if n.DietaryRestrictions != nil {
		out.DietaryRestrictions = n.DietaryRestrictions
	}
	if n.MobilityLevel != nil {
		out.MobilityLevel = n.MobilityLevel
	}
	if n.CompanionCount != nil {
		out.CompanionCount = n.CompanionCount
	}
	if n.PreferredPillars != nil {
		out.PreferredPillars = unionPillars(out.PreferredPillars, n.PreferredPillars)
	}
	if n.AvoidPillars != nil {
		out.AvoidPillars = n.AvoidPillars
	}
	if n.BudgetRange != nil {
		out.BudgetRange = n.BudgetRange
	}
	if n.TravelDates != nil {
		out.TravelDates = n.TravelDates
	}
	if n.Intensity != nil {
		out.Intensity = n.Intensity
	}
	if n.SpecialRequests != nil {
		out.SpecialRequests = n.SpecialRequests
	}
	return out
}

func unionPillars(a, b []domain.Pillar) []domain.Pillar {
	seen := make(map[domain.Pillar]struct{}, len(a)+len(b))
	out := make([]domain.Pillar, 0, len(a)+len(b))
	for _, list := range [][]domain.Pillar{a, b} {
		for _, p := range list {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
