package itinerary

import (
	"sort"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
)

const (
	preferredBoost    = 0.15
	nonPreferredScale = 0.7
)

func baseWeight(p domain.Pillar) float64 {
	switch p {
	case domain.PillarToji:
		return 0.3
	case domain.PillarZen:
		return 0.2
	case domain.PillarShinrinyoku:
		return 0.15
	case domain.PillarShokuyojo:
		return 0.15
	case domain.PillarMatsuri:
		return 0.1
	case domain.PillarMovement:
		return 0.05
	case domain.PillarRest:
		return 0.05
	}
	return 0
}

// stressBoost is added to a pillar when the traveler reports stress or anxiety.
func stressBoost(p domain.Pillar) float64 {
	switch p {
	case domain.PillarZen, domain.PillarRest:
		return 0.10
	case domain.PillarShinrinyoku:
		return 0.05
	case domain.PillarToji, domain.PillarShokuyojo, domain.PillarMatsuri, domain.PillarMovement:
		return 0
	}
	return 0
}

// BaseWeights returns the normalized weights used when nothing is known
// about the traveler.
func BaseWeights() domain.PillarWeights {
	w := make(domain.PillarWeights, len(domain.AllPillars))
	for _, p := range domain.AllPillars {
		w[p] = baseWeight(p)
	}
	return normalize(w)
}

// CalculatePillarWeights turns a profile into normalized pillar weights.
//
// Preferred pillars gain a fixed boost while the others shrink, avoided
// pillars are then zeroed (avoidance beats preference), stress adds weight to
// calming pillars, and the result is normalized to sum to 1. When every
// pillar is avoided the base distribution is returned.
func CalculatePillarWeights(data domain.ExtractedData) domain.PillarWeights {
	w := make(domain.PillarWeights, len(domain.AllPillars))
	for _, p := range domain.AllPillars {
		w[p] = baseWeight(p)
	}

	if len(data.PreferredPillars) > 0 {
		preferred := make(map[domain.Pillar]bool, len(data.PreferredPillars))
		for _, p := range data.PreferredPillars {
			preferred[p] = true
		}
		for _, p := range domain.AllPillars {
			if preferred[p] {
				w[p] += preferredBoost
			} else {
				w[p] *= nonPreferredScale
			}
		}
	}

	for _, p := range data.AvoidPillars {
		if p.Valid() {
			w[p] = 0
		}
	}

	if isStressed(data.EmotionalState) {
		for _, p := range domain.AllPillars {
			w[p] += stressBoost(p)
		}
	}

	if sum(w) == 0 {
		return BaseWeights()
	}
	return normalize(w)
}

func isStressed(states []string) bool {
	for _, s := range states {
		if s == "stressed" || s == "anxious" {
			return true
		}
	}
	return false
}

func sum(w domain.PillarWeights) float64 {
	var total float64
	for _, p := range domain.AllPillars {
		total += w[p]
	}
	return total
}

func normalize(w domain.PillarWeights) domain.PillarWeights {
	total := sum(w)
	out := make(domain.PillarWeights, len(domain.AllPillars))
	for _, p := range domain.AllPillars {
		out[p] = w[p] / total
	}
	return out
}

// RankPillars orders pillars by weight, heaviest first. Ties keep canonical
// pillar order. Zero-weight pillars are dropped unless keepZero is set.
func RankPillars(w domain.PillarWeights, keepZero bool) []domain.Pillar {
	ranked := make([]domain.Pillar, 0, len(domain.AllPillars))
	for _, p := range domain.AllPillars {
		if keepZero || w[p] > 0 {
			ranked = append(ranked, p)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return w[ranked[i]] > w[ranked[j]]
	})
	return ranked
}
