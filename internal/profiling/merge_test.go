package profiling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/profiling"
)

func TestMergeExtractedData(t *testing.T) {
	prev := domain.ExtractedData{
		EmotionalState:   []string{"tired"},
		StressLevel:      domain.Ptr(4),
		CompanionCount:   domain.Ptr(1),
		PreferredPillars: []domain.Pillar{domain.PillarToji},
		BudgetRange:      domain.Ptr("budget"),
	}
	next := domain.ExtractedData{
		StressLevel:      domain.Ptr(8),
		PreferredPillars: []domain.Pillar{domain.PillarToji, domain.PillarZen},
		Intensity:        domain.Ptr(domain.IntensityHigh),
	}

	got := profiling.MergeExtractedData(prev, next)

	assert.Equal(t, []string{"tired"}, got.EmotionalState, "absent slice keeps previous")
	assert.Equal(t, 8, *got.StressLevel, "newest scalar wins")
	assert.Equal(t, 1, *got.CompanionCount, "absent scalar keeps previous")
	assert.Equal(t, "budget", *got.BudgetRange)
	assert.Equal(t, domain.IntensityHigh, *got.Intensity)
	assert.Equal(t, []domain.Pillar{domain.PillarToji, domain.PillarZen}, got.PreferredPillars)

	assert.Equal(t, 4, *prev.StressLevel, "inputs are not mutated")
	assert.Len(t, prev.PreferredPillars, 1)
}

func TestMergeExtractedData_AvoidDoesNotShrinkPreferred(t *testing.T) {
	prev := domain.ExtractedData{PreferredPillars: []domain.Pillar{domain.PillarToji, domain.PillarRest}}
	next := domain.ExtractedData{AvoidPillars: []domain.Pillar{domain.PillarToji}}

	got := profiling.MergeExtractedData(prev, next)

	assert.Equal(t, []domain.Pillar{domain.PillarToji, domain.PillarRest}, got.PreferredPillars)
	assert.Equal(t, []domain.Pillar{domain.PillarToji}, got.AvoidPillars)
}

func TestMergeExtractedData_EmptyIsIdentity(t *testing.T) {
	prev := domain.ExtractedData{
		EmotionalState: []string{"peaceful"},
		TravelDates:    &domain.TravelDates{Flexible: domain.Ptr(true)},
	}
	assert.Equal(t, prev, profiling.MergeExtractedData(prev, domain.ExtractedData{}))
}
