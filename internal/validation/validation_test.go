package validation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
	"github.com/boddenberg/rij-wellness-bfa/internal/itinerary"
	"github.com/boddenberg/rij-wellness-bfa/internal/profiling"
	"github.com/boddenberg/rij-wellness-bfa/internal/profiling/provider"
	"github.com/boddenberg/rij-wellness-bfa/internal/validation"
)

var val = validation.New()

func requireValidationErr(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var verr *domain.ErrValidation
	require.True(t, errors.As(err, &verr), "want *domain.ErrValidation, got %T", err)
	assert.Contains(t, verr.Field, field)
}

func validSession() domain.SessionContext {
	o := profiling.NewOrchestrator(provider.NewRuleBased(), provider.NewPlaceholder())
	return o.InitializeSession(uuid.NewString(), domain.LocaleEN)
}

func TestValidateTurn(t *testing.T) {
	ok := domain.Turn{TurnNumber: 1, Role: domain.RoleUser, Content: "hi", InputMode: domain.InputText, Timestamp: time.Now()}
	require.NoError(t, val.ValidateTurn(ok))

	tests := []struct {
		name  string
		edit  func(*domain.Turn)
		field string
	}{
		{"zero turn number", func(tr *domain.Turn) { tr.TurnNumber = 0 }, "TurnNumber"},
		{"unknown role", func(tr *domain.Turn) { tr.Role = "bot" }, "Role"},
		{"empty content", func(tr *domain.Turn) { tr.Content = "" }, "Content"},
		{"unknown input mode", func(tr *domain.Turn) { tr.InputMode = "telepathy" }, "InputMode"},
		{"missing timestamp", func(tr *domain.Turn) { tr.Timestamp = time.Time{} }, "Timestamp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := ok
			tt.edit(&tr)
			requireValidationErr(t, val.ValidateTurn(tr), tt.field)
		})
	}
}

func TestValidateExtractedData(t *testing.T) {
	require.NoError(t, val.ValidateExtractedData(domain.ExtractedData{}))
	require.NoError(t, val.ValidateExtractedData(domain.ExtractedData{
		StressLevel:      domain.Ptr(10),
		CompanionCount:   domain.Ptr(2),
		PreferredPillars: []domain.Pillar{domain.PillarZen},
		Intensity:        domain.Ptr(domain.IntensityMedium),
	}))

	requireValidationErr(t, val.ValidateExtractedData(domain.ExtractedData{StressLevel: domain.Ptr(11)}), "StressLevel")
	requireValidationErr(t, val.ValidateExtractedData(domain.ExtractedData{StressLevel: domain.Ptr(0)}), "StressLevel")
	requireValidationErr(t, val.ValidateExtractedData(domain.ExtractedData{CompanionCount: domain.Ptr(0)}), "CompanionCount")
	requireValidationErr(t, val.ValidateExtractedData(domain.ExtractedData{PreferredPillars: []domain.Pillar{"karaoke"}}), "PreferredPillars")
	requireValidationErr(t, val.ValidateExtractedData(domain.ExtractedData{AvoidPillars: []domain.Pillar{"spa"}}), "AvoidPillars")
	requireValidationErr(t, val.ValidateExtractedData(domain.ExtractedData{Intensity: domain.Ptr(domain.Intensity("extreme"))}), "Intensity")
}

func TestValidateSession(t *testing.T) {
	require.NoError(t, val.ValidateSession(validSession()))

	t.Run("non uuid session id", func(t *testing.T) {
		sc := validSession()
		sc.SessionID = "abc"
		requireValidationErr(t, val.ValidateSession(sc), "SessionID")
	})

	t.Run("unknown phase", func(t *testing.T) {
		sc := validSession()
		sc.Phase = "intro"
		requireValidationErr(t, val.ValidateSession(sc), "Phase")
	})

	t.Run("unsupported locale", func(t *testing.T) {
		sc := validSession()
		sc.Locale = "fr"
		requireValidationErr(t, val.ValidateSession(sc), "Locale")
	})

	t.Run("gap in turn numbers", func(t *testing.T) {
		sc := validSession()
		sc.Turns = append(sc.Turns, domain.Turn{TurnNumber: 3, Role: domain.RoleUser, Content: "x", InputMode: domain.InputText, Timestamp: time.Now()})
		requireValidationErr(t, val.ValidateSession(sc), "Turns[1]")
	})

	t.Run("bad nested extracted data", func(t *testing.T) {
		sc := validSession()
		sc.ExtractedData.StressLevel = domain.Ptr(42)
		requireValidationErr(t, val.ValidateSession(sc), "StressLevel")
	})
}

func TestValidateGenerationInput(t *testing.T) {
	require.NoError(t, val.ValidateGenerationInput(domain.GenerationInput{Locale: domain.LocaleJA}))
	requireValidationErr(t, val.ValidateGenerationInput(domain.GenerationInput{Locale: "de"}), "Locale")
	requireValidationErr(t, val.ValidateGenerationInput(domain.GenerationInput{Locale: domain.LocaleEN, TargetDays: -1}), "TargetDays")
}

func TestValidateItinerary(t *testing.T) {
	gen := func() *domain.Itinerary {
		return itinerary.NewEngine().Generate(domain.GenerationInput{
			ProfileData: domain.ExtractedData{EmotionalState: []string{"stressed"}},
			Locale:      domain.LocaleEN,
			TargetDays:  4,
		})
	}
	require.NoError(t, val.ValidateItinerary(gen()))

	tests := []struct {
		name  string
		edit  func(*domain.Itinerary)
		field string
	}{
		{"weights do not sum to one", func(it *domain.Itinerary) { it.PillarWeights[domain.PillarToji] += 0.2 }, "PillarWeights"},
		{"missing pillar", func(it *domain.Itinerary) { delete(it.PillarWeights, domain.PillarRest) }, "PillarWeights"},
		{"weight above one", func(it *domain.Itinerary) { it.PillarWeights[domain.PillarZen] = 1.5 }, "PillarWeights"},
		{"curve too short", func(it *domain.Itinerary) { it.IntensityCurve = it.IntensityCurve[:2] }, "IntensityCurve"},
		{"curve out of range", func(it *domain.Itinerary) { it.IntensityCurve[0] = 1.2 }, "IntensityCurve"},
		{"day numbering", func(it *domain.Itinerary) { it.Days[1].DayNumber = 7 }, "DayNumber"},
		{"two blocks", func(it *domain.Itinerary) { it.Days[0].Blocks = it.Days[0].Blocks[:2] }, "Blocks"},
		{"slot order", func(it *domain.Itinerary) {
			it.Days[0].Blocks[0], it.Days[0].Blocks[1] = it.Days[0].Blocks[1], it.Days[0].Blocks[0]
		}, "Blocks[0]"},
		{"unknown pillar on block", func(it *domain.Itinerary) { it.Days[2].Blocks[1].Pillar = "karaoke" }, "Pillar"},
		{"empty title", func(it *domain.Itinerary) { it.Title = "" }, "Title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := gen()
			tt.edit(it)
			requireValidationErr(t, val.ValidateItinerary(it), tt.field)
		})
	}

	requireValidationErr(t, val.ValidateItinerary(nil), "Itinerary")
}
