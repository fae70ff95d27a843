// Package itinerary turns a collected traveler profile into a multi-day
// wellness plan. Generation is deterministic: apart from identifiers, equal
// inputs produce equal itineraries.
package itinerary

import (
	"github.com/boddenberg/rij-wellness-bfa/internal/domain"

	"github.com/google/uuid"
)

// DefaultDays is the trip length used when the input does not ask for one.
const DefaultDays = 3

// Engine generates itineraries. It holds no per-request state and is safe
// for concurrent use.
type Engine struct {
	defaultDays int
	newID       func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithDefaultDays sets the trip length used when GenerationInput.TargetDays is zero.
func WithDefaultDays(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.defaultDays = days
		}
	}
}

// WithIDGenerator replaces the identifier source for itineraries and blocks.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// NewEngine creates an itinerary engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{defaultDays: DefaultDays, newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate builds an itinerary for the given profile.
func (e *Engine) Generate(in domain.GenerationInput) *domain.Itinerary {
	days := in.TargetDays
	if days <= 0 {
		days = e.defaultDays
	}
	locale := in.Locale.OrDefault()

	weights := CalculatePillarWeights(in.ProfileData)
	curve := GenerateIntensityCurve(days)

	out := &domain.Itinerary{
		ID:               e.newID(),
		Title:            title(days, locale),
		TotalDays:        days,
		OverallNarrative: overallNarrative(days, locale),
		PillarWeights:    weights,
		IntensityCurve:   curve,
		Days:             make([]domain.Day, 0, days),
	}

	for dayNumber := 1; dayNumber <= days; dayNumber++ {
		blocks := e.selectBlocks(dayNumber, weights, locale)
		theme := DayTheme(dayNumber, days, blocks, locale)
		out.Days = append(out.Days, domain.Day{
			DayNumber: dayNumber,
			Theme:     theme,
			Narrative: DayNarrative(dayNumber, days, theme, locale),
			Blocks:    blocks,
		})
	}

	ranked := RankPillars(weights, true)
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	out.Description = description(ranked, locale)

	return out
}

// SelectBlocksForDay fills the morning, afternoon and evening slots of one
// day. Pillars rotate by weight rank starting at an offset derived from
// dayNumber, so each day is computed independently of the others.
func SelectBlocksForDay(dayNumber int, weights domain.PillarWeights, locale domain.Locale) []domain.Block {
	return selectBlocks(dayNumber, weights, locale, uuid.NewString)
}

func (e *Engine) selectBlocks(dayNumber int, weights domain.PillarWeights, locale domain.Locale) []domain.Block {
	return selectBlocks(dayNumber, weights, locale, e.newID)
}

func selectBlocks(dayNumber int, weights domain.PillarWeights, locale domain.Locale, newID func() string) []domain.Block {
	ranked := RankPillars(weights, false)
	if len(ranked) == 0 {
		ranked = RankPillars(BaseWeights(), false)
	}

	start := (dayNumber - 1) % len(ranked)
	if start < 0 {
		start += len(ranked)
	}

	blocks := make([]domain.Block, 0, len(domain.DaySlots))
	for i, slot := range domain.DaySlots {
		target := ranked[(start+i)%len(ranked)]
		t := pickTemplate(target, slot)
		name := t.title.in(locale)
		blocks = append(blocks, domain.Block{
			ID:              newID(),
			DayNumber:       dayNumber,
			SequenceOrder:   i,
			Title:           name,
			Description:     t.description.in(locale),
			Pillar:          t.pillar,
			TimeSlot:        t.timeSlot,
			DurationMinutes: t.durationMinutes,
			Intensity:       t.intensity,
			PlanB: &domain.PlanB{
				Title:       "Alternative: " + name,
				Description: t.planB.in(locale),
			},
			Notes: blockNotes.in(locale),
		})
	}
	return blocks
}
