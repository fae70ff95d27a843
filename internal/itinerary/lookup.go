package itinerary

import "github.com/boddenberg/rij-wellness-bfa/internal/domain"

// BlockByID finds a block anywhere in the itinerary.
func BlockByID(it *domain.Itinerary, blockID string) (domain.Block, bool) {
	if it == nil {
		return domain.Block{}, false
	}
	for _, day := range it.Days {
		for _, b := range day.Blocks {
			if b.ID == blockID {
				return b, true
			}
		}
	}
	return domain.Block{}, false
}

// DayBlocks returns the blocks of one day, or nil when the day does not exist.
func DayBlocks(it *domain.Itinerary, dayNumber int) []domain.Block {
	if it == nil {
		return nil
	}
	for _, day := range it.Days {
		if day.DayNumber == dayNumber {
			return day.Blocks
		}
	}
	return nil
}

// KeepPinned returns a copy of it where each pinned block replaces whatever
// sits at the same day and slot. Pinned blocks whose day is not part of it
// are dropped. Themes and narratives of touched days are rebuilt.
func KeepPinned(it *domain.Itinerary, pinned []domain.Block, locale domain.Locale) *domain.Itinerary {
	out := *it
	out.Days = make([]domain.Day, len(it.Days))
	for i, day := range it.Days {
		day.Blocks = append([]domain.Block(nil), day.Blocks...)
		out.Days[i] = day
	}

	for _, pin := range pinned {
		for i := range out.Days {
			day := &out.Days[i]
			if day.DayNumber != pin.DayNumber {
				continue
			}
			for j := range day.Blocks {
				if day.Blocks[j].TimeSlot == pin.TimeSlot {
					day.Blocks[j] = pin
					day.Blocks[j].SequenceOrder = j
				}
			}
			day.Theme = DayTheme(day.DayNumber, out.TotalDays, day.Blocks, locale)
			day.Narrative = DayNarrative(day.DayNumber, out.TotalDays, day.Theme, locale)
		}
	}
	return &out
}
