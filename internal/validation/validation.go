// Package validation is the acceptance gate between untrusted input (request
// bodies, rows read back from storage) and the profiling core, which assumes
// validated values and never re-checks them.
package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"

	"github.com/go-playground/validator/v10"
)

const weightTolerance = 1e-6

// Validator checks domain values against struct tags plus the structural
// rules tags cannot express.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the domain enum tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "phase", func(fl validator.FieldLevel) bool {
		return domain.Phase(fl.Field().String()).Valid()
	})
	mustRegister(v, "pillar", func(fl validator.FieldLevel) bool {
		return domain.Pillar(fl.Field().String()).Valid()
	})
	mustRegister(v, "locale", func(fl validator.FieldLevel) bool {
		return domain.Locale(fl.Field().String()).Valid()
	})
	mustRegister(v, "inputmode", func(fl validator.FieldLevel) bool {
		return domain.InputMode(fl.Field().String()).Valid()
	})
	mustRegister(v, "role", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).Valid()
	})
	mustRegister(v, "intensity", func(fl validator.FieldLevel) bool {
		return domain.Intensity(fl.Field().String()).Valid()
	})
	mustRegister(v, "timeslot", func(fl validator.FieldLevel) bool {
		return domain.TimeSlot(fl.Field().String()).Valid()
	})
	mustRegister(v, "safetyflag", func(fl validator.FieldLevel) bool {
		return domain.SafetyFlag(fl.Field().String()).Valid()
	})
	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

// ValidateTurn checks a single conversation turn.
func (val *Validator) ValidateTurn(t domain.Turn) error {
	if err := val.structErr(t); err != nil {
		return err
	}
	if t.Timestamp.IsZero() {
		return &domain.ErrValidation{Field: "Turn.Timestamp", Message: "must be set"}
	}
	return nil
}

// ValidateExtractedData checks value ranges and enum members of a profile.
func (val *Validator) ValidateExtractedData(d domain.ExtractedData) error {
	return val.structErr(d)
}

// ValidateSession checks a whole session snapshot, including that turn
// numbers start at 1 and have no gaps.
func (val *Validator) ValidateSession(sc domain.SessionContext) error {
	if err := val.structErr(sc); err != nil {
		return err
	}
	for i, t := range sc.Turns {
		if t.TurnNumber != i+1 {
			return &domain.ErrValidation{
				Field:   fmt.Sprintf("SessionContext.Turns[%d].TurnNumber", i),
				Message: fmt.Sprintf("expected %d, got %d", i+1, t.TurnNumber),
			}
		}
		if t.Timestamp.IsZero() {
			return &domain.ErrValidation{
				Field:   fmt.Sprintf("SessionContext.Turns[%d].Timestamp", i),
				Message: "must be set",
			}
		}
	}
	return nil
}

// ValidateGenerationInput checks an itinerary request.
func (val *Validator) ValidateGenerationInput(in domain.GenerationInput) error {
	return val.structErr(in)
}

// ValidateItinerary checks an itinerary: weights cover every pillar and sum
// to 1, the curve has one value per day, days are numbered from 1 and each
// day holds exactly a morning, afternoon and evening block in that order.
func (val *Validator) ValidateItinerary(it *domain.Itinerary) error {
	if it == nil {
		return &domain.ErrValidation{Field: "Itinerary", Message: "is nil"}
	}
	if err := val.structErr(it); err != nil {
		return err
	}

	var total float64
	for _, p := range domain.AllPillars {
		w, ok := it.PillarWeights[p]
		if !ok {
			return &domain.ErrValidation{Field: "Itinerary.PillarWeights", Message: fmt.Sprintf("missing pillar %s", p)}
		}
		total += w
	}
	if math.Abs(total-1) > weightTolerance {
		return &domain.ErrValidation{Field: "Itinerary.PillarWeights", Message: fmt.Sprintf("weights sum to %f, want 1", total)}
	}

	if len(it.IntensityCurve) != it.TotalDays {
		return &domain.ErrValidation{
			Field:   "Itinerary.IntensityCurve",
			Message: fmt.Sprintf("has %d values for %d days", len(it.IntensityCurve), it.TotalDays),
		}
	}
	if len(it.Days) != it.TotalDays {
		return &domain.ErrValidation{
			Field:   "Itinerary.Days",
			Message: fmt.Sprintf("has %d days, totalDays is %d", len(it.Days), it.TotalDays),
		}
	}

	for i, day := range it.Days {
		field := fmt.Sprintf("Itinerary.Days[%d]", i)
		if day.DayNumber != i+1 {
			return &domain.ErrValidation{Field: field + ".DayNumber", Message: fmt.Sprintf("expected %d, got %d", i+1, day.DayNumber)}
		}
		if len(day.Blocks) != len(domain.DaySlots) {
			return &domain.ErrValidation{Field: field + ".Blocks", Message: fmt.Sprintf("expected %d blocks, got %d", len(domain.DaySlots), len(day.Blocks))}
		}
		for j, b := range day.Blocks {
			if b.SequenceOrder != j || b.TimeSlot != domain.DaySlots[j] {
				return &domain.ErrValidation{
					Field:   fmt.Sprintf("%s.Blocks[%d]", field, j),
					Message: fmt.Sprintf("expected %s at position %d, got %s at %d", domain.DaySlots[j], j, b.TimeSlot, b.SequenceOrder),
				}
			}
			if b.DayNumber != day.DayNumber {
				return &domain.ErrValidation{Field: fmt.Sprintf("%s.Blocks[%d].DayNumber", field, j), Message: "does not match its day"}
			}
		}
	}
	return nil
}

// ValidateRequest checks a decoded API request body against its tags.
func (val *Validator) ValidateRequest(req any) error {
	return val.structErr(req)
}

// structErr runs the tag rules and reports the first failure as a domain error.
func (val *Validator) structErr(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &domain.ErrValidation{Field: fe.Namespace(), Message: describe(fe)}
	}
	return &domain.ErrValidation{Field: "", Message: err.Error()}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "uuid":
		return "must be a UUID"
	case "phase", "pillar", "locale", "inputmode", "role", "intensity", "timeslot", "safetyflag":
		return fmt.Sprintf("unknown %s %q", fe.Tag(), fmt.Sprint(fe.Value()))
	}
	return strings.TrimSpace(fmt.Sprintf("failed %s %s", fe.Tag(), fe.Param()))
}
