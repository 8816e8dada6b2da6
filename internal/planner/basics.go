package planner

import (
	"fmt"
	"math"
)

// Fields of the basics (first step) form.
const (
	FieldDestination = "destination"
	FieldDateRange   = "date_range"
	FieldBudget      = "budget"
)

func basicsRules() map[string]Rule {
	return map[string]Rule{
		FieldDestination: Required("Please enter a destination"),
		FieldDateRange:   Required("Please choose the dates"),
		FieldBudget:      Between(0, 100, "Budget must be between 0 and 100"),
	}
}

func basicsValues(d TripDraft) map[string]any {
	return map[string]any{
		FieldDestination: d.Destination,
		FieldDateRange:   d.DateRange,
		FieldBudget:      d.Budget,
	}
}

// NewBasicsForm builds the first-step form seeded from d.
func NewBasicsForm(d TripDraft) *Form {
	return NewForm(basicsValues(d), basicsRules())
}

// coerceBasicsValue converts decoded JSON values into the types the basics
// rules expect.
func coerceBasicsValue(field string, value any) (any, error) {
	switch field {
	case FieldDestination, FieldDateRange:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", ErrValidation, field)
		}
		return s, nil
	case FieldBudget:
		n, ok := toInt(value)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a whole number", ErrValidation, field)
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func basicsPatch(values map[string]any) DraftPatch {
	var p DraftPatch
	if s, ok := values[FieldDestination].(string); ok {
		p.Destination = &s
	}
	if s, ok := values[FieldDateRange].(string); ok {
		p.DateRange = &s
	}
	if n, ok := toInt(values[FieldBudget]); ok {
		p.Budget = &n
	}
	return p
}
