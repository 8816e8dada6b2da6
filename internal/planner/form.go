package planner

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Rule checks a field value and returns an error message, or "" when valid.
type Rule func(value any) string

var fieldValidator = validator.New()

// Required fails for nil values, empty or whitespace-only strings and zero values.
func Required(message string) Rule {
	return func(value any) string {
		if value == nil {
			return message
		}
		if s, ok := value.(string); ok {
			value = strings.TrimSpace(s)
		}
		if err := fieldValidator.Var(value, "required"); err != nil {
			return message
		}
		return ""
	}
}

// Between fails for numbers outside [min, max].
func Between(min, max int, message string) Rule {
	tag := fmt.Sprintf("min=%d,max=%d", min, max)
	return func(value any) string {
		switch value.(type) {
		case int, int32, int64, float32, float64:
		default:
			return message
		}
		if err := fieldValidator.Var(value, tag); err != nil {
			return message
		}
		return ""
	}
}

// ISODate fails for strings that are not YYYY-MM-DD. Empty strings pass; pair
// it with Required when the field is mandatory.
func ISODate(message string) Rule {
	return func(value any) string {
		s, ok := value.(string)
		if !ok {
			return message
		}
		if s == "" {
			return ""
		}
		if err := fieldValidator.Var(s, "datetime=2006-01-02"); err != nil {
			return message
		}
		return ""
	}
}

// Form holds the values of one form together with its validation state.
// Errors of a field only surface once the field has been touched (blurred) or
// ValidateAll has run.
type Form struct {
	mu      sync.Mutex
	initial map[string]any
	values  map[string]any
	rules   map[string]Rule
	touched map[string]bool
	errors  map[string]string
}

// NewForm creates a form over the given initial values. Fields without a rule
// are always valid.
func NewForm(initial map[string]any, rules map[string]Rule) *Form {
	f := &Form{
		initial: copyValues(initial),
		rules:   make(map[string]Rule, len(rules)),
	}
	for k, r := range rules {
		if r != nil {
			f.rules[k] = r
		}
	}
	f.reset(initial)
	return f
}

func copyValues(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (f *Form) reset(values map[string]any) {
	f.values = copyValues(values)
	f.touched = make(map[string]bool)
	f.errors = make(map[string]string)
}

func (f *Form) check(field string, value any) string {
	if r, ok := f.rules[field]; ok {
		return r(value)
	}
	return ""
}

func (f *Form) record(field, msg string) {
	if msg == "" {
		delete(f.errors, field)
		return
	}
	f.errors[field] = msg
}

// Change sets a field value. A touched field is re-validated immediately.
func (f *Form) Change(field string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	f.values[field] = value
	if f.touched[field] {
		f.record(field, f.check(field, value))
	}
	return nil
}

// Blur marks a field as touched and validates its current value.
func (f *Form) Blur(field string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	f.touched[field] = true
	f.record(field, f.check(field, f.values[field]))
	return nil
}

// ValidateAll validates every field that has a rule, marks all fields as
// touched, replaces the recorded errors and reports whether none failed.
func (f *Form) ValidateAll() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	errs := make(map[string]string)
	for field, rule := range f.rules {
		if msg := rule(f.values[field]); msg != "" {
			errs[field] = msg
		}
	}
	f.errors = errs
	for field := range f.values {
		f.touched[field] = true
	}
	return len(errs) == 0
}

// Values returns a copy of the current values.
func (f *Form) Values() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyValues(f.values)
}

// Errors returns a copy of the visible errors.
func (f *Form) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

func (f *Form) Touched(field string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched[field]
}

// Reset restores the initial values and clears errors and touched state.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset(f.initial)
}

// Load replaces the values and the initial snapshot, clearing validation state.
func (f *Form) Load(values map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initial = copyValues(values)
	f.reset(values)
}
