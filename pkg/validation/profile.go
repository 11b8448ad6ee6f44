package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/guillaumekey/yacht-calculate/internal/estimator"
	"github.com/guillaumekey/yacht-calculate/pkg/format"
)

// Error reports the rejected fields of a yacht profile, keyed by their JSON
// name.
type Error struct {
	Schedule string
	Fields   map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return fmt.Sprintf("invalid yacht profile for schedule %s: %s", e.Schedule, strings.Join(parts, "; "))
}

// Validator checks yacht profiles against the input limits of a schedule.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

type profileInput struct {
	Value       float64 `json:"value" validate:"gt=0"`
	Length      float64 `json:"length" validate:"gt=0"`
	CrewMembers int     `json:"crewMembers" validate:"gte=0"`
}

// NewValidator builds a Validator reporting fields by their JSON name.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

var defaultValidator = NewValidator()

// ValidateProfile checks p with the shared validator.
func ValidateProfile(schedule estimator.Schedule, p estimator.Profile) error {
	return defaultValidator.ValidateProfile(schedule, p)
}

// ValidateProfile rejects non-positive inputs and inputs outside the
// schedule limits. The returned error is an *Error.
func (v *Validator) ValidateProfile(schedule estimator.Schedule, p estimator.Profile) error {
	fields := make(map[string]string)

	limits := schedule.Limits
	input := profileInput{Value: p.Value, Length: p.Length}
	if limits.CrewInput {
		input.CrewMembers = p.CrewMembers
	}
	if err := v.validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return err
		}
		for _, fieldErr := range validationErrs {
			fields[fieldErr.Field()] = describe(fieldErr)
		}
	}

	v.checkRange(fields, "value", p.Value, limits.MinValue, limits.MaxValue, format.Currency)
	v.checkRange(fields, "length", p.Length, limits.MinLength, limits.MaxLength, formatMeters)
	if limits.CrewInput {
		v.checkRange(fields, "crewMembers", float64(p.CrewMembers), float64(limits.MinCrew), float64(limits.MaxCrew), formatCount)
	}

	if len(fields) == 0 {
		return nil
	}
	return &Error{Schedule: schedule.Name, Fields: fields}
}

func (v *Validator) checkRange(fields map[string]string, name string, value, min, max float64, render func(float64) string) {
	if _, rejected := fields[name]; rejected {
		return
	}
	tag := "gte=" + formatParam(min) + ",lte=" + formatParam(max)
	if err := v.validate.Var(value, tag); err != nil {
		fields[name] = fmt.Sprintf("must be between %s and %s", render(min), render(max))
	}
}

func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "gt":
		return "must be greater than " + fieldErr.Param()
	case "gte":
		return "must be at least " + fieldErr.Param()
	default:
		return "failed " + fieldErr.Tag() + " validation"
	}
}

func formatParam(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatMeters(value float64) string {
	return formatParam(value) + " m"
}

func formatCount(value float64) string {
	return formatParam(value)
}
