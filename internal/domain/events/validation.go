package events

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError carries a field -> messages map. All fields are
// validated before returning, not fail-fast on the first.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return "The given data was invalid."
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields under their wire names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CreateInput is the request payload for creating an event. Timestamps
// arrive as strings so that per-field parse failures surface as
// validation messages instead of a single decode error.
type CreateInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	StartTime   string  `json:"start_time" validate:"required"`
	EndTime     string  `json:"end_time" validate:"required"`
}

// UpdateInput uses pointers for "sometimes" semantics: a nil field was
// not supplied and keeps its stored value.
type UpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
}

type createValues struct {
	start time.Time
	end   time.Time
}

func (in CreateInput) validate() (createValues, error) {
	verr := &ValidationError{}
	collectFieldErrors(verr, validate.Struct(in))

	var values createValues
	if in.StartTime != "" {
		start, ok := parseDateTime(in.StartTime)
		if !ok {
			verr.add("start_time", "The start time field must be a valid date.")
		}
		values.start = start
	}
	if in.EndTime != "" {
		end, ok := parseDateTime(in.EndTime)
		if !ok {
			verr.add("end_time", "The end time field must be a valid date.")
		}
		values.end = end
	}

	if !values.start.IsZero() && !values.end.IsZero() && !values.end.After(values.start) {
		verr.add("end_time", "The end time must be after the start time.")
	}

	if !verr.empty() {
		return createValues{}, verr
	}
	return values, nil
}

type updateValues struct {
	start *time.Time
	end   *time.Time
}

// validate checks only the supplied fields. The end-time rule compares
// against the effective start time: the value supplied in the same
// update, or the event's stored start time otherwise.
func (in UpdateInput) validate(current *Event) (updateValues, error) {
	verr := &ValidationError{}
	collectFieldErrors(verr, validate.Struct(in))

	var values updateValues
	if in.StartTime != nil {
		start, ok := parseDateTime(*in.StartTime)
		if !ok {
			verr.add("start_time", "The start time field must be a valid date.")
		} else {
			values.start = &start
		}
	}
	if in.EndTime != nil {
		end, ok := parseDateTime(*in.EndTime)
		if !ok {
			verr.add("end_time", "The end time field must be a valid date.")
		} else {
			values.end = &end
		}
	}

	if values.end != nil {
		effectiveStart := current.StartTime
		if values.start != nil {
			effectiveStart = *values.start
		}
		if values.end.Before(effectiveStart) {
			verr.add("end_time", "The end time must be after the start time.")
		}
	}

	if !verr.empty() {
		return updateValues{}, verr
	}
	return values, nil
}

func collectFieldErrors(verr *ValidationError, err error) {
	if err == nil {
		return
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.add("payload", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		verr.add(fe.Field(), messageFor(fe))
	}
}

func messageFor(fe validator.FieldError) string {
	label := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", label, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDateTime(value string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
