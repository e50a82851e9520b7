package storage

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/squeegee/internal/common"
	"github.com/Veraticus/squeegee/internal/model"
	"github.com/go-playground/validator/v10"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("servicedate", validateServiceDate)
	_ = v.RegisterValidation("clocktime", validateClockTime)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// validateServiceDate accepts calendar dates in YYYY-MM-DD form.
func validateServiceDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(model.DateLayout, fl.Field().String())
	return err == nil
}

// validateClockTime accepts HH:MM or HH:MM:SS on a 24 hour clock.
func validateClockTime(fl validator.FieldLevel) bool {
	return clockPattern.MatchString(fl.Field().String())
}

// validateRecord runs struct tags and folds failures into ErrInvalidRecord.
func (s *Store) validateRecord(record any) error {
	err := s.validate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", common.ErrInvalidRecord, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", common.ErrInvalidRecord, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "servicedate":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "clocktime":
		return fmt.Sprintf("%s must be a time in HH:MM format", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateDateRange(start, end string) error {
	from, err := time.Parse(model.DateLayout, start)
	if err != nil {
		return fmt.Errorf("%w: start %q", common.ErrInvalidRecord, start)
	}
	to, err := time.Parse(model.DateLayout, end)
	if err != nil {
		return fmt.Errorf("%w: end %q", common.ErrInvalidRecord, end)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidDateRange, start, end)
	}
	return nil
}
