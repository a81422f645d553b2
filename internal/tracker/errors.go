package tracker

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Veraticus/smartspend/internal/model"
)

// Mutation errors.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

// FieldError is a rejected input field. It matches ErrValidation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

func invalid(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func requireNonNegative(field string, v float64) error {
	if !finite(v) || v < 0 {
		return invalid(field, "must be a non-negative number")
	}
	return nil
}

func requirePositive(field string, v float64) error {
	if !finite(v) || v <= 0 {
		return invalid(field, "must be greater than zero")
	}
	return nil
}

func requireText(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid(field, "is required")
	}
	return v, nil
}

func requireDate(field, v string, loc *time.Location) (string, error) {
	t, err := model.ParseDate(strings.TrimSpace(v), loc)
	if err != nil {
		return "", invalid(field, "must be a YYYY-MM-DD date")
	}
	return model.FormatDate(t), nil
}

func requireMonth(field, v string) (string, error) {
	t, err := time.Parse(model.MonthLayout, strings.TrimSpace(v))
	if err != nil {
		return "", invalid(field, "must be a YYYY-MM month")
	}
	return model.MonthKey(t), nil
}
