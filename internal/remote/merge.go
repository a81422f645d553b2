package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/smartspend/internal/model"
)

// MergeBlob overwrites each field of dst that is present and non-null in
// blob. Absent fields keep their local values. A field that fails to decode
// is skipped and reported; the others are still applied. The returned names
// are the fields that were overwritten.
func MergeBlob(dst *model.Snapshot, blob []byte) ([]string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(blob, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	targets := []struct {
		name  string
		apply func(json.RawMessage) error
	}{
		{"transactions", func(r json.RawMessage) error { return decodeAssign(r, &dst.Transactions) }},
		{"categories", func(r json.RawMessage) error { return decodeAssign(r, &dst.Categories) }},
		{"installments", func(r json.RawMessage) error { return decodeAssign(r, &dst.Installments) }},
		{"goals", func(r json.RawMessage) error { return decodeAssign(r, &dst.Goals) }},
		{"todos", func(r json.RawMessage) error { return decodeAssign(r, &dst.Todos) }},
		{"investments", func(r json.RawMessage) error { return decodeAssign(r, &dst.Investments) }},
		{"limits", func(r json.RawMessage) error { return decodeAssign(r, &dst.MonthlyLimits) }},
	}

	var (
		merged []string
		errs   []error
	)
	for _, t := range targets {
		raw, ok := fields[t.name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		if err := t.apply(raw); err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", t.name, err))
			continue
		}
		merged = append(merged, t.name)
	}
	return merged, errors.Join(errs...)
}

// decodeAssign assigns to dst only when raw decodes.
func decodeAssign[T any](raw json.RawMessage, dst *T) error {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}
