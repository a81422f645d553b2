package derive

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/smartspend/internal/model"
)

// BulkScope selects the span removed by a bulk delete.
type BulkScope string

// Bulk delete scopes.
const (
	BulkDay   BulkScope = "day"
	BulkWeek  BulkScope = "week"
	BulkMonth BulkScope = "month"
)

// ParseBulkScope validates a scope name.
func ParseBulkScope(s string) (BulkScope, error) {
	switch v := BulkScope(strings.ToLower(strings.TrimSpace(s))); v {
	case BulkDay, BulkWeek, BulkMonth:
		return v, nil
	default:
		return "", fmt.Errorf("unknown bulk scope %q (want day, week or month)", s)
	}
}

// BulkRange is a resolved date selector.
type BulkRange struct {
	Scope BulkScope
	Start string // inclusive YYYY-MM-DD, empty for month scope
	End   string // inclusive YYYY-MM-DD, empty for month scope
	Month string // YYYY-MM, month scope only
}

// String describes the range for confirmation prompts.
func (r BulkRange) String() string {
	switch r.Scope {
	case BulkMonth:
		return "month " + r.Month
	case BulkWeek:
		return fmt.Sprintf("week %s to %s", r.Start, r.End)
	default:
		return "day " + r.Start
	}
}

// Matches reports whether t falls inside the range.
func (r BulkRange) Matches(t model.Transaction) bool {
	if r.Scope == BulkMonth {
		return t.InMonth(r.Month)
	}
	return t.InRange(r.Start, r.End)
}

// BulkRangeFor resolves anchor under scope. Day and week anchors are
// YYYY-MM-DD; the week runs Monday through Sunday around the anchor. Month
// anchors may be YYYY-MM or YYYY-MM-DD.
func BulkRangeFor(scope BulkScope, anchor string) (BulkRange, error) {
	anchor = strings.TrimSpace(anchor)
	r := BulkRange{Scope: scope}

	switch scope {
	case BulkMonth:
		if len(anchor) > len(model.MonthLayout) {
			d, err := time.Parse(model.DateLayout, anchor)
			if err != nil {
				return BulkRange{}, fmt.Errorf("invalid month %q: %w", anchor, err)
			}
			anchor = d.Format(model.MonthLayout)
		}
		if _, err := time.Parse(model.MonthLayout, anchor); err != nil {
			return BulkRange{}, fmt.Errorf("invalid month %q: %w", anchor, err)
		}
		r.Month = anchor
	case BulkDay, BulkWeek:
		d, err := model.ParseDate(anchor, time.UTC)
		if err != nil {
			return BulkRange{}, err
		}
		if scope == BulkDay {
			r.Start, r.End = anchor, anchor
			break
		}
		monday := mondayOf(d)
		r.Start = model.FormatDate(monday)
		r.End = model.FormatDate(monday.AddDate(0, 0, 6))
	default:
		return BulkRange{}, fmt.Errorf("unknown bulk scope %q", scope)
	}
	return r, nil
}

// CountMatches counts transactions inside r.
func CountMatches(txns []model.Transaction, r BulkRange) int {
	n := 0
	for _, t := range txns {
		if r.Matches(t) {
			n++
		}
	}
	return n
}
