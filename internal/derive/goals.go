package derive

import (
	"math"
	"time"

	"github.com/Veraticus/smartspend/internal/model"
)

// GoalStatus classifies a goal's progress.
type GoalStatus string

// Goal statuses.
const (
	GoalComplete   GoalStatus = "complete"
	GoalOverdue    GoalStatus = "overdue"
	GoalOnTrack    GoalStatus = "on-track"
	GoalNoDeadline GoalStatus = "no-deadline"
)

// daysPerMonth approximates a month for savings plans.
const daysPerMonth = 30

// GoalProjection is the savings plan of one goal as of a given day.
type GoalProjection struct {
	Status          GoalStatus
	Remaining       float64
	Percent         float64
	MonthsRemaining float64
	RequiredMonthly float64
	OriginalMonthly float64
	DaysLeft        int
	OriginalMonths  int
	HasPlan         bool
}

// ProjectGoal computes the monthly savings needed to reach g's target by its
// deadline. Months remaining are whole 30-day buckets, 0.5 when the deadline
// is less than a day away and 0 once it has passed. The original plan spreads
// the full target over the months between the start date and the deadline,
// never fewer than one.
func ProjectGoal(g model.Goal, today time.Time) GoalProjection {
	p := GoalProjection{Remaining: g.Target - g.Current}
	if g.Target > 0 {
		p.Percent = math.Min(100, g.Current/g.Target*100)
	}
	if p.Remaining <= 0 {
		p.Remaining = 0
		p.Status = GoalComplete
	}

	deadline, err := model.ParseDate(g.Deadline, time.UTC)
	if g.Deadline == "" || err != nil {
		if p.Status == "" {
			p.Status = GoalNoDeadline
		}
		return p
	}
	p.HasPlan = true

	p.DaysLeft = daysBetween(today, deadline)
	switch months := math.Ceil(float64(p.DaysLeft) / daysPerMonth); {
	case p.DaysLeft <= 0:
		p.MonthsRemaining = 0
	case months < 1:
		p.MonthsRemaining = 0.5
	default:
		p.MonthsRemaining = months
	}

	start := today
	if t, err := time.Parse(time.RFC3339, g.StartDate); err == nil {
		start = t.In(today.Location())
	}
	p.OriginalMonths = int(math.Ceil(float64(daysBetween(start, deadline)) / daysPerMonth))
	if p.OriginalMonths < 1 {
		p.OriginalMonths = 1
	}
	p.OriginalMonthly = g.Target / float64(p.OriginalMonths)

	switch {
	case p.Status == GoalComplete:
	case p.MonthsRemaining == 0:
		p.Status = GoalOverdue
	default:
		p.Status = GoalOnTrack
		p.RequiredMonthly = p.Remaining / p.MonthsRemaining
	}
	return p
}
