package derive

import (
	"time"

	"github.com/Veraticus/smartspend/internal/model"
)

// recentCount is the length of the dashboard's recent-transactions list.
const recentCount = 5

// GoalView pairs a goal with its projection.
type GoalView struct {
	Goal       model.Goal
	Projection GoalProjection
}

// Dashboard is everything a renderer needs for one period.
type Dashboard struct {
	Period         time.Time
	View           ViewMode
	Buckets        []Bucket
	Categories     []CategorySlice
	Recent         []model.Transaction
	Goals          []GoalView
	Portfolio      Portfolio
	Aggregate      Aggregate
	Limit          LimitStatus
	MonthlyDue     float64
	ActiveInstalls int
	TodosRemaining int
}

// BuildDashboard derives the dashboard of ref's month from s.
func BuildDashboard(s model.Snapshot, ref time.Time, view ViewMode, now time.Time) Dashboard {
	agg := MonthlyAggregate(s.Transactions, ref)
	d := Dashboard{
		Period:         ref,
		View:           view,
		Aggregate:      agg,
		Limit:          ComputeLimitStatus(s.MonthlyLimits, agg.Total, ref, now),
		Buckets:        Buckets(view, s.Transactions, s.MonthlyLimits, ref),
		Categories:     CategoryBreakdown(s.Transactions, s.Categories, ref),
		Recent:         Recent(s.Transactions, recentCount),
		Portfolio:      SummarizePortfolio(s.Investments),
		MonthlyDue:     TotalMonthlyDue(s.Installments),
		ActiveInstalls: ActiveInstallments(s.Installments),
	}
	for _, g := range s.Goals {
		d.Goals = append(d.Goals, GoalView{Goal: g, Projection: ProjectGoal(g, now)})
	}
	for _, t := range s.Todos {
		if !t.Completed {
			d.TodosRemaining++
		}
	}
	return d
}
