package tracker

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/storage"
)

// GoalInput is the editable part of a goal. Deadline may be empty.
type GoalInput struct {
	Name     string
	Color    string
	Deadline string
	Target   float64
}

// EntryKind is the direction of a goal entry.
type EntryKind string

// Goal entry kinds.
const (
	Deposit  EntryKind = "deposit"
	Withdraw EntryKind = "withdraw"
)

// DefaultGoalColor is used when a goal is added without a color.
const DefaultGoalColor = "#10b981"

func (c *Controller) validateGoal(in GoalInput) (GoalInput, error) {
	name, err := requireText("name", in.Name)
	if err != nil {
		return in, err
	}
	if err := requirePositive("target", in.Target); err != nil {
		return in, err
	}
	if strings.TrimSpace(in.Deadline) != "" {
		d, err := requireDate("deadline", in.Deadline, c.loc)
		if err != nil {
			return in, err
		}
		in.Deadline = d
	} else {
		in.Deadline = ""
	}
	in.Name = name
	if in.Color == "" {
		in.Color = DefaultGoalColor
	}
	return in, nil
}

func (c *Controller) goal(id string) (*model.Goal, error) {
	i := slices.IndexFunc(c.snap.Goals, func(g model.Goal) bool { return g.ID == id })
	if i < 0 {
		return nil, notFound("goal", id)
	}
	return &c.snap.Goals[i], nil
}

// AddGoal creates a goal starting at zero.
func (c *Controller) AddGoal(ctx context.Context, in GoalInput) (model.Goal, error) {
	in, err := c.validateGoal(in)
	if err != nil {
		return model.Goal{}, err
	}
	g := model.Goal{
		ID:        model.NewID(),
		Name:      in.Name,
		Color:     in.Color,
		Deadline:  in.Deadline,
		Target:    in.Target,
		StartDate: c.now().UTC().Format(time.RFC3339),
		History:   []model.GoalEntry{},
	}
	c.snap.Goals = append(c.snap.Goals, g)
	return g, c.commit(ctx, storage.KeyGoals)
}

// UpdateGoal edits goal id. Balance and history are untouched.
func (c *Controller) UpdateGoal(ctx context.Context, id string, in GoalInput) error {
	in, err := c.validateGoal(in)
	if err != nil {
		return err
	}
	g, err := c.goal(id)
	if err != nil {
		return err
	}
	g.Name = in.Name
	g.Color = in.Color
	g.Deadline = in.Deadline
	g.Target = in.Target
	return c.commit(ctx, storage.KeyGoals)
}

// DeleteGoal removes goal id.
func (c *Controller) DeleteGoal(ctx context.Context, id string) error {
	n := len(c.snap.Goals)
	c.snap.Goals = slices.DeleteFunc(c.snap.Goals, func(g model.Goal) bool { return g.ID == id })
	if len(c.snap.Goals) == n {
		return notFound("goal", id)
	}
	return c.commit(ctx, storage.KeyGoals)
}

// AppendGoalEntry records a deposit or withdrawal of amount (always
// positive) and returns the new balance. An empty note gets the default
// for its kind.
func (c *Controller) AppendGoalEntry(ctx context.Context, id string, kind EntryKind, amount float64, note string) (float64, error) {
	if err := requirePositive("amount", amount); err != nil {
		return 0, err
	}
	signed := amount
	switch kind {
	case Deposit:
	case Withdraw:
		signed = -amount
	default:
		return 0, invalid("kind", fmt.Sprintf("must be %q or %q", Deposit, Withdraw))
	}

	g, err := c.goal(id)
	if err != nil {
		return 0, err
	}
	g.Append(signed, strings.TrimSpace(note), c.now().UTC())
	return g.Current, c.commit(ctx, storage.KeyGoals)
}
