package tracker

import (
	"context"
	"slices"
	"time"

	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/storage"
)

func (c *Controller) todo(id string) (*model.Todo, error) {
	i := slices.IndexFunc(c.snap.Todos, func(t model.Todo) bool { return t.ID == id })
	if i < 0 {
		return nil, notFound("todo", id)
	}
	return &c.snap.Todos[i], nil
}

// AddTodo puts a new open item at the top of the list.
func (c *Controller) AddTodo(ctx context.Context, text string) (model.Todo, error) {
	text, err := requireText("text", text)
	if err != nil {
		return model.Todo{}, err
	}
	t := model.Todo{
		ID:        model.NewID(),
		Text:      text,
		CreatedAt: c.now().UTC().Format(time.RFC3339),
	}
	c.snap.Todos = slices.Insert(c.snap.Todos, 0, t)
	return t, c.commit(ctx, storage.KeyTodos)
}

// ToggleTodo flips the completed flag of item id and returns the new value.
func (c *Controller) ToggleTodo(ctx context.Context, id string) (bool, error) {
	t, err := c.todo(id)
	if err != nil {
		return false, err
	}
	t.Completed = !t.Completed
	return t.Completed, c.commit(ctx, storage.KeyTodos)
}

// DeleteTodo removes item id.
func (c *Controller) DeleteTodo(ctx context.Context, id string) error {
	n := len(c.snap.Todos)
	c.snap.Todos = slices.DeleteFunc(c.snap.Todos, func(t model.Todo) bool { return t.ID == id })
	if len(c.snap.Todos) == n {
		return notFound("todo", id)
	}
	return c.commit(ctx, storage.KeyTodos)
}

// Todos returns the list with open items first, each group in list order.
func (c *Controller) Todos() []model.Todo {
	out := slices.Clone(c.snap.Todos)
	slices.SortStableFunc(out, func(a, b model.Todo) int {
		switch {
		case a.Completed == b.Completed:
			return 0
		case a.Completed:
			return 1
		default:
			return -1
		}
	})
	return out
}
