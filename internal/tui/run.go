// Package tui implements the interactive dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/smartspend/internal/tracker"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrNoController is returned by Run without a controller.
var ErrNoController = errors.New("tui: no controller configured")

// Run shows the dashboard until the user quits or ctx is canceled. Push
// results from the controller are shown on the status line while it runs.
func Run(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Controller == nil {
		return ErrNoController
	}

	p := tea.NewProgram(newModel(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	cfg.Controller.ObservePushes(func(r tracker.PushResult) {
		p.Send(pushMsg(r))
	})
	defer func() {
		cfg.Controller.Wait()
		cfg.Controller.ObservePushes(nil)
	}()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
