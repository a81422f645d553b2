package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// MockValues is an in-memory ValuesAPI for tests. Each tab is a grid of
// cells addressed by 1-based A1 ranges.
type MockValues struct {
	// Errs is consumed one per call before the call runs; nil entries succeed.
	Errs  []error
	tabs  map[string][][]any
	Calls int
	mu    sync.Mutex
}

// NewMockValues creates an empty spreadsheet.
func NewMockValues() *MockValues {
	return &MockValues{tabs: make(map[string][][]any)}
}

// Grid returns a copy of a tab's cells.
func (m *MockValues) Grid(tab string) [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	grid := m.tabs[tab]
	out := make([][]any, len(grid))
	for i, row := range grid {
		out[i] = append([]any(nil), row...)
	}
	return out
}

// SetGrid replaces a tab's cells, creating the tab.
func (m *MockValues) SetGrid(tab string, grid [][]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tabs[tab] = grid
}

func (m *MockValues) nextErr() error {
	m.Calls++
	if len(m.Errs) == 0 {
		return nil
	}
	err := m.Errs[0]
	m.Errs = m.Errs[1:]
	return err
}

// EnsureSheet implements ValuesAPI.
func (m *MockValues) EnsureSheet(_ context.Context, _, title string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.nextErr(); err != nil {
		return false, err
	}
	if _, ok := m.tabs[title]; ok {
		return false, nil
	}
	m.tabs[title] = nil
	return true, nil
}

// Get implements ValuesAPI.
func (m *MockValues) Get(_ context.Context, _, rng string) ([][]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.nextErr(); err != nil {
		return nil, err
	}

	tab, _, row, err := parseRange(rng)
	if err != nil {
		return nil, err
	}
	grid, ok := m.tabs[tab]
	if !ok {
		return nil, fmt.Errorf("unable to parse range: %s", rng)
	}

	var out [][]any
	for i := row - 1; i < len(grid); i++ {
		out = append(out, append([]any(nil), grid[i]...))
	}
	return out, nil
}

// Append implements ValuesAPI.
func (m *MockValues) Append(_ context.Context, _, rng string, rows [][]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.nextErr(); err != nil {
		return err
	}

	tab, _, _, err := parseRange(rng)
	if err != nil {
		return err
	}
	for _, r := range rows {
		m.tabs[tab] = append(m.tabs[tab], append([]any(nil), r...))
	}
	return nil
}

// Update implements ValuesAPI.
func (m *MockValues) Update(_ context.Context, _, rng string, rows [][]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.nextErr(); err != nil {
		return err
	}

	tab, col, row, err := parseRange(rng)
	if err != nil {
		return err
	}
	grid := m.tabs[tab]
	for i, r := range rows {
		ri := row - 1 + i
		for len(grid) <= ri {
			grid = append(grid, nil)
		}
		for j, v := range r {
			ci := col + j
			for len(grid[ri]) <= ci {
				grid[ri] = append(grid[ri], "")
			}
			grid[ri][ci] = v
		}
	}
	m.tabs[tab] = grid
	return nil
}

// parseRange splits "'Tab'!C5:D5" into the tab, the zero-based start column
// and the 1-based start row (1 when the range names whole columns).
func parseRange(rng string) (string, int, int, error) {
	tab, cells, ok := strings.Cut(rng, "!")
	if !ok {
		return "", 0, 0, fmt.Errorf("range %q has no sheet name", rng)
	}
	tab = strings.Trim(tab, "'")

	start, _, _ := strings.Cut(cells, ":")
	letters := strings.TrimRight(start, "0123456789")
	if len(letters) != 1 || letters[0] < 'A' || letters[0] > 'Z' {
		return "", 0, 0, fmt.Errorf("unsupported range %q", rng)
	}
	row := 1
	if digits := start[len(letters):]; digits != "" {
		n, err := strconv.Atoi(digits)
		if err != nil {
			return "", 0, 0, fmt.Errorf("unsupported range %q: %w", rng, err)
		}
		row = n
	}
	return tab, int(letters[0] - 'A'), row, nil
}
