package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/smartspend/internal/common"
	"github.com/Veraticus/smartspend/internal/model"
)

// UserTable stores users as rows of a spreadsheet tab: Username, Password,
// Data, LastUpdated, below a header row.
type UserTable struct {
	values ValuesAPI
	logger *slog.Logger
	config Config
}

// NewUserTable connects to Google Sheets and makes sure the users tab exists.
func NewUserTable(ctx context.Context, config Config, logger *slog.Logger) (*UserTable, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewUserTableWithAPI(ctx, googleValues{srv: srv}, config, logger)
}

// NewUserTableWithAPI builds a table over an arbitrary ValuesAPI.
func NewUserTableWithAPI(ctx context.Context, values ValuesAPI, config Config, logger *slog.Logger) (*UserTable, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.SheetName == "" {
		config.SheetName = DefaultSheetName
	}

	t := &UserTable{values: values, logger: logger, config: config}
	if err := t.ensure(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *UserTable) retryOptions() common.RetryOptions {
	return common.RetryOptions{
		MaxAttempts:  t.config.RetryAttempts + 1,
		InitialDelay: t.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

func (t *UserTable) ensure(ctx context.Context) error {
	var created bool
	err := common.WithRetry(ctx, func() error {
		var err error
		created, err = t.values.EnsureSheet(ctx, t.config.SpreadsheetID, t.config.SheetName)
		return err
	}, t.retryOptions())
	if err != nil {
		return fmt.Errorf("failed to prepare sheet %q: %w", t.config.SheetName, err)
	}
	if !created {
		return nil
	}

	err = common.WithRetry(ctx, func() error {
		return t.values.Update(ctx, t.config.SpreadsheetID, a1(t.config.SheetName, "A1:D1"), [][]any{header})
	}, t.retryOptions())
	if err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	t.logger.Info("created users sheet",
		"spreadsheet_id", t.config.SpreadsheetID,
		"sheet", t.config.SheetName)
	return nil
}

// Rows reads every user below the header.
func (t *UserTable) Rows(ctx context.Context) ([]model.UserRow, error) {
	var cells [][]any
	err := common.WithRetry(ctx, func() error {
		var err error
		cells, err = t.values.Get(ctx, t.config.SpreadsheetID, a1(t.config.SheetName, fmt.Sprintf("A%d:D", firstDataRow)))
		return err
	}, t.retryOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	rows := make([]model.UserRow, 0, len(cells))
	for _, c := range cells {
		rows = append(rows, rowToUser(c))
	}
	return rows, nil
}

// Append adds a user after the last row.
func (t *UserTable) Append(ctx context.Context, row model.UserRow) error {
	err := common.WithRetry(ctx, func() error {
		return t.values.Append(ctx, t.config.SpreadsheetID, a1(t.config.SheetName, "A:D"), [][]any{userToRow(row)})
	}, t.retryOptions())
	if err != nil {
		return fmt.Errorf("failed to append user: %w", err)
	}
	return nil
}

// UpdateData rewrites the Data and LastUpdated cells of the user at index.
func (t *UserTable) UpdateData(ctx context.Context, index int, data string, at time.Time) error {
	if index < 0 {
		return fmt.Errorf("row %d out of range", index)
	}
	sheetRow := firstDataRow + index
	rng := a1(t.config.SheetName, fmt.Sprintf("C%d:D%d", sheetRow, sheetRow))

	err := common.WithRetry(ctx, func() error {
		return t.values.Update(ctx, t.config.SpreadsheetID, rng, [][]any{{data, at.UTC().Format(time.RFC3339)}})
	}, t.retryOptions())
	if err != nil {
		return fmt.Errorf("failed to update user data: %w", err)
	}
	return nil
}
