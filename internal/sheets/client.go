package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/smartspend/internal/common"
)

// ValuesAPI is the slice of the Sheets API the user table needs.
type ValuesAPI interface {
	// EnsureSheet creates the tab when missing and reports whether it did.
	EnsureSheet(ctx context.Context, spreadsheetID, title string) (bool, error)
	Get(ctx context.Context, spreadsheetID, rng string) ([][]any, error)
	Append(ctx context.Context, spreadsheetID, rng string, rows [][]any) error
	Update(ctx context.Context, spreadsheetID, rng string, rows [][]any) error
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// googleValues implements ValuesAPI over the real service.
type googleValues struct {
	srv *sheets.Service
}

func (g googleValues) EnsureSheet(ctx context.Context, spreadsheetID, title string) (bool, error) {
	ss, err := g.srv.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return false, classify(fmt.Errorf("unable to access spreadsheet %s: %w", spreadsheetID, err))
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return false, nil
		}
	}

	add := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
						ColumnCount:    int64(len(header)),
					},
				},
			},
		}},
	}
	resp, err := g.srv.Spreadsheets.BatchUpdate(spreadsheetID, add).Context(ctx).Do()
	if err != nil {
		return false, classify(fmt.Errorf("unable to create sheet %q: %w", title, err))
	}

	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil {
		g.formatHeader(ctx, spreadsheetID, resp.Replies[0].AddSheet.Properties.SheetId)
	}
	return true, nil
}

// formatHeader bolds the header row. Failure only costs cosmetics.
func (g googleValues) formatHeader(ctx context.Context, spreadsheetID string, sheetID int64) {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(len(header)),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		}},
	}
	if _, err := g.srv.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		common.LogDebug("failed to format header row", common.Fields{"error": err})
	}
}

func (g googleValues) Get(ctx context.Context, spreadsheetID, rng string) ([][]any, error) {
	resp, err := g.srv.Spreadsheets.Values.Get(spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err)
	}
	return resp.Values, nil
}

func (g googleValues) Append(ctx context.Context, spreadsheetID, rng string, rows [][]any) error {
	_, err := g.srv.Spreadsheets.Values.Append(spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return classify(err)
}

func (g googleValues) Update(ctx context.Context, spreadsheetID, rng string, rows [][]any) error {
	_, err := g.srv.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return classify(err)
}

// classify marks API errors as retryable or permanent for common.WithRetry.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", common.ErrRateLimit, err)
	case apiErr.Code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	default:
		return &common.RetryableError{Err: err, Retryable: false}
	}
}
