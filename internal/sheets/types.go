package sheets

import (
	"fmt"
	"time"

	"github.com/Veraticus/smartspend/internal/model"
)

// header is the first row of the users tab.
var header = []any{"Username", "Password", "Data", "LastUpdated"}

// Column positions in the users tab.
const (
	colUsername = iota
	colPassword
	colData
	colLastUpdated
)

// firstDataRow is the 1-based sheet row of the first user.
const firstDataRow = 2

// rowToUser decodes one sheet row. Cells may be missing or hold non-string
// values when the sheet has been edited by hand.
func rowToUser(cells []any) model.UserRow {
	cell := func(i int) string {
		if i >= len(cells) || cells[i] == nil {
			return ""
		}
		if s, ok := cells[i].(string); ok {
			return s
		}
		return fmt.Sprint(cells[i])
	}

	row := model.UserRow{
		Username: cell(colUsername),
		Password: cell(colPassword),
		Data:     cell(colData),
	}
	if t, err := time.Parse(time.RFC3339, cell(colLastUpdated)); err == nil {
		row.LastUpdated = t
	}
	return row
}

// userToRow encodes a user as sheet cells.
func userToRow(u model.UserRow) []any {
	return []any{u.Username, u.Password, u.Data, u.LastUpdated.UTC().Format(time.RFC3339)}
}

// a1 builds an A1 range inside the named tab.
func a1(sheet, cells string) string {
	return fmt.Sprintf("'%s'!%s", sheet, cells)
}
