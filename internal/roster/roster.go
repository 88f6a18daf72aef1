package roster

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vietkubers/quest-count/internal/logger"
	"github.com/vietkubers/quest-count/internal/participant"
	"github.com/xuri/excelize/v2"
)

// HeaderCell is the first cell of the header row
const HeaderCell = "Timestamp"

// Column positions in the roster sheet
const (
	colTimestamp = iota
	colEmail
	colName
	colNickname
	colProfileURL
	colLocation
)

// IgnoredRow is a data row that could not be turned into a participant
type IgnoredRow struct {
	RowID  int      `json:"row_id"`
	Cells  []string `json:"cells"`
	Reason string   `json:"reason"`
}

// Roster is the parsed participant list
type Roster struct {
	Participants []*participant.Participant
	Ignored      []IgnoredRow
	Duplicates   []string // emails seen more than once
}

// timestampLayouts are text forms of the submission timestamp seen in exports
var timestampLayouts = []string{
	"1/2/2006 15:04:05",
	"01/02/2006 15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"2006-01-02",
}

// Load reads the participants from sheet in the workbook at path.
func Load(path, sheet string) (*Roster, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("worksheet %q not found in %s", sheet, path)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %q: %w", sheet, err)
	}

	return parseRows(rows), nil
}

// parseRows converts raw sheet rows into participants. Row ids are 1-based.
func parseRows(rows [][]string) *Roster {
	r := &Roster{
		Participants: make([]*participant.Participant, 0, len(rows)),
	}
	index := make(map[string]int)

	for i, row := range rows {
		rowID := i + 1
		first := cellValue(row, colTimestamp)

		if first == HeaderCell {
			continue
		}
		if isBlank(row) {
			continue
		}

		ts, ok := parseTimestamp(first)
		if !ok {
			r.Ignored = append(r.Ignored, IgnoredRow{RowID: rowID, Cells: row, Reason: "first cell is not a date"})
			continue
		}
		// Trailing empty cells are trimmed by the reader, so a blank location is a short row
		if len(row) <= colProfileURL {
			r.Ignored = append(r.Ignored, IgnoredRow{
				RowID:  rowID,
				Cells:  row,
				Reason: fmt.Sprintf("expected at least %d columns, got %d", colProfileURL+1, len(row)),
			})
			continue
		}

		p := participant.New(rowID, ts,
			cellValue(row, colEmail),
			cellValue(row, colName),
			cellValue(row, colNickname),
			cellValue(row, colProfileURL),
			cellValue(row, colLocation),
		)
		if p.Email == "" {
			r.Ignored = append(r.Ignored, IgnoredRow{RowID: rowID, Cells: row, Reason: "missing email"})
			continue
		}

		// A later submission replaces the earlier one but keeps its position
		if pos, dup := index[p.Email]; dup {
			logger.Warn("Duplicated participant", logger.Fields{
				"email":    p.Email,
				"row_id":   rowID,
				"previous": r.Participants[pos].RowID,
			})
			r.Duplicates = append(r.Duplicates, p.Email)
			r.Participants[pos] = p
			continue
		}
		index[p.Email] = len(r.Participants)
		r.Participants = append(r.Participants, p)
	}

	return r
}

// parseTimestamp reads a submission time stored either as an Excel serial or as text
func parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		// Plausible range for form submissions, 1982..2173
		if serial >= 30000 && serial <= 100000 {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
