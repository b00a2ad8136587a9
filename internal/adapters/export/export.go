// Package export renders session history and current state as
// downloadable documents.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/openplayhq/rally/internal/domain/model"
	"github.com/openplayhq/rally/internal/domain/session"
)

// Format selects the rendering for an export download.
type Format string

// Supported export formats.
const (
	FormatExcel Format = "xlsx"
	FormatCSV   Format = "csv"
)

// Workbook sheet names.
const (
	sheetHistory = "History"
	sheetCourts  = "Courts"
	sheetQueue   = "Queue"
)

var historyHeader = []any{"Timestamp", "Court", "Team 1", "Team 2", "Winners"}

// Filename returns the download name for an export taken at now.
func Filename(format Format, now time.Time) string {
	return fmt.Sprintf("pickleball_history_%s.%s", now.Format("20060102_150405"), format)
}

// Excel renders the snapshot as a workbook with History, Courts and
// Queue sheets. Returns ErrNoHistory when no games have been played.
func Excel(snap session.Snapshot) ([]byte, error) {
	if len(snap.History) == 0 {
		return nil, ErrNoHistory
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", sheetHistory); err != nil {
		return nil, fmt.Errorf("rename history sheet: %w", err)
	}
	if err := setRow(f, sheetHistory, 1, historyHeader); err != nil {
		return nil, err
	}
	for i, rec := range snap.History {
		row := []any{
			rec.PlayedAt.Format(time.RFC3339),
			rec.Court,
			teamLabel(rec.Team1),
			teamLabel(rec.Team2),
			teamLabel(rec.Winners),
		}
		if err := setRow(f, sheetHistory, i+2, row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(sheetCourts); err != nil {
		return nil, fmt.Errorf("add courts sheet: %w", err)
	}
	if err := setRow(f, sheetCourts, 1, []any{"Court", "P1", "P2", "P3", "P4"}); err != nil {
		return nil, err
	}
	for i, id := range sortedCourtIDs(snap.Courts) {
		row := make([]any, 0, model.CourtSlots+1)
		row = append(row, id)
		slots := snap.Courts[strconv.Itoa(id)]
		for s := 0; s < model.CourtSlots; s++ {
			if s < len(slots) {
				row = append(row, slots[s])
			} else {
				row = append(row, "")
			}
		}
		if err := setRow(f, sheetCourts, i+2, row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(sheetQueue); err != nil {
		return nil, fmt.Errorf("add queue sheet: %w", err)
	}
	if err := setRow(f, sheetQueue, 1, []any{"Position", "Player"}); err != nil {
		return nil, err
	}
	for i, name := range snap.Queue {
		if err := setRow(f, sheetQueue, i+2, []any{i + 1, name}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// CSV renders the game history as comma-separated rows with the same
// columns as the workbook's History sheet.
func CSV(snap session.Snapshot) ([]byte, error) {
	if len(snap.History) == 0 {
		return nil, ErrNoHistory
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(historyHeader))
	for i, h := range historyHeader {
		header[i] = fmt.Sprint(h)
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range snap.History {
		row := []string{
			rec.PlayedAt.Format(time.RFC3339),
			strconv.Itoa(rec.Court),
			teamLabel(rec.Team1),
			teamLabel(rec.Team2),
			teamLabel(rec.Winners),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// teamLabel joins the occupied spots of a team for display.
func teamLabel(t model.Team) string {
	parts := make([]string, 0, len(t))
	for _, name := range t {
		if name != "" {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " / ")
}

func sortedCourtIDs(courts map[string][]string) []int {
	ids := make([]int, 0, len(courts))
	for key := range courts {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("cell %d:%d on %s: %w", row, i+1, sheet, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s on %s: %w", cell, sheet, err)
		}
	}
	return nil
}
