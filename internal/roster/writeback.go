package roster

import (
	"fmt"

	"github.com/vietkubers/quest-count/internal/participant"
	"github.com/vietkubers/quest-count/internal/ranking"
	"github.com/xuri/excelize/v2"
)

// Columns names the sheet columns that receive results
type Columns struct {
	LegalQuests string
	All         string
	Hanoi       string
	Danang      string
	HCM         string
}

// DefaultColumns matches the 2019 results sheet
var DefaultColumns = Columns{
	LegalQuests: "J",
	All:         "K",
	Hanoi:       "L",
	Danang:      "M",
	HCM:         "N",
}

// regionColumn maps a known region to its rank column
func (c Columns) regionColumn(r ranking.Region) string {
	switch r {
	case ranking.RegionHanoi:
		return c.Hanoi
	case ranking.RegionDanang:
		return c.Danang
	case ranking.RegionHCM:
		return c.HCM
	default:
		return ""
	}
}

// WriteBack stores every ok participant's legal quest count and rankings in the sheet and
// saves the workbook in place. Ranks are 1-based positions in the by-count views.
func WriteBack(path, sheet string, bundle *ranking.Bundle, cols Columns) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	headers := []struct {
		col   string
		title string
	}{
		{cols.LegalQuests, "LegalQuests"},
		{cols.All, "ResultALL"},
		{cols.Hanoi, "Hà Nội"},
		{cols.Danang, "Đà Nẵng"},
		{cols.HCM, "Hồ Chí minh"},
	}
	for _, h := range headers {
		if err := setCell(f, sheet, h.col, 1, h.title); err != nil {
			return err
		}
	}

	for i, p := range bundle.All.ByCount {
		if err := setCell(f, sheet, cols.LegalQuests, p.RowID, p.LegalCount()); err != nil {
			return err
		}
		if err := setCell(f, sheet, cols.All, p.RowID, i+1); err != nil {
			return err
		}
	}

	for _, region := range ranking.Regions {
		col := cols.regionColumn(region)
		if col == "" {
			continue
		}
		if err := writeRanks(f, sheet, col, bundle.Group(region).ByCount); err != nil {
			return err
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeRanks(f *excelize.File, sheet, col string, ranked []*participant.Participant) error {
	for i, p := range ranked {
		if err := setCell(f, sheet, col, p.RowID, i+1); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet, col string, row int, value interface{}) error {
	cell, err := excelize.JoinCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell %s%d: %w", col, row, err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("writing %s: %w", cell, err)
	}
	return nil
}
