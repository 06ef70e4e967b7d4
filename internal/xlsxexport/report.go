// Package xlsxexport writes a page's difference segments as a spreadsheet.
package xlsxexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"docrecon/internal/diff"
)

// ContentType is the MIME type of the produced file.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	diffSheet    = "Differences"
	summarySheet = "Summary"
)

var columns = []string{
	"#", "Type", "Category", "Similarity", "Text A", "Text B",
	"A Start", "A End", "B Start", "B End",
}

var columnWidths = map[string]float64{
	"A": 6, "B": 10, "C": 18, "D": 11, "E": 50, "F": 50,
	"G": 9, "H": 9, "I": 9, "J": 9,
}

// ReportInfo identifies the compared page.
type ReportInfo struct {
	DocumentName string
	PageNumber   int
}

// WriteReport writes the differences of res to w. Equal segments are
// omitted from the Differences sheet unless includeEqual is set.
func WriteReport(w io.Writer, info ReportInfo, res *diff.Result, includeEqual bool) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", diffSheet); err != nil {
		return fmt.Errorf("xlsxexport: rename sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("xlsxexport: header style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("xlsxexport: wrap style: %w", err)
	}

	for i, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(diffSheet, cell, name); err != nil {
			return fmt.Errorf("xlsxexport: header: %w", err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(diffSheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("xlsxexport: header style: %w", err)
	}
	for col, width := range columnWidths {
		if err := f.SetColWidth(diffSheet, col, col, width); err != nil {
			return fmt.Errorf("xlsxexport: column width: %w", err)
		}
	}

	row := 2
	for i, seg := range res.Segments {
		if seg.Type == diff.KindEqual && !includeEqual {
			continue
		}
		var similarity interface{}
		if seg.Similarity != nil {
			similarity = *seg.Similarity
		}
		values := []interface{}{
			i + 1, string(seg.Type), string(seg.Category), similarity, seg.TextA, seg.TextB,
			seg.AStart, seg.AEnd, seg.BStart, seg.BEnd,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if err := f.SetCellValue(diffSheet, cell, v); err != nil {
				return fmt.Errorf("xlsxexport: row %d: %w", row, err)
			}
		}
		row++
	}
	if row > 2 {
		last, _ := excelize.CoordinatesToCellName(6, row-1)
		if err := f.SetCellStyle(diffSheet, "E2", last, wrapStyle); err != nil {
			return fmt.Errorf("xlsxexport: wrap style: %w", err)
		}
	}

	if err := writeSummary(f, info, res.Stats, headerStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsxexport: write: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, info ReportInfo, s diff.Stats, headerStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("xlsxexport: summary sheet: %w", err)
	}
	rows := [][]interface{}{
		{"Document", info.DocumentName},
		{"Page", info.PageNumber},
		{"Tokens A", s.TokensA},
		{"Tokens B", s.TokensB},
		{"Equal", s.Equal},
		{"Replace", s.Replace},
		{"Delete", s.Delete},
		{"Insert", s.Insert},
		{"Match ratio", s.MatchRatio},
		{"Approximate anchors", s.ApproximateAnchors},
	}
	for i, r := range rows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &r); err != nil {
			return fmt.Errorf("xlsxexport: summary row: %w", err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return fmt.Errorf("xlsxexport: summary style: %w", err)
	}
	return f.SetColWidth(summarySheet, "A", "A", 22)
}
