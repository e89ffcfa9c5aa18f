package library

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportReportXLSX writes the usage report to an Excel workbook: a summary
// sheet plus one ranked sheet per counter.
func ExportReportXLSX(rep *UsageReport, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	f.SetCellValue(summary, "A1", "Total Resources")
	f.SetCellValue(summary, "B1", rep.TotalResources)
	f.SetCellValue(summary, "A2", "Total Students")
	f.SetCellValue(summary, "B2", rep.TotalStudents)

	if err := writeRankedSheet(f, "Most Downloaded", rep.MostDownloaded, func(r *Resource) int { return r.DownloadCount }); err != nil {
		return err
	}
	if err := writeRankedSheet(f, "Most Viewed", rep.MostViewed, func(r *Resource) int { return r.ViewCount }); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRankedSheet(f *excelize.File, name string, resources []*Resource, count func(*Resource) int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("add sheet %s: %w", name, err)
	}

	headers := []string{"Rank", "ID", "Title", "Author", "Category", "Count"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(name, cell, h)
	}

	for row, r := range resources {
		values := []any{row + 1, r.ID, r.Title, r.Author, r.Category, count(r)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(name, cell, v)
		}
	}
	return nil
}
