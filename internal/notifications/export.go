package notifications

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportSheet is the worksheet name of the notifications export
const ExportSheet = "Notifications"

// ExportXLSX writes list as a spreadsheet, one notification per row after the header
func ExportXLSX(w io.Writer, list []Notification) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ExportSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	header := []any{"ID", "Title", "Message", "Time", "Status"}
	if err := f.SetSheetRow(ExportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, n := range list {
		status := StatusRead
		if n.Unread {
			status = StatusUnread
		}

		row := []any{n.ID, n.Title, n.Message, n.Time, status}
		if err := f.SetSheetRow(ExportSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
