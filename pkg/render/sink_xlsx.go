package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Roster"

// XLSXSink writes one workbook per table into Dir
type XLSXSink struct {
	Dir string
}

func NewXLSXSink(dir string) *XLSXSink {
	return &XLSXSink{Dir: dir}
}

func (sink *XLSXSink) Path(table Table) string {
	return filepath.Join(sink.Dir, table.Title+".xlsx")
}

func (sink *XLSXSink) Write(table Table) error {
	if err := os.MkdirAll(sink.Dir, 0o755); err != nil {
		return err
	}

	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	styles, err := newXLSXStyles(file)
	if err != nil {
		return err
	}

	for i, row := range table.Rows {
		label, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheetName, label, row.Label); err != nil {
			return err
		}

		for j, cell := range row.Cells {
			name, err := excelize.CoordinatesToCellName(j+2, i+1)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheetName, name, cell.Text); err != nil {
				return err
			}
			if style, ok := styles[cell.Style]; ok {
				if err := file.SetCellStyle(sheetName, name, name, style); err != nil {
					return err
				}
			}
		}
	}

	if err := file.SaveAs(sink.Path(table)); err != nil {
		return fmt.Errorf("cannot save %v: %w", sink.Path(table), err)
	}
	return nil
}

// newXLSXStyles registers one workbook style per flag combination in use
func newXLSXStyles(file *excelize.File) (map[Style]int, error) {
	styles := make(map[Style]int)
	for _, flags := range []Style{
		{Header: true}, {Header: true, Holiday: true}, {Header: true, Total: true},
		{Pinned: true}, {Holiday: true}, {Pinned: true, Holiday: true},
		{Total: true}, {Total: true, Holiday: true},
	} {
		style := &excelize.Style{
			Alignment: &excelize.Alignment{Horizontal: "center"},
			Font:      &excelize.Font{Bold: flags.Header || flags.Pinned},
		}
		switch {
		case flags.Pinned:
			style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#F8CBAD"}}
		case flags.Holiday:
			style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}}
		case flags.Total:
			style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#EDEDED"}}
		}

		id, err := file.NewStyle(style)
		if err != nil {
			return nil, err
		}
		styles[flags] = id
	}
	return styles, nil
}
