package reports

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// newWorkbook opens a single-sheet workbook with a header row.
func newWorkbook(headings []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}
	for col, heading := range headings {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, heading); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func setRow(f *excelize.File, rowNo int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheetName, cell, &values)
}

func blankIfNil(v interface{}) interface{} {
	switch value := v.(type) {
	case *string:
		if value == nil {
			return ""
		}
		return *value
	case *float64:
		if value == nil {
			return ""
		}
		return *value
	case *int:
		if value == nil {
			return ""
		}
		return *value
	case decimal.Decimal:
		return value.String()
	case *decimal.Decimal:
		if value == nil {
			return ""
		}
		return value.String()
	case nil:
		return ""
	default:
		return v
	}
}

// writeWorkbook streams the finished workbook as an attachment download.
func writeWorkbook(w http.ResponseWriter, f *excelize.File, filename string) error {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", filename))
	return f.Write(w)
}
