package reports

import (
	"context"
	"net/http"

	"github.com/ipnlife/clinic_backend/models"
)

// ExportMedicalRecords writes every medical record to a spreadsheet. 身高 and
// 體重 cells stay blank when the record never captured them.
func ExportMedicalRecords(ctx context.Context, w http.ResponseWriter) error {
	rows, err := models.GetMedicalRecordsForExport(ctx)
	if err != nil {
		return err
	}

	f, err := newWorkbook([]string{"序號", "姓名", "會員編號", "身高", "體重", "微整型", "微整型描述"})
	if err != nil {
		return err
	}
	for i, row := range rows {
		values := []interface{}{
			row.MedicalRecordId,
			blankIfNil(row.Name),
			row.MemberId,
			blankIfNil(row.Height),
			blankIfNil(row.Weight),
			row.MicroSurgery,
			blankIfNil(row.MicroSurgeryDescription),
		}
		if err := setRow(f, i+2, values); err != nil {
			return err
		}
	}
	return writeWorkbook(w, f, "medical_records")
}
