package reports

import (
	"context"
	"net/http"

	"github.com/ipnlife/clinic_backend/models"
)

func ExportTherapyRecords(ctx context.Context, w http.ResponseWriter, storeId *int) error {
	rows, err := models.GetAllTherapyRecords(ctx, storeId)
	if err != nil {
		return err
	}

	f, err := newWorkbook([]string{
		"編號", "會員姓名", "門市", "服務人員", "日期", "療程", "剩餘堂數", "備註",
	})
	if err != nil {
		return err
	}
	for i, row := range rows {
		values := []interface{}{
			row.TherapyRecordId,
			blankIfNil(row.MemberName),
			blankIfNil(row.StoreName),
			blankIfNil(row.StaffName),
			row.Date,
			blankIfNil(row.PackageName),
			blankIfNil(row.RemainingSessions),
			row.Note,
		}
		if err := setRow(f, i+2, values); err != nil {
			return err
		}
	}
	return writeWorkbook(w, f, "therapy_records")
}
