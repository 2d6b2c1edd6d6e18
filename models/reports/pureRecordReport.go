package reports

import (
	"context"
	"net/http"

	"github.com/ipnlife/clinic_backend/models"
)

func ExportPureRecords(ctx context.Context, w http.ResponseWriter, filters *models.PureRecordFilters) error {
	rows, err := models.GetAllPureRecords(ctx, filters)
	if err != nil {
		return err
	}

	f, err := newWorkbook([]string{
		"編號", "姓名", "服務人員", "血壓", "日期", "身高", "體重",
		"內脂肪", "基礎代謝", "體年齡", "BMI", "淨化項目", "備註",
	})
	if err != nil {
		return err
	}
	for i, row := range rows {
		values := []interface{}{
			row.IpnPureId,
			blankIfNil(row.Name),
			blankIfNil(row.StaffName),
			row.BloodPreasure,
			row.Date,
			blankIfNil(row.Height),
			blankIfNil(row.Weight),
			blankIfNil(row.VisceralFat),
			blankIfNil(row.BasalMetabolicRate),
			blankIfNil(row.BodyAge),
			blankIfNil(row.Bmi),
			row.PureItem,
			row.Note,
		}
		if err := setRow(f, i+2, values); err != nil {
			return err
		}
	}
	return writeWorkbook(w, f, "pure_records")
}
