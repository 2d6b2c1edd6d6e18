package reports

import (
	"context"
	"net/http"

	"github.com/ipnlife/clinic_backend/models"
)

func ExportHealthChecks(ctx context.Context, w http.ResponseWriter) error {
	rows, err := models.GetHealthChecksForExport(ctx)
	if err != nil {
		return err
	}

	f, err := newWorkbook([]string{"序號", "姓名", "會員編號", "身高", "體重", "微整型", "微整型描述"})
	if err != nil {
		return err
	}
	for i, row := range rows {
		values := []interface{}{
			row.HealthCheckId,
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
	return writeWorkbook(w, f, "health_checks")
}
