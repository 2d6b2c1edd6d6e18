package reports

import (
	"context"
	"net/http"

	"github.com/ipnlife/clinic_backend/models"
)

func ExportTherapySells(ctx context.Context, w http.ResponseWriter, storeId *int) error {
	rows, err := models.GetAllTherapySells(ctx, storeId)
	if err != nil {
		return err
	}

	f, err := newWorkbook([]string{
		"編號", "會員姓名", "購買日期", "療程", "療程代碼", "堂數", "價格", "付款方式", "服務人員", "銷售類別", "門市", "備註",
	})
	if err != nil {
		return err
	}
	for i, row := range rows {
		values := []interface{}{
			row.OrderId,
			blankIfNil(row.MemberName),
			row.PurchaseDate,
			blankIfNil(row.PackageName),
			blankIfNil(row.TherapyCode),
			row.Sessions,
			row.Price.String(),
			row.PaymentMethod,
			blankIfNil(row.StaffName),
			row.SaleCategory,
			blankIfNil(row.StoreName),
			row.Note,
		}
		if err := setRow(f, i+2, values); err != nil {
			return err
		}
	}
	return writeWorkbook(w, f, "therapy_sells")
}
