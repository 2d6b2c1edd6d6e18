package reports

import (
	"context"
	"net/http"

	"github.com/ipnlife/clinic_backend/models"
)

// ExportProductSells dumps product sales, optionally scoped to one store.
func ExportProductSells(ctx context.Context, w http.ResponseWriter, storeId *int) error {
	rows, err := models.GetAllProductSells(ctx, storeId)
	if err != nil {
		return err
	}

	f, err := newWorkbook([]string{
		"編號", "會員姓名", "門市", "產品", "數量", "單價",
		"折扣", "實收金額", "付款方式", "服務人員", "銷售類別", "日期", "備註",
	})
	if err != nil {
		return err
	}
	for i, row := range rows {
		values := []interface{}{
			row.ProductSellId,
			blankIfNil(row.MemberName),
			blankIfNil(row.StoreName),
			blankIfNil(row.ProductName),
			row.Quantity,
			blankIfNil(row.UnitPrice),
			blankIfNil(row.DiscountAmount),
			blankIfNil(row.FinalPrice),
			row.PaymentMethod,
			blankIfNil(row.StaffName),
			row.SaleCategory,
			models.FormatDate(row.Date),
			row.Note,
		}
		if err := setRow(f, i+2, values); err != nil {
			return err
		}
	}
	return writeWorkbook(w, f, "product_sells")
}
