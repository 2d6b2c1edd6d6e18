package reports

import (
	"context"
	"net/http"

	"github.com/ipnlife/clinic_backend/models"
)

func ExportInventory(ctx context.Context, w http.ResponseWriter) error {
	rows, err := models.GetAllInventory(ctx)
	if err != nil {
		return err
	}

	f, err := newWorkbook([]string{
		"庫存編號", "產品名稱", "產品代碼", "庫存量",
		"入庫", "出庫", "借出", "門市", "安全庫存", "最後入庫日",
	})
	if err != nil {
		return err
	}
	for i, row := range rows {
		stockInTime := ""
		if row.StockInTime != nil {
			stockInTime = models.FormatDate(*row.StockInTime)
		}
		values := []interface{}{
			row.InventoryId,
			row.ProductName,
			row.ProductCode,
			row.StockQuantity,
			row.StockIn,
			row.StockOut,
			row.StockLoan,
			row.StoreName,
			row.StockThreshold,
			stockInTime,
		}
		if err := setRow(f, i+2, values); err != nil {
			return err
		}
	}
	return writeWorkbook(w, f, "inventory")
}
