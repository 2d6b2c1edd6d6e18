package models

import (
	"context"
	"time"

	"github.com/ipnlife/clinic_backend/config"
	"gorm.io/gorm"
)

const defaultStockThreshold = 5

type Inventory struct {
	InventoryId    int       `gorm:"primary_key" json:"inventory_id"`
	ProductId      int       `gorm:"not null;index" json:"product_id"`
	StaffId        int       `json:"staff_id"`
	StoreId        int       `gorm:"not null;index" json:"store_id"`
	Date           time.Time `gorm:"type:date" json:"date"`
	Quantity       int       `gorm:"not null;default:0" json:"quantity"`
	StockIn        int       `gorm:"default:0" json:"stock_in"`
	StockOut       int       `gorm:"default:0" json:"stock_out"`
	StockLoan      int       `gorm:"default:0" json:"stock_loan"`
	StockThreshold int       `gorm:"default:5" json:"stock_threshold"`
}

// InventorySummary is one product/store aggregate row. The JSON keys are the
// contract the stock screens were built against, so they stay as-is.
type InventorySummary struct {
	InventoryId    int        `json:"Inventory_ID"`
	ProductId      int        `json:"Product_ID"`
	ProductName    string     `json:"ProductName"`
	ProductCode    string     `json:"ProductCode"`
	StockQuantity  int        `json:"StockQuantity"`
	StockIn        int        `json:"StockIn"`
	StockOut       int        `json:"StockOut"`
	StockLoan      int        `json:"StockLoan"`
	StoreId        int        `json:"Store_ID"`
	StoreName      string     `json:"StoreName"`
	StockThreshold int        `json:"StockThreshold"`
	StockInTime    *time.Time `json:"StockInTime"`
}

// InventoryDetail is a single stock row plus product-wide running totals.
type InventoryDetail struct {
	InventoryId    int        `json:"Inventory_ID"`
	ProductId      int        `json:"Product_ID"`
	ProductName    string     `json:"ProductName"`
	ProductCode    string     `json:"ProductCode"`
	ItemQuantity   int        `json:"ItemQuantity"`
	StockQuantity  int        `json:"StockQuantity"`
	StockIn        *int       `json:"StockIn"`
	StockOut       *int       `json:"StockOut"`
	StockLoan      *int       `json:"StockLoan"`
	TotalStockIn   int        `json:"TotalStockIn"`
	TotalStockOut  int        `json:"TotalStockOut"`
	TotalStockLoan int        `json:"TotalStockLoan"`
	StockThreshold *int       `json:"StockThreshold"`
	StoreId        int        `json:"Store_ID"`
	StoreName      string     `json:"StoreName"`
	StaffId        *int       `json:"Staff_ID"`
	StaffName      *string    `json:"StaffName"`
	StockInTime    *time.Time `json:"StockInTime"`
}

type NewInventoryItem struct {
	ProductId      int    `json:"productId" binding:"required"`
	StaffId        *int   `json:"staffId"`
	StoreId        *int   `json:"storeId"`
	Date           string `json:"date"`
	Quantity       int    `json:"quantity"`
	StockIn        int    `json:"stockIn"`
	StockOut       int    `json:"stockOut"`
	StockLoan      int    `json:"stockLoan"`
	StockThreshold *int   `json:"stockThreshold"`
}

const inventorySummarySelect = `
	SELECT MAX(i.inventory_id) AS inventory_id,
	       p.product_id AS product_id,
	       p.name AS product_name,
	       p.code AS product_code,
	       SUM(i.quantity) AS stock_quantity,
	       SUM(IFNULL(i.stock_in, 0)) AS stock_in,
	       SUM(IFNULL(i.stock_out, 0)) AS stock_out,
	       SUM(IFNULL(i.stock_loan, 0)) AS stock_loan,
	       MAX(i.store_id) AS store_id,
	       st.store_name AS store_name,
	       MAX(IFNULL(i.stock_threshold, 5)) AS stock_threshold,
	       MAX(i.date) AS stock_in_time
	FROM inventory i
	LEFT JOIN product p ON i.product_id = p.product_id
	LEFT JOIN store st ON i.store_id = st.store_id`

func GetAllInventory(ctx context.Context) ([]*InventorySummary, error) {
	db := config.GetDB()
	var rows []*InventorySummary
	err := db.WithContext(ctx).Raw(inventorySummarySelect + `
		GROUP BY p.product_id, p.name, p.code, st.store_name
		ORDER BY p.name`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func SearchInventory(ctx context.Context, keyword string) ([]*InventorySummary, error) {
	db := config.GetDB()
	var rows []*InventorySummary
	like := "%" + keyword + "%"
	err := db.WithContext(ctx).Raw(inventorySummarySelect+`
		WHERE p.name LIKE ? OR p.code LIKE ?
		GROUP BY p.product_id, p.name, p.code, st.store_name
		ORDER BY p.name`, like, like).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetLowStockInventory lists aggregates at or under their threshold, most
// depleted first.
func GetLowStockInventory(ctx context.Context) ([]*InventorySummary, error) {
	db := config.GetDB()
	var rows []*InventorySummary
	err := db.WithContext(ctx).Raw(inventorySummarySelect + `
		GROUP BY p.product_id, p.name, p.code, st.store_name
		HAVING SUM(i.quantity) <= MAX(IFNULL(i.stock_threshold, 5))
		ORDER BY (SUM(i.quantity) / MAX(IFNULL(i.stock_threshold, 5))) ASC, p.name`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func GetInventoryById(ctx context.Context, inventoryId int) (*InventoryDetail, error) {
	db := config.GetDB()
	var detail InventoryDetail
	err := db.WithContext(ctx).Raw(`
		SELECT i.inventory_id AS inventory_id,
		       p.product_id AS product_id,
		       p.name AS product_name,
		       p.code AS product_code,
		       i.quantity AS item_quantity,
		       i.stock_in AS stock_in,
		       i.stock_out AS stock_out,
		       i.stock_loan AS stock_loan,
		       i.stock_threshold AS stock_threshold,
		       i.store_id AS store_id,
		       st.store_name AS store_name,
		       i.date AS stock_in_time,
		       s.name AS staff_name,
		       i.staff_id AS staff_id
		FROM inventory i
		LEFT JOIN product p ON i.product_id = p.product_id
		LEFT JOIN staff s ON i.staff_id = s.staff_id
		LEFT JOIN store st ON i.store_id = st.store_id
		WHERE i.inventory_id = ?`, inventoryId).Scan(&detail).Error
	if err != nil {
		return nil, err
	}
	if detail.InventoryId == 0 {
		return nil, notFoundError("inventory %d not found", inventoryId)
	}

	var totals struct {
		StockQuantity  int
		TotalStockIn   int
		TotalStockOut  int
		TotalStockLoan int
	}
	err = db.WithContext(ctx).Raw(`
		SELECT IFNULL(SUM(quantity), 0) AS stock_quantity,
		       SUM(IFNULL(stock_in, 0)) AS total_stock_in,
		       SUM(IFNULL(stock_out, 0)) AS total_stock_out,
		       SUM(IFNULL(stock_loan, 0)) AS total_stock_loan
		FROM inventory
		WHERE product_id = ?`, detail.ProductId).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	detail.StockQuantity = totals.StockQuantity
	detail.TotalStockIn = totals.TotalStockIn
	detail.TotalStockOut = totals.TotalStockOut
	detail.TotalStockLoan = totals.TotalStockLoan
	return &detail, nil
}

func AddInventoryItem(ctx context.Context, input *NewInventoryItem) (*Inventory, error) {
	db := config.GetDB()

	if _, err := GetProductById(ctx, input.ProductId); err != nil {
		return nil, err
	}

	date := time.Now()
	if input.Date != "" {
		parsed, err := ParseDate(input.Date)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	item := Inventory{
		ProductId:      input.ProductId,
		StaffId:        1,
		StoreId:        1,
		Date:           date,
		Quantity:       input.Quantity,
		StockLoan:      input.StockLoan,
		StockThreshold: defaultStockThreshold,
	}
	if input.StaffId != nil {
		item.StaffId = *input.StaffId
	}
	if input.StoreId != nil {
		item.StoreId = *input.StoreId
	}
	if input.StockThreshold != nil {
		item.StockThreshold = *input.StockThreshold
	}
	// A movement is either a stock-in or a stock-out, keyed off the sign of
	// the quantity change.
	if input.Quantity >= 0 {
		item.StockIn = input.StockIn
	} else {
		item.StockOut = input.StockOut
	}

	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

type UpdateInventoryItemInput struct {
	Quantity       *int    `json:"quantity"`
	StockIn        *int    `json:"stock_in"`
	StockOut       *int    `json:"stock_out"`
	StockLoan      *int    `json:"stock_loan"`
	StockThreshold *int    `json:"stock_threshold"`
	StoreId        *int    `json:"store_id"`
	StaffId        *int    `json:"staff_id"`
	Date           *string `json:"date"`
}

func UpdateInventoryItem(ctx context.Context, inventoryId int, input *UpdateInventoryItemInput) error {
	db := config.GetDB()
	var existing Inventory
	err := db.WithContext(ctx).First(&existing, "inventory_id = ?", inventoryId).Error
	if err == gorm.ErrRecordNotFound {
		return notFoundError("inventory %d not found", inventoryId)
	} else if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if input.Quantity != nil {
		updates["quantity"] = *input.Quantity
	}
	if input.StockIn != nil {
		updates["stock_in"] = *input.StockIn
	}
	if input.StockOut != nil {
		updates["stock_out"] = *input.StockOut
	}
	if input.StockLoan != nil {
		updates["stock_loan"] = *input.StockLoan
	}
	if input.StockThreshold != nil {
		updates["stock_threshold"] = *input.StockThreshold
	}
	if input.StoreId != nil {
		updates["store_id"] = *input.StoreId
	}
	if input.StaffId != nil {
		updates["staff_id"] = *input.StaffId
	}
	if input.Date != nil {
		date, err := ParseDate(*input.Date)
		if err != nil {
			return err
		}
		updates["date"] = date
	}
	if len(updates) == 0 {
		return nil
	}
	return db.WithContext(ctx).Model(&Inventory{}).Where("inventory_id = ?", inventoryId).
		Updates(updates).Error
}

func DeleteInventoryItem(ctx context.Context, inventoryId int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&Inventory{}, "inventory_id = ?", inventoryId)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundError("inventory %d not found", inventoryId)
	}
	return nil
}

// ApplyQuantityDelta adjusts the cached stock level for a product at a store
// by delta, negative for sales and positive for reversals. The adjustment is
// a single relative UPDATE against the latest row for the pair so concurrent
// writers never clobber each other. A missing row is logged and tolerated:
// stock for that pair is simply unmanaged.
func ApplyQuantityDelta(ctx context.Context, tx *gorm.DB, productId int, storeId int, delta int) error {
	if delta == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Exec(`
		UPDATE inventory
		SET quantity = quantity + ?
		WHERE product_id = ? AND store_id = ?
		ORDER BY inventory_id DESC LIMIT 1`, delta, productId, storeId)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		config.GetLogger().WithField("product_id", productId).
			WithField("store_id", storeId).
			WithField("delta", delta).
			Warn("no inventory row for product/store pair, stock unmanaged")
	}
	return nil
}
