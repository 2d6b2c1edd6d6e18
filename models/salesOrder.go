package models

import (
	"context"
	"time"

	"github.com/ipnlife/clinic_backend/config"
	"github.com/shopspring/decimal"
)

type SalesOrder struct {
	OrderId       int             `gorm:"primary_key" json:"order_id"`
	OrderNumber   string          `gorm:"size:50;uniqueIndex;not null" json:"order_number"`
	OrderDate     time.Time       `gorm:"type:date;not null" json:"order_date"`
	MemberId      int             `gorm:"not null;index" json:"member_id"`
	StaffId       int             `gorm:"not null" json:"staff_id"`
	StoreId       int             `gorm:"not null;index" json:"store_id"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"subtotal"`
	TotalDiscount decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"total_discount"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"grand_total"`
	SaleCategory  string          `gorm:"size:20" json:"sale_category"`
	Note          string          `gorm:"type:text" json:"note"`
}

func (SalesOrder) TableName() string {
	return "sales_orders"
}

type SalesOrderItem struct {
	OrderItemId     int             `gorm:"primary_key" json:"order_item_id"`
	OrderId         int             `gorm:"not null;index" json:"order_id"`
	ProductId       *int            `json:"product_id"`
	TherapyId       *int            `json:"therapy_id"`
	ItemDescription string          `gorm:"size:255" json:"item_description"`
	ItemType        string          `gorm:"size:20" json:"item_type"`
	Unit            string          `gorm:"size:20" json:"unit"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Category        string          `gorm:"size:20" json:"category"`
	Note            string          `gorm:"type:text" json:"note"`
}

func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

type NewSalesOrderItem struct {
	ProductId       *int            `json:"product_id"`
	TherapyId       *int            `json:"therapy_id"`
	ItemDescription string          `json:"item_description"`
	ItemType        string          `json:"item_type"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int             `json:"quantity" binding:"required"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Category        string          `json:"category"`
	Note            string          `json:"note"`
}

type NewSalesOrder struct {
	OrderNumber   string               `json:"order_number"`
	OrderDate     string               `json:"order_date" binding:"required"`
	MemberId      int                  `json:"member_id" binding:"required"`
	StaffId       int                  `json:"staff_id" binding:"required"`
	StoreId       int                  `json:"store_id" binding:"required"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	TotalDiscount decimal.Decimal      `json:"total_discount"`
	GrandTotal    decimal.Decimal      `json:"grand_total"`
	SaleCategory  string               `json:"sale_category"`
	Note          string               `json:"note"`
	Items         []*NewSalesOrderItem `json:"items" binding:"required"`
}

type SalesOrderSummary struct {
	OrderId      int             `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	OrderDate    time.Time       `json:"order_date"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	SaleCategory string          `json:"sale_category"`
	Note         string          `json:"note"`
	MemberName   *string         `json:"member_name"`
	StaffName    *string         `json:"staff_name"`
}

// NewOrderNumber stamps orders the way the desk expects: SO- plus a
// second-resolution timestamp.
func NewOrderNumber(now time.Time) string {
	return "SO-" + now.Format("20060102150405")
}

// CreateSalesOrder writes the order header and all of its line items in one
// transaction. An order without items is rejected before anything is
// written.
func CreateSalesOrder(ctx context.Context, orderNumber string, input *NewSalesOrder) (*SalesOrder, error) {
	if len(input.Items) == 0 {
		return nil, validationError("a sales order needs at least one item")
	}
	db := config.GetDB()

	orderDate, err := ParseDate(input.OrderDate)
	if err != nil {
		return nil, err
	}

	order := SalesOrder{
		OrderNumber:   orderNumber,
		OrderDate:     orderDate,
		MemberId:      input.MemberId,
		StaffId:       input.StaffId,
		StoreId:       input.StoreId,
		Subtotal:      input.Subtotal,
		TotalDiscount: input.TotalDiscount,
		GrandTotal:    input.GrandTotal,
		SaleCategory:  input.SaleCategory,
		Note:          input.Note,
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
		tx.Rollback()
		if isDuplicateKeyErr(err) {
			return nil, validationError("order number %s already exists", orderNumber)
		}
		return nil, err
	}
	for _, item := range input.Items {
		line := SalesOrderItem{
			OrderId:         order.OrderId,
			ProductId:       item.ProductId,
			TherapyId:       item.TherapyId,
			ItemDescription: item.ItemDescription,
			ItemType:        item.ItemType,
			Unit:            item.Unit,
			UnitPrice:       item.UnitPrice,
			Quantity:        item.Quantity,
			Subtotal:        item.Subtotal,
			Category:        item.Category,
			Note:            item.Note,
		}
		if err := tx.WithContext(ctx).Create(&line).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func GetAllSalesOrders(ctx context.Context, keyword string) ([]*SalesOrderSummary, error) {
	db := config.GetDB()

	query := `
		SELECT so.order_id,
		       so.order_number,
		       so.order_date,
		       so.grand_total,
		       so.sale_category,
		       so.note,
		       m.name AS member_name,
		       s.name AS staff_name
		FROM sales_orders so
		LEFT JOIN member m ON so.member_id = m.member_id
		LEFT JOIN staff s ON so.staff_id = s.staff_id`
	var args []interface{}
	if keyword != "" {
		like := "%" + keyword + "%"
		query += ` WHERE so.order_number LIKE ? OR m.name LIKE ? OR s.name LIKE ?`
		args = append(args, like, like, like)
	}
	query += ` ORDER BY so.order_date DESC, so.order_id DESC`

	var rows []*SalesOrderSummary
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func GetSalesOrderItems(ctx context.Context, orderId int) ([]*SalesOrderItem, error) {
	db := config.GetDB()
	var items []*SalesOrderItem
	err := db.WithContext(ctx).Where("order_id = ?", orderId).
		Order("order_item_id").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteSalesOrdersByIds removes the named orders and their items in one
// transaction and reports how many orders actually went away.
func DeleteSalesOrdersByIds(ctx context.Context, orderIds []int) (int64, error) {
	if len(orderIds) == 0 {
		return 0, validationError("no order ids provided")
	}
	db := config.GetDB()

	tx := db.Begin()
	if err := tx.WithContext(ctx).Delete(&SalesOrderItem{}, "order_id IN ?", orderIds).Error; err != nil {
		tx.Rollback()
		return 0, err
	}
	result := tx.WithContext(ctx).Delete(&SalesOrder{}, "order_id IN ?", orderIds)
	if result.Error != nil {
		tx.Rollback()
		return 0, result.Error
	}
	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return result.RowsAffected, nil
}
