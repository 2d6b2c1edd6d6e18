package models

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bsm/redislock"
	"github.com/ipnlife/clinic_backend/config"
	"github.com/ipnlife/clinic_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductSell struct {
	ProductSellId  int             `gorm:"primary_key" json:"product_sell_id"`
	MemberId       int             `gorm:"not null;index" json:"member_id"`
	StaffId        int             `gorm:"not null" json:"staff_id"`
	StoreId        int             `gorm:"not null;index" json:"store_id"`
	ProductId      int             `gorm:"not null;index" json:"product_id"`
	Date           time.Time       `gorm:"type:date;not null" json:"date"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount_amount"`
	FinalPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"final_price"`
	PaymentMethod  string          `gorm:"size:20;default:'現金'" json:"payment_method"`
	SaleCategory   string          `gorm:"size:20" json:"sale_category"`
	Note           string          `gorm:"type:text" json:"note"`
}

// ProductSellDetail is a sale joined with the names the list screens show.
type ProductSellDetail struct {
	ProductSellId  int             `json:"product_sell_id"`
	MemberId       int             `json:"member_id"`
	MemberName     *string         `json:"member_name"`
	StoreId        int             `json:"store_id"`
	StoreName      *string         `json:"store_name"`
	ProductId      int             `json:"product_id"`
	ProductName    *string         `json:"product_name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalPrice     decimal.Decimal `json:"final_price"`
	PaymentMethod  string          `json:"payment_method"`
	StaffId        *int            `json:"staff_id"`
	StaffName      *string         `json:"staff_name"`
	SaleCategory   string          `json:"sale_category"`
	Date           time.Time       `json:"date"`
	Note           string          `json:"note"`
}

type NewProductSell struct {
	MemberId       int              `json:"member_id" binding:"required"`
	StaffId        int              `json:"staff_id" binding:"required"`
	StoreId        int              `json:"store_id" binding:"required"`
	ProductId      int              `json:"product_id" binding:"required"`
	Date           string           `json:"date" binding:"required"`
	Quantity       int              `json:"quantity" binding:"required"`
	UnitPrice      decimal.Decimal  `json:"unit_price" binding:"required"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	FinalPrice     *decimal.Decimal `json:"final_price" binding:"required"`
	PaymentMethod  string           `json:"payment_method" binding:"required"`
	SaleCategory   string           `json:"sale_category" binding:"required"`
	Note           string           `json:"note"`
}

type UpdateProductSellInput struct {
	MemberId       *int             `json:"member_id"`
	StaffId        *int             `json:"staff_id"`
	StoreId        *int             `json:"store_id"`
	ProductId      *int             `json:"product_id"`
	Date           *string          `json:"date"`
	Quantity       *int             `json:"quantity"`
	UnitPrice      *decimal.Decimal `json:"unit_price"`
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
	FinalPrice     *decimal.Decimal `json:"final_price"`
	PaymentMethod  *string          `json:"payment_method"`
	SaleCategory   *string          `json:"sale_category"`
	Note           *string          `json:"note"`
}

const productSellSelect = `
	SELECT ps.product_sell_id,
	       ps.member_id,
	       m.name AS member_name,
	       ps.store_id,
	       st.store_name AS store_name,
	       ps.product_id,
	       p.name AS product_name,
	       ps.quantity,
	       ps.unit_price,
	       ps.discount_amount,
	       ps.final_price,
	       ps.payment_method,
	       ps.staff_id,
	       sf.name AS staff_name,
	       ps.sale_category,
	       ps.date,
	       ps.note
	FROM product_sell ps
	LEFT JOIN member m ON ps.member_id = m.member_id
	LEFT JOIN store st ON ps.store_id = st.store_id
	LEFT JOIN product p ON ps.product_id = p.product_id
	LEFT JOIN staff sf ON ps.staff_id = sf.staff_id`

func GetAllProductSells(ctx context.Context, storeId *int) ([]*ProductSellDetail, error) {
	db := config.GetDB()
	var rows []*ProductSellDetail
	query := db.WithContext(ctx)
	if storeId != nil {
		err := query.Raw(productSellSelect+`
			WHERE ps.store_id = ?
			ORDER BY ps.date DESC, ps.product_sell_id DESC`, *storeId).Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		return rows, nil
	}
	err := query.Raw(productSellSelect + `
		ORDER BY ps.date DESC, ps.product_sell_id DESC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func SearchProductSells(ctx context.Context, keyword string, storeId *int) ([]*ProductSellDetail, error) {
	db := config.GetDB()
	var rows []*ProductSellDetail
	like := "%" + keyword + "%"
	where := ` WHERE (m.name LIKE ? OR p.name LIKE ? OR sf.name LIKE ?)`
	order := ` ORDER BY ps.date DESC, ps.product_sell_id DESC`
	if storeId != nil {
		err := db.WithContext(ctx).Raw(productSellSelect+where+` AND ps.store_id = ?`+order,
			like, like, like, *storeId).Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		return rows, nil
	}
	err := db.WithContext(ctx).Raw(productSellSelect+where+order, like, like, like).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func GetProductSellById(ctx context.Context, sellId int) (*ProductSellDetail, error) {
	db := config.GetDB()
	var row ProductSellDetail
	err := db.WithContext(ctx).Raw(productSellSelect+`
		WHERE ps.product_sell_id = ?`, sellId).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ProductSellId == 0 {
		return nil, notFoundError("product sell %d not found", sellId)
	}
	return &row, nil
}

// obtainStoreLocksOrdered takes the stock lock for every distinct store id in
// ascending order, so two writers touching the same pair of stores can never
// deadlock on each other.
func obtainStoreLocksOrdered(ctx context.Context, functionName string, storeIds ...int) ([]*redislock.Lock, error) {
	distinct := map[int]bool{}
	var ids []int
	for _, id := range storeIds {
		if !distinct[id] {
			distinct[id] = true
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	var locks []*redislock.Lock
	for _, id := range ids {
		lock, err := utils.ObtainStoreStockLock(ctx, id, "models", functionName)
		if err != nil {
			releaseStoreLocks(ctx, locks)
			return nil, err
		}
		locks = append(locks, lock)
	}
	return locks, nil
}

func releaseStoreLocks(ctx context.Context, locks []*redislock.Lock) {
	for _, lock := range locks {
		if err := lock.Release(ctx); err != nil && err != redislock.ErrLockNotHeld {
			config.LogError(config.GetLogger(), "models", "releaseStoreLocks", "Error releasing stock lock", lock.Key(), err)
		}
	}
}

const storeLockRetries = 3

// lockedSaleTx runs fn against the sale inside a transaction, with the store
// stock lock held. The lock key depends on the row's store, so the row is
// peeked first to learn which lock to take and then re-read under the lock;
// the re-read is the one fn sees. If the sale moved store between the peek
// and the lock, the lock is taken again for the store it lives in now.
func lockedSaleTx(ctx context.Context, functionName string, sellId int, extraStoreIds []int, fn func(tx *gorm.DB, sell *ProductSell) error) error {
	db := config.GetDB()

	for attempt := 0; attempt < storeLockRetries; attempt++ {
		var peek ProductSell
		err := db.WithContext(ctx).First(&peek, "product_sell_id = ?", sellId).Error
		if err == gorm.ErrRecordNotFound {
			return notFoundError("product sell %d not found", sellId)
		} else if err != nil {
			return err
		}

		locks, err := obtainStoreLocksOrdered(ctx, functionName, append([]int{peek.StoreId}, extraStoreIds...)...)
		if err != nil {
			return err
		}

		tx := db.Begin()
		var sell ProductSell
		err = tx.WithContext(ctx).First(&sell, "product_sell_id = ?", sellId).Error
		if err == gorm.ErrRecordNotFound {
			tx.Rollback()
			releaseStoreLocks(ctx, locks)
			return notFoundError("product sell %d not found", sellId)
		} else if err != nil {
			tx.Rollback()
			releaseStoreLocks(ctx, locks)
			return err
		}
		if sell.StoreId != peek.StoreId {
			tx.Rollback()
			releaseStoreLocks(ctx, locks)
			continue
		}

		if err := fn(tx, &sell); err != nil {
			tx.Rollback()
			releaseStoreLocks(ctx, locks)
			return err
		}
		err = tx.Commit().Error
		releaseStoreLocks(ctx, locks)
		return err
	}
	return fmt.Errorf("product sell %d changed store repeatedly while locking", sellId)
}

// InsertProductSell records a sale and decrements the store's stock for the
// product in the same transaction. The sold quantity always leaves stock, so
// the delta is negative regardless of the sign the caller sent.
func InsertProductSell(ctx context.Context, input *NewProductSell) (*ProductSell, error) {
	db := config.GetDB()

	date, err := ParseDate(input.Date)
	if err != nil {
		return nil, err
	}
	if input.Quantity <= 0 {
		return nil, validationError("quantity must be positive")
	}
	if input.FinalPrice == nil {
		return nil, validationError("final_price is required")
	}

	sell := ProductSell{
		MemberId:       input.MemberId,
		StaffId:        input.StaffId,
		StoreId:        input.StoreId,
		ProductId:      input.ProductId,
		Date:           date,
		Quantity:       input.Quantity,
		UnitPrice:      input.UnitPrice,
		DiscountAmount: input.DiscountAmount,
		FinalPrice:     *input.FinalPrice,
		PaymentMethod:  input.PaymentMethod,
		SaleCategory:   input.SaleCategory,
		Note:           input.Note,
	}

	locks, err := obtainStoreLocksOrdered(ctx, "InsertProductSell", input.StoreId)
	if err != nil {
		return nil, err
	}
	defer releaseStoreLocks(ctx, locks)

	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&sell).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := ApplyQuantityDelta(ctx, tx, sell.ProductId, sell.StoreId, -sell.Quantity); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &sell, nil
}

// UpdateProductSell rewrites a sale and reconciles stock when the product,
// store, or quantity changed: the original quantity goes back to the original
// product/store pair and the new quantity comes off the new pair.
func UpdateProductSell(ctx context.Context, sellId int, input *UpdateProductSellInput) error {
	updates := map[string]interface{}{}
	if input.MemberId != nil {
		updates["member_id"] = *input.MemberId
	}
	if input.StaffId != nil {
		updates["staff_id"] = *input.StaffId
	}
	if input.StoreId != nil {
		updates["store_id"] = *input.StoreId
	}
	if input.ProductId != nil {
		updates["product_id"] = *input.ProductId
	}
	if input.Date != nil {
		date, err := ParseDate(*input.Date)
		if err != nil {
			return err
		}
		updates["date"] = date
	}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return validationError("quantity must be positive")
		}
		updates["quantity"] = *input.Quantity
	}
	if input.UnitPrice != nil {
		updates["unit_price"] = *input.UnitPrice
	}
	if input.DiscountAmount != nil {
		updates["discount_amount"] = *input.DiscountAmount
	}
	if input.FinalPrice != nil {
		updates["final_price"] = *input.FinalPrice
	}
	if input.PaymentMethod != nil {
		updates["payment_method"] = *input.PaymentMethod
	}
	if input.SaleCategory != nil {
		updates["sale_category"] = *input.SaleCategory
	}
	if input.Note != nil {
		updates["note"] = *input.Note
	}
	if len(updates) == 0 {
		return nil
	}

	var extraStoreIds []int
	if input.StoreId != nil {
		extraStoreIds = append(extraStoreIds, *input.StoreId)
	}

	return lockedSaleTx(ctx, "UpdateProductSell", sellId, extraStoreIds, func(tx *gorm.DB, original *ProductSell) error {
		newProductId := utils.DereferencePtr(input.ProductId, original.ProductId)
		newQuantity := utils.DereferencePtr(input.Quantity, original.Quantity)
		newStoreId := utils.DereferencePtr(input.StoreId, original.StoreId)

		stockChanged := newProductId != original.ProductId ||
			newQuantity != original.Quantity ||
			newStoreId != original.StoreId

		err := tx.WithContext(ctx).Model(&ProductSell{}).Where("product_sell_id = ?", sellId).
			Updates(updates).Error
		if err != nil {
			return err
		}

		if stockChanged {
			if err := ApplyQuantityDelta(ctx, tx, original.ProductId, original.StoreId, original.Quantity); err != nil {
				return err
			}
			if err := ApplyQuantityDelta(ctx, tx, newProductId, newStoreId, -newQuantity); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteProductSell removes a sale and returns its quantity to the store the
// sale was recorded against.
func DeleteProductSell(ctx context.Context, sellId int) error {
	return lockedSaleTx(ctx, "DeleteProductSell", sellId, nil, func(tx *gorm.DB, sell *ProductSell) error {
		if err := tx.WithContext(ctx).Delete(&ProductSell{}, "product_sell_id = ?", sellId).Error; err != nil {
			return err
		}
		return ApplyQuantityDelta(ctx, tx, sell.ProductId, sell.StoreId, sell.Quantity)
	})
}
