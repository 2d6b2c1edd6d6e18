package models

import (
	"context"
	"strings"
	"time"

	"github.com/ipnlife/clinic_backend/config"
	"github.com/ipnlife/clinic_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Therapy struct {
	TherapyId int             `gorm:"primary_key" json:"therapy_id"`
	Code      string          `gorm:"size:50;uniqueIndex" json:"code"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"price"`
	Content   string          `gorm:"type:text" json:"content"`
}

type TherapySell struct {
	TherapySellId int             `gorm:"primary_key" json:"therapy_sell_id"`
	TherapyId     int             `gorm:"not null;index" json:"therapy_id"`
	MemberId      int             `gorm:"not null;index" json:"member_id"`
	StoreId       int             `gorm:"not null;index" json:"store_id"`
	StaffId       int             `gorm:"not null" json:"staff_id"`
	Date          time.Time       `gorm:"type:date;not null" json:"date"`
	Amount        int             `gorm:"not null" json:"amount"`
	Discount      decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"discount"`
	PaymentMethod string          `gorm:"size:20" json:"payment_method"`
	SaleCategory  string          `gorm:"size:20" json:"sale_category"`
	Note          string          `gorm:"type:text" json:"note"`
}

// TherapyPackageItem keeps the aliases the package picker screens expect.
type TherapyPackageItem struct {
	TherapyId      int             `json:"therapy_id"`
	TherapyCode    string          `json:"TherapyCode"`
	TherapyPrice   decimal.Decimal `json:"TherapyPrice"`
	TherapyName    string          `json:"TherapyName"`
	TherapyContent string          `json:"TherapyContent"`
}

// TherapySellDetail is one sale joined across member, staff, store and
// therapy, with the purchase date rendered in the ROC calendar.
type TherapySellDetail struct {
	OrderId       int             `json:"Order_ID"`
	MemberId      *int            `json:"Member_ID"`
	MemberName    *string         `json:"MemberName"`
	PurchaseDate  string          `json:"PurchaseDate"`
	PackageName   *string         `json:"PackageName"`
	TherapyCode   *string         `json:"TherapyCode"`
	Sessions      int             `json:"Sessions"`
	PaymentMethod string          `json:"PaymentMethod"`
	StaffName     *string         `json:"StaffName"`
	SaleCategory  string          `json:"SaleCategory"`
	Price         decimal.Decimal `json:"Price"`
	Note          string          `json:"Note"`
	StaffId       *int            `json:"Staff_ID"`
	StoreName     *string         `json:"store_name"`
	StoreId       int             `json:"store_id"`
}

type therapySellRow struct {
	OrderId       int
	MemberId      *int
	MemberName    *string
	PurchaseDate  *time.Time
	PackageName   *string
	TherapyCode   *string
	Sessions      int
	PaymentMethod string
	StaffName     *string
	SaleCategory  string
	Price         decimal.Decimal
	Note          string
	StaffId       *int
	StoreName     *string
	StoreId       int
}

type NewTherapySell struct {
	TherapyId     int             `json:"therapy_id" binding:"required"`
	MemberId      int             `json:"memberId" binding:"required"`
	StoreId       int             `json:"storeId" binding:"required"`
	StaffId       int             `json:"staffId" binding:"required"`
	PurchaseDate  string          `json:"purchaseDate"`
	Amount        int             `json:"amount" binding:"required"`
	Discount      decimal.Decimal `json:"discount"`
	PaymentMethod string          `json:"paymentMethod" binding:"required"`
	SaleCategory  string          `json:"saleCategory" binding:"required"`
	Note          string          `json:"note"`
}

type UpdateTherapySellInput struct {
	MemberId         *int             `json:"memberId"`
	StoreId          *int             `json:"storeId"`
	StaffId          *int             `json:"staffId"`
	PurchaseDate     *string          `json:"purchaseDate"`
	Sessions         *int             `json:"sessions"`
	Discount         *decimal.Decimal `json:"discount"`
	PaymentMethod    *string          `json:"paymentMethod"`
	SaleCategory     *string          `json:"salesCategory"`
	TherapyPackageId *string          `json:"therapyPackageId"`
	TransferCode     *string          `json:"transferCode"`
	CardNumber       *string          `json:"cardNumber"`
	Note             *string          `json:"note"`
}

func GetAllTherapyPackages(ctx context.Context) ([]*TherapyPackageItem, error) {
	db := config.GetDB()
	var items []*TherapyPackageItem
	err := db.WithContext(ctx).Raw(`
		SELECT therapy_id,
		       code AS therapy_code,
		       price AS therapy_price,
		       name AS therapy_name,
		       content AS therapy_content
		FROM therapy
		ORDER BY code`).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func SearchTherapyPackages(ctx context.Context, keyword string) ([]*TherapyPackageItem, error) {
	db := config.GetDB()
	var items []*TherapyPackageItem
	like := "%" + keyword + "%"
	err := db.WithContext(ctx).Raw(`
		SELECT therapy_id,
		       code AS therapy_code,
		       price AS therapy_price,
		       name AS therapy_name,
		       content AS therapy_content
		FROM therapy
		WHERE code LIKE ? OR name LIKE ? OR content LIKE ?
		ORDER BY code`, like, like, like).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

const therapySellSelect = `
	SELECT ts.therapy_sell_id AS order_id,
	       m.member_id AS member_id,
	       m.name AS member_name,
	       ts.date AS purchase_date,
	       t.name AS package_name,
	       t.code AS therapy_code,
	       ts.amount AS sessions,
	       ts.payment_method AS payment_method,
	       s.name AS staff_name,
	       ts.sale_category AS sale_category,
	       IFNULL(t.price, 0) AS price,
	       ts.note AS note,
	       ts.staff_id AS staff_id,
	       st.store_name AS store_name,
	       ts.store_id AS store_id
	FROM therapy_sell ts
	LEFT JOIN member m ON ts.member_id = m.member_id
	LEFT JOIN staff s ON ts.staff_id = s.staff_id
	LEFT JOIN store st ON ts.store_id = st.store_id
	LEFT JOIN therapy t ON ts.therapy_id = t.therapy_id`

func (r *therapySellRow) toDetail() *TherapySellDetail {
	detail := &TherapySellDetail{
		OrderId:       r.OrderId,
		MemberId:      r.MemberId,
		MemberName:    r.MemberName,
		PackageName:   r.PackageName,
		TherapyCode:   r.TherapyCode,
		Sessions:      r.Sessions,
		PaymentMethod: r.PaymentMethod,
		StaffName:     r.StaffName,
		SaleCategory:  r.SaleCategory,
		Price:         r.Price,
		Note:          r.Note,
		StaffId:       r.StaffId,
		StoreName:     r.StoreName,
		StoreId:       r.StoreId,
	}
	if r.PurchaseDate != nil {
		detail.PurchaseDate = FormatROCDate(*r.PurchaseDate)
	}
	return detail
}

func GetAllTherapySells(ctx context.Context, storeId *int) ([]*TherapySellDetail, error) {
	db := config.GetDB()
	var rows []*therapySellRow
	var err error
	if storeId != nil {
		err = db.WithContext(ctx).Raw(therapySellSelect+`
			WHERE ts.store_id = ?
			ORDER BY ts.date DESC`, *storeId).Scan(&rows).Error
	} else {
		err = db.WithContext(ctx).Raw(therapySellSelect + `
			ORDER BY ts.date DESC`).Scan(&rows).Error
	}
	if err != nil {
		return nil, err
	}
	details := make([]*TherapySellDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, row.toDetail())
	}
	return details, nil
}

func SearchTherapySells(ctx context.Context, keyword string, storeId *int) ([]*TherapySellDetail, error) {
	db := config.GetDB()
	var rows []*therapySellRow
	like := "%" + keyword + "%"
	where := ` WHERE (m.name LIKE ? OR m.member_id LIKE ? OR s.name LIKE ?)`
	var err error
	if storeId != nil {
		err = db.WithContext(ctx).Raw(therapySellSelect+where+`
			AND ts.store_id = ? ORDER BY ts.date DESC`, like, like, like, *storeId).Scan(&rows).Error
	} else {
		err = db.WithContext(ctx).Raw(therapySellSelect+where+`
			ORDER BY ts.date DESC`, like, like, like).Scan(&rows).Error
	}
	if err != nil {
		return nil, err
	}
	details := make([]*TherapySellDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, row.toDetail())
	}
	return details, nil
}

// InsertManyTherapySells writes a batch of sales in one transaction. One bad
// row fails the whole batch; an empty batch is a client error.
func InsertManyTherapySells(ctx context.Context, inputs []*NewTherapySell) ([]int, error) {
	if len(inputs) == 0 {
		return nil, validationError("no sales provided")
	}
	db := config.GetDB()

	tx := db.Begin()
	createdIds := make([]int, 0, len(inputs))
	for _, input := range inputs {
		date := time.Now()
		if input.PurchaseDate != "" {
			parsed, err := ParseDate(input.PurchaseDate)
			if err != nil {
				tx.Rollback()
				return nil, err
			}
			date = parsed
		}
		sell := TherapySell{
			TherapyId:     input.TherapyId,
			MemberId:      input.MemberId,
			StoreId:       input.StoreId,
			StaffId:       input.StaffId,
			Date:          date,
			Amount:        input.Amount,
			Discount:      input.Discount,
			PaymentMethod: input.PaymentMethod,
			SaleCategory:  input.SaleCategory,
			Note:          input.Note,
		}
		if err := tx.WithContext(ctx).Create(&sell).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		createdIds = append(createdIds, sell.TherapySellId)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return createdIds, nil
}

// annotateNote prepends "label: value, " to the note, replacing the value if
// the label is already present.
func annotateNote(note string, label string, value string) string {
	marker := label + ":"
	if idx := strings.Index(note, marker); idx >= 0 {
		rest := note[idx+len(marker):]
		old := rest
		if comma := strings.Index(rest, ","); comma >= 0 {
			old = rest[:comma]
		}
		return strings.Replace(note, old, " "+value, 1)
	}
	if note == "" {
		return marker + " " + value
	}
	return marker + " " + value + ", " + note
}

func UpdateTherapySell(ctx context.Context, saleId int, input *UpdateTherapySellInput) error {
	db := config.GetDB()

	var existing TherapySell
	err := db.WithContext(ctx).First(&existing, "therapy_sell_id = ?", saleId).Error
	if err == gorm.ErrRecordNotFound {
		return notFoundError("therapy sell %d not found", saleId)
	} else if err != nil {
		return err
	}

	therapyId := existing.TherapyId
	note := utils.DereferencePtr(input.Note, existing.Note)
	if input.TransferCode != nil && *input.TransferCode != "" {
		note = annotateNote(note, "轉帳碼", *input.TransferCode)
	}
	if input.CardNumber != nil && *input.CardNumber != "" {
		note = annotateNote(note, "卡號", *input.CardNumber)
	}
	if input.TherapyPackageId != nil && *input.TherapyPackageId != "" {
		var therapy Therapy
		err := db.WithContext(ctx).First(&therapy, "code = ?", *input.TherapyPackageId).Error
		if err == gorm.ErrRecordNotFound {
			// Keep the sale but record the unresolvable code for the clerk.
			note = annotateNote(note, "療程代碼", *input.TherapyPackageId+" (未找到對應療程)")
		} else if err != nil {
			return err
		} else {
			therapyId = therapy.TherapyId
		}
	}

	date := existing.Date
	if input.PurchaseDate != nil {
		parsed, err := ParseDate(*input.PurchaseDate)
		if err != nil {
			return err
		}
		date = parsed
	}

	return db.WithContext(ctx).Model(&TherapySell{}).Where("therapy_sell_id = ?", saleId).
		Updates(map[string]interface{}{
			"member_id":      utils.DereferencePtr(input.MemberId, existing.MemberId),
			"store_id":       utils.DereferencePtr(input.StoreId, existing.StoreId),
			"staff_id":       utils.DereferencePtr(input.StaffId, existing.StaffId),
			"date":           date,
			"amount":         utils.DereferencePtr(input.Sessions, existing.Amount),
			"discount":       utils.DereferencePtr(input.Discount, existing.Discount),
			"payment_method": utils.DereferencePtr(input.PaymentMethod, existing.PaymentMethod),
			"sale_category":  utils.DereferencePtr(input.SaleCategory, existing.SaleCategory),
			"therapy_id":     therapyId,
			"note":           note,
		}).Error
}

func DeleteTherapySell(ctx context.Context, saleId int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&TherapySell{}, "therapy_sell_id = ?", saleId)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundError("therapy sell %d not found", saleId)
	}
	return nil
}
