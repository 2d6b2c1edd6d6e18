package models

import (
	"context"
	"time"

	"github.com/ipnlife/clinic_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PureRecord is one detox session measurement set (table ipn_pure).
// blood_preasure keeps its schema spelling.
type PureRecord struct {
	IpnPureId          int              `gorm:"primary_key;column:ipn_pure_id" json:"ipn_pure_id"`
	MemberId           int              `gorm:"not null;index" json:"member_id"`
	StaffId            *int             `json:"staff_id"`
	VisceralFat        *decimal.Decimal `gorm:"type:decimal(5,2)" json:"visceral_fat"`
	BloodPreasure      string           `gorm:"column:blood_preasure;size:20" json:"blood_preasure"`
	BasalMetabolicRate *int             `json:"basal_metabolic_rate"`
	Date               time.Time        `gorm:"type:date" json:"date"`
	BodyAge            *int             `json:"body_age"`
	Height             *decimal.Decimal `gorm:"type:decimal(5,2)" json:"height"`
	Weight             *decimal.Decimal `gorm:"type:decimal(5,2)" json:"weight"`
	Bmi                *decimal.Decimal `gorm:"column:bmi;type:decimal(5,2)" json:"bmi"`
	PureItem           string           `gorm:"size:100" json:"pure_item"`
	Note               string           `gorm:"type:text" json:"note"`
}

func (PureRecord) TableName() string {
	return "ipn_pure"
}

type PureRecordDetail struct {
	IpnPureId          int              `json:"ipn_pure_id"`
	MemberId           int              `json:"member_id"`
	Name               *string          `json:"Name"`
	StaffId            *int             `json:"staff_id"`
	StaffName          *string          `json:"staff_name"`
	VisceralFat        *decimal.Decimal `json:"visceral_fat"`
	BloodPreasure      string           `json:"blood_preasure"`
	BasalMetabolicRate *int             `json:"basal_metabolic_rate"`
	Date               string           `json:"date"`
	BodyAge            *int             `json:"body_age"`
	Height             *decimal.Decimal `json:"height"`
	Weight             *decimal.Decimal `json:"weight"`
	Bmi                *decimal.Decimal `json:"bmi"`
	PureItem           string           `json:"pure_item"`
	Note               string           `json:"note"`
}

type pureRecordRow struct {
	IpnPureId          int
	MemberId           int
	Name               *string
	StaffId            *int
	StaffName          *string
	VisceralFat        *decimal.Decimal
	BloodPreasure      string `gorm:"column:blood_preasure"`
	BasalMetabolicRate *int
	Date               *time.Time
	BodyAge            *int
	Height             *decimal.Decimal
	Weight             *decimal.Decimal
	Bmi                *decimal.Decimal `gorm:"column:bmi"`
	PureItem           string
	Note               string
}

// PureRecordFilters narrows the list; empty fields are ignored.
type PureRecordFilters struct {
	Name      string
	PureItem  string
	StaffName string
}

type NewPureRecord struct {
	MemberId           int              `json:"member_id" binding:"required"`
	StaffId            *int             `json:"staff_id"`
	VisceralFat        *decimal.Decimal `json:"visceral_fat"`
	BloodPreasure      string           `json:"blood_preasure"`
	BasalMetabolicRate *int             `json:"basal_metabolic_rate"`
	Date               string           `json:"date"`
	BodyAge            *int             `json:"body_age"`
	Height             *decimal.Decimal `json:"height"`
	Weight             *decimal.Decimal `json:"weight"`
	Bmi                *decimal.Decimal `json:"bmi"`
	PureItem           string           `json:"pure_item"`
	Note               string           `json:"note"`
}

const pureRecordSelect = `
	SELECT p.ipn_pure_id,
	       p.member_id,
	       m.name,
	       p.staff_id,
	       s.name AS staff_name,
	       p.visceral_fat,
	       p.blood_preasure,
	       p.basal_metabolic_rate,
	       p.date,
	       p.body_age,
	       p.height,
	       p.weight,
	       p.bmi,
	       p.pure_item,
	       p.note
	FROM ipn_pure p
	LEFT JOIN member m ON p.member_id = m.member_id
	LEFT JOIN staff s ON p.staff_id = s.staff_id`

func (r *pureRecordRow) toDetail() *PureRecordDetail {
	detail := &PureRecordDetail{
		IpnPureId:          r.IpnPureId,
		MemberId:           r.MemberId,
		Name:               r.Name,
		StaffId:            r.StaffId,
		StaffName:          r.StaffName,
		VisceralFat:        r.VisceralFat,
		BloodPreasure:      r.BloodPreasure,
		BasalMetabolicRate: r.BasalMetabolicRate,
		BodyAge:            r.BodyAge,
		Height:             r.Height,
		Weight:             r.Weight,
		Bmi:                r.Bmi,
		PureItem:           r.PureItem,
		Note:               r.Note,
	}
	if r.Date != nil {
		detail.Date = FormatDate(*r.Date)
	}
	return detail
}

func pureRowsToDetails(rows []*pureRecordRow) []*PureRecordDetail {
	details := make([]*PureRecordDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, row.toDetail())
	}
	return details
}

func GetAllPureRecords(ctx context.Context, filters *PureRecordFilters) ([]*PureRecordDetail, error) {
	db := config.GetDB()

	query := pureRecordSelect + ` WHERE 1=1`
	var args []interface{}
	if filters != nil {
		if filters.Name != "" {
			query += ` AND m.name LIKE ?`
			args = append(args, "%"+filters.Name+"%")
		}
		if filters.PureItem != "" {
			query += ` AND p.pure_item LIKE ?`
			args = append(args, "%"+filters.PureItem+"%")
		}
		if filters.StaffName != "" {
			query += ` AND s.name LIKE ?`
			args = append(args, "%"+filters.StaffName+"%")
		}
	}
	query += ` ORDER BY p.date DESC, p.ipn_pure_id DESC`

	var rows []*pureRecordRow
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return pureRowsToDetails(rows), nil
}

func GetPureRecordById(ctx context.Context, pureId int) (*PureRecordDetail, error) {
	db := config.GetDB()
	var row pureRecordRow
	err := db.WithContext(ctx).Raw(pureRecordSelect+`
		WHERE p.ipn_pure_id = ?`, pureId).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.IpnPureId == 0 {
		return nil, notFoundError("pure record %d not found", pureId)
	}
	return row.toDetail(), nil
}

func GetPureRecordsByMemberId(ctx context.Context, memberId int) ([]*PureRecordDetail, error) {
	db := config.GetDB()
	var rows []*pureRecordRow
	err := db.WithContext(ctx).Raw(pureRecordSelect+`
		WHERE p.member_id = ?
		ORDER BY p.date DESC, p.ipn_pure_id DESC`, memberId).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return pureRowsToDetails(rows), nil
}

func (input *NewPureRecord) toRecord() (*PureRecord, error) {
	date := time.Now()
	if input.Date != "" {
		parsed, err := ParseDate(input.Date)
		if err != nil {
			return nil, err
		}
		date = parsed
	}
	return &PureRecord{
		MemberId:           input.MemberId,
		StaffId:            input.StaffId,
		VisceralFat:        input.VisceralFat,
		BloodPreasure:      input.BloodPreasure,
		BasalMetabolicRate: input.BasalMetabolicRate,
		Date:               date,
		BodyAge:            input.BodyAge,
		Height:             input.Height,
		Weight:             input.Weight,
		Bmi:                input.Bmi,
		PureItem:           input.PureItem,
		Note:               input.Note,
	}, nil
}

func AddPureRecord(ctx context.Context, input *NewPureRecord) (*PureRecord, error) {
	db := config.GetDB()
	record, err := input.toRecord()
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func UpdatePureRecord(ctx context.Context, pureId int, input *NewPureRecord) error {
	db := config.GetDB()
	var existing PureRecord
	err := db.WithContext(ctx).First(&existing, "ipn_pure_id = ?", pureId).Error
	if err == gorm.ErrRecordNotFound {
		return notFoundError("pure record %d not found", pureId)
	} else if err != nil {
		return err
	}
	record, err := input.toRecord()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Model(&PureRecord{}).Where("ipn_pure_id = ?", pureId).
		Updates(map[string]interface{}{
			"member_id":            record.MemberId,
			"staff_id":             record.StaffId,
			"visceral_fat":         record.VisceralFat,
			"blood_preasure":       record.BloodPreasure,
			"basal_metabolic_rate": record.BasalMetabolicRate,
			"date":                 record.Date,
			"body_age":             record.BodyAge,
			"height":               record.Height,
			"weight":               record.Weight,
			"bmi":                  record.Bmi,
			"pure_item":            record.PureItem,
			"note":                 record.Note,
		}).Error
}

func DeletePureRecord(ctx context.Context, pureId int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&PureRecord{}, "ipn_pure_id = ?", pureId)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundError("pure record %d not found", pureId)
	}
	return nil
}
