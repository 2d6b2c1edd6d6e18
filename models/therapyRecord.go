package models

import (
	"context"
	"time"

	"github.com/ipnlife/clinic_backend/config"
	"gorm.io/gorm"
)

type TherapyRecord struct {
	TherapyRecordId int       `gorm:"primary_key" json:"therapy_record_id"`
	MemberId        int       `gorm:"not null;index" json:"member_id"`
	StoreId         int       `gorm:"not null;index" json:"store_id"`
	StaffId         int       `json:"staff_id"`
	TherapyId       *int      `gorm:"index" json:"therapy_id"`
	Date            time.Time `gorm:"type:date;not null" json:"date"`
	Note            string    `gorm:"type:text" json:"note"`
}

type TherapyRecordDetail struct {
	TherapyRecordId   int     `json:"therapy_record_id"`
	MemberId          *int    `json:"member_id"`
	MemberName        *string `json:"member_name"`
	StoreId           *int    `json:"store_id"`
	StoreName         *string `json:"store_name"`
	StaffId           *int    `json:"staff_id"`
	StaffName         *string `json:"staff_name"`
	Date              string  `json:"date"`
	Note              string  `json:"note"`
	TherapyId         *int    `json:"therapy_id"`
	PackageName       *string `json:"package_name"`
	TherapyContent    *string `json:"therapy_content"`
	RemainingSessions *int    `json:"remaining_sessions"`
}

type therapyRecordRow struct {
	TherapyRecordId int
	MemberId        *int
	MemberName      *string
	StoreId         *int
	StoreName       *string
	StaffId         *int
	StaffName       *string
	Date            *time.Time
	Note            string
	TherapyId       *int
	PackageName     *string
	TherapyContent  *string
}

type NewTherapyRecord struct {
	MemberId  int    `json:"member_id" binding:"required"`
	StoreId   int    `json:"store_id" binding:"required"`
	StaffId   int    `json:"staff_id"`
	TherapyId *int   `json:"therapy_id"`
	Date      string `json:"date" binding:"required"`
	Note      string `json:"note"`
}

const therapyRecordSelect = `
	SELECT tr.therapy_record_id,
	       m.member_id AS member_id,
	       m.name AS member_name,
	       s.store_id AS store_id,
	       s.store_name AS store_name,
	       st.staff_id AS staff_id,
	       st.name AS staff_name,
	       tr.date,
	       tr.note,
	       tr.therapy_id,
	       t.name AS package_name,
	       t.content AS therapy_content
	FROM therapy_record tr
	LEFT JOIN member m ON tr.member_id = m.member_id
	LEFT JOIN store s ON tr.store_id = s.store_id
	LEFT JOIN staff st ON tr.staff_id = st.staff_id
	LEFT JOIN therapy t ON tr.therapy_id = t.therapy_id`

// GetRemainingSessions is the member's purchased session total for a therapy
// minus the visits already recorded against it.
func GetRemainingSessions(ctx context.Context, memberId int, therapyId int) (int, error) {
	db := config.GetDB()
	var purchased int
	err := db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(amount), 0)
		FROM therapy_sell
		WHERE member_id = ? AND therapy_id = ?`, memberId, therapyId).Scan(&purchased).Error
	if err != nil {
		return 0, err
	}
	var used int64
	err = db.WithContext(ctx).Model(&TherapyRecord{}).
		Where("member_id = ? AND therapy_id = ?", memberId, therapyId).
		Count(&used).Error
	if err != nil {
		return 0, err
	}
	return purchased - int(used), nil
}

func (r *therapyRecordRow) toDetail(ctx context.Context) (*TherapyRecordDetail, error) {
	detail := &TherapyRecordDetail{
		TherapyRecordId: r.TherapyRecordId,
		MemberId:        r.MemberId,
		MemberName:      r.MemberName,
		StoreId:         r.StoreId,
		StoreName:       r.StoreName,
		StaffId:         r.StaffId,
		StaffName:       r.StaffName,
		Note:            r.Note,
		TherapyId:       r.TherapyId,
		PackageName:     r.PackageName,
		TherapyContent:  r.TherapyContent,
	}
	if r.Date != nil {
		detail.Date = FormatDate(*r.Date)
	}
	if r.MemberId != nil && r.TherapyId != nil {
		remaining, err := GetRemainingSessions(ctx, *r.MemberId, *r.TherapyId)
		if err != nil {
			return nil, err
		}
		detail.RemainingSessions = &remaining
	}
	return detail, nil
}

func therapyRecordRowsToDetails(ctx context.Context, rows []*therapyRecordRow) ([]*TherapyRecordDetail, error) {
	details := make([]*TherapyRecordDetail, 0, len(rows))
	for _, row := range rows {
		detail, err := row.toDetail(ctx)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func GetAllTherapyRecords(ctx context.Context, storeId *int) ([]*TherapyRecordDetail, error) {
	db := config.GetDB()
	var rows []*therapyRecordRow
	var err error
	if storeId != nil {
		err = db.WithContext(ctx).Raw(therapyRecordSelect+`
			WHERE tr.store_id = ?
			ORDER BY tr.date DESC, tr.therapy_record_id DESC`, *storeId).Scan(&rows).Error
	} else {
		err = db.WithContext(ctx).Raw(therapyRecordSelect + `
			ORDER BY tr.date DESC, tr.therapy_record_id DESC`).Scan(&rows).Error
	}
	if err != nil {
		return nil, err
	}
	return therapyRecordRowsToDetails(ctx, rows)
}

func SearchTherapyRecords(ctx context.Context, keyword string, storeId *int) ([]*TherapyRecordDetail, error) {
	db := config.GetDB()
	var rows []*therapyRecordRow
	like := "%" + keyword + "%"
	cond := `(m.name LIKE ? OR CAST(m.member_id AS CHAR) LIKE ? OR st.name LIKE ? OR tr.note LIKE ?)`
	var err error
	if storeId != nil {
		err = db.WithContext(ctx).Raw(therapyRecordSelect+`
			WHERE tr.store_id = ? AND `+cond+`
			ORDER BY tr.date DESC, tr.therapy_record_id DESC`, *storeId, like, like, like, like).Scan(&rows).Error
	} else {
		err = db.WithContext(ctx).Raw(therapyRecordSelect+`
			WHERE `+cond+`
			ORDER BY tr.date DESC, tr.therapy_record_id DESC`, like, like, like, like).Scan(&rows).Error
	}
	if err != nil {
		return nil, err
	}
	return therapyRecordRowsToDetails(ctx, rows)
}

func GetTherapyRecordById(ctx context.Context, recordId int) (*TherapyRecordDetail, error) {
	db := config.GetDB()
	var row therapyRecordRow
	err := db.WithContext(ctx).Raw(therapyRecordSelect+`
		WHERE tr.therapy_record_id = ?`, recordId).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.TherapyRecordId == 0 {
		return nil, notFoundError("therapy record %d not found", recordId)
	}
	return row.toDetail(ctx)
}

func InsertTherapyRecord(ctx context.Context, input *NewTherapyRecord) (*TherapyRecord, error) {
	db := config.GetDB()
	date, err := ParseDate(input.Date)
	if err != nil {
		return nil, err
	}
	record := TherapyRecord{
		MemberId:  input.MemberId,
		StoreId:   input.StoreId,
		StaffId:   input.StaffId,
		TherapyId: input.TherapyId,
		Date:      date,
		Note:      input.Note,
	}
	if err := db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func UpdateTherapyRecord(ctx context.Context, recordId int, input *NewTherapyRecord) error {
	db := config.GetDB()
	var existing TherapyRecord
	err := db.WithContext(ctx).First(&existing, "therapy_record_id = ?", recordId).Error
	if err == gorm.ErrRecordNotFound {
		return notFoundError("therapy record %d not found", recordId)
	} else if err != nil {
		return err
	}
	date, err := ParseDate(input.Date)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Model(&TherapyRecord{}).Where("therapy_record_id = ?", recordId).
		Updates(map[string]interface{}{
			"member_id":  input.MemberId,
			"store_id":   input.StoreId,
			"staff_id":   input.StaffId,
			"therapy_id": input.TherapyId,
			"date":       date,
			"note":       input.Note,
		}).Error
}

func DeleteTherapyRecord(ctx context.Context, recordId int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&TherapyRecord{}, "therapy_record_id = ?", recordId)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundError("therapy record %d not found", recordId)
	}
	return nil
}
