package models

import (
	"context"
	"time"

	"github.com/ipnlife/clinic_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Staff struct {
	StaffId          int              `gorm:"primary_key" json:"staff_id"`
	Name             string           `gorm:"size:100;not null" json:"name" binding:"required"`
	Phone            string           `gorm:"size:20" json:"phone"`
	Email            string           `gorm:"size:100" json:"email"`
	Sex              string           `gorm:"size:10" json:"sex"`
	Birthday         *time.Time       `gorm:"type:date" json:"birthday"`
	Address          string           `gorm:"size:255" json:"address"`
	Store            string           `gorm:"size:100" json:"store"`
	PermissionLevel  string           `gorm:"size:50" json:"permission_level"`
	Salary           *decimal.Decimal `gorm:"type:decimal(10,2)" json:"salary"`
	JoinDate         *time.Time       `gorm:"type:date" json:"join_date"`
	EmergencyContact string           `gorm:"size:100" json:"emergency_contact"`
	EmergencyPhone   string           `gorm:"size:20" json:"emergency_phone"`
	Note             string           `gorm:"type:text" json:"note"`
	Status           string           `gorm:"size:20;default:'在職'" json:"status"`
}

type StaffFamily struct {
	StaffFamilyId  int    `gorm:"primary_key" json:"staff_family_id"`
	StaffId        int    `gorm:"not null;index" json:"staff_id"`
	FamilyName     string `gorm:"size:100" json:"family_name"`
	FamilyRelation string `gorm:"size:50" json:"family_relation"`
	FamilyPhone    string `gorm:"size:20" json:"family_phone"`
	FamilyAddress  string `gorm:"size:255" json:"family_address"`
}

type StaffWorkExperience struct {
	StaffWorkExperienceId int        `gorm:"primary_key" json:"staff_work_experience_id"`
	StaffId               int        `gorm:"not null;index" json:"staff_id"`
	WorkCompany           string     `gorm:"size:100" json:"work_company"`
	WorkPosition          string     `gorm:"size:100" json:"work_position"`
	WorkStartDate         *time.Time `gorm:"type:date" json:"work_start_date"`
	WorkEndDate           *time.Time `gorm:"type:date" json:"work_end_date"`
	WorkDescription       string     `gorm:"type:text" json:"work_description"`
}

// StaffListItem is the roster row shown on the staff screen.
type StaffListItem struct {
	StaffId         int    `json:"staff_id"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Status          string `json:"status"`
	Email           string `json:"email"`
	Sex             string `json:"sex"`
	Store           string `json:"store"`
	PermissionLevel string `json:"permission_level"`
}

type StaffDetails struct {
	BasicInfo      *Staff                 `json:"basic_info"`
	FamilyMembers  []*StaffFamily         `json:"family_members"`
	WorkExperience []*StaffWorkExperience `json:"work_experience"`
}

type NewStaffBasicInfo struct {
	Name             string           `json:"name" binding:"required"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email"`
	Sex              string           `json:"sex"`
	Birthday         *string          `json:"birthday"`
	Address          string           `json:"address"`
	Store            string           `json:"store"`
	PermissionLevel  string           `json:"permission_level"`
	Salary           *decimal.Decimal `json:"salary"`
	JoinDate         *string          `json:"join_date"`
	EmergencyContact string           `json:"emergency_contact"`
	EmergencyPhone   string           `json:"emergency_phone"`
	Note             string           `json:"note"`
	Status           string           `json:"status"`
}

type NewStaffFamily struct {
	FamilyName     string `json:"family_name"`
	FamilyRelation string `json:"family_relation"`
	FamilyPhone    string `json:"family_phone"`
	FamilyAddress  string `json:"family_address"`
}

type NewStaffWorkExperience struct {
	WorkCompany     string  `json:"work_company"`
	WorkPosition    string  `json:"work_position"`
	WorkStartDate   *string `json:"work_start_date"`
	WorkEndDate     *string `json:"work_end_date"`
	WorkDescription string  `json:"work_description"`
}

type NewStaff struct {
	BasicInfo      NewStaffBasicInfo         `json:"basic_info" binding:"required"`
	FamilyMembers  []*NewStaffFamily         `json:"family_members"`
	WorkExperience []*NewStaffWorkExperience `json:"work_experience"`
}

const staffListSelect = `
	SELECT s.staff_id,
	       s.name,
	       s.phone,
	       s.status,
	       s.email,
	       s.sex,
	       s.store,
	       s.permission_level
	FROM staff s`

func GetAllStaff(ctx context.Context) ([]*StaffListItem, error) {
	db := config.GetDB()
	var items []*StaffListItem
	err := db.WithContext(ctx).Raw(staffListSelect + `
		ORDER BY s.staff_id DESC`).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func SearchStaff(ctx context.Context, keyword string) ([]*StaffListItem, error) {
	db := config.GetDB()
	var items []*StaffListItem
	like := "%" + keyword + "%"
	err := db.WithContext(ctx).Raw(staffListSelect+`
		WHERE CAST(s.staff_id AS CHAR) LIKE ? OR s.name LIKE ? OR s.phone LIKE ? OR s.email LIKE ?
		ORDER BY s.staff_id DESC`, like, like, like, like).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func GetStaffById(ctx context.Context, staffId int) (*Staff, error) {
	db := config.GetDB()
	var staff Staff
	err := db.WithContext(ctx).First(&staff, "staff_id = ?", staffId).Error
	if err == gorm.ErrRecordNotFound {
		return nil, notFoundError("staff %d not found", staffId)
	} else if err != nil {
		return nil, err
	}
	return &staff, nil
}

func GetStaffDetails(ctx context.Context, staffId int) (*StaffDetails, error) {
	db := config.GetDB()
	staff, err := GetStaffById(ctx, staffId)
	if err != nil {
		return nil, err
	}
	details := &StaffDetails{
		BasicInfo:      staff,
		FamilyMembers:  []*StaffFamily{},
		WorkExperience: []*StaffWorkExperience{},
	}
	err = db.WithContext(ctx).Where("staff_id = ?", staffId).
		Order("staff_family_id").Find(&details.FamilyMembers).Error
	if err != nil {
		return nil, err
	}
	err = db.WithContext(ctx).Where("staff_id = ?", staffId).
		Order("staff_work_experience_id").Find(&details.WorkExperience).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (input *NewStaffBasicInfo) toStaff() (*Staff, error) {
	birthday, err := ParseDatePtr(input.Birthday)
	if err != nil {
		return nil, err
	}
	joinDate, err := ParseDatePtr(input.JoinDate)
	if err != nil {
		return nil, err
	}
	if joinDate == nil {
		now := time.Now()
		joinDate = &now
	}
	status := input.Status
	if status == "" {
		status = "在職"
	}
	return &Staff{
		Name:             input.Name,
		Phone:            input.Phone,
		Email:            input.Email,
		Sex:              input.Sex,
		Birthday:         birthday,
		Address:          input.Address,
		Store:            input.Store,
		PermissionLevel:  input.PermissionLevel,
		Salary:           input.Salary,
		JoinDate:         joinDate,
		EmergencyContact: input.EmergencyContact,
		EmergencyPhone:   input.EmergencyPhone,
		Note:             input.Note,
		Status:           status,
	}, nil
}

func insertStaffSatellites(ctx context.Context, tx *gorm.DB, staffId int, input *NewStaff) error {
	for _, member := range input.FamilyMembers {
		family := StaffFamily{
			StaffId:        staffId,
			FamilyName:     member.FamilyName,
			FamilyRelation: member.FamilyRelation,
			FamilyPhone:    member.FamilyPhone,
			FamilyAddress:  member.FamilyAddress,
		}
		if err := tx.WithContext(ctx).Create(&family).Error; err != nil {
			return err
		}
	}
	for _, experience := range input.WorkExperience {
		startDate, err := ParseDatePtr(experience.WorkStartDate)
		if err != nil {
			return err
		}
		endDate, err := ParseDatePtr(experience.WorkEndDate)
		if err != nil {
			return err
		}
		work := StaffWorkExperience{
			StaffId:         staffId,
			WorkCompany:     experience.WorkCompany,
			WorkPosition:    experience.WorkPosition,
			WorkStartDate:   startDate,
			WorkEndDate:     endDate,
			WorkDescription: experience.WorkDescription,
		}
		if err := tx.WithContext(ctx).Create(&work).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateStaff writes the staff row plus all family and work-experience rows
// in one transaction.
func CreateStaff(ctx context.Context, input *NewStaff) (*Staff, error) {
	db := config.GetDB()
	staff, err := input.BasicInfo.toStaff()
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(staff).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := insertStaffSatellites(ctx, tx, staff.StaffId, input); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// UpdateStaff rewrites the basic info and replaces the family and
// work-experience sets wholesale: the clients always submit the full lists.
func UpdateStaff(ctx context.Context, staffId int, input *NewStaff) error {
	db := config.GetDB()
	if _, err := GetStaffById(ctx, staffId); err != nil {
		return err
	}
	staff, err := input.BasicInfo.toStaff()
	if err != nil {
		return err
	}

	tx := db.Begin()
	err = tx.WithContext(ctx).Model(&Staff{}).Where("staff_id = ?", staffId).
		Updates(map[string]interface{}{
			"name":              staff.Name,
			"phone":             staff.Phone,
			"email":             staff.Email,
			"sex":               staff.Sex,
			"birthday":          staff.Birthday,
			"address":           staff.Address,
			"store":             staff.Store,
			"permission_level":  staff.PermissionLevel,
			"salary":            staff.Salary,
			"join_date":         staff.JoinDate,
			"emergency_contact": staff.EmergencyContact,
			"emergency_phone":   staff.EmergencyPhone,
			"note":              staff.Note,
			"status":            staff.Status,
		}).Error
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.WithContext(ctx).Delete(&StaffFamily{}, "staff_id = ?", staffId).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.WithContext(ctx).Delete(&StaffWorkExperience{}, "staff_id = ?", staffId).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := insertStaffSatellites(ctx, tx, staffId, input); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// DeleteStaff removes a staff member and their satellite rows in one
// transaction.
func DeleteStaff(ctx context.Context, staffId int) error {
	db := config.GetDB()

	tx := db.Begin()
	if err := tx.WithContext(ctx).Delete(&StaffFamily{}, "staff_id = ?", staffId).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.WithContext(ctx).Delete(&StaffWorkExperience{}, "staff_id = ?", staffId).Error; err != nil {
		tx.Rollback()
		return err
	}
	result := tx.WithContext(ctx).Delete(&Staff{}, "staff_id = ?", staffId)
	if result.Error != nil {
		tx.Rollback()
		return result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return notFoundError("staff %d not found", staffId)
	}
	return tx.Commit().Error
}

// GetStaffStoreList lists the distinct store names staff are assigned to.
func GetStaffStoreList(ctx context.Context) ([]string, error) {
	db := config.GetDB()
	var stores []string
	err := db.WithContext(ctx).Raw(`
		SELECT DISTINCT store FROM staff
		WHERE store IS NOT NULL AND store != ''`).Scan(&stores).Error
	if err != nil {
		return nil, err
	}
	return stores, nil
}

func GetStaffPermissionList(ctx context.Context) ([]string, error) {
	db := config.GetDB()
	var permissions []string
	err := db.WithContext(ctx).Raw(`
		SELECT DISTINCT permission_level FROM staff
		WHERE permission_level IS NOT NULL AND permission_level != ''`).Scan(&permissions).Error
	if err != nil {
		return nil, err
	}
	return permissions, nil
}
