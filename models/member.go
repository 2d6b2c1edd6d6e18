package models

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ipnlife/clinic_backend/config"
	"gorm.io/gorm"
)

type Member struct {
	MemberId   int        `gorm:"primary_key" json:"member_id"`
	MemberCode string     `gorm:"size:20" json:"member_code"`
	Name       string     `gorm:"size:100;not null" json:"name" binding:"required"`
	Birthday   *time.Time `gorm:"type:date" json:"birthday"`
	Address    string     `gorm:"size:255" json:"address"`
	Phone      string     `gorm:"size:20" json:"phone"`
	Gender     string     `gorm:"size:10" json:"gender"`
	BloodType  string     `gorm:"size:5" json:"blood_type"`
	LineId     string     `gorm:"size:50" json:"line_id"`
	InferrerId *int       `json:"inferrer_id"`
	Occupation string     `gorm:"size:100" json:"occupation"`
	Note       string     `gorm:"type:text" json:"note"`
}

type NewMember struct {
	MemberCode string  `json:"member_code"`
	Name       string  `json:"name" binding:"required"`
	Birthday   *string `json:"birthday"`
	Address    string  `json:"address"`
	Phone      string  `json:"phone"`
	Gender     string  `json:"gender"`
	BloodType  string  `json:"blood_type"`
	LineId     string  `json:"line_id"`
	InferrerId *int    `json:"inferrer_id"`
	Occupation string  `json:"occupation"`
	Note       string  `json:"note"`
}

// memberDeleteOrder lists every table holding rows keyed by member_id,
// children before parents. medical_record goes first because it references
// usual_sympton_and_family_history rows that are removed later in the pass.
var memberDeleteOrder = []string{
	"medical_record",
	"product_sell",
	"therapy_sell",
	"therapy_record",
	"ipn_pure",
	"ipn_stress",
	"usual_sympton_and_family_history",
}

func (input *NewMember) toMember() (*Member, error) {
	birthday, err := ParseDatePtr(input.Birthday)
	if err != nil {
		return nil, err
	}
	return &Member{
		MemberCode: input.MemberCode,
		Name:       input.Name,
		Birthday:   birthday,
		Address:    input.Address,
		Phone:      input.Phone,
		Gender:     input.Gender,
		BloodType:  input.BloodType,
		LineId:     input.LineId,
		InferrerId: input.InferrerId,
		Occupation: input.Occupation,
		Note:       input.Note,
	}, nil
}

func GetAllMembers(ctx context.Context) ([]*Member, error) {
	db := config.GetDB()
	var members []*Member
	if err := db.WithContext(ctx).Order("member_id").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func SearchMembers(ctx context.Context, keyword string) ([]*Member, error) {
	db := config.GetDB()
	var members []*Member
	like := "%" + keyword + "%"
	err := db.WithContext(ctx).
		Where("name LIKE ? OR phone LIKE ? OR member_id LIKE ?", like, like, like).
		Order("member_id").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func GetMemberById(ctx context.Context, memberId int) (*Member, error) {
	db := config.GetDB()
	var member Member
	err := db.WithContext(ctx).First(&member, "member_id = ?", memberId).Error
	if err == gorm.ErrRecordNotFound {
		return nil, notFoundError("member %d not found", memberId)
	} else if err != nil {
		return nil, err
	}
	return &member, nil
}

func CheckMemberExists(ctx context.Context, memberId int) (bool, error) {
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&Member{}).Where("member_id = ?", memberId).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func CreateMember(ctx context.Context, input *NewMember) (*Member, error) {
	db := config.GetDB()
	member, err := input.toMember()
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

func UpdateMember(ctx context.Context, memberId int, input *NewMember) (*Member, error) {
	db := config.GetDB()
	if _, err := GetMemberById(ctx, memberId); err != nil {
		return nil, err
	}
	updated, err := input.toMember()
	if err != nil {
		return nil, err
	}
	updated.MemberId = memberId
	err = db.WithContext(ctx).Model(&Member{}).Where("member_id = ?", memberId).
		Updates(map[string]interface{}{
			"member_code": updated.MemberCode,
			"name":        updated.Name,
			"birthday":    updated.Birthday,
			"address":     updated.Address,
			"phone":       updated.Phone,
			"gender":      updated.Gender,
			"blood_type":  updated.BloodType,
			"line_id":     updated.LineId,
			"inferrer_id": updated.InferrerId,
			"occupation":  updated.Occupation,
			"note":        updated.Note,
		}).Error
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteMemberAndRelatedData removes a member and every record keyed to them
// in one transaction. Child tables go first so the member row deletes clean;
// zero rows on the member table itself means the id never existed.
func DeleteMemberAndRelatedData(ctx context.Context, memberId int) error {
	db := config.GetDB()
	logger := config.GetLogger()

	tx := db.Begin()
	for _, table := range memberDeleteOrder {
		if err := tx.WithContext(ctx).Exec("DELETE FROM "+table+" WHERE member_id = ?", memberId).Error; err != nil {
			tx.Rollback()
			config.LogError(logger, "models", "DeleteMemberAndRelatedData", "Error deleting from "+table, memberId, err)
			return err
		}
	}

	result := tx.WithContext(ctx).Exec("DELETE FROM member WHERE member_id = ?", memberId)
	if result.Error != nil {
		tx.Rollback()
		config.LogError(logger, "models", "DeleteMemberAndRelatedData", "Error deleting member", memberId, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return notFoundError("member %d not found", memberId)
	}

	return tx.Commit().Error
}

var memberCodePattern = regexp.MustCompile(`^([A-Za-z]*)(\d+)$`)

// NextMemberCode derives the next code from the last issued one, keeping the
// prefix and zero padding ("M009" -> "M010"). Unparseable or empty input
// restarts the sequence at M001.
func NextMemberCode(lastCode string) string {
	match := memberCodePattern.FindStringSubmatch(lastCode)
	if match == nil {
		return "M001"
	}
	prefix, digits := match[1], match[2]
	next, err := strconv.Atoi(digits)
	if err != nil {
		return "M001"
	}
	return prefix + leftPadNumber(next+1, len(digits))
}

func leftPadNumber(n int, width int) string {
	s := strconv.Itoa(n)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func GetNextMemberCode(ctx context.Context) (string, error) {
	db := config.GetDB()
	var member Member
	err := db.WithContext(ctx).Order("member_id DESC").First(&member).Error
	if err == gorm.ErrRecordNotFound {
		return "M001", nil
	} else if err != nil {
		return "", err
	}
	return NextMemberCode(member.MemberCode), nil
}
