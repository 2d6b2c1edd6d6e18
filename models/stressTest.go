package models

import (
	"context"

	"github.com/ipnlife/clinic_backend/config"
	"gorm.io/gorm"
)

// StressTest is one questionnaire result (table ipn_stress). The four
// section scores are stored separately; the total is derived.
type StressTest struct {
	IpnStressId int `gorm:"primary_key;column:ipn_stress_id" json:"ipn_stress_id"`
	MemberId    int `gorm:"not null;index" json:"member_id"`
	AScore      int `gorm:"column:a_score;default:0" json:"a_score"`
	BScore      int `gorm:"column:b_score;default:0" json:"b_score"`
	CScore      int `gorm:"column:c_score;default:0" json:"c_score"`
	DScore      int `gorm:"column:d_score;default:0" json:"d_score"`
}

func (StressTest) TableName() string {
	return "ipn_stress"
}

type StressTestDetail struct {
	IpnStressId int     `json:"ipn_stress_id"`
	MemberId    int     `json:"member_id"`
	Name        *string `json:"Name"`
	AScore      int     `json:"a_score"`
	BScore      int     `json:"b_score"`
	CScore      int     `json:"c_score"`
	DScore      int     `json:"d_score"`
	TotalScore  int     `json:"total_score"`
}

type StressTestFilters struct {
	Name     string
	MemberId *int
}

type NewStressTest struct {
	MemberId int `json:"member_id" binding:"required"`
	AScore   int `json:"a_score"`
	BScore   int `json:"b_score"`
	CScore   int `json:"c_score"`
	DScore   int `json:"d_score"`
}

const stressTestSelect = `
	SELECT s.ipn_stress_id,
	       s.member_id,
	       m.name,
	       s.a_score,
	       s.b_score,
	       s.c_score,
	       s.d_score,
	       (s.a_score + s.b_score + s.c_score + s.d_score) AS total_score
	FROM ipn_stress s
	LEFT JOIN member m ON s.member_id = m.member_id`

func GetAllStressTests(ctx context.Context, filters *StressTestFilters) ([]*StressTestDetail, error) {
	db := config.GetDB()

	query := stressTestSelect + ` WHERE 1=1`
	var args []interface{}
	if filters != nil {
		if filters.Name != "" {
			query += ` AND m.name LIKE ?`
			args = append(args, "%"+filters.Name+"%")
		}
		if filters.MemberId != nil {
			query += ` AND s.member_id = ?`
			args = append(args, *filters.MemberId)
		}
	}
	query += ` ORDER BY s.ipn_stress_id DESC`

	var rows []*StressTestDetail
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func GetStressTestById(ctx context.Context, stressId int) (*StressTestDetail, error) {
	db := config.GetDB()
	var row StressTestDetail
	err := db.WithContext(ctx).Raw(stressTestSelect+`
		WHERE s.ipn_stress_id = ?`, stressId).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.IpnStressId == 0 {
		return nil, notFoundError("stress test %d not found", stressId)
	}
	return &row, nil
}

func GetStressTestsByMemberId(ctx context.Context, memberId int) ([]*StressTestDetail, error) {
	db := config.GetDB()
	var rows []*StressTestDetail
	err := db.WithContext(ctx).Raw(stressTestSelect+`
		WHERE s.member_id = ?
		ORDER BY s.ipn_stress_id DESC`, memberId).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func AddStressTest(ctx context.Context, input *NewStressTest) (*StressTest, error) {
	db := config.GetDB()
	test := StressTest{
		MemberId: input.MemberId,
		AScore:   input.AScore,
		BScore:   input.BScore,
		CScore:   input.CScore,
		DScore:   input.DScore,
	}
	if err := db.WithContext(ctx).Create(&test).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func UpdateStressTest(ctx context.Context, stressId int, input *NewStressTest) error {
	db := config.GetDB()
	var existing StressTest
	err := db.WithContext(ctx).First(&existing, "ipn_stress_id = ?", stressId).Error
	if err == gorm.ErrRecordNotFound {
		return notFoundError("stress test %d not found", stressId)
	} else if err != nil {
		return err
	}
	return db.WithContext(ctx).Model(&StressTest{}).Where("ipn_stress_id = ?", stressId).
		Updates(map[string]interface{}{
			"a_score": input.AScore,
			"b_score": input.BScore,
			"c_score": input.CScore,
			"d_score": input.DScore,
		}).Error
}

func DeleteStressTest(ctx context.Context, stressId int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&StressTest{}, "ipn_stress_id = ?", stressId)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundError("stress test %d not found", stressId)
	}
	return nil
}
