package models

import (
	"context"
	"encoding/json"

	"github.com/ipnlife/clinic_backend/config"
	"gorm.io/gorm"
)

// HealthCheck is the lighter walk-in screening, sharing the symptom-history
// and micro-surgery satellites with medical records. Its symptom columns hold
// a single value per category rather than a JSON list.
type HealthCheck struct {
	HealthCheckId                  int      `gorm:"primary_key" json:"health_check_id"`
	MemberId                       int      `gorm:"not null;index" json:"member_id"`
	UsualSymptonAndFamilyHistoryId *int     `gorm:"column:usual_sympton_and_family_history_id" json:"usual_sympton_and_family_history_id"`
	Height                         *float64 `json:"height"`
	Weight                         *float64 `json:"weight"`
	MicroSurgery                   *int     `gorm:"column:micro_surgery" json:"micro_surgery"`
}

type HealthCheckSummary struct {
	HealthCheckId           int      `json:"health_check_id"`
	MemberId                int      `json:"member_id"`
	Name                    *string  `json:"name"`
	Height                  *float64 `json:"height"`
	Weight                  *float64 `json:"weight"`
	BloodPressure           string   `json:"blood_pressure"`
	MedicalHistory          string   `json:"medical_history"`
	MicroSurgery            int      `json:"micro_surgery"`
	MicroSurgeryDescription string   `json:"micro_surgery_description"`
	Notes                   string   `json:"notes"`
}

type healthCheckRow struct {
	HealthCheckId            int
	MemberId                 int
	Name                     *string
	Height                   *float64
	Weight                   *float64
	HPASelection             *string `gorm:"column:HPA_selection"`
	MeridianSelection        *string
	NeckAndShoulderSelection *string
	AnusSelection            *string
	FamilyHistorySelection   *string
	MicroSurgery             int
	MicroSurgeryDescription  *string
}

// HealthCheckHistory is the per-category single-value document the screening
// form uses. Keys match the medical-history JSON of the record list.
type HealthCheckHistory struct {
	HPA      []string `json:"HPA,omitempty"`
	Meridian []string `json:"Meridian,omitempty"`
	Neck     []string `json:"Neck,omitempty"`
	Anus     []string `json:"Anus,omitempty"`
	Family   []string `json:"Family,omitempty"`
}

type NewHealthCheck struct {
	MemberId          string   `json:"memberId" binding:"required"`
	Height            *float64 `json:"height"`
	Weight            *float64 `json:"weight"`
	MedicalHistory    string   `json:"medicalHistory"`
	MicroSurgery      bool     `json:"microSurgery"`
	MicroSurgeryNotes string   `json:"microSurgeryNotes"`
}

type UpdateHealthCheck struct {
	Height            *float64 `json:"height"`
	Weight            *float64 `json:"weight"`
	MedicalHistory    *string  `json:"medicalHistory"`
	MicroSurgery      *bool    `json:"microSurgery"`
	MicroSurgeryNotes string   `json:"microSurgeryNotes"`
}

const healthCheckSelect = `
	SELECT hc.health_check_id,
	       hc.member_id,
	       m.name,
	       hc.height,
	       hc.weight,
	       us.HPA_selection,
	       us.meridian_selection,
	       us.neck_and_shoulder_selection,
	       us.anus_selection,
	       us.family_history_selection,
	       CASE WHEN hc.micro_surgery IS NOT NULL THEN 1 ELSE 0 END AS micro_surgery,
	       ms.micro_surgery_description
	FROM health_check hc
	LEFT JOIN member m ON hc.member_id = m.member_id
	LEFT JOIN usual_sympton_and_family_history us ON hc.usual_sympton_and_family_history_id = us.usual_sympton_and_family_history_id
	LEFT JOIN micro_surgery ms ON hc.micro_surgery = ms.micro_surgery_id`

func (r *healthCheckRow) toSummary() *HealthCheckSummary {
	history := HealthCheckHistory{}
	if value := derefString(r.HPASelection); value != "" {
		history.HPA = []string{value}
	}
	if value := derefString(r.MeridianSelection); value != "" {
		history.Meridian = []string{value}
	}
	if value := derefString(r.NeckAndShoulderSelection); value != "" {
		history.Neck = []string{value}
	}
	if value := derefString(r.AnusSelection); value != "" {
		history.Anus = []string{value}
	}
	if value := derefString(r.FamilyHistorySelection); value != "" {
		history.Family = []string{value}
	}
	encoded, err := json.Marshal(history)
	if err != nil {
		encoded = []byte("{}")
	}
	return &HealthCheckSummary{
		HealthCheckId:           r.HealthCheckId,
		MemberId:                r.MemberId,
		Name:                    r.Name,
		Height:                  r.Height,
		Weight:                  r.Weight,
		BloodPressure:           "",
		MedicalHistory:          string(encoded),
		MicroSurgery:            r.MicroSurgery,
		MicroSurgeryDescription: derefString(r.MicroSurgeryDescription),
		Notes:                   derefString(r.MicroSurgeryDescription),
	}
}

func healthCheckRowsToSummaries(rows []*healthCheckRow) []*HealthCheckSummary {
	summaries := make([]*HealthCheckSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.toSummary())
	}
	return summaries
}

func GetAllHealthChecks(ctx context.Context) ([]*HealthCheckSummary, error) {
	db := config.GetDB()
	var rows []*healthCheckRow
	err := db.WithContext(ctx).Raw(healthCheckSelect + `
		ORDER BY hc.health_check_id DESC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return healthCheckRowsToSummaries(rows), nil
}

func SearchHealthChecks(ctx context.Context, keyword string) ([]*HealthCheckSummary, error) {
	db := config.GetDB()
	var rows []*healthCheckRow
	like := "%" + keyword + "%"
	err := db.WithContext(ctx).Raw(healthCheckSelect+`
		WHERE m.name LIKE ? OR CAST(hc.member_id AS CHAR) LIKE ?
		ORDER BY hc.health_check_id DESC`, like, like).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return healthCheckRowsToSummaries(rows), nil
}

// GetMemberHealthCheck returns a member's most recent screening.
func GetMemberHealthCheck(ctx context.Context, memberId int) (*HealthCheckSummary, error) {
	db := config.GetDB()
	var row healthCheckRow
	err := db.WithContext(ctx).Raw(healthCheckSelect+`
		WHERE hc.member_id = ?
		ORDER BY hc.health_check_id DESC
		LIMIT 1`, memberId).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.HealthCheckId == 0 {
		return nil, notFoundError("no health check for member %d", memberId)
	}
	return row.toSummary(), nil
}

func firstOrEmpty(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[0]
}

// CreateHealthCheck writes the screening and its satellites in one
// transaction, satellites first so their ids are available for the
// health_check row.
func CreateHealthCheck(ctx context.Context, input *NewHealthCheck) (*HealthCheck, error) {
	db := config.GetDB()

	tx := db.Begin()
	memberId, err := resolveMemberId(ctx, tx, input.MemberId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	var symptomHistoryId *int
	if input.MedicalHistory != "" {
		var history HealthCheckHistory
		// A history that does not parse is skipped, not fatal.
		if err := json.Unmarshal([]byte(input.MedicalHistory), &history); err == nil {
			record := SymptomHistory{
				MemberId:                 memberId,
				HPASelection:             firstOrEmpty(history.HPA),
				MeridianSelection:        firstOrEmpty(history.Meridian),
				NeckAndShoulderSelection: firstOrEmpty(history.Neck),
				AnusSelection:            firstOrEmpty(history.Anus),
				FamilyHistorySelection:   firstOrEmpty(history.Family),
				Others:                   input.MedicalHistory,
			}
			if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
			symptomHistoryId = &record.UsualSymptonAndFamilyHistoryId
		}
	}

	var microSurgeryId *int
	if input.MicroSurgery {
		surgery := MicroSurgery{
			MicroSurgerySelection:   microSurgeryPresent,
			MicroSurgeryDescription: input.MicroSurgeryNotes,
		}
		if err := tx.WithContext(ctx).Create(&surgery).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		microSurgeryId = &surgery.MicroSurgeryId
	}

	check := HealthCheck{
		MemberId:                       memberId,
		UsualSymptonAndFamilyHistoryId: symptomHistoryId,
		Height:                         input.Height,
		Weight:                         input.Weight,
		MicroSurgery:                   microSurgeryId,
	}
	if err := tx.WithContext(ctx).Create(&check).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &check, nil
}

func UpdateHealthCheckRecord(ctx context.Context, checkId int, input *UpdateHealthCheck) error {
	db := config.GetDB()

	var existing HealthCheck
	err := db.WithContext(ctx).First(&existing, "health_check_id = ?", checkId).Error
	if err == gorm.ErrRecordNotFound {
		return notFoundError("health check %d not found", checkId)
	} else if err != nil {
		return err
	}

	tx := db.Begin()
	updates := map[string]interface{}{}
	if input.Height != nil {
		updates["height"] = *input.Height
	}
	if input.Weight != nil {
		updates["weight"] = *input.Weight
	}

	if input.MicroSurgery != nil {
		if *input.MicroSurgery {
			if existing.MicroSurgery != nil {
				err = tx.WithContext(ctx).Model(&MicroSurgery{}).
					Where("micro_surgery_id = ?", *existing.MicroSurgery).
					Update("micro_surgery_description", input.MicroSurgeryNotes).Error
				if err != nil {
					tx.Rollback()
					return err
				}
			} else {
				surgery := MicroSurgery{
					MicroSurgerySelection:   microSurgeryPresent,
					MicroSurgeryDescription: input.MicroSurgeryNotes,
				}
				if err := tx.WithContext(ctx).Create(&surgery).Error; err != nil {
					tx.Rollback()
					return err
				}
				updates["micro_surgery"] = surgery.MicroSurgeryId
			}
		} else {
			updates["micro_surgery"] = nil
		}
	}

	if input.MedicalHistory != nil && existing.UsualSymptonAndFamilyHistoryId != nil {
		var history HealthCheckHistory
		if err := json.Unmarshal([]byte(*input.MedicalHistory), &history); err == nil {
			err = tx.WithContext(ctx).Model(&SymptomHistory{}).
				Where("usual_sympton_and_family_history_id = ?", *existing.UsualSymptonAndFamilyHistoryId).
				Updates(map[string]interface{}{
					"HPA_selection":               firstOrEmpty(history.HPA),
					"meridian_selection":          firstOrEmpty(history.Meridian),
					"neck_and_shoulder_selection": firstOrEmpty(history.Neck),
					"anus_selection":              firstOrEmpty(history.Anus),
					"family_history_selection":    firstOrEmpty(history.Family),
					"others":                      *input.MedicalHistory,
				}).Error
			if err != nil {
				tx.Rollback()
				return err
			}
		}
	}

	if len(updates) > 0 {
		err = tx.WithContext(ctx).Model(&HealthCheck{}).Where("health_check_id = ?", checkId).
			Updates(updates).Error
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}

func DeleteHealthCheck(ctx context.Context, checkId int) error {
	db := config.GetDB()

	var existing HealthCheck
	err := db.WithContext(ctx).First(&existing, "health_check_id = ?", checkId).Error
	if err == gorm.ErrRecordNotFound {
		return notFoundError("health check %d not found", checkId)
	} else if err != nil {
		return err
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Delete(&HealthCheck{}, "health_check_id = ?", checkId).Error; err != nil {
		tx.Rollback()
		return err
	}
	if existing.UsualSymptonAndFamilyHistoryId != nil {
		err = tx.WithContext(ctx).Delete(&SymptomHistory{},
			"usual_sympton_and_family_history_id = ?", *existing.UsualSymptonAndFamilyHistoryId).Error
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	if existing.MicroSurgery != nil {
		err = tx.WithContext(ctx).Delete(&MicroSurgery{}, "micro_surgery_id = ?", *existing.MicroSurgery).Error
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}

type HealthCheckExportRow struct {
	HealthCheckId           int      `json:"health_check_id"`
	Name                    *string  `json:"name"`
	MemberId                int      `json:"member_id"`
	Height                  *float64 `json:"height"`
	Weight                  *float64 `json:"weight"`
	MicroSurgery            string   `json:"micro_surgery"`
	MicroSurgeryDescription *string  `json:"micro_surgery_description"`
}

func GetHealthChecksForExport(ctx context.Context) ([]*HealthCheckExportRow, error) {
	db := config.GetDB()
	var rows []*HealthCheckExportRow
	err := db.WithContext(ctx).Raw(`
		SELECT hc.health_check_id,
		       m.name,
		       hc.member_id,
		       hc.height,
		       hc.weight,
		       CASE WHEN hc.micro_surgery IS NOT NULL THEN '是' ELSE '否' END AS micro_surgery,
		       ms.micro_surgery_description
		FROM health_check hc
		LEFT JOIN member m ON hc.member_id = m.member_id
		LEFT JOIN micro_surgery ms ON hc.micro_surgery = ms.micro_surgery_id
		ORDER BY hc.health_check_id DESC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
