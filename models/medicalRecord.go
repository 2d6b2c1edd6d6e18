package models

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/ipnlife/clinic_backend/config"
	"gorm.io/gorm"
)

type MedicalRecord struct {
	MedicalRecordId                int      `gorm:"primary_key" json:"medical_record_id"`
	MemberId                       int      `gorm:"not null;index" json:"member_id"`
	UsualSymptonAndFamilyHistoryId *int     `gorm:"column:usual_sympton_and_family_history_id" json:"usual_sympton_and_family_history_id"`
	HealthStatusId                 *int     `json:"health_status_id"`
	Height                         *float64 `json:"height"`
	Weight                         *float64 `json:"weight"`
	Remark                         string   `gorm:"type:text" json:"remark"`
	MicroSurgery                   *int     `gorm:"column:micro_surgery" json:"micro_surgery"`
}

// MedicalRecordSummary is one list row: the symptom and family-history
// selections collapse into a single JSON document under MedicalHistory.
type MedicalRecordSummary struct {
	MedicalRecordId         int      `json:"medical_record_id"`
	MemberId                int      `json:"member_id"`
	Name                    *string  `json:"name"`
	Height                  *float64 `json:"height"`
	Weight                  *float64 `json:"weight"`
	BloodPressure           string   `json:"blood_pressure"`
	MedicalHistory          string   `json:"medical_history"`
	MicroSurgery            int      `json:"micro_surgery"`
	MicroSurgeryDescription string   `json:"micro_surgery_description"`
}

type medicalRecordListRow struct {
	MedicalRecordId          int
	MemberId                 int
	Name                     *string
	Height                   *float64
	Weight                   *float64
	HPASelection             *string `gorm:"column:HPA_selection"`
	MeridianSelection        *string
	NeckAndShoulderSelection *string
	AnusSelection            *string
	FamilyHistorySelection   *string
	Others                   *string
	MicroSurgery             int
	MicroSurgeryDescription  *string
}

// MedicalRecordDetail mirrors the intake form: the nested documents come back
// as JSON strings because that is how the form round-trips them.
type MedicalRecordDetail struct {
	MemberId        int      `json:"memberId"`
	Name            *string  `json:"name"`
	Height          *float64 `json:"height"`
	Weight          *float64 `json:"weight"`
	BloodPressure   string   `json:"bloodPressure"`
	Remark          string   `json:"remark"`
	CosmeticSurgery string   `json:"cosmeticSurgery"`
	CosmeticDesc    string   `json:"cosmeticDesc"`
	Symptom         string   `json:"symptom"`
	FamilyHistory   string   `json:"familyHistory"`
	HealthStatus    string   `json:"healthStatus"`
}

// NewMedicalRecord is the intake form submission. MemberId may be a numeric
// id or a member name; Symptom, SymptomData, FamilyHistory and HealthStatus
// are JSON documents serialized to strings by the client.
type NewMedicalRecord struct {
	MemberId        string   `json:"memberId" binding:"required"`
	Height          *float64 `json:"height"`
	Weight          *float64 `json:"weight"`
	Remark          string   `json:"remark"`
	Symptom         string   `json:"symptom"`
	SymptomData     string   `json:"symptomData"`
	FamilyHistory   string   `json:"familyHistory"`
	RestrictedGroup string   `json:"restrictedGroup"`
	CosmeticSurgery string   `json:"cosmeticSurgery"`
	CosmeticDesc    string   `json:"cosmeticDesc"`
	HealthStatus    string   `json:"healthStatus"`
}

type UpdateMedicalRecordInput struct {
	Height          *float64 `json:"height"`
	Weight          *float64 `json:"weight"`
	Remark          string   `json:"remark"`
	Symptom         string   `json:"symptom"`
	FamilyHistory   string   `json:"familyHistory"`
	CosmeticSurgery string   `json:"cosmeticSurgery"`
	CosmeticDesc    string   `json:"cosmeticDesc"`
	HealthStatus    string   `json:"healthStatus"`
}

const medicalRecordListSelect = `
	SELECT mr.medical_record_id,
	       mr.member_id,
	       m.name,
	       mr.height,
	       mr.weight,
	       us.HPA_selection,
	       us.meridian_selection,
	       us.neck_and_shoulder_selection,
	       us.anus_selection,
	       us.family_history_selection,
	       us.others,
	       CASE WHEN mr.micro_surgery IS NOT NULL THEN 1 ELSE 0 END AS micro_surgery,
	       ms.micro_surgery_description
	FROM medical_record mr
	LEFT JOIN member m ON mr.member_id = m.member_id
	LEFT JOIN usual_sympton_and_family_history us ON mr.usual_sympton_and_family_history_id = us.usual_sympton_and_family_history_id
	LEFT JOIN micro_surgery ms ON mr.micro_surgery = ms.micro_surgery_id`

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// buildMedicalHistory folds the stored selection columns into the single
// JSON document the list screens render. Empty categories are omitted.
func buildMedicalHistory(row *medicalRecordListRow) string {
	history := map[string]interface{}{}
	categories := []struct {
		key string
		raw *string
	}{
		{"HPA", row.HPASelection},
		{"Meridian", row.MeridianSelection},
		{"Neck", row.NeckAndShoulderSelection},
		{"Anus", row.AnusSelection},
		{"Family", row.FamilyHistorySelection},
	}
	for _, category := range categories {
		if category.raw == nil {
			continue
		}
		if items := decodeSelectionList(*category.raw); len(items) > 0 {
			history[category.key] = items
		}
	}
	if others := derefString(row.Others); others != "" {
		history["Others"] = others
	}
	encoded, err := json.Marshal(history)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

func (r *medicalRecordListRow) toSummary() *MedicalRecordSummary {
	return &MedicalRecordSummary{
		MedicalRecordId:         r.MedicalRecordId,
		MemberId:                r.MemberId,
		Name:                    r.Name,
		Height:                  r.Height,
		Weight:                  r.Weight,
		BloodPressure:           "",
		MedicalHistory:          buildMedicalHistory(r),
		MicroSurgery:            r.MicroSurgery,
		MicroSurgeryDescription: derefString(r.MicroSurgeryDescription),
	}
}

func GetAllMedicalRecords(ctx context.Context) ([]*MedicalRecordSummary, error) {
	db := config.GetDB()
	var rows []*medicalRecordListRow
	err := db.WithContext(ctx).Raw(medicalRecordListSelect + `
		ORDER BY mr.medical_record_id DESC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	summaries := make([]*MedicalRecordSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.toSummary())
	}
	return summaries, nil
}

func SearchMedicalRecords(ctx context.Context, keyword string) ([]*MedicalRecordSummary, error) {
	db := config.GetDB()
	var rows []*medicalRecordListRow
	like := "%" + keyword + "%"
	err := db.WithContext(ctx).Raw(medicalRecordListSelect+`
		WHERE m.name LIKE ? OR CAST(mr.member_id AS CHAR) LIKE ?
		ORDER BY mr.medical_record_id DESC`, like, like).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	summaries := make([]*MedicalRecordSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.toSummary())
	}
	return summaries, nil
}

// resolveMemberId accepts either a numeric member id or a member name, the
// way the intake form submits it.
func resolveMemberId(ctx context.Context, tx *gorm.DB, memberRef string) (int, error) {
	if id, err := strconv.Atoi(memberRef); err == nil {
		return id, nil
	}
	var member Member
	err := tx.WithContext(ctx).First(&member, "name = ?", memberRef).Error
	if err == gorm.ErrRecordNotFound {
		return 0, notFoundError("member %q not found", memberRef)
	} else if err != nil {
		return 0, err
	}
	return member.MemberId, nil
}

// CreateMedicalRecord writes the intake form in one transaction: the health
// status, symptom history and micro-surgery satellites go first so their
// generated ids can be referenced by the medical_record row, which is written
// last. Any failure rolls back the whole set.
func CreateMedicalRecord(ctx context.Context, input *NewMedicalRecord) (*MedicalRecord, error) {
	db := config.GetDB()

	tx := db.Begin()
	memberId, err := resolveMemberId(ctx, tx, input.MemberId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	var healthStatusId *int
	if input.HealthStatus != "" {
		var payload HealthStatusPayload
		if err := json.Unmarshal([]byte(input.HealthStatus), &payload); err != nil {
			tx.Rollback()
			return nil, validationError("invalid healthStatus payload: %v", err)
		}
		status := HealthStatus{
			MemberId:              memberId,
			HealthStatusSelection: encodeSelectionList(payload.SelectedStates),
			Others:                payload.OtherText,
		}
		if err := tx.WithContext(ctx).Create(&status).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		healthStatusId = &status.HealthStatusId
	}

	var symptomHistoryId *int
	if input.Symptom != "" || input.SymptomData != "" || input.FamilyHistory != "" || input.RestrictedGroup != "" {
		selections := parseSymptomInput(input)
		var family FamilyHistoryPayload
		if input.FamilyHistory != "" {
			// Malformed family history is dropped, matching how the intake
			// form has always behaved.
			_ = json.Unmarshal([]byte(input.FamilyHistory), &family)
		}
		history := SymptomHistory{
			MemberId:                 memberId,
			HPASelection:             encodeSelectionList(selections.HPA),
			MeridianSelection:        encodeSelectionList(selections.Meridian),
			NeckAndShoulderSelection: encodeSelectionList(selections.NeckAndShoulder),
			AnusSelection:            encodeSelectionList(selections.Anus),
			FamilyHistorySelection:   encodeSelectionList(family.FamilyHistory),
			Others:                   selections.OthersText(),
		}
		if err := tx.WithContext(ctx).Create(&history).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		symptomHistoryId = &history.UsualSymptonAndFamilyHistoryId
	}

	var microSurgeryId *int
	if wantsMicroSurgery(input) {
		surgery := MicroSurgery{
			MicroSurgerySelection:   microSurgeryPresent,
			MicroSurgeryDescription: input.CosmeticDesc,
		}
		if err := tx.WithContext(ctx).Create(&surgery).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		microSurgeryId = &surgery.MicroSurgeryId
	}

	record := MedicalRecord{
		MemberId:                       memberId,
		UsualSymptonAndFamilyHistoryId: symptomHistoryId,
		HealthStatusId:                 healthStatusId,
		Height:                         input.Height,
		Weight:                         input.Weight,
		Remark:                         input.Remark,
		MicroSurgery:                   microSurgeryId,
	}
	if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// parseSymptomInput prefers the structured symptomData field; the legacy
// symptom field doubles as a micro-surgery boolean on very old clients, so it
// only parses as a document when it isn't one of the boolean spellings.
func parseSymptomInput(input *NewMedicalRecord) *SymptomSelections {
	var selections SymptomSelections
	if input.SymptomData != "" {
		if err := json.Unmarshal([]byte(input.SymptomData), &selections); err == nil {
			return &selections
		}
	}
	if input.Symptom != "" && !isBooleanFlag(input.Symptom) {
		if err := json.Unmarshal([]byte(input.Symptom), &selections); err == nil {
			return &selections
		}
	}
	return &SymptomSelections{}
}

func isBooleanFlag(value string) bool {
	return value == "1" || value == "true"
}

func wantsMicroSurgery(input *NewMedicalRecord) bool {
	if isBooleanFlag(input.Symptom) {
		return true
	}
	return input.CosmeticSurgery == "Yes" || input.CosmeticSurgery == "1"
}

func GetMedicalRecordById(ctx context.Context, recordId int) (*MedicalRecordDetail, error) {
	db := config.GetDB()

	var row struct {
		MedicalRecordId          int
		MemberId                 int
		Name                     *string
		Height                   *float64
		Weight                   *float64
		Remark                   *string
		HPASelection             *string `gorm:"column:HPA_selection"`
		MeridianSelection        *string
		NeckAndShoulderSelection *string
		AnusSelection            *string
		FamilyHistorySelection   *string
		SymptomOthers            *string
		HealthStatusSelection    *string
		HealthStatusOthers       *string
		MicroSurgeryDescription  *string
		CosmeticSurgery          string
	}
	err := db.WithContext(ctx).Raw(`
		SELECT mr.medical_record_id,
		       mr.member_id,
		       m.name,
		       mr.height,
		       mr.weight,
		       mr.remark,
		       us.HPA_selection,
		       us.meridian_selection,
		       us.neck_and_shoulder_selection,
		       us.anus_selection,
		       us.family_history_selection,
		       us.others AS symptom_others,
		       hs.health_status_selection,
		       hs.others AS health_status_others,
		       ms.micro_surgery_description,
		       CASE WHEN mr.micro_surgery IS NOT NULL THEN 'Yes' ELSE 'No' END AS cosmetic_surgery
		FROM medical_record mr
		LEFT JOIN member m ON mr.member_id = m.member_id
		LEFT JOIN usual_sympton_and_family_history us ON mr.usual_sympton_and_family_history_id = us.usual_sympton_and_family_history_id
		LEFT JOIN micro_surgery ms ON mr.micro_surgery = ms.micro_surgery_id
		LEFT JOIN health_status hs ON mr.health_status_id = hs.health_status_id
		WHERE mr.medical_record_id = ?`, recordId).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.MedicalRecordId == 0 {
		return nil, notFoundError("medical record %d not found", recordId)
	}

	symptom, _ := json.Marshal(SymptomSelections{
		HPA:             decodeSelectionList(derefString(row.HPASelection)),
		Meridian:        decodeSelectionList(derefString(row.MeridianSelection)),
		NeckAndShoulder: decodeSelectionList(derefString(row.NeckAndShoulderSelection)),
		Anus:            decodeSelectionList(derefString(row.AnusSelection)),
		SymptomOthers:   derefString(row.SymptomOthers),
	})
	family, _ := json.Marshal(FamilyHistoryPayload{
		FamilyHistory:       decodeSelectionList(derefString(row.FamilyHistorySelection)),
		FamilyHistoryOthers: "",
	})
	health, _ := json.Marshal(HealthStatusPayload{
		SelectedStates: decodeSelectionList(derefString(row.HealthStatusSelection)),
		OtherText:      derefString(row.HealthStatusOthers),
	})

	return &MedicalRecordDetail{
		MemberId:        row.MemberId,
		Name:            row.Name,
		Height:          row.Height,
		Weight:          row.Weight,
		BloodPressure:   "",
		Remark:          derefString(row.Remark),
		CosmeticSurgery: row.CosmeticSurgery,
		CosmeticDesc:    derefString(row.MicroSurgeryDescription),
		Symptom:         string(symptom),
		FamilyHistory:   string(family),
		HealthStatus:    string(health),
	}, nil
}

// UpdateMedicalRecord rewrites a record and its satellites in one
// transaction. The micro-surgery link has three transitions: an existing row
// gets its description updated, a new Yes inserts a row and points the record
// at it, and Yes-to-No clears the link first and only then deletes the
// orphaned row.
func UpdateMedicalRecord(ctx context.Context, recordId int, input *UpdateMedicalRecordInput) error {
	db := config.GetDB()

	var record MedicalRecord
	err := db.WithContext(ctx).First(&record, "medical_record_id = ?", recordId).Error
	if err == gorm.ErrRecordNotFound {
		return notFoundError("medical record %d not found", recordId)
	} else if err != nil {
		return err
	}

	var selections SymptomSelections
	if input.Symptom != "" {
		_ = json.Unmarshal([]byte(input.Symptom), &selections)
	}
	var family FamilyHistoryPayload
	if input.FamilyHistory != "" {
		_ = json.Unmarshal([]byte(input.FamilyHistory), &family)
	}

	tx := db.Begin()
	if record.UsualSymptonAndFamilyHistoryId != nil {
		err = tx.WithContext(ctx).Model(&SymptomHistory{}).
			Where("usual_sympton_and_family_history_id = ?", *record.UsualSymptonAndFamilyHistoryId).
			Updates(map[string]interface{}{
				"HPA_selection":               encodeSelectionList(selections.HPA),
				"meridian_selection":          encodeSelectionList(selections.Meridian),
				"neck_and_shoulder_selection": encodeSelectionList(selections.NeckAndShoulder),
				"anus_selection":              encodeSelectionList(selections.Anus),
				"family_history_selection":    encodeSelectionList(family.FamilyHistory),
				"others":                      selections.OthersText(),
			}).Error
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	if record.HealthStatusId != nil {
		var health HealthStatusPayload
		if input.HealthStatus != "" {
			_ = json.Unmarshal([]byte(input.HealthStatus), &health)
		}
		err = tx.WithContext(ctx).Model(&HealthStatus{}).
			Where("health_status_id = ?", *record.HealthStatusId).
			Updates(map[string]interface{}{
				"health_status_selection": encodeSelectionList(health.SelectedStates),
				"others":                  health.OtherText,
			}).Error
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	microSurgeryFk := record.MicroSurgery
	deleteOldMicroSurgery := false
	if input.CosmeticSurgery == "Yes" {
		if record.MicroSurgery != nil {
			err = tx.WithContext(ctx).Model(&MicroSurgery{}).
				Where("micro_surgery_id = ?", *record.MicroSurgery).
				Update("micro_surgery_description", input.CosmeticDesc).Error
			if err != nil {
				tx.Rollback()
				return err
			}
		} else {
			surgery := MicroSurgery{MicroSurgeryDescription: input.CosmeticDesc}
			if err := tx.WithContext(ctx).Create(&surgery).Error; err != nil {
				tx.Rollback()
				return err
			}
			microSurgeryFk = &surgery.MicroSurgeryId
		}
	} else if record.MicroSurgery != nil {
		microSurgeryFk = nil
		deleteOldMicroSurgery = true
	}

	err = tx.WithContext(ctx).Model(&MedicalRecord{}).Where("medical_record_id = ?", recordId).
		Updates(map[string]interface{}{
			"height":        input.Height,
			"weight":        input.Weight,
			"remark":        input.Remark,
			"micro_surgery": microSurgeryFk,
		}).Error
	if err != nil {
		tx.Rollback()
		return err
	}

	if deleteOldMicroSurgery {
		err = tx.WithContext(ctx).Delete(&MicroSurgery{}, "micro_surgery_id = ?", *record.MicroSurgery).Error
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

// DeleteMedicalRecord removes a record and its symptom-history and
// micro-surgery satellites. Health status rows stay: they are shared with
// the health-check flow.
func DeleteMedicalRecord(ctx context.Context, recordId int) error {
	db := config.GetDB()

	var record MedicalRecord
	err := db.WithContext(ctx).First(&record, "medical_record_id = ?", recordId).Error
	if err == gorm.ErrRecordNotFound {
		return notFoundError("medical record %d not found", recordId)
	} else if err != nil {
		return err
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Delete(&MedicalRecord{}, "medical_record_id = ?", recordId).Error; err != nil {
		tx.Rollback()
		return err
	}
	if record.UsualSymptonAndFamilyHistoryId != nil {
		err = tx.WithContext(ctx).Delete(&SymptomHistory{},
			"usual_sympton_and_family_history_id = ?", *record.UsualSymptonAndFamilyHistoryId).Error
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	if record.MicroSurgery != nil {
		err = tx.WithContext(ctx).Delete(&MicroSurgery{}, "micro_surgery_id = ?", *record.MicroSurgery).Error
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}

// MedicalRecordExportRow feeds the Excel export.
type MedicalRecordExportRow struct {
	MedicalRecordId         int      `json:"medical_record_id"`
	Name                    *string  `json:"name"`
	MemberId                int      `json:"member_id"`
	Height                  *float64 `json:"height"`
	Weight                  *float64 `json:"weight"`
	MicroSurgery            string   `json:"micro_surgery"`
	MicroSurgeryDescription *string  `json:"micro_surgery_description"`
}

func GetMedicalRecordsForExport(ctx context.Context) ([]*MedicalRecordExportRow, error) {
	db := config.GetDB()
	var rows []*MedicalRecordExportRow
	err := db.WithContext(ctx).Raw(`
		SELECT mr.medical_record_id,
		       m.name,
		       mr.member_id,
		       mr.height,
		       mr.weight,
		       CASE WHEN mr.micro_surgery IS NOT NULL THEN '是' ELSE '否' END AS micro_surgery,
		       ms.micro_surgery_description
		FROM medical_record mr
		LEFT JOIN member m ON mr.member_id = m.member_id
		LEFT JOIN micro_surgery ms ON mr.micro_surgery = ms.micro_surgery_id
		ORDER BY mr.medical_record_id DESC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
