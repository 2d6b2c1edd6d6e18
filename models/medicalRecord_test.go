package models_test

import (
	"strconv"
	"testing"

	"github.com/ipnlife/clinic_backend/config"
	"github.com/ipnlife/clinic_backend/models"
)

// The micro-surgery satellite follows the record through its three
// transitions: created with surgery, surgery removed, surgery added back.
func TestMedicalRecordMicroSurgeryTransitions(t *testing.T) {
	ctx := setupIntegration(t)
	db := config.GetDB()

	member, err := models.CreateMember(ctx, &models.NewMember{Name: "林美麗"})
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}

	height := 162.5
	record, err := models.CreateMedicalRecord(ctx, &models.NewMedicalRecord{
		MemberId:        strconv.Itoa(member.MemberId),
		Height:          &height,
		Symptom:         `{"HPA":["失眠"],"meridian":[],"neckAndShoulder":["肩頸痠痛"],"anus":[]}`,
		FamilyHistory:   `{"familyHistory":["高血壓"],"familyHistoryOthers":""}`,
		CosmeticSurgery: "Yes",
		CosmeticDesc:    "玻尿酸",
		HealthStatus:    `{"selectedStates":["良好"],"otherText":""}`,
	})
	if err != nil {
		t.Fatalf("CreateMedicalRecord: %v", err)
	}

	detail, err := models.GetMedicalRecordById(ctx, record.MedicalRecordId)
	if err != nil {
		t.Fatalf("GetMedicalRecordById: %v", err)
	}
	if detail.CosmeticSurgery != "Yes" {
		t.Fatalf("CosmeticSurgery = %q, want Yes", detail.CosmeticSurgery)
	}
	if detail.CosmeticDesc != "玻尿酸" {
		t.Fatalf("CosmeticDesc = %q, want 玻尿酸", detail.CosmeticDesc)
	}

	// Yes -> No clears the FK and removes the satellite row.
	err = models.UpdateMedicalRecord(ctx, record.MedicalRecordId, &models.UpdateMedicalRecordInput{
		CosmeticSurgery: "No",
	})
	if err != nil {
		t.Fatalf("UpdateMedicalRecord to No: %v", err)
	}
	detail, err = models.GetMedicalRecordById(ctx, record.MedicalRecordId)
	if err != nil {
		t.Fatalf("GetMedicalRecordById after No: %v", err)
	}
	if detail.CosmeticSurgery != "No" {
		t.Fatalf("CosmeticSurgery after removal = %q, want No", detail.CosmeticSurgery)
	}
	var surgeryCount int64
	if err := db.WithContext(ctx).Model(&models.MicroSurgery{}).Count(&surgeryCount).Error; err != nil {
		t.Fatalf("count micro surgery rows: %v", err)
	}
	if surgeryCount != 0 {
		t.Fatalf("expected 0 micro surgery rows after removal, got %d", surgeryCount)
	}

	// No -> Yes inserts a new satellite and points the record at it.
	err = models.UpdateMedicalRecord(ctx, record.MedicalRecordId, &models.UpdateMedicalRecordInput{
		CosmeticSurgery: "Yes",
		CosmeticDesc:    "肉毒桿菌",
	})
	if err != nil {
		t.Fatalf("UpdateMedicalRecord back to Yes: %v", err)
	}
	detail, err = models.GetMedicalRecordById(ctx, record.MedicalRecordId)
	if err != nil {
		t.Fatalf("GetMedicalRecordById after Yes: %v", err)
	}
	if detail.CosmeticSurgery != "Yes" || detail.CosmeticDesc != "肉毒桿菌" {
		t.Fatalf("after re-add got (%q, %q), want (Yes, 肉毒桿菌)", detail.CosmeticSurgery, detail.CosmeticDesc)
	}
}
