package models_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ipnlife/clinic_backend/config"
	"github.com/ipnlife/clinic_backend/models"
	"github.com/shopspring/decimal"
)

// Remaining sessions are purchased sessions minus consumed visits.
func TestRemainingSessions(t *testing.T) {
	ctx := setupIntegration(t)
	db := config.GetDB()

	member, err := models.CreateMember(ctx, &models.NewMember{Name: "療程會員"})
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	therapy := models.Therapy{Code: "T100", Name: "經絡調理", Price: decimal.NewFromInt(12000)}
	if err := db.WithContext(ctx).Create(&therapy).Error; err != nil {
		t.Fatalf("seed therapy: %v", err)
	}

	ids, err := models.InsertManyTherapySells(ctx, []*models.NewTherapySell{{
		TherapyId:     therapy.TherapyId,
		MemberId:      member.MemberId,
		StoreId:       1,
		StaffId:       1,
		PurchaseDate:  "2026-08-01",
		Amount:        10,
		PaymentMethod: "現金",
		SaleCategory:  "一般",
	}})
	if err != nil {
		t.Fatalf("InsertManyTherapySells: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected 1 inserted sale, got %d", len(ids))
	}

	for _, date := range []string{"2026-08-05", "2026-08-12"} {
		_, err := models.InsertTherapyRecord(ctx, &models.NewTherapyRecord{
			MemberId:  member.MemberId,
			StoreId:   1,
			StaffId:   1,
			TherapyId: &therapy.TherapyId,
			Date:      date,
		})
		if err != nil {
			t.Fatalf("InsertTherapyRecord(%s): %v", date, err)
		}
	}

	remaining, err := models.GetRemainingSessions(ctx, member.MemberId, therapy.TherapyId)
	if err != nil {
		t.Fatalf("GetRemainingSessions: %v", err)
	}
	if remaining != 8 {
		t.Fatalf("remaining sessions = %d, want 8", remaining)
	}
}

func TestInsertManyTherapySellsRejectsEmptyBatch(t *testing.T) {
	_, err := models.InsertManyTherapySells(context.Background(), nil)
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty batch, got %v", err)
	}
}
