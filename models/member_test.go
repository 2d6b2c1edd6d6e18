package models_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ipnlife/clinic_backend/config"
	"github.com/ipnlife/clinic_backend/models"
	"github.com/shopspring/decimal"
)

func TestNextMemberCode(t *testing.T) {
	cases := []struct {
		lastCode string
		want     string
	}{
		{"M009", "M010"},
		{"M099", "M100"},
		{"M999", "M1000"},
		{"A001", "A002"},
		{"0007", "0008"},
		{"", "M001"},
		{"no-digits", "M001"},
		{"M", "M001"},
	}
	for _, tc := range cases {
		if got := models.NextMemberCode(tc.lastCode); got != tc.want {
			t.Errorf("NextMemberCode(%q) = %q, want %q", tc.lastCode, got, tc.want)
		}
	}
}

func TestDeleteMemberCascadesRelatedRecords(t *testing.T) {
	ctx := setupIntegration(t)
	db := config.GetDB()

	member, err := models.CreateMember(ctx, &models.NewMember{Name: "王小明", Phone: "0912345678"})
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}

	product := models.Product{Name: "膠原蛋白", Code: "P001", Price: decimal.NewFromInt(1200)}
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	sell := models.ProductSell{
		MemberId:   member.MemberId,
		StoreId:    1,
		ProductId:  product.ProductId,
		Date:       time.Now(),
		Quantity:   1,
		FinalPrice: decimal.NewFromInt(1200),
	}
	if err := db.WithContext(ctx).Create(&sell).Error; err != nil {
		t.Fatalf("seed product sell: %v", err)
	}
	record := models.TherapyRecord{
		MemberId: member.MemberId,
		StoreId:  1,
		Date:     time.Now(),
	}
	if err := db.WithContext(ctx).Create(&record).Error; err != nil {
		t.Fatalf("seed therapy record: %v", err)
	}

	if err := models.DeleteMemberAndRelatedData(ctx, member.MemberId); err != nil {
		t.Fatalf("DeleteMemberAndRelatedData: %v", err)
	}

	if _, err := models.GetMemberById(ctx, member.MemberId); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("member still resolvable after delete, err=%v", err)
	}
	var sellCount int64
	if err := db.WithContext(ctx).Model(&models.ProductSell{}).Where("member_id = ?", member.MemberId).Count(&sellCount).Error; err != nil {
		t.Fatalf("count product sells: %v", err)
	}
	if sellCount != 0 {
		t.Fatalf("expected 0 product sells after cascade, got %d", sellCount)
	}
	var recordCount int64
	if err := db.WithContext(ctx).Model(&models.TherapyRecord{}).Where("member_id = ?", member.MemberId).Count(&recordCount).Error; err != nil {
		t.Fatalf("count therapy records: %v", err)
	}
	if recordCount != 0 {
		t.Fatalf("expected 0 therapy records after cascade, got %d", recordCount)
	}

	// Deleting the same member again reports not found and leaves nothing behind.
	if err := models.DeleteMemberAndRelatedData(ctx, member.MemberId); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
