package models_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ipnlife/clinic_backend/config"
	"github.com/ipnlife/clinic_backend/models"
	"github.com/shopspring/decimal"
)

func currentStock(t *testing.T, ctx context.Context, productId int, storeId int) int {
	t.Helper()
	db := config.GetDB()
	var quantity int
	err := db.WithContext(ctx).Raw(
		`SELECT quantity FROM inventory WHERE product_id = ? AND store_id = ? ORDER BY inventory_id DESC LIMIT 1`,
		productId, storeId).Scan(&quantity).Error
	if err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return quantity
}

// A sale takes stock out, editing the quantity re-applies the difference and
// deleting the sale puts the stock back.
func TestProductSellAdjustsInventory(t *testing.T) {
	ctx := setupIntegration(t)
	db := config.GetDB()

	member, err := models.CreateMember(ctx, &models.NewMember{Name: "測試會員"})
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	product := models.Product{Name: "酵素", Code: "P100", Price: decimal.NewFromInt(800)}
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	store := models.Store{StoreName: "台北店", Account: "taipei", Password: "x"}
	if err := db.WithContext(ctx).Create(&store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}
	stock := models.Inventory{
		ProductId: product.ProductId,
		StoreId:   store.StoreId,
		Date:      time.Now(),
		Quantity:  20,
		StockIn:   20,
	}
	if err := db.WithContext(ctx).Create(&stock).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	finalPrice := decimal.NewFromInt(2400)
	sale, err := models.InsertProductSell(ctx, &models.NewProductSell{
		MemberId:      member.MemberId,
		StaffId:       1,
		StoreId:       store.StoreId,
		ProductId:     product.ProductId,
		Date:          "2026-08-01",
		Quantity:      3,
		UnitPrice:     decimal.NewFromInt(800),
		FinalPrice:    &finalPrice,
		PaymentMethod: "現金",
		SaleCategory:  "一般",
	})
	if err != nil {
		t.Fatalf("InsertProductSell: %v", err)
	}
	if got := currentStock(t, ctx, product.ProductId, store.StoreId); got != 17 {
		t.Fatalf("stock after sale of 3 = %d, want 17", got)
	}

	newQuantity := 1
	err = models.UpdateProductSell(ctx, sale.ProductSellId, &models.UpdateProductSellInput{
		Quantity: &newQuantity,
	})
	if err != nil {
		t.Fatalf("UpdateProductSell: %v", err)
	}
	if got := currentStock(t, ctx, product.ProductId, store.StoreId); got != 19 {
		t.Fatalf("stock after edit to 1 = %d, want 19", got)
	}

	if err := models.DeleteProductSell(ctx, sale.ProductSellId); err != nil {
		t.Fatalf("DeleteProductSell: %v", err)
	}
	if got := currentStock(t, ctx, product.ProductId, store.StoreId); got != 20 {
		t.Fatalf("stock after delete = %d, want 20", got)
	}
}

// Two overlapping edits of the same sale must serialize their reverse/apply
// pairs. Whichever edit lands last, stock has to reflect exactly the quantity
// the row ended up with; a stale pre-image being reversed would leave it off.
func TestConcurrentProductSellUpdatesKeepStockConsistent(t *testing.T) {
	ctx := setupIntegration(t)
	db := config.GetDB()

	member, err := models.CreateMember(ctx, &models.NewMember{Name: "併發會員"})
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	product := models.Product{Name: "益生菌", Code: "P200", Price: decimal.NewFromInt(600)}
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	store := models.Store{StoreName: "新竹店", Account: "hsinchu", Password: "x"}
	if err := db.WithContext(ctx).Create(&store).Error; err != nil {
		t.Fatalf("seed store: %v", err)
	}
	stock := models.Inventory{
		ProductId: product.ProductId,
		StoreId:   store.StoreId,
		Date:      time.Now(),
		Quantity:  20,
		StockIn:   20,
	}
	if err := db.WithContext(ctx).Create(&stock).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	finalPrice := decimal.NewFromInt(1800)
	sale, err := models.InsertProductSell(ctx, &models.NewProductSell{
		MemberId:      member.MemberId,
		StaffId:       1,
		StoreId:       store.StoreId,
		ProductId:     product.ProductId,
		Date:          "2026-08-01",
		Quantity:      3,
		UnitPrice:     decimal.NewFromInt(600),
		FinalPrice:    &finalPrice,
		PaymentMethod: "現金",
		SaleCategory:  "一般",
	})
	if err != nil {
		t.Fatalf("InsertProductSell: %v", err)
	}

	var wg sync.WaitGroup
	for _, q := range []int{1, 5} {
		quantity := q
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := models.UpdateProductSell(ctx, sale.ProductSellId, &models.UpdateProductSellInput{
				Quantity: &quantity,
			})
			if err != nil {
				t.Errorf("UpdateProductSell(quantity=%d): %v", quantity, err)
			}
		}()
	}
	wg.Wait()

	var row models.ProductSell
	if err := db.WithContext(ctx).First(&row, "product_sell_id = ?", sale.ProductSellId).Error; err != nil {
		t.Fatalf("re-read sale: %v", err)
	}
	if got := currentStock(t, ctx, product.ProductId, store.StoreId); got != 20-row.Quantity {
		t.Fatalf("stock = %d with sale quantity %d, want %d", got, row.Quantity, 20-row.Quantity)
	}
}

func TestInsertProductSellRejectsNonPositiveQuantity(t *testing.T) {
	finalPrice := decimal.NewFromInt(100)
	_, err := models.InsertProductSell(context.Background(), &models.NewProductSell{
		MemberId:      1,
		StaffId:       1,
		StoreId:       1,
		ProductId:     1,
		Date:          "2026-08-01",
		Quantity:      0,
		UnitPrice:     decimal.NewFromInt(100),
		FinalPrice:    &finalPrice,
		PaymentMethod: "現金",
		SaleCategory:  "一般",
	})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation for zero quantity, got %v", err)
	}
}
