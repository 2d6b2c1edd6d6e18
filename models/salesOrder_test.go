package models_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ipnlife/clinic_backend/models"
	"github.com/shopspring/decimal"
)

func TestNewOrderNumber(t *testing.T) {
	stamp := time.Date(2026, 8, 28, 14, 30, 5, 0, time.Local)
	got := models.NewOrderNumber(stamp)
	if got != "SO-20260828143005" {
		t.Fatalf("NewOrderNumber = %q, want SO-20260828143005", got)
	}
	if !strings.HasPrefix(got, "SO-") {
		t.Fatalf("order number missing SO- prefix: %q", got)
	}
}

func TestCreateSalesOrderRejectsEmptyItems(t *testing.T) {
	_, err := models.CreateSalesOrder(context.Background(), "SO-20260828000000", &models.NewSalesOrder{
		OrderDate: "2026-08-28",
		MemberId:  1,
		StaffId:   1,
		StoreId:   1,
	})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty items, got %v", err)
	}
}

func TestSalesOrderCreateListDelete(t *testing.T) {
	ctx := setupIntegration(t)

	member, err := models.CreateMember(ctx, &models.NewMember{Name: "訂單會員"})
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}

	input := &models.NewSalesOrder{
		OrderDate:    "2026-08-28",
		MemberId:     member.MemberId,
		StaffId:      1,
		StoreId:      1,
		Subtotal:     decimal.NewFromInt(3000),
		GrandTotal:   decimal.NewFromInt(2800),
		SaleCategory: "一般",
		Items: []*models.NewSalesOrderItem{
			{ItemDescription: "精油", ItemType: "product", UnitPrice: decimal.NewFromInt(1000), Quantity: 2, Subtotal: decimal.NewFromInt(2000)},
			{ItemDescription: "課程", ItemType: "therapy", UnitPrice: decimal.NewFromInt(1000), Quantity: 1, Subtotal: decimal.NewFromInt(1000)},
		},
	}
	orderNumber := models.NewOrderNumber(time.Now())
	order, err := models.CreateSalesOrder(ctx, orderNumber, input)
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}
	if order.OrderNumber != orderNumber {
		t.Fatalf("order number = %q, want %q", order.OrderNumber, orderNumber)
	}

	items, err := models.GetSalesOrderItems(ctx, order.OrderId)
	if err != nil {
		t.Fatalf("GetSalesOrderItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	orders, err := models.GetAllSalesOrders(ctx, "訂單會員")
	if err != nil {
		t.Fatalf("GetAllSalesOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order by member search, got %d", len(orders))
	}

	deleted, err := models.DeleteSalesOrdersByIds(ctx, []int{order.OrderId})
	if err != nil {
		t.Fatalf("DeleteSalesOrdersByIds: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	items, err = models.GetSalesOrderItems(ctx, order.OrderId)
	if err != nil {
		t.Fatalf("GetSalesOrderItems after delete: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected items removed with order, got %d", len(items))
	}
}
