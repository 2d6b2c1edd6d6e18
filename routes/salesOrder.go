package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ipnlife/clinic_backend/models"
)

func createSalesOrder(c *gin.Context) {
	var input models.NewSalesOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	orderNumber := input.OrderNumber
	if orderNumber == "" {
		orderNumber = models.NewOrderNumber(time.Now())
	}
	order, err := models.CreateSalesOrder(c.Request.Context(), orderNumber, &input)
	if err != nil {
		respondError(c, "createSalesOrder", "create sales order", orderNumber, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "訂單已建立",
		"order_id":     order.OrderId,
		"order_number": order.OrderNumber,
	})
}

func listSalesOrders(c *gin.Context) {
	orders, err := models.GetAllSalesOrders(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		respondError(c, "listSalesOrders", "list sales orders", nil, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func getSalesOrderItems(c *gin.Context) {
	orderId, ok := pathInt(c, "order_id")
	if !ok {
		return
	}
	items, err := models.GetSalesOrderItems(c.Request.Context(), orderId)
	if err != nil {
		respondError(c, "getSalesOrderItems", "get sales order items", orderId, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type deleteSalesOrdersRequest struct {
	OrderIds []int `json:"order_ids" binding:"required"`
}

func deleteSalesOrders(c *gin.Context) {
	var req deleteSalesOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	deleted, err := models.DeleteSalesOrdersByIds(c.Request.Context(), req.OrderIds)
	if err != nil {
		respondError(c, "deleteSalesOrders", "delete sales orders", req.OrderIds, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "訂單已刪除", "deleted": deleted})
}
