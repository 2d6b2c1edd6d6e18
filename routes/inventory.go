package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ipnlife/clinic_backend/models"
	"github.com/ipnlife/clinic_backend/models/reports"
)

func listInventory(c *gin.Context) {
	rows, err := models.GetAllInventory(c.Request.Context())
	if err != nil {
		respondError(c, "listInventory", "list inventory", nil, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func searchInventory(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		listInventory(c)
		return
	}
	rows, err := models.SearchInventory(c.Request.Context(), keyword)
	if err != nil {
		respondError(c, "searchInventory", "search inventory", keyword, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func lowStockInventory(c *gin.Context) {
	rows, err := models.GetLowStockInventory(c.Request.Context())
	if err != nil {
		respondError(c, "lowStockInventory", "low stock inventory", nil, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func getInventoryItem(c *gin.Context) {
	inventoryId, ok := pathInt(c, "inventory_id")
	if !ok {
		return
	}
	detail, err := models.GetInventoryById(c.Request.Context(), inventoryId)
	if err != nil {
		respondError(c, "getInventoryItem", "get inventory", inventoryId, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func addInventoryItem(c *gin.Context) {
	var input models.NewInventoryItem
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	item, err := models.AddInventoryItem(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "addInventoryItem", "add inventory", input, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func updateInventoryItem(c *gin.Context) {
	inventoryId, ok := pathInt(c, "inventory_id")
	if !ok {
		return
	}
	var input models.UpdateInventoryItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if err := models.UpdateInventoryItem(c.Request.Context(), inventoryId, &input); err != nil {
		respondError(c, "updateInventoryItem", "update inventory", inventoryId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "庫存已更新"})
}

func deleteInventoryItem(c *gin.Context) {
	inventoryId, ok := pathInt(c, "inventory_id")
	if !ok {
		return
	}
	if err := models.DeleteInventoryItem(c.Request.Context(), inventoryId); err != nil {
		respondError(c, "deleteInventoryItem", "delete inventory", inventoryId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "庫存已刪除"})
}

func listProducts(c *gin.Context) {
	products, err := models.GetProductList(c.Request.Context())
	if err != nil {
		respondError(c, "listProducts", "list products", nil, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func exportInventory(c *gin.Context) {
	if err := reports.ExportInventory(c.Request.Context(), c.Writer); err != nil {
		respondError(c, "exportInventory", "export inventory", nil, err)
	}
}
