package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ipnlife/clinic_backend/models"
	"github.com/ipnlife/clinic_backend/models/reports"
)

func listProductSells(c *gin.Context) {
	storeId, ok := optionalIntQuery(c, "store_id")
	if !ok {
		return
	}
	sells, err := models.GetAllProductSells(c.Request.Context(), storeId)
	if err != nil {
		respondError(c, "listProductSells", "list product sells", storeId, err)
		return
	}
	c.JSON(http.StatusOK, sells)
}

func searchProductSells(c *gin.Context) {
	storeId, ok := optionalIntQuery(c, "store_id")
	if !ok {
		return
	}
	keyword := c.Query("keyword")
	if keyword == "" {
		listProductSells(c)
		return
	}
	sells, err := models.SearchProductSells(c.Request.Context(), keyword, storeId)
	if err != nil {
		respondError(c, "searchProductSells", "search product sells", keyword, err)
		return
	}
	c.JSON(http.StatusOK, sells)
}

func getProductSell(c *gin.Context) {
	saleId, ok := pathInt(c, "sale_id")
	if !ok {
		return
	}
	sale, err := models.GetProductSellById(c.Request.Context(), saleId)
	if err != nil {
		respondError(c, "getProductSell", "get product sell", saleId, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func addProductSell(c *gin.Context) {
	var input models.NewProductSell
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	sale, err := models.InsertProductSell(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "addProductSell", "insert product sell", input, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func updateProductSell(c *gin.Context) {
	saleId, ok := pathInt(c, "sale_id")
	if !ok {
		return
	}
	var input models.UpdateProductSellInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if err := models.UpdateProductSell(c.Request.Context(), saleId, &input); err != nil {
		respondError(c, "updateProductSell", "update product sell", saleId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "銷售紀錄已更新"})
}

func deleteProductSell(c *gin.Context) {
	saleId, ok := pathInt(c, "sale_id")
	if !ok {
		return
	}
	if err := models.DeleteProductSell(c.Request.Context(), saleId); err != nil {
		respondError(c, "deleteProductSell", "delete product sell", saleId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "銷售紀錄已刪除"})
}

func searchProducts(c *gin.Context) {
	// Product picker; the list is small enough to filter client side, so an
	// empty keyword just returns everything.
	listProducts(c)
}

func exportProductSells(c *gin.Context) {
	storeId, ok := optionalIntQuery(c, "store_id")
	if !ok {
		return
	}
	if err := reports.ExportProductSells(c.Request.Context(), c.Writer, storeId); err != nil {
		respondError(c, "exportProductSells", "export product sells", storeId, err)
	}
}
