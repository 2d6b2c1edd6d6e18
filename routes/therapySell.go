package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ipnlife/clinic_backend/models"
	"github.com/ipnlife/clinic_backend/models/reports"
)

func listTherapyPackages(c *gin.Context) {
	packages, err := models.GetAllTherapyPackages(c.Request.Context())
	if err != nil {
		respondError(c, "listTherapyPackages", "list packages", nil, err)
		return
	}
	c.JSON(http.StatusOK, packages)
}

func searchTherapyPackages(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		listTherapyPackages(c)
		return
	}
	packages, err := models.SearchTherapyPackages(c.Request.Context(), keyword)
	if err != nil {
		respondError(c, "searchTherapyPackages", "search packages", keyword, err)
		return
	}
	c.JSON(http.StatusOK, packages)
}

func listTherapySells(c *gin.Context) {
	storeId, ok := scopedStoreId(c)
	if !ok {
		return
	}
	sells, err := models.GetAllTherapySells(c.Request.Context(), storeId)
	if err != nil {
		respondError(c, "listTherapySells", "list therapy sells", storeId, err)
		return
	}
	c.JSON(http.StatusOK, sells)
}

func searchTherapySells(c *gin.Context) {
	storeId, ok := scopedStoreId(c)
	if !ok {
		return
	}
	keyword := c.Query("keyword")
	if keyword == "" {
		listTherapySells(c)
		return
	}
	sells, err := models.SearchTherapySells(c.Request.Context(), keyword, storeId)
	if err != nil {
		respondError(c, "searchTherapySells", "search therapy sells", keyword, err)
		return
	}
	c.JSON(http.StatusOK, sells)
}

// addTherapySells accepts a batch of sales from the checkout screen and
// inserts them in one transaction.
func addTherapySells(c *gin.Context) {
	var inputs []*models.NewTherapySell
	if err := c.ShouldBindJSON(&inputs); err != nil {
		respondBindError(c, err)
		return
	}
	ids, err := models.InsertManyTherapySells(c.Request.Context(), inputs)
	if err != nil {
		respondError(c, "addTherapySells", "insert therapy sells", len(inputs), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "療程銷售已新增", "ids": ids})
}

func exportTherapySells(c *gin.Context) {
	storeId, ok := scopedStoreId(c)
	if !ok {
		return
	}
	if err := reports.ExportTherapySells(c.Request.Context(), c.Writer, storeId); err != nil {
		respondError(c, "exportTherapySells", "export therapy sells", storeId, err)
	}
}

func updateTherapySell(c *gin.Context) {
	saleId, ok := pathInt(c, "sale_id")
	if !ok {
		return
	}
	var input models.UpdateTherapySellInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if err := models.UpdateTherapySell(c.Request.Context(), saleId, &input); err != nil {
		respondError(c, "updateTherapySell", "update therapy sell", saleId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "療程銷售已更新"})
}

func deleteTherapySell(c *gin.Context) {
	saleId, ok := pathInt(c, "sale_id")
	if !ok {
		return
	}
	if err := models.DeleteTherapySell(c.Request.Context(), saleId); err != nil {
		respondError(c, "deleteTherapySell", "delete therapy sell", saleId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "療程銷售已刪除"})
}
