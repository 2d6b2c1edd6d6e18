package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ipnlife/clinic_backend/models"
	"github.com/ipnlife/clinic_backend/utils"
)

func listStaff(c *gin.Context) {
	staff, err := models.GetAllStaff(c.Request.Context())
	if err != nil {
		respondError(c, "listStaff", "list staff", nil, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func searchStaff(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		listStaff(c)
		return
	}
	staff, err := models.SearchStaff(c.Request.Context(), keyword)
	if err != nil {
		respondError(c, "searchStaff", "search staff", keyword, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func getStaff(c *gin.Context) {
	staffId, ok := pathInt(c, "staff_id")
	if !ok {
		return
	}
	staff, err := models.GetStaffById(c.Request.Context(), staffId)
	if err != nil {
		respondError(c, "getStaff", "get staff", staffId, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func getStaffDetails(c *gin.Context) {
	staffId, ok := pathInt(c, "staff_id")
	if !ok {
		return
	}
	details, err := models.GetStaffDetails(c.Request.Context(), staffId)
	if err != nil {
		respondError(c, "getStaffDetails", "get staff details", staffId, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func addStaff(c *gin.Context) {
	var input models.NewStaff
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if input.BasicInfo.Email != "" && !utils.IsValidEmail(input.BasicInfo.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "電子郵件格式錯誤"})
		return
	}
	staff, err := models.CreateStaff(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "addStaff", "create staff", input.BasicInfo.Name, err)
		return
	}
	c.JSON(http.StatusCreated, staff)
}

func updateStaff(c *gin.Context) {
	staffId, ok := pathInt(c, "staff_id")
	if !ok {
		return
	}
	var input models.NewStaff
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if err := models.UpdateStaff(c.Request.Context(), staffId, &input); err != nil {
		respondError(c, "updateStaff", "update staff", staffId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "員工資料已更新"})
}

func deleteStaff(c *gin.Context) {
	staffId, ok := pathInt(c, "staff_id")
	if !ok {
		return
	}
	if err := models.DeleteStaff(c.Request.Context(), staffId); err != nil {
		respondError(c, "deleteStaff", "delete staff", staffId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "員工已刪除"})
}

func staffStoreList(c *gin.Context) {
	stores, err := models.GetStaffStoreList(c.Request.Context())
	if err != nil {
		respondError(c, "staffStoreList", "staff store list", nil, err)
		return
	}
	c.JSON(http.StatusOK, stores)
}

func staffPermissionList(c *gin.Context) {
	permissions, err := models.GetStaffPermissionList(c.Request.Context())
	if err != nil {
		respondError(c, "staffPermissionList", "staff permission list", nil, err)
		return
	}
	c.JSON(http.StatusOK, permissions)
}
