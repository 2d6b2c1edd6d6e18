package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ipnlife/clinic_backend/models"
	"github.com/ipnlife/clinic_backend/models/reports"
)

func listHealthChecks(c *gin.Context) {
	checks, err := models.GetAllHealthChecks(c.Request.Context())
	if err != nil {
		respondError(c, "listHealthChecks", "list health checks", nil, err)
		return
	}
	c.JSON(http.StatusOK, checks)
}

func searchHealthChecks(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		listHealthChecks(c)
		return
	}
	checks, err := models.SearchHealthChecks(c.Request.Context(), keyword)
	if err != nil {
		respondError(c, "searchHealthChecks", "search health checks", keyword, err)
		return
	}
	c.JSON(http.StatusOK, checks)
}

func getMemberHealthCheck(c *gin.Context) {
	memberId, ok := pathInt(c, "member_id")
	if !ok {
		return
	}
	check, err := models.GetMemberHealthCheck(c.Request.Context(), memberId)
	if err != nil {
		respondError(c, "getMemberHealthCheck", "get member health check", memberId, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

func createHealthCheck(c *gin.Context) {
	var input models.NewHealthCheck
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	check, err := models.CreateHealthCheck(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "createHealthCheck", "create health check", input.MemberId, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "健檢紀錄已建立", "health_check_id": check.HealthCheckId})
}

func updateHealthCheck(c *gin.Context) {
	checkId, ok := pathInt(c, "check_id")
	if !ok {
		return
	}
	var input models.UpdateHealthCheck
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if err := models.UpdateHealthCheckRecord(c.Request.Context(), checkId, &input); err != nil {
		respondError(c, "updateHealthCheck", "update health check", checkId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "健檢紀錄已更新"})
}

func deleteHealthCheck(c *gin.Context) {
	checkId, ok := pathInt(c, "check_id")
	if !ok {
		return
	}
	if err := models.DeleteHealthCheck(c.Request.Context(), checkId); err != nil {
		respondError(c, "deleteHealthCheck", "delete health check", checkId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "健檢紀錄已刪除"})
}

func exportHealthChecks(c *gin.Context) {
	if err := reports.ExportHealthChecks(c.Request.Context(), c.Writer); err != nil {
		respondError(c, "exportHealthChecks", "export health checks", nil, err)
	}
}
