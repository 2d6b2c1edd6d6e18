package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ipnlife/clinic_backend/models"
)

func listStressTests(c *gin.Context) {
	memberId, ok := optionalIntQuery(c, "member_id")
	if !ok {
		return
	}
	filters := &models.StressTestFilters{
		Name:     c.Query("name"),
		MemberId: memberId,
	}
	tests, err := models.GetAllStressTests(c.Request.Context(), filters)
	if err != nil {
		respondError(c, "listStressTests", "list stress tests", nil, err)
		return
	}
	c.JSON(http.StatusOK, tests)
}

func getStressTest(c *gin.Context) {
	stressId, ok := pathInt(c, "stress_id")
	if !ok {
		return
	}
	test, err := models.GetStressTestById(c.Request.Context(), stressId)
	if err != nil {
		respondError(c, "getStressTest", "get stress test", stressId, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

func getMemberStressTests(c *gin.Context) {
	memberId, ok := pathInt(c, "member_id")
	if !ok {
		return
	}
	tests, err := models.GetStressTestsByMemberId(c.Request.Context(), memberId)
	if err != nil {
		respondError(c, "getMemberStressTests", "member stress tests", memberId, err)
		return
	}
	c.JSON(http.StatusOK, tests)
}

func addStressTest(c *gin.Context) {
	var input models.NewStressTest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	test, err := models.AddStressTest(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "addStressTest", "add stress test", input.MemberId, err)
		return
	}
	c.JSON(http.StatusCreated, test)
}

func updateStressTest(c *gin.Context) {
	stressId, ok := pathInt(c, "stress_id")
	if !ok {
		return
	}
	var input models.NewStressTest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if err := models.UpdateStressTest(c.Request.Context(), stressId, &input); err != nil {
		respondError(c, "updateStressTest", "update stress test", stressId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "壓力測驗已更新"})
}

func deleteStressTest(c *gin.Context) {
	stressId, ok := pathInt(c, "stress_id")
	if !ok {
		return
	}
	if err := models.DeleteStressTest(c.Request.Context(), stressId); err != nil {
		respondError(c, "deleteStressTest", "delete stress test", stressId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "壓力測驗已刪除"})
}
