package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ipnlife/clinic_backend/models"
	"github.com/ipnlife/clinic_backend/models/reports"
)

func listTherapyRecords(c *gin.Context) {
	storeId, ok := scopedStoreId(c)
	if !ok {
		return
	}
	records, err := models.GetAllTherapyRecords(c.Request.Context(), storeId)
	if err != nil {
		respondError(c, "listTherapyRecords", "list therapy records", storeId, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func searchTherapyRecords(c *gin.Context) {
	storeId, ok := scopedStoreId(c)
	if !ok {
		return
	}
	keyword := c.Query("keyword")
	if keyword == "" {
		listTherapyRecords(c)
		return
	}
	records, err := models.SearchTherapyRecords(c.Request.Context(), keyword, storeId)
	if err != nil {
		respondError(c, "searchTherapyRecords", "search therapy records", keyword, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func getTherapyRecord(c *gin.Context) {
	recordId, ok := pathInt(c, "record_id")
	if !ok {
		return
	}
	record, err := models.GetTherapyRecordById(c.Request.Context(), recordId)
	if err != nil {
		respondError(c, "getTherapyRecord", "get therapy record", recordId, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func addTherapyRecord(c *gin.Context) {
	var input models.NewTherapyRecord
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	record, err := models.InsertTherapyRecord(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "addTherapyRecord", "insert therapy record", input, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func updateTherapyRecord(c *gin.Context) {
	recordId, ok := pathInt(c, "record_id")
	if !ok {
		return
	}
	var input models.NewTherapyRecord
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	existing, err := models.GetTherapyRecordById(c.Request.Context(), recordId)
	if err != nil {
		respondError(c, "updateTherapyRecord", "get therapy record", recordId, err)
		return
	}
	if forbidCrossStore(c, existing.StoreId) {
		return
	}
	if err := models.UpdateTherapyRecord(c.Request.Context(), recordId, &input); err != nil {
		respondError(c, "updateTherapyRecord", "update therapy record", recordId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "療程紀錄已更新"})
}

func deleteTherapyRecord(c *gin.Context) {
	recordId, ok := pathInt(c, "record_id")
	if !ok {
		return
	}
	existing, err := models.GetTherapyRecordById(c.Request.Context(), recordId)
	if err != nil {
		respondError(c, "deleteTherapyRecord", "get therapy record", recordId, err)
		return
	}
	if forbidCrossStore(c, existing.StoreId) {
		return
	}
	if err := models.DeleteTherapyRecord(c.Request.Context(), recordId); err != nil {
		respondError(c, "deleteTherapyRecord", "delete therapy record", recordId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "療程紀錄已刪除"})
}

func remainingSessions(c *gin.Context) {
	memberId, ok := pathInt(c, "member_id")
	if !ok {
		return
	}
	therapyId, ok := pathInt(c, "therapy_id")
	if !ok {
		return
	}
	remaining, err := models.GetRemainingSessions(c.Request.Context(), memberId, therapyId)
	if err != nil {
		respondError(c, "remainingSessions", "remaining sessions", memberId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member_id": memberId, "therapy_id": therapyId, "remaining_sessions": remaining})
}

func exportTherapyRecords(c *gin.Context) {
	storeId, ok := scopedStoreId(c)
	if !ok {
		return
	}
	if err := reports.ExportTherapyRecords(c.Request.Context(), c.Writer, storeId); err != nil {
		respondError(c, "exportTherapyRecords", "export therapy records", storeId, err)
	}
}
