package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ipnlife/clinic_backend/models"
	"github.com/ipnlife/clinic_backend/models/reports"
)

func listMedicalRecords(c *gin.Context) {
	records, err := models.GetAllMedicalRecords(c.Request.Context())
	if err != nil {
		respondError(c, "listMedicalRecords", "list medical records", nil, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func searchMedicalRecords(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		listMedicalRecords(c)
		return
	}
	records, err := models.SearchMedicalRecords(c.Request.Context(), keyword)
	if err != nil {
		respondError(c, "searchMedicalRecords", "search medical records", keyword, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func getMedicalRecord(c *gin.Context) {
	recordId, ok := pathInt(c, "record_id")
	if !ok {
		return
	}
	record, err := models.GetMedicalRecordById(c.Request.Context(), recordId)
	if err != nil {
		respondError(c, "getMedicalRecord", "get medical record", recordId, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func createMedicalRecord(c *gin.Context) {
	var input models.NewMedicalRecord
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	record, err := models.CreateMedicalRecord(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "createMedicalRecord", "create medical record", input.MemberId, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "病歷已建立", "medical_record_id": record.MedicalRecordId})
}

func updateMedicalRecord(c *gin.Context) {
	recordId, ok := pathInt(c, "record_id")
	if !ok {
		return
	}
	var input models.UpdateMedicalRecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if err := models.UpdateMedicalRecord(c.Request.Context(), recordId, &input); err != nil {
		respondError(c, "updateMedicalRecord", "update medical record", recordId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "病歷已更新"})
}

func deleteMedicalRecord(c *gin.Context) {
	recordId, ok := pathInt(c, "record_id")
	if !ok {
		return
	}
	if err := models.DeleteMedicalRecord(c.Request.Context(), recordId); err != nil {
		respondError(c, "deleteMedicalRecord", "delete medical record", recordId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "病歷已刪除"})
}

func exportMedicalRecords(c *gin.Context) {
	if err := reports.ExportMedicalRecords(c.Request.Context(), c.Writer); err != nil {
		respondError(c, "exportMedicalRecords", "export medical records", nil, err)
	}
}
