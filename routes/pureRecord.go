package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ipnlife/clinic_backend/models"
	"github.com/ipnlife/clinic_backend/models/reports"
)

func pureRecordFilters(c *gin.Context) *models.PureRecordFilters {
	return &models.PureRecordFilters{
		Name:      c.Query("name"),
		PureItem:  c.Query("pure_item"),
		StaffName: c.Query("staff_name"),
	}
}

func listPureRecords(c *gin.Context) {
	records, err := models.GetAllPureRecords(c.Request.Context(), pureRecordFilters(c))
	if err != nil {
		respondError(c, "listPureRecords", "list pure records", nil, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func searchPureRecords(c *gin.Context) {
	filters := &models.PureRecordFilters{Name: c.Query("keyword")}
	records, err := models.GetAllPureRecords(c.Request.Context(), filters)
	if err != nil {
		respondError(c, "searchPureRecords", "search pure records", filters.Name, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func getPureRecord(c *gin.Context) {
	pureId, ok := pathInt(c, "pure_id")
	if !ok {
		return
	}
	record, err := models.GetPureRecordById(c.Request.Context(), pureId)
	if err != nil {
		respondError(c, "getPureRecord", "get pure record", pureId, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func getMemberPureRecords(c *gin.Context) {
	memberId, ok := pathInt(c, "member_id")
	if !ok {
		return
	}
	records, err := models.GetPureRecordsByMemberId(c.Request.Context(), memberId)
	if err != nil {
		respondError(c, "getMemberPureRecords", "member pure records", memberId, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func addPureRecord(c *gin.Context) {
	var input models.NewPureRecord
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	record, err := models.AddPureRecord(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "addPureRecord", "add pure record", input.MemberId, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func updatePureRecord(c *gin.Context) {
	pureId, ok := pathInt(c, "pure_id")
	if !ok {
		return
	}
	var input models.NewPureRecord
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if err := models.UpdatePureRecord(c.Request.Context(), pureId, &input); err != nil {
		respondError(c, "updatePureRecord", "update pure record", pureId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "淨化紀錄已更新"})
}

func deletePureRecord(c *gin.Context) {
	pureId, ok := pathInt(c, "pure_id")
	if !ok {
		return
	}
	if err := models.DeletePureRecord(c.Request.Context(), pureId); err != nil {
		respondError(c, "deletePureRecord", "delete pure record", pureId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "淨化紀錄已刪除"})
}

func exportPureRecords(c *gin.Context) {
	if err := reports.ExportPureRecords(c.Request.Context(), c.Writer, pureRecordFilters(c)); err != nil {
		respondError(c, "exportPureRecords", "export pure records", nil, err)
	}
}
