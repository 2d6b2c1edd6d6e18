package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ipnlife/clinic_backend/models"
	"github.com/ipnlife/clinic_backend/utils"
)

func listMembers(c *gin.Context) {
	members, err := models.GetAllMembers(c.Request.Context())
	if err != nil {
		respondError(c, "listMembers", "list members", nil, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func searchMembers(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		listMembers(c)
		return
	}
	members, err := models.SearchMembers(c.Request.Context(), keyword)
	if err != nil {
		respondError(c, "searchMembers", "search members", keyword, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func getMember(c *gin.Context) {
	memberId, ok := pathInt(c, "member_id")
	if !ok {
		return
	}
	member, err := models.GetMemberById(c.Request.Context(), memberId)
	if err != nil {
		respondError(c, "getMember", "get member", memberId, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func checkMember(c *gin.Context) {
	memberId, ok := pathInt(c, "member_id")
	if !ok {
		return
	}
	exists, err := models.CheckMemberExists(c.Request.Context(), memberId)
	if err != nil {
		respondError(c, "checkMember", "check member", memberId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func createMember(c *gin.Context) {
	var input models.NewMember
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, "TW"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "電話號碼格式錯誤"})
			return
		}
	}
	member, err := models.CreateMember(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "createMember", "create member", input, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func updateMember(c *gin.Context) {
	memberId, ok := pathInt(c, "member_id")
	if !ok {
		return
	}
	var input models.NewMember
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	member, err := models.UpdateMember(c.Request.Context(), memberId, &input)
	if err != nil {
		respondError(c, "updateMember", "update member", memberId, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func deleteMember(c *gin.Context) {
	memberId, ok := pathInt(c, "member_id")
	if !ok {
		return
	}
	if err := models.DeleteMemberAndRelatedData(c.Request.Context(), memberId); err != nil {
		respondError(c, "deleteMember", "delete member", memberId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "會員及相關資料已刪除"})
}

func nextMemberCode(c *gin.Context) {
	code, err := models.GetNextMemberCode(c.Request.Context())
	if err != nil {
		respondError(c, "nextMemberCode", "next member code", nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"next_code": code})
}
