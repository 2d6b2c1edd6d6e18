package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ipnlife/clinic_backend/middlewares"
	"github.com/ipnlife/clinic_backend/models"
	"github.com/ipnlife/clinic_backend/utils"
)

type loginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

type accountRequest struct {
	Account string `json:"account"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	Account     string `json:"account"`
	NewPassword string `json:"newPassword"`
}

func login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的請求格式"})
		return
	}
	if req.Account == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "請輸入帳號與密碼"})
		return
	}

	store, err := models.FindStoreByAccount(c.Request.Context(), req.Account)
	if err != nil {
		respondError(c, "login", "find store", req.Account, err)
		return
	}
	if err := utils.ComparePassword(store.Password, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "密碼錯誤"})
		return
	}

	token, err := utils.JwtGenerate(store.StoreId, store.Level(), store.StoreName, store.Permission)
	if err != nil {
		respondError(c, "login", "generate token", store.StoreId, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "登入成功",
		"token":       token,
		"store_id":    store.StoreId,
		"store_level": store.Level(),
		"store_name":  store.StoreName,
		"permission":  store.Permission,
		"account":     store.Account,
	})
}

func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(auth, "Bearer "), true
}

func refreshToken(c *gin.Context) {
	raw, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未提供有效的令牌"})
		return
	}

	parsed, err := utils.JwtValidate(raw)
	if err != nil || !parsed.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "令牌已過期，請重新登入"})
		return
	}
	claim, _ := parsed.Claims.(*utils.JwtStoreClaim)

	token, err := utils.JwtGenerate(claim.StoreId, claim.StoreLevel, claim.StoreName, claim.Permission)
	if err != nil {
		respondError(c, "refreshToken", "generate token", claim.StoreId, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "令牌刷新成功",
		"token":       token,
		"store_id":    claim.StoreId,
		"store_level": claim.StoreLevel,
		"store_name":  claim.StoreName,
		"permission":  claim.Permission,
	})
}

func checkAuth(c *gin.Context) {
	raw, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false, "error": "未提供有效的令牌"})
		return
	}
	parsed, err := utils.JwtValidate(raw)
	if err != nil || !parsed.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false, "error": "令牌已過期"})
		return
	}
	claim, _ := parsed.Claims.(*utils.JwtStoreClaim)
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"store_id":      claim.StoreId,
		"store_level":   claim.StoreLevel,
		"store_name":    claim.StoreName,
		"permission":    claim.Permission,
	})
}

// requestPasswordReset and forgotPassword share the same flow: both mint a
// one-hour reset token in Redis and hand it back. A real deployment would
// mail the link instead of returning it.
func issueResetToken(c *gin.Context, functionName string) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Account == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "請輸入帳號"})
		return
	}

	if _, err := models.FindStoreByAccount(c.Request.Context(), req.Account); err != nil {
		respondError(c, functionName, "find store", req.Account, err)
		return
	}

	token, err := utils.CreateResetToken(req.Account)
	if err != nil {
		respondError(c, functionName, "create reset token", req.Account, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "重設密碼連結已產生",
		"token":      token,
		"expires_in": "1小時",
	})
}

func requestPasswordReset(c *gin.Context) {
	issueResetToken(c, "requestPasswordReset")
}

func forgotPassword(c *gin.Context) {
	issueResetToken(c, "forgotPassword")
}

func resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.Token == "" || req.Account == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少必要參數"})
		return
	}

	account, ok, err := utils.ResetTokenAccount(req.Token)
	if err != nil {
		respondError(c, "resetPassword", "lookup reset token", nil, err)
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的重設連結"})
		return
	}
	if account != req.Account {
		c.JSON(http.StatusBadRequest, gin.H{"error": "帳號與重設連結不匹配"})
		return
	}

	if err := models.UpdateStorePassword(c.Request.Context(), req.Account, req.NewPassword); err != nil {
		respondError(c, "resetPassword", "update password", req.Account, err)
		return
	}
	if err := utils.DeleteResetToken(req.Token); err != nil {
		respondError(c, "resetPassword", "delete reset token", nil, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "密碼更新成功"})
}

// storeInfo returns the record of the store the token was issued for.
func storeInfo(c *gin.Context) {
	claim := middlewares.StoreClaim(c.Request.Context())
	if claim == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未提供有效的令牌"})
		return
	}
	store, err := models.GetStoreInfo(c.Request.Context(), claim.StoreId)
	if err != nil {
		respondError(c, "storeInfo", "get store info", claim.StoreId, err)
		return
	}
	c.JSON(http.StatusOK, store)
}

func listStores(c *gin.Context) {
	stores, err := models.GetAllStores(c.Request.Context())
	if err != nil {
		respondError(c, "listStores", "list stores", nil, err)
		return
	}
	c.JSON(http.StatusOK, stores)
}
