package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ipnlife/clinic_backend/config"
	"github.com/ipnlife/clinic_backend/middlewares"
	"github.com/ipnlife/clinic_backend/models"
	"github.com/ipnlife/clinic_backend/utils"
)

// respondError logs the failure and maps the model error taxonomy onto HTTP
// status codes. Validation problems are the caller's fault, missing rows are
// 404, everything else is a server error.
func respondError(c *gin.Context, functionName string, context string, data interface{}, err error) {
	config.LogError(config.GetLogger(), "routes", functionName, context, data, err)
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func respondBindError(c *gin.Context, err error) {
	if fields := utils.ProcessValidationErrors(err); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func pathInt(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be numeric"})
		return 0, false
	}
	return value, true
}

// optionalIntQuery reads an optional numeric query parameter, nil when absent.
func optionalIntQuery(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be numeric"})
		return nil, false
	}
	return &value, true
}

// scopedStoreId resolves the store filter for store-scoped listings. A head
// office token may browse every store, optionally narrowed by ?store_id; a
// branch token is always pinned to its own store no matter what the query
// says.
func scopedStoreId(c *gin.Context) (*int, bool) {
	storeId, ok := optionalIntQuery(c, "store_id")
	if !ok {
		return nil, false
	}
	claim := middlewares.StoreClaim(c.Request.Context())
	if claim == nil || claim.IsHeadOffice() {
		return storeId, true
	}
	own := claim.StoreId
	return &own, true
}

// forbidCrossStore rejects a branch token touching another store's row.
func forbidCrossStore(c *gin.Context, rowStoreId *int) bool {
	claim := middlewares.StoreClaim(c.Request.Context())
	if claim == nil || claim.IsHeadOffice() {
		return false
	}
	if rowStoreId == nil || *rowStoreId != claim.StoreId {
		c.JSON(http.StatusForbidden, gin.H{"error": "無權操作其他門市的資料"})
		return true
	}
	return false
}
