package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ipnlife/clinic_backend/middlewares"
)

// RegisterRoutes wires every API group. Login and token endpoints are open;
// everything else expects an authenticated store, with staff management
// restricted to the head office.
func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	auth := api.Group("/login")
	{
		auth.POST("", login)
		auth.POST("/refresh-token", refreshToken)
		auth.GET("/check", checkAuth)
		auth.POST("/request-password-reset", requestPasswordReset)
		auth.POST("/forgot-password", forgotPassword)
		auth.POST("/reset-password", resetPassword)
		auth.GET("/stores", listStores)
		auth.GET("/store-info", middlewares.AuthRequired(), storeInfo)
	}

	member := api.Group("/member", middlewares.AuthRequired())
	{
		member.GET("", listMembers)
		member.GET("/list", listMembers)
		member.GET("/search", searchMembers)
		member.GET("/next-code", nextMemberCode)
		member.GET("/check/:member_id", checkMember)
		member.GET("/:member_id", getMember)
		member.POST("/create", createMember)
		member.PUT("/:member_id", updateMember)
		member.DELETE("/:member_id", deleteMember)
	}

	inventory := api.Group("/inventory", middlewares.AuthRequired())
	{
		inventory.GET("/list", listInventory)
		inventory.GET("/search", searchInventory)
		inventory.GET("/low-stock", lowStockInventory)
		inventory.GET("/products", listProducts)
		inventory.GET("/export", exportInventory)
		inventory.GET("/:inventory_id", getInventoryItem)
		inventory.POST("/add", addInventoryItem)
		inventory.PUT("/update/:inventory_id", updateInventoryItem)
		inventory.DELETE("/delete/:inventory_id", deleteInventoryItem)
	}

	productSell := api.Group("/product-sell", middlewares.AuthRequired())
	{
		productSell.GET("/list", listProductSells)
		productSell.GET("/search", searchProductSells)
		productSell.GET("/detail/:sale_id", getProductSell)
		productSell.GET("/products", listProducts)
		productSell.GET("/products/search", searchProducts)
		productSell.GET("/export", exportProductSells)
		productSell.POST("/add", addProductSell)
		productSell.PUT("/update/:sale_id", updateProductSell)
		productSell.DELETE("/delete/:sale_id", deleteProductSell)
	}

	therapySell := api.Group("/therapy-sell", middlewares.AuthRequired())
	{
		therapySell.GET("/packages", listTherapyPackages)
		therapySell.GET("/packages/search", searchTherapyPackages)
		therapySell.GET("/sales", listTherapySells)
		therapySell.GET("/sales/search", searchTherapySells)
		therapySell.GET("/sales/export", exportTherapySells)
		therapySell.POST("/sales", addTherapySells)
		therapySell.PUT("/sales/:sale_id", updateTherapySell)
		therapySell.DELETE("/sales/:sale_id", deleteTherapySell)
		therapySell.GET("/members", listMembers)
		therapySell.GET("/stores", listStores)
		therapySell.GET("/staff", listStaff)
	}

	therapy := api.Group("/therapy", middlewares.AuthRequired())
	{
		therapy.GET("/record", listTherapyRecords)
		therapy.GET("/record/search", searchTherapyRecords)
		therapy.GET("/record/export", exportTherapyRecords)
		therapy.GET("/record/:record_id", getTherapyRecord)
		therapy.POST("/record", addTherapyRecord)
		therapy.PUT("/record/:record_id", updateTherapyRecord)
		therapy.DELETE("/record/:record_id", deleteTherapyRecord)
		therapy.GET("/remaining/:member_id/:therapy_id", remainingSessions)
	}

	medical := api.Group("/medical-record", middlewares.AuthRequired())
	{
		medical.GET("/list", listMedicalRecords)
		medical.GET("/search", searchMedicalRecords)
		medical.GET("/export", exportMedicalRecords)
		medical.GET("/:record_id", getMedicalRecord)
		medical.POST("/create", createMedicalRecord)
		medical.PUT("/update/:record_id", updateMedicalRecord)
		medical.DELETE("/delete/:record_id", deleteMedicalRecord)
	}

	healthCheck := api.Group("/health-check", middlewares.AuthRequired())
	{
		healthCheck.GET("", listHealthChecks)
		healthCheck.GET("/search", searchHealthChecks)
		healthCheck.GET("/export", exportHealthChecks)
		healthCheck.GET("/member/:member_id", getMemberHealthCheck)
		healthCheck.POST("", createHealthCheck)
		healthCheck.PUT("/:check_id", updateHealthCheck)
		healthCheck.DELETE("/:check_id", deleteHealthCheck)
	}

	pure := api.Group("/pure-medical-record", middlewares.AuthRequired())
	{
		pure.GET("", listPureRecords)
		pure.GET("/search", searchPureRecords)
		pure.GET("/filter", listPureRecords)
		pure.GET("/export", exportPureRecords)
		pure.GET("/member/:member_id", getMemberPureRecords)
		pure.GET("/:pure_id", getPureRecord)
		pure.POST("", addPureRecord)
		pure.PUT("/:pure_id", updatePureRecord)
		pure.DELETE("/:pure_id", deletePureRecord)
	}

	stress := api.Group("/stress-test", middlewares.AuthRequired())
	{
		stress.GET("", listStressTests)
		stress.GET("/member/:member_id", getMemberStressTests)
		stress.GET("/:stress_id", getStressTest)
		stress.POST("", addStressTest)
		stress.PUT("/:stress_id", updateStressTest)
		stress.DELETE("/:stress_id", deleteStressTest)
	}

	salesOrder := api.Group("/sales-order", middlewares.AuthRequired())
	{
		salesOrder.POST("", createSalesOrder)
		salesOrder.GET("", listSalesOrders)
		salesOrder.GET("/:order_id/items", getSalesOrderItems)
		salesOrder.POST("/delete", deleteSalesOrders)
	}

	staff := api.Group("/staff", middlewares.AuthRequired())
	{
		staff.GET("/list", listStaff)
		staff.GET("/search", searchStaff)
		staff.GET("/stores", staffStoreList)
		staff.GET("/permissions", staffPermissionList)
		staff.GET("/details/:staff_id", getStaffDetails)
		staff.GET("/:staff_id", getStaff)
		staff.POST("/add", middlewares.AdminRequired(), addStaff)
		staff.PUT("/update/:staff_id", middlewares.AdminRequired(), updateStaff)
		staff.DELETE("/delete/:staff_id", middlewares.AdminRequired(), deleteStaff)
	}
}
