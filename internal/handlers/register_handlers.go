package handlers

import (
	portssvc "github.com/hotwellkz/app66/internal/core/ports/services"
	"github.com/hotwellkz/app66/pkg/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerLedgerRoutes(v1, services.Ledger)
	registerCategoryRoutes(v1, services.Category, services.Ledger)
}

func registerLedgerRoutes(v1 *gin.RouterGroup, ledgerSvc portssvc.LedgerSvcFacade) {
	ledgerHandler := NewLedgerHandler(ledgerSvc)

	v1.POST("/transfers", ledgerHandler.Transfer)
	v1.DELETE("/transactions/:transactionID", ledgerHandler.ReverseTransaction)
}

func registerCategoryRoutes(v1 *gin.RouterGroup, categorySvc portssvc.CategorySvcFacade, ledgerSvc portssvc.LedgerSvcFacade) {
	categoryHandler := NewCategoryHandler(categorySvc)
	ledgerHandler := NewLedgerHandler(ledgerSvc)

	categories := v1.Group("/categories")
	{
		categories.POST("/", categoryHandler.CreateCategory)
		categories.GET("/", categoryHandler.ListCategories)
		categories.GET("/:categoryID", categoryHandler.GetCategory)
		categories.GET("/:categoryID/transactions", ledgerHandler.ListCategoryTransactions)
	}
}
