package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/hotwellkz/app66/internal/core/ports/services"
	"github.com/hotwellkz/app66/internal/dto"
	"github.com/hotwellkz/app66/internal/middleware"
	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func NewLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// Transfer moves funds between two categories, creating a linked
// expense/income transaction pair.
func (h *LedgerHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.Transfer(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ReverseTransaction deletes a transaction pair given either side's id,
// restoring the owning category's balance.
func (h *LedgerHandler) ReverseTransaction(c *gin.Context) {
	transactionID := c.Param("transactionID")

	if err := h.ledgerService.Reverse(c.Request.Context(), transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCategoryTransactions returns a category's transactions, newest first.
func (h *LedgerHandler) ListCategoryTransactions(c *gin.Context) {
	categoryID := c.Param("categoryID")

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	transactions, err := h.ledgerService.ListTransactionsByCategory(c.Request.Context(), categoryID, limit)
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Failed to list category transactions", slog.String("category_id", categoryID), slog.String("error", err.Error()))
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponses(transactions))
}
