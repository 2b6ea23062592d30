package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/presupuesto/budget_backend/models"
	"github.com/presupuesto/budget_backend/utils"
)

func (h *Handler) CreateTransaction(c *gin.Context) {
	var input models.NewTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	transaction, err := h.ledger.CreateTransaction(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

func (h *Handler) ListTransactions(c *gin.Context) {
	var filter models.TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindingError(c, err)
		return
	}

	// Decimal query params bypass ShouldBindQuery; gin's form binding
	// has no decoder for decimal.Decimal.
	if raw := c.Query("minAmount"); raw != "" {
		min, err := utils.ParseDecimal(raw)
		if err != nil {
			respondAppError(c, utils.ValidationError("invalid minAmount %q", raw))
			return
		}
		filter.MinAmount = &min
	}
	if raw := c.Query("maxAmount"); raw != "" {
		max, err := utils.ParseDecimal(raw)
		if err != nil {
			respondAppError(c, utils.ValidationError("invalid maxAmount %q", raw))
			return
		}
		filter.MaxAmount = &max
	}

	page, err := h.ledger.ListTransactions(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
