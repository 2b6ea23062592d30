package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/presupuesto/budget_backend/utils"
)

func (h *Handler) ReportAccountBalances(c *gin.Context) {
	rows, err := h.reporter.AccountBalances(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) ReportEnvelopeBalances(c *gin.Context) {
	accountId, ok := pathID(c, "accountId")
	if !ok {
		return
	}

	rows, err := h.reporter.EnvelopeBalances(c.Request.Context(), accountId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) ReportNegativeEnvelopes(c *gin.Context) {
	rows, err := h.reporter.NegativeEnvelopes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) ReportMonthlyExpenses(c *gin.Context) {
	month := c.Query("month")
	rows, err := h.reporter.MonthlyExpenses(c.Request.Context(), month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) ReportCategoryTotals(c *gin.Context) {
	rows, err := h.reporter.CategoryTotals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) ReportInconsistencies(c *gin.Context) {
	var accountId *int
	if raw := c.Query("accountId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			respondAppError(c, utils.ValidationError("accountId must be a positive integer"))
			return
		}
		accountId = &id
	}

	rows, err := h.reporter.FindInconsistencies(c.Request.Context(), accountId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
