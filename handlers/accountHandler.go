package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/presupuesto/budget_backend/models"
	"github.com/presupuesto/budget_backend/utils"
)

func (h *Handler) CreateAccount(c *gin.Context) {
	var input models.NewAccount
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	account, err := h.registry.CreateAccount(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.registry.ListActiveAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *Handler) GetAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	account, err := h.registry.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *Handler) UpdateAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input models.UpdateAccount
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	account, err := h.registry.UpdateAccount(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *Handler) DeactivateAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.registry.DeactivateAccount(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AccountBalance reports the derived balance, optionally as of a date
// (?asOf=YYYY-MM-DD, inclusive).
func (h *Handler) AccountBalance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var asOf *time.Time
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := utils.ParseDateString(raw)
		if err != nil {
			respondAppError(c, utils.ValidationError("asOf must be formatted as YYYY-MM-DD"))
			return
		}
		asOf = &parsed
	}

	if _, err := h.registry.GetAccount(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	balance, err := h.ledger.ComputeAccountBalance(c.Request.Context(), id, asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accountId": id, "balance": balance})
}

func (h *Handler) ListEnvelopes(c *gin.Context) {
	accountId, ok := pathID(c, "id")
	if !ok {
		return
	}

	envelopes, err := h.registry.ListEnvelopes(c.Request.Context(), accountId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, envelopes)
}
