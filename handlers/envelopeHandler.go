package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/presupuesto/budget_backend/models"
)

func (h *Handler) CreateEnvelope(c *gin.Context) {
	var input models.NewEnvelope
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	envelope, err := h.registry.CreateEnvelope(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, envelope)
}

func (h *Handler) DeactivateEnvelope(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.registry.DeactivateEnvelope(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) EnvelopeBalance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := h.registry.GetEnvelope(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	balance, err := h.ledger.ComputeEnvelopeBalance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"envelopeId": id, "balance": balance})
}
