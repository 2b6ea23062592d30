package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/presupuesto/budget_backend/models"
)

func (h *Handler) CreateReconciliation(c *gin.Context) {
	var input models.NewReconciliation
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	record, err := h.engine.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *Handler) ListReconciliations(c *gin.Context) {
	var filter models.ReconciliationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindingError(c, err)
		return
	}

	records, err := h.engine.List(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) GetReconciliation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	record, err := h.engine.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) ReconciliationSummary(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	summary, err := h.engine.Summary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type updateNoteRequest struct {
	Note *string `json:"note"`
}

func (h *Handler) UpdateReconciliationNote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	record, err := h.engine.UpdateNote(c.Request.Context(), id, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) ActiveReconciliation(c *gin.Context) {
	accountId, ok := pathID(c, "id")
	if !ok {
		return
	}

	record, err := h.engine.GetActive(c.Request.Context(), accountId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
