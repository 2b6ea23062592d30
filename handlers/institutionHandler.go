package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/presupuesto/budget_backend/models"
)

func (h *Handler) CreateInstitution(c *gin.Context) {
	var input models.NewInstitution
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	institution, err := h.registry.CreateInstitution(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, institution)
}

func (h *Handler) ListInstitutions(c *gin.Context) {
	institutions, err := h.registry.ListInstitutions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, institutions)
}

func (h *Handler) UpdateInstitution(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input models.UpdateInstitution
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}

	institution, err := h.registry.UpdateInstitution(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, institution)
}

func (h *Handler) DeactivateInstitution(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.registry.DeactivateInstitution(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
