// Package handlers exposes the REST surface: request binding, the
// error envelope, and the route table. All domain behavior lives in
// the ledger, reconcile, report and registry packages.
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/presupuesto/budget_backend/ledger"
	"github.com/presupuesto/budget_backend/reconcile"
	"github.com/presupuesto/budget_backend/registry"
	"github.com/presupuesto/budget_backend/report"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	ledger   *ledger.Ledger
	engine   *reconcile.Engine
	reporter *report.Reporter
	registry *registry.Registry
	logger   *logrus.Logger
}

func New(l *ledger.Ledger, e *reconcile.Engine, rep *report.Reporter, reg *registry.Registry, logger *logrus.Logger) *Handler {
	return &Handler{
		ledger:   l,
		engine:   e,
		reporter: rep,
		registry: reg,
		logger:   logger,
	}
}

// RegisterRoutes mounts every resource under /api.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/transactions", h.CreateTransaction)
	api.GET("/transactions", h.ListTransactions)

	api.POST("/reconciliations", h.CreateReconciliation)
	api.GET("/reconciliations", h.ListReconciliations)
	api.GET("/reconciliations/:id", h.GetReconciliation)
	api.GET("/reconciliations/:id/summary", h.ReconciliationSummary)
	api.PATCH("/reconciliations/:id/note", h.UpdateReconciliationNote)
	api.GET("/accounts/:id/reconciliations/active", h.ActiveReconciliation)

	api.POST("/institutions", h.CreateInstitution)
	api.GET("/institutions", h.ListInstitutions)
	api.PATCH("/institutions/:id", h.UpdateInstitution)
	api.DELETE("/institutions/:id", h.DeactivateInstitution)

	api.POST("/accounts", h.CreateAccount)
	api.GET("/accounts", h.ListAccounts)
	api.GET("/accounts/:id", h.GetAccount)
	api.PATCH("/accounts/:id", h.UpdateAccount)
	api.DELETE("/accounts/:id", h.DeactivateAccount)
	api.GET("/accounts/:id/balance", h.AccountBalance)
	api.GET("/accounts/:id/envelopes", h.ListEnvelopes)

	api.POST("/categories", h.CreateCategory)
	api.GET("/categories", h.ListCategories)
	api.PATCH("/categories/:id", h.UpdateCategory)
	api.DELETE("/categories/:id", h.DeactivateCategory)

	api.POST("/envelopes", h.CreateEnvelope)
	api.DELETE("/envelopes/:id", h.DeactivateEnvelope)
	api.GET("/envelopes/:id/balance", h.EnvelopeBalance)

	api.GET("/reports/account-balances", h.ReportAccountBalances)
	api.GET("/reports/envelope-balances/:accountId", h.ReportEnvelopeBalances)
	api.GET("/reports/negative-envelopes", h.ReportNegativeEnvelopes)
	api.GET("/reports/monthly-expenses", h.ReportMonthlyExpenses)
	api.GET("/reports/category-totals", h.ReportCategoryTotals)
	api.GET("/reports/inconsistencies", h.ReportInconsistencies)

	r.NoRoute(NotFoundRoute)
}
