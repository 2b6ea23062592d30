package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/presupuesto/budget_backend/handlers"
	"github.com/presupuesto/budget_backend/ledger"
	"github.com/presupuesto/budget_backend/models"
	"github.com/presupuesto/budget_backend/reconcile"
	"github.com/presupuesto/budget_backend/registry"
	"github.com/presupuesto/budget_backend/report"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	models.MigrateTable(db)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ledgerSvc := ledger.New(db, logger)
	engine := reconcile.NewEngine(db, logger, nil)
	ledgerSvc.SetReconciler(engine)
	reporter := report.NewReporter(db, logger)
	entityRegistry := registry.New(db, logger)

	r := gin.New()
	handlers.New(ledgerSvc, engine, reporter, entityRegistry, logger).RegisterRoutes(r)
	return r, db
}

type errorEnvelope struct {
	Error struct {
		Code    string                   `json:"code"`
		Message string                   `json:"message"`
		Details []map[string]interface{} `json:"details"`
	} `json:"error"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var envelope errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, w.Body.String())
	}
	return envelope
}

func seedThroughAPI(t *testing.T, r *gin.Engine) (accountId, envelopeId int) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/institutions", gin.H{"user_id": 1, "name": "Main Bank", "type": "bank"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create institution: %d %s", w.Code, w.Body.String())
	}
	var institution models.Institution
	if err := json.Unmarshal(w.Body.Bytes(), &institution); err != nil {
		t.Fatalf("decode institution: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, "/api/accounts", gin.H{"user_id": 1, "institution_id": institution.ID, "name": "Checking", "currency": "EUR"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create account: %d %s", w.Code, w.Body.String())
	}
	var account models.Account
	if err := json.Unmarshal(w.Body.Bytes(), &account); err != nil {
		t.Fatalf("decode account: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, "/api/categories", gin.H{"user_id": 1, "name": "Groceries"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create category: %d %s", w.Code, w.Body.String())
	}
	var category models.Category
	if err := json.Unmarshal(w.Body.Bytes(), &category); err != nil {
		t.Fatalf("decode category: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, "/api/envelopes", gin.H{"account_id": account.ID, "category_id": category.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("create envelope: %d %s", w.Code, w.Body.String())
	}
	var envelope models.Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return account.ID, envelope.ID
}

func TestCreateTransactionEndToEnd(t *testing.T) {
	r, _ := newTestRouter(t)
	accountId, envelopeId := seedThroughAPI(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/transactions", gin.H{
		"user_id": 1, "date": "2026-03-10", "description": "weekly groceries", "type": "EXPENSE",
		"lines": []gin.H{{"account_id": accountId, "envelope_id": envelopeId, "amount": "-42.50"}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/transactions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var page models.TransactionsPage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Data) != 1 || page.Meta.TotalItems != 1 {
		t.Fatalf("expected one listed transaction, got %+v", page.Meta)
	}
}

func TestBindingFailureReturnsValidationEnvelope(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/transactions", gin.H{
		"user_id": 1, "date": "not-a-date", "description": "bad", "type": "EXPENSE",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	envelope := decodeError(t, w)
	if envelope.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %s", envelope.Error.Code)
	}
}

func TestStatusMappingPerErrorKind(t *testing.T) {
	r, _ := newTestRouter(t)
	accountId, envelopeId := seedThroughAPI(t, r)

	// NOT_FOUND -> 404
	w := doJSON(t, r, http.MethodGet, "/api/reconciliations/9999", nil)
	if w.Code != http.StatusNotFound || decodeError(t, w).Error.Code != "NOT_FOUND" {
		t.Fatalf("expected 404 NOT_FOUND, got %d %s", w.Code, w.Body.String())
	}

	// CONFLICT -> 409 (second open reconciliation)
	w = doJSON(t, r, http.MethodPost, "/api/reconciliations", gin.H{"account_id": accountId, "date": "2026-01-31", "real_balance": "500"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create reconciliation: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/api/reconciliations", gin.H{"account_id": accountId, "date": "2026-02-28", "real_balance": "600"})
	if w.Code != http.StatusConflict || decodeError(t, w).Error.Code != "CONFLICT" {
		t.Fatalf("expected 409 CONFLICT, got %d %s", w.Code, w.Body.String())
	}

	// INACTIVE_RESOURCE -> 409
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/accounts/%d", accountId), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("deactivate account: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/api/transactions", gin.H{
		"user_id": 1, "date": "2026-03-10", "description": "spend", "type": "EXPENSE",
		"lines": []gin.H{{"account_id": accountId, "envelope_id": envelopeId, "amount": "-5"}},
	})
	if w.Code != http.StatusConflict || decodeError(t, w).Error.Code != "INACTIVE_RESOURCE" {
		t.Fatalf("expected 409 INACTIVE_RESOURCE, got %d %s", w.Code, w.Body.String())
	}
}

func TestUnknownRouteReturnsEnvelope(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/nothing-here", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if decodeError(t, w).Error.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND envelope, got %s", w.Body.String())
	}
}

func TestReconciliationNotePatch(t *testing.T) {
	r, _ := newTestRouter(t)
	accountId, _ := seedThroughAPI(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/reconciliations", gin.H{"account_id": accountId, "date": "2026-01-31", "real_balance": "500"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create reconciliation: %d %s", w.Code, w.Body.String())
	}
	var record models.Reconciliation
	if err := json.Unmarshal(w.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode reconciliation: %v", err)
	}

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/reconciliations/%d/note", record.ID), gin.H{"note": "checked the statement"})
	if w.Code != http.StatusOK {
		t.Fatalf("patch note: %d %s", w.Code, w.Body.String())
	}
	var updated models.Reconciliation
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.Note == nil || *updated.Note != "checked the statement" {
		t.Fatalf("expected updated note, got %v", updated.Note)
	}
}

func TestPathParamMustBePositiveInteger(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/accounts/abc/balance", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	envelope := decodeError(t, w)
	if envelope.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %s", envelope.Error.Code)
	}
	if envelope.Error.Message != "id must be a positive integer" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestListTransactionsAmountQueryParams(t *testing.T) {
	r, _ := newTestRouter(t)
	accountId, envelopeId := seedThroughAPI(t, r)

	for _, tx := range []gin.H{
		{"user_id": 1, "date": "2026-01-10", "description": "salary", "type": "INCOME",
			"lines": []gin.H{{"account_id": accountId, "envelope_id": envelopeId, "amount": "1500"}}},
		{"user_id": 1, "date": "2026-01-12", "description": "coffee", "type": "EXPENSE",
			"lines": []gin.H{{"account_id": accountId, "envelope_id": envelopeId, "amount": "-3.75"}}},
	} {
		if w := doJSON(t, r, http.MethodPost, "/api/transactions", tx); w.Code != http.StatusCreated {
			t.Fatalf("create transaction: %d %s", w.Code, w.Body.String())
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/transactions?minAmount=-10.5&maxAmount=0.5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var page models.TransactionsPage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Description != "coffee" {
		t.Fatalf("expected only the coffee expense, got %+v", page.Data)
	}

	w = doJSON(t, r, http.MethodGet, "/api/transactions?minAmount=abc", nil)
	if w.Code != http.StatusBadRequest || decodeError(t, w).Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected 400 VALIDATION_ERROR for bad minAmount, got %d %s", w.Code, w.Body.String())
	}
}

func TestAccountBalanceEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	accountId, envelopeId := seedThroughAPI(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/transactions", gin.H{
		"user_id": 1, "date": "2026-01-10", "description": "salary", "type": "INCOME",
		"lines": []gin.H{{"account_id": accountId, "envelope_id": envelopeId, "amount": "1000"}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create transaction: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/accounts/%d/balance", accountId), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var payload struct {
		AccountId int    `json:"accountId"`
		Balance   string `json:"balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if payload.Balance != "1000" {
		t.Fatalf("expected balance 1000, got %q", payload.Balance)
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/accounts/%d/balance?asOf=bogus", accountId), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad asOf, got %d", w.Code)
	}
}
