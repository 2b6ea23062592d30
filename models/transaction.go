package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an atomic unit of money movement. It is immutable once
// created: there is no update or delete path, corrections are posted as
// ADJUSTMENT transactions.
type Transaction struct {
	ID          int               `gorm:"primary_key" json:"id"`
	UserId      int               `gorm:"index;not null" json:"user_id"`
	Date        time.Time         `gorm:"not null;index" json:"date"`
	Description string            `gorm:"size:255;not null" json:"description"`
	Type        TransactionType   `gorm:"size:20;not null" json:"type"`
	Lines       []TransactionLine `gorm:"foreignKey:TransactionId" json:"lines"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

type TransactionLine struct {
	ID            int             `gorm:"primary_key" json:"id"`
	TransactionId int             `gorm:"index;not null" json:"transaction_id"`
	AccountId     int             `gorm:"index;not null" json:"account_id"`
	EnvelopeId    int             `gorm:"index;not null" json:"envelope_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
}

// Amount is the display-time sum of the embedded line set. It is never
// stored; listings populate it after the active-envelope filter.
func (t *Transaction) SumLines() decimal.Decimal {
	total := decimal.Zero
	for _, line := range t.Lines {
		total = total.Add(line.Amount)
	}
	return total
}

func (t *Transaction) GetId() int {
	return t.ID
}

type NewTransaction struct {
	UserId      int                  `json:"user_id" binding:"required"`
	Date        string               `json:"date" binding:"required,datetime=2006-01-02"`
	Description string               `json:"description" binding:"required"`
	Type        TransactionType      `json:"type" binding:"required,oneof=INCOME EXPENSE TRANSFER ADJUSTMENT"`
	Lines       []NewTransactionLine `json:"lines" binding:"dive"`
}

type NewTransactionLine struct {
	AccountId  int             `json:"account_id" binding:"required"`
	EnvelopeId int             `json:"envelope_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

type TransactionSortKey string

const (
	TransactionSortDate      TransactionSortKey = "date"
	TransactionSortAmount    TransactionSortKey = "amount"
	TransactionSortCreatedAt TransactionSortKey = "createdAt"
)

// TransactionFilter narrows the transaction listing projection. Dates
// are YYYY-MM-DD; the amount range applies to the per-transaction
// summed amount over lines whose envelope is currently active.
type TransactionFilter struct {
	UserId     *int                `form:"userId"`
	From       *string             `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         *string             `form:"to" binding:"omitempty,datetime=2006-01-02"`
	AccountId  *int                `form:"accountId"`
	CategoryId *int                `form:"categoryId"`
	Q          *string             `form:"q"`
	Type       *TransactionType    `form:"type" binding:"omitempty,oneof=INCOME EXPENSE TRANSFER ADJUSTMENT"`
	MinAmount  *decimal.Decimal    `form:"-"`
	MaxAmount  *decimal.Decimal    `form:"-"`
	Page       int                 `form:"page"`
	PageSize   int                 `form:"pageSize"`
	SortBy     TransactionSortKey  `form:"sortBy" binding:"omitempty,oneof=date amount createdAt"`
	SortOrder  string              `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

type TransactionListItem struct {
	Transaction
	Amount decimal.Decimal `json:"amount"`
}

type TransactionsPage struct {
	Data []*TransactionListItem `json:"data"`
	Meta PageMeta               `json:"meta"`
}

func (tl TransactionLine) GetId() int {
	return tl.ID
}
