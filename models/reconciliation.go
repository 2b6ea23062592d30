package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reconciliation is one account's dated assertion of its real-world
// balance. Created OPEN (or immediately BALANCED when the difference is
// already within Epsilon), it transitions to BALANCED exactly once and
// never reverts. IsActive is true iff the record is OPEN and still the
// account's current assertion; at most one active reconciliation may
// exist per account. Only the note is mutable after creation.
type Reconciliation struct {
	ID                int                  `gorm:"primary_key" json:"id"`
	AccountId         int                  `gorm:"index;not null" json:"account_id"`
	Date              time.Time            `gorm:"not null" json:"date"`
	RealBalance       decimal.Decimal      `gorm:"type:decimal(20,4);not null" json:"real_balance"`
	CalculatedBalance decimal.Decimal      `gorm:"type:decimal(20,4);not null" json:"calculated_balance"`
	Difference        decimal.Decimal      `gorm:"type:decimal(20,4);not null" json:"difference"`
	Status            ReconciliationStatus `gorm:"size:20;not null" json:"status"`
	IsActive          bool                 `gorm:"index;not null" json:"is_active"`
	Note              *string              `gorm:"type:text" json:"note"`
	CreatedAt         time.Time            `gorm:"autoCreateTime" json:"created_at"`
	ClosedAt          *time.Time           `json:"closed_at"`
}

func (r *Reconciliation) GetId() int {
	return r.ID
}

type NewReconciliation struct {
	AccountId   int             `json:"account_id" binding:"required"`
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	RealBalance decimal.Decimal `json:"real_balance"`
	Note        *string         `json:"note"`
}

type ReconciliationFilter struct {
	AccountId *int                  `form:"accountId"`
	Status    *ReconciliationStatus `form:"status" binding:"omitempty,oneof=OPEN BALANCED"`
	Limit     int                   `form:"limit"`
	Offset    int                   `form:"offset"`
}

// ReconciliationSummary pairs the stored record with a freshly
// recomputed view of today's ledger state. Stored status is not mutated.
type ReconciliationSummary struct {
	Reconciliation
	CalculatedCurrent decimal.Decimal      `json:"calculated_current"`
	DifferenceCurrent decimal.Decimal      `json:"difference_current"`
	StatusCurrent     ReconciliationStatus `json:"status_current"`
}
