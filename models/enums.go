package models

import "github.com/shopspring/decimal"

// Epsilon is the tolerance for every balance and difference comparison
// in the engine: amounts within 0.01 monetary units are "balanced".
// Comparisons always go through decimal, never binary-float equality.
var Epsilon = decimal.New(1, -2)

type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "INCOME"
	TransactionTypeExpense    TransactionType = "EXPENSE"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer, TransactionTypeAdjustment:
		return true
	}
	return false
}

type ReconciliationStatus string

const (
	ReconciliationStatusOpen     ReconciliationStatus = "OPEN"
	ReconciliationStatusBalanced ReconciliationStatus = "BALANCED"
)

func (s ReconciliationStatus) Valid() bool {
	return s == ReconciliationStatusOpen || s == ReconciliationStatusBalanced
}
