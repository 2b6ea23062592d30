package models

// Envelope binds one account to one category. At most one envelope may
// exist per account+category pair. Its balance is never stored: it is
// always derived by summing the transaction lines referencing it.
type Envelope struct {
	ID         int  `gorm:"primary_key" json:"id"`
	AccountId  int  `gorm:"index;not null;uniqueIndex:idx_envelope_account_category" json:"account_id" binding:"required"`
	CategoryId int  `gorm:"not null;uniqueIndex:idx_envelope_account_category" json:"category_id" binding:"required"`
	IsActive   bool `gorm:"not null" json:"is_active"`
}

func (e *Envelope) GetId() int {
	return e.ID
}

type NewEnvelope struct {
	AccountId  int `json:"account_id" binding:"required"`
	CategoryId int `json:"category_id" binding:"required"`
}
