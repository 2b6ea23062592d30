package models

type Account struct {
	ID             int    `gorm:"primary_key" json:"id"`
	UserId         int    `gorm:"index;not null" json:"user_id" binding:"required"`
	InstitutionId  int    `gorm:"index;not null" json:"institution_id" binding:"required"`
	Name           string `gorm:"size:255;not null" json:"name" binding:"required"`
	Currency       string `gorm:"size:3;not null" json:"currency" binding:"required"`
	IsActive       bool   `gorm:"not null" json:"is_active"`
	AllowOverdraft bool   `gorm:"not null;default:false" json:"allow_overdraft"`
}

func (a *Account) GetId() int {
	return a.ID
}

type NewAccount struct {
	UserId         int    `json:"user_id" binding:"required"`
	InstitutionId  int    `json:"institution_id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Currency       string `json:"currency" binding:"required,len=3"`
	AllowOverdraft bool   `json:"allow_overdraft"`
}

type UpdateAccount struct {
	Name *string `json:"name"`
}
