package models

type Institution struct {
	ID       int    `gorm:"primary_key" json:"id"`
	UserId   int    `gorm:"index;not null" json:"user_id" binding:"required"`
	Name     string `gorm:"size:255;not null" json:"name" binding:"required"`
	Type     string `gorm:"size:255;not null" json:"type" binding:"required"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}

func (i *Institution) GetId() int {
	return i.ID
}

type NewInstitution struct {
	UserId int    `json:"user_id" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Type   string `json:"type" binding:"required"`
}

type UpdateInstitution struct {
	Name *string `json:"name"`
	Type *string `json:"type"`
}
