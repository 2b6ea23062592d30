package models

type User struct {
	ID           int    `gorm:"primary_key" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name" binding:"required"`
	BaseCurrency string `gorm:"size:3;not null" json:"base_currency" binding:"required"`
}

func (u *User) GetId() int {
	return u.ID
}
