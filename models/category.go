package models

type Category struct {
	ID       int    `gorm:"primary_key" json:"id"`
	UserId   int    `gorm:"index;not null" json:"user_id" binding:"required"`
	Name     string `gorm:"size:255;not null" json:"name" binding:"required"`
	ParentId *int   `gorm:"index" json:"parent_id"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}

func (c *Category) GetId() int {
	return c.ID
}

type NewCategory struct {
	UserId   int    `json:"user_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	ParentId *int   `json:"parent_id"`
}

type UpdateCategory struct {
	Name     *string `json:"name"`
	ParentId *int    `json:"parent_id"`
}
