package domain

import "time"

// Brand is an optional product maker reference
type Brand struct {
	ID        int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Name      string    `gorm:"uniqueIndex;size:200" json:"name" form:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns table name
func (Brand) TableName() string {
	return "catalog_brand"
}
