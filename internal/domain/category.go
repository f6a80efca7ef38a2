package domain

import "time"

// Category is a product grouping referenced by Product.CategoryID
type Category struct {
	ID        int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Name      string    `gorm:"uniqueIndex;size:200" json:"name" form:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns table name
func (Category) TableName() string {
	return "catalog_category"
}
