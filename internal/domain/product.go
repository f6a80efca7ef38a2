package domain

import "time"

// Product is a store catalog item. Category and seller references are
// required and must resolve at write time; brand is optional.
type Product struct {
	ID          int64     `gorm:"primaryKey" json:"id,string"`
	Name        string    `gorm:"index" json:"name" form:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty" form:"description"`
	Price       float64   `json:"price" form:"price"`
	Stock       int       `json:"stock" form:"stock"`
	Size        string    `gorm:"size:16" json:"size,omitempty" form:"size"` // SMALL|MEDIUM|LARGE
	Unit        string    `gorm:"size:8" json:"unit,omitempty" form:"unit"`  // kg|g|mg|l|ml
	CategoryID  int64     `gorm:"index" json:"category,string"`
	SellerID    int64     `gorm:"index" json:"seller,string"`
	BrandID     *int64    `gorm:"index" json:"brand,string,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns table name
func (Product) TableName() string {
	return "catalog_product"
}
