package domain

import "time"

// Seller is a vendor record referenced by Product.SellerID, created
// independently of any product.
type Seller struct {
	ID        int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Name      string    `gorm:"index;size:200" json:"name" form:"name"`
	Email     string    `gorm:"uniqueIndex;size:200" json:"email" form:"email"`
	ContactNo string    `gorm:"size:32" json:"contactNo" form:"contactNo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns table name
func (Seller) TableName() string {
	return "catalog_seller"
}
