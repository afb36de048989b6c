package domain

import "time"

// Product type tags. The tag is fixed at creation time and decides which
// subtype table the row correlates with.
const (
	ProductTypeHotCoil  = "hot_coil"
	ProductTypeColdCoil = "cold_coil"
	ProductTypePlates   = "plates"
)

// Product is the parent record of a manufactured item. A database trigger
// may open the matching subtype row when a product is inserted; the mill
// services never assume either ordering.
type Product struct {
	ProductID   int64     `gorm:"column:product_id;primaryKey;autoIncrement" json:"product_id"`
	Provider    string    `json:"provider" form:"provider"`
	ProductType string    `gorm:"index" json:"product_type" form:"product_type"`
	Material    string    `json:"material" form:"material"`
	Status      string    `json:"status" form:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// ValidProductType reports whether t is one of the known type tags.
func ValidProductType(t string) bool {
	switch t {
	case ProductTypeHotCoil, ProductTypeColdCoil, ProductTypePlates:
		return true
	}
	return false
}
