package models

import "time"

// StockStatus is the availability label shown next to a product.
type StockStatus string

const (
	InStock    StockStatus = "In Stock"
	LowStock   StockStatus = "Low Stock"
	OutOfStock StockStatus = "Out of Stock"
)

// StockStatuses lists every accepted StockStatus, in display order.
var StockStatuses = []StockStatus{InStock, LowStock, OutOfStock}

// Valid reports whether s is one of the fixed stock statuses.
func (s StockStatus) Valid() bool {
	for _, v := range StockStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Product represents a product in the catalogue.
type Product struct {
	ID          int64       `gorm:"primaryKey;autoIncrement"       bson:"_id"          json:"id"`
	Name        string      `gorm:"size:100;not null;index"        bson:"name"         json:"name"`
	Price       float64     `gorm:"not null"                       bson:"price"        json:"price"`
	Category    string      `gorm:"size:255;not null;index"        bson:"category"     json:"category"`
	StockStatus StockStatus `gorm:"column:stock_status;size:32;not null" bson:"stock_status" json:"stock_status"`
	CreatedAt   time.Time   `gorm:"not null;index;autoCreateTime:false" bson:"created_at" json:"created_at"`
}

func (Product) TableName() string { return "products" }

// ProductInput is a validated creation payload. Only the validator in
// app/catalog should build one from untrusted data.
type ProductInput struct {
	Name        string
	Price       float64
	Category    string
	StockStatus StockStatus
}
