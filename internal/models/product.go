package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// StockStatus is the inventory state shown for a product.
type StockStatus string

const (
	StatusInStock    StockStatus = "In Stock"
	StatusLowStock   StockStatus = "Low Stock"
	StatusOutOfStock StockStatus = "Out of Stock"
)

// StockStatuses lists every valid StockStatus.
var StockStatuses = []StockStatus{StatusInStock, StatusLowStock, StatusOutOfStock}

// IsValid reports whether s is one of the three status tags. Matching is case-sensitive.
func (s StockStatus) IsValid() bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return true
	}
	return false
}

// ParseStockStatus converts a raw string into a StockStatus.
func ParseStockStatus(raw string) (StockStatus, error) {
	s := StockStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: status %q must be one of %q, %q, %q",
			ErrMalformedProduct, raw, StatusInStock, StatusLowStock, StatusOutOfStock)
	}
	return s, nil
}

// UnmarshalJSON rejects any status outside the closed set.
func (s *StockStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: status must be a string", ErrMalformedProduct)
	}
	parsed, err := ParseStockStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Product represents a catalog item.
type Product struct {
	ID                string      `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id" validate:"required"`
	Name              string      `json:"name" gorm:"type:varchar(200);not null" bson:"name"`
	SKU               string      `json:"sku,omitempty" gorm:"type:varchar(64)" bson:"sku,omitempty"`
	Category          string      `json:"category" gorm:"type:varchar(100);index" bson:"category"`
	Description       string      `json:"description" gorm:"type:text" bson:"description"`
	Price             float64     `json:"price" bson:"price"`
	Stock             int         `json:"stock" bson:"stock"`
	Image             string      `json:"image,omitempty" bson:"image,omitempty"`
	Status            StockStatus `json:"status" gorm:"type:varchar(20);index" bson:"status" validate:"required,stockstatus"`
	LowStockThreshold *int        `json:"lowStockThreshold,omitempty" bson:"lowStockThreshold,omitempty"`
	ForecastedStock   *int        `json:"forecastedStock,omitempty" bson:"forecastedStock,omitempty"`
	ForecastedDays    *int        `json:"forecastedDays,omitempty" bson:"forecastedDays,omitempty"`
	CreatedAt         time.Time   `json:"-" bson:"createdAt"`
	UpdatedAt         time.Time   `json:"-" bson:"updatedAt"`
}

// Validate checks that p is a well-formed product record: it has an ID and its
// status is one of the three tags. Ranges such as a negative price are not part
// of the record's shape.
func (p *Product) Validate() error {
	return validateStruct(p)
}

// ProductInput is the request body accepted when creating or replacing a product.
// Pointers tell a missing field apart from a zero value.
type ProductInput struct {
	ID                string       `json:"id"`
	Name              *string      `json:"name" validate:"required"`
	SKU               string       `json:"sku"`
	Category          *string      `json:"category" validate:"required"`
	Description       *string      `json:"description" validate:"required"`
	Price             *float64     `json:"price" validate:"required"`
	Stock             *int         `json:"stock" validate:"required"`
	Image             string       `json:"image"`
	Status            *StockStatus `json:"status" validate:"required,stockstatus"`
	LowStockThreshold *int         `json:"lowStockThreshold"`
	ForecastedStock   *int         `json:"forecastedStock"`
	ForecastedDays    *int         `json:"forecastedDays"`
}

// Validate reports missing required fields and an unknown status.
func (in *ProductInput) Validate() error {
	return validateStruct(in)
}

// Product builds the record described by the input. Call Validate first.
func (in *ProductInput) Product() *Product {
	p := &Product{
		ID:                in.ID,
		SKU:               in.SKU,
		Image:             in.Image,
		LowStockThreshold: in.LowStockThreshold,
		ForecastedStock:   in.ForecastedStock,
		ForecastedDays:    in.ForecastedDays,
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	return p
}

// StockUpdate is the request body for adjusting a product's stock level and status.
type StockUpdate struct {
	Stock  *int         `json:"stock" validate:"required"`
	Status *StockStatus `json:"status" validate:"required,stockstatus"`
}

// Validate checks the stock update body.
func (u *StockUpdate) Validate() error {
	return validateStruct(u)
}
