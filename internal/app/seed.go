package app

import "katalog/internal/models"

func intPtr(v int) *int { return &v }

// DemoProducts returns the catalog loaded into an empty store when seeding is enabled.
func DemoProducts() []models.Product {
	return []models.Product{
		{
			ID: "prod-1", Name: "Laptop", SKU: "LAP-001", Category: "Electronics",
			Description: "High performance laptop", Price: 1200.00, Stock: 10,
			Status: models.StatusInStock, LowStockThreshold: intPtr(3),
			ForecastedStock: intPtr(6), ForecastedDays: intPtr(30),
		},
		{
			ID: "prod-2", Name: "Keyboard", SKU: "KEY-002", Category: "Accessories",
			Description: "Mechanical keyboard", Price: 75.00, Stock: 4,
			Status: models.StatusLowStock, LowStockThreshold: intPtr(5),
		},
		{
			ID: "prod-3", Name: "Mouse", Category: "Accessories",
			Description: "Ergonomic wireless mouse", Price: 25.00, Stock: 0,
			Status: models.StatusOutOfStock, Image: "/images/mouse.png",
		},
	}
}
