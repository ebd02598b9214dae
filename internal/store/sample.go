package store

import (
	"go-bizkeeper/internal/model"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

// SampleProducts is the starter catalog seeded on first start.
func SampleProducts() []model.NewProduct {
	return []model.NewProduct{
		{
			Name:        "Wireless Headphones",
			Description: "High-quality Bluetooth headphones with noise cancellation",
			Price:       decimal.RequireFromString("99.99"),
			Stock:       15,
			Category:    "Electronics",
			Image:       strPtr("https://images.pexels.com/photos/3394650/pexels-photo-3394650.jpeg?auto=compress&cs=tinysrgb&w=500"),
		},
		{
			Name:        "Cotton T-Shirt",
			Description: "Comfortable 100% cotton t-shirt available in multiple colors",
			Price:       decimal.RequireFromString("24.99"),
			Stock:       3,
			Category:    "Clothing",
			Image:       strPtr("https://images.pexels.com/photos/8532616/pexels-photo-8532616.jpeg?auto=compress&cs=tinysrgb&w=500"),
		},
		{
			Name:        "Coffee Beans",
			Description: "Premium arabica coffee beans, freshly roasted",
			Price:       decimal.RequireFromString("18.50"),
			Stock:       25,
			Category:    "Food & Beverages",
			Image:       strPtr("https://images.pexels.com/photos/894695/pexels-photo-894695.jpeg?auto=compress&cs=tinysrgb&w=500"),
		},
	}
}

// SampleCustomers is the starter customer directory.
func SampleCustomers() []model.NewCustomer {
	return []model.NewCustomer{
		{Name: "John Doe", Phone: "+1234567890", Address: strPtr("123 Main St, City, State 12345")},
		{Name: "Jane Smith", Phone: "+1987654321", Address: strPtr("456 Oak Ave, Town, State 67890")},
		{Name: "Mike Johnson", Phone: "+1122334455"},
	}
}
