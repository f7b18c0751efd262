package catalog

import (
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/shopspring/decimal"
)

// SeedStores mirrors migrations/000003_seed_catalog for the in-memory driver.
func SeedStores() []model.Store {
	return []model.Store{
		{ID: 1, Name: "Downtown Flagship", Location: "Jakarta Pusat", Status: "ACTIVE"},
		{ID: 2, Name: "Harbour Outlet", Location: "Jakarta Utara", Status: "ACTIVE"},
		{ID: 3, Name: "Airport Kiosk", Location: "Tangerang", Status: "ACTIVE"},
		{ID: 4, Name: "Hillside Market", Location: "Bogor", Status: "ACTIVE"},
		{ID: 5, Name: "Central Warehouse", Location: "Bekasi", Status: "ACTIVE"},
	}
}

func SeedProducts() []model.Product {
	desc := func(s string) *string { return &s }
	return []model.Product{
		{ID: 1, Name: "Arabica Beans 1kg", Description: desc("Single origin whole beans"), Category: "Coffee", Price: decimal.NewFromInt(189000), SKU: "COF-ARB-1KG"},
		{ID: 2, Name: "Oat Milk 1L", Description: desc("Barista edition"), Category: "Dairy Alternatives", Price: decimal.NewFromInt(42000), SKU: "DAI-OAT-1L"},
		{ID: 3, Name: "Paper Cup 12oz (50)", Description: desc("Compostable cups"), Category: "Supplies", Price: decimal.NewFromInt(65000), SKU: "SUP-CUP-12"},
		{ID: 4, Name: "Matcha Powder 500g", Description: desc("Ceremonial grade"), Category: "Tea", Price: decimal.NewFromInt(245000), SKU: "TEA-MAT-500"},
		{ID: 5, Name: "Cane Sugar Syrup 750ml", Category: "Syrups", Price: decimal.NewFromInt(58000), SKU: "SYR-CAN-750"},
	}
}
