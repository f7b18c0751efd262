package cache

import "fmt"

const (
	KeyInventoryAll = "inventory:all"
	KeyLowStock     = "inventory:low-stock"
	KeyCategories   = "product:categories"
)

func InventoryStoreKey(storeID int64) string {
	return fmt.Sprintf("inventory:store:%d", storeID)
}

func InventoryProductKey(productID int64) string {
	return fmt.Sprintf("inventory:product:%d", productID)
}

func InventoryItemKey(storeID, productID int64) string {
	return fmt.Sprintf("inventory:store:%d:product:%d", storeID, productID)
}

func ProductKey(productID int64) string {
	return fmt.Sprintf("product:%d", productID)
}

func StoreKey(storeID int64) string {
	return fmt.Sprintf("store:%d", storeID)
}

// MovementKeys lists every key whose value depends on the (store, product) row.
func MovementKeys(storeID, productID int64) []string {
	return []string{
		KeyInventoryAll,
		InventoryStoreKey(storeID),
		InventoryProductKey(productID),
		InventoryItemKey(storeID, productID),
		KeyLowStock,
	}
}

func generationKey(key string) string {
	return "gen:" + key
}
