package domain

import "time"

// InventoryEntry tracks how many of an item a user owns and when it was last
// used. Rows are created on first purchase and never deleted automatically;
// quantity floors at zero.
type InventoryEntry struct {
	UserID     string     `json:"user_id"`
	ItemID     int        `json:"item_id"`
	Quantity   int        `json:"quantity"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// PurchaseRecord is an append-only purchase log row
type PurchaseRecord struct {
	ID        int64     `json:"purchase_id"`
	UserID    string    `json:"user_id"`
	ItemID    int       `json:"item_id"`
	PricePaid int       `json:"price_paid"`
	CreatedAt time.Time `json:"created_at"`
}
