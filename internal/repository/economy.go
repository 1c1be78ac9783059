package repository

import (
	"context"

	"github.com/kettleby/habitforge/internal/domain"
)

// Economy defines the persistence surface for the purchase and use flows
type Economy interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetItemByKey(ctx context.Context, itemKey string) (*domain.ItemDefinition, error)
	ListActiveItems(ctx context.Context) ([]domain.ItemDefinition, error)
	GetInventory(ctx context.Context, userID string) ([]domain.InventoryEntry, error)
	BeginTx(ctx context.Context) (Tx, error)
}
