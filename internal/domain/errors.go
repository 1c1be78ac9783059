package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"

	// Item errors
	ErrMsgItemNotFound = "item not found"

	// Inventory errors
	ErrMsgNotOwned = "item not owned"

	// Ledger errors
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgInvalidAmount     = "amount must be positive"

	// Cooldown errors
	ErrMsgOnCooldown = "item on cooldown"

	// Attack errors
	ErrMsgTargetRequired = "target required"
	ErrMsgTargetNotFound = "target not found"

	// Quest errors
	ErrMsgQuestNotFound   = "quest not found"
	ErrMsgAlreadyAccepted = "quest already accepted"

	// Validation errors
	ErrMsgInvalidInput = "invalid input"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
	ErrMsgTxClosed      = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// Item errors
	ErrItemNotFound = errors.New(ErrMsgItemNotFound)

	// Inventory errors
	ErrNotOwned = errors.New(ErrMsgNotOwned)

	// Ledger errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrInvalidAmount     = errors.New(ErrMsgInvalidAmount)

	// Cooldown errors
	ErrOnCooldown = errors.New(ErrMsgOnCooldown)

	// Attack errors
	ErrTargetRequired = errors.New(ErrMsgTargetRequired)
	ErrTargetNotFound = errors.New(ErrMsgTargetNotFound)

	// Quest errors
	ErrQuestNotFound   = errors.New(ErrMsgQuestNotFound)
	ErrAlreadyAccepted = errors.New(ErrMsgAlreadyAccepted)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// Database/System errors
	ErrDatabaseError = errors.New(ErrMsgDatabaseError)
)
