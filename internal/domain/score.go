package domain

import "time"

// Transaction reason constants - the reason column on every ledger row
const (
	TxReasonPurchase    = "purchase"
	TxReasonQuestReward = "quest_reward"
	TxReasonAdjustment  = "adjustment"
)

// ScoreAccount holds a user's point balance. Points never go negative; the
// ledger enforces that, callers never mutate the balance directly.
type ScoreAccount struct {
	UserID string `json:"user_id"`
	Points int    `json:"points"`
}

// ScoreTransaction is one append-only ledger row. Every balance mutation
// produces exactly one of these; the sum of a user's amounts equals their
// current balance.
type ScoreTransaction struct {
	ID        int64     `json:"tx_id"`
	UserID    string    `json:"user_id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	SourceRef string    `json:"source_ref"`
	CreatedAt time.Time `json:"created_at"`
}
