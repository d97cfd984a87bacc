package models

import (
	"fmt"
	"time"
)

// Transaction type tags recorded on ledger entries. Milestone entries carry
// the threshold in the tag itself, e.g. MILESTONE_REWARD_7.
const (
	TxTypeDailyCheckIn   = "DAILY_CHECK_IN"
	TxTypeGiftCode       = "GIFT_CODE"
	TxTypeShopPurchase   = "SHOP_PURCHASE"
	TxTypeGenerationCost = "GENERATION_COST"
	TxTypePostReward     = "POST_REWARD"
)

// MilestoneTxType returns the ledger tag for a milestone threshold.
func MilestoneTxType(days int) string {
	return fmt.Sprintf("MILESTONE_REWARD_%d", days)
}

// DiamondTransaction is the append-only ledger of all diamond and XP deltas.
// Rows are immutable once written; normal flows expose no update or delete.
// The composite index supports "does an entry of type X exist after date Y"
// idempotence queries and the paginated per-user history.
type DiamondTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index:idx_tx_user_type_created,priority:1" json:"user_id"`
	Amount      int       `gorm:"not null" json:"amount"`
	XPAmount    int       `gorm:"column:xp_amount;not null;default:0" json:"xp_amount"`
	Type        string    `gorm:"size:64;not null;index:idx_tx_user_type_created,priority:2" json:"type"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"index:idx_tx_user_type_created,priority:3" json:"created_at"`
}
