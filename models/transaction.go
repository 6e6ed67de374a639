package models

import "time"

type TransactionType = string

const (
	TxContribution TransactionType = "contribution"
	TxWithdrawal   TransactionType = "withdrawal"
	TxDividend     TransactionType = "dividend"
	TxFee          TransactionType = "fee"
)

// Transaction is a historical entry in a group's ledger. Withdrawals carry a
// negative amount and reference the fund-request proposal that released them.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	GroupID     uint            `gorm:"index;not null" json:"group_id"`
	Type        TransactionType `gorm:"not null;size:20" json:"type"`
	Amount      float64         `gorm:"type:decimal(24,8);not null" json:"amount"` // ETH
	Member      string          `gorm:"size:100" json:"member"`
	Description string          `gorm:"size:255" json:"description"`
	ProposalID  *uint           `json:"proposal_id,omitempty"`
	CreatedAt   time.Time       `json:"date"`
}
