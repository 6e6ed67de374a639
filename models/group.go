package models

import "time"

type GroupStatus = string

const (
	GroupActive   GroupStatus = "Active"
	GroupPending  GroupStatus = "Pending"
	GroupInactive GroupStatus = "Inactive"
)

// Group is a shared savings fund. The balance is mutated only by the
// settlement pass and stays non-negative at rest.
type Group struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Name         string        `gorm:"not null;size:100" json:"name"`
	Description  string        `gorm:"size:500" json:"description"`
	Balance      float64       `gorm:"type:decimal(24,8);default:0" json:"balance"` // ETH
	Goal         float64       `gorm:"type:decimal(24,8);default:0" json:"goal"`
	Status       GroupStatus   `gorm:"default:Active;size:20" json:"status"`
	CreatedBy    string        `gorm:"size:64" json:"created_by"` // creator wallet, lowercase
	Members      []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:GroupID" json:"transactions,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// HasMember reports whether the wallet belongs to the group. Wallets are
// stored lowercase, so the lookup is case-insensitive by construction.
func (g *Group) HasMember(wallet string) bool {
	for _, m := range g.Members {
		if m.Wallet == wallet {
			return true
		}
	}
	return false
}

// GroupMember is owned by its group; wallets are stored lowercase and the
// composite key keeps each wallet in a group at most once.
type GroupMember struct {
	GroupID      uint      `gorm:"primaryKey" json:"group_id"`
	Wallet       string    `gorm:"primaryKey;size:64" json:"wallet"`
	DisplayName  string    `gorm:"size:100" json:"name"`
	Initials     string    `gorm:"size:4" json:"initials"`
	Contribution float64   `gorm:"default:0" json:"contribution"` // percentage, 0-100
	JoinedAt     time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// Request structs
type CreateGroupRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Goal        float64  `json:"goal"`
	Members     []string `json:"members"` // wallet addresses or ENS names
}

// Response structs
type GroupResponse struct {
	ID           uint          `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Balance      float64       `json:"balance"`
	Goal         float64       `json:"goal"`
	Status       GroupStatus   `json:"status"`
	CreatedBy    string        `json:"created_by"`
	Members      []GroupMember `json:"members"`
	Transactions []Transaction `json:"transactions,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

func (g *Group) ToResponse() GroupResponse {
	return GroupResponse{
		ID:           g.ID,
		Name:         g.Name,
		Description:  g.Description,
		Balance:      g.Balance,
		Goal:         g.Goal,
		Status:       g.Status,
		CreatedBy:    g.CreatedBy,
		Members:      g.Members,
		Transactions: g.Transactions,
		CreatedAt:    g.CreatedAt,
	}
}
