package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the contact profile attached to a wallet address. At most one
// profile exists per wallet; rows are created the first time a member
// supplies contact data and are never deleted.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Wallet    string    `gorm:"uniqueIndex;not null;size:64" json:"wallet"`
	Name      string    `gorm:"size:100" json:"name,omitempty"`
	Email     string    `gorm:"size:255" json:"email,omitempty"`
	Phone     string    `gorm:"size:20" json:"phone,omitempty"`
	FCMToken  string    `json:"-"`
	Balance   float64   `gorm:"type:decimal(24,8);default:0" json:"balance"` // individual fund, in ETH
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// LoginNonce is a single-use challenge handed to the wallet provider
// before it can exchange an address for a session token.
type LoginNonce struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"nonce"`
	Wallet    string     `gorm:"index;not null;size:64" json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"-"`
	CreatedAt time.Time  `json:"-"`
}

func (n *LoginNonce) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// Request structs
type SaveContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type UpdateFCMTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// Response struct (what we return to clients)
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Wallet    string    `json:"wallet"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Wallet:    u.Wallet,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}
