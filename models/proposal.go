package models

import "time"

type ProposalKind = string

const (
	ProposalInvite      ProposalKind = "invite"
	ProposalFundRequest ProposalKind = "fund_request"
)

type VoteChoice = string

const (
	VoteYes VoteChoice = "yes"
	VoteNo  VoteChoice = "no"
)

// Proposal is a governance item attached to exactly one group: either a
// member invite or a fund-withdrawal request, discriminated by Kind.
// RequiredVotes is frozen at creation from the member count at that moment;
// later membership changes never move an in-flight threshold. Proposals are
// never edited or deleted — votes only append, and approved/rejected/expired
// are always derived fresh from the vote list and the clock (services/voting).
type Proposal struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	GroupID       uint         `gorm:"index;not null" json:"group_id"`
	Kind          ProposalKind `gorm:"not null;size:20" json:"type"`
	Title         string       `gorm:"size:160" json:"title"`
	Description   string       `gorm:"size:500" json:"description"`
	InitiatedBy   string       `gorm:"not null;size:64" json:"initiated_by"` // wallet, lowercase
	DateInitiated time.Time    `json:"date_initiated"`
	Deadline      time.Time    `json:"deadline"` // informational; the countdown recomputes from DateInitiated
	RequiredVotes int          `gorm:"not null" json:"required_votes"`
	Votes         []VoteRecord `gorm:"foreignKey:ProposalID" json:"votes,omitempty"`

	// invite payload
	TargetWallet string `gorm:"size:64" json:"target_wallet,omitempty"`
	Message      string `gorm:"size:500" json:"message,omitempty"`

	// fund_request payload
	Amount      float64 `gorm:"type:decimal(24,8);default:0" json:"amount,omitempty"`
	Purpose     string  `gorm:"size:100" json:"purpose,omitempty"`
	Destination string  `gorm:"size:64" json:"destination,omitempty"`
	Notes       string  `gorm:"size:500" json:"notes,omitempty"`

	// set by the settlement pass once the approved effect has been applied
	SettledAt *time.Time `json:"settled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// VoteRecord is append-only. The composite unique index is the
// compare-and-set guard for the one-vote-per-member invariant: two
// concurrent votes from the same wallet cannot both land.
type VoteRecord struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	ProposalID uint       `gorm:"uniqueIndex:idx_proposal_voter;not null" json:"-"`
	Voter      string     `gorm:"uniqueIndex:idx_proposal_voter;not null;size:64" json:"member"`
	Choice     VoteChoice `gorm:"not null;size:3" json:"vote"`
	CreatedAt  time.Time  `json:"timestamp"`
}

// Request structs
type InviteProposalRequest struct {
	TargetWallet string `json:"target_wallet" binding:"required"`
	Message      string `json:"message"`
}

type FundProposalRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Purpose     string  `json:"purpose" binding:"required"`
	Destination string  `json:"destination" binding:"required"`
	Description string  `json:"description"`
	Notes       string  `json:"notes"`
}

type CastVoteRequest struct {
	Choice VoteChoice `json:"choice" binding:"required,oneof=yes no"`
}

// Response structs
type Countdown struct {
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Expired bool `json:"expired"`
}

type ProposalResponse struct {
	Proposal
	Yes       int       `json:"yes_votes"`
	No        int       `json:"no_votes"`
	Progress  float64   `json:"progress"`
	Approved  bool      `json:"approved"`
	Rejected  bool      `json:"rejected"`
	Remaining Countdown `json:"time_remaining"`
	CanVote   bool      `json:"can_vote"`
	YourVote  string    `json:"your_vote,omitempty"`
}
