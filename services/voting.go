package services

import (
	"fmt"
	"time"

	"cofondo-backend/models"
	"cofondo-backend/utils"
)

// VotingWindow is how long a proposal accepts votes, counted from
// DateInitiated. The stored Deadline column is informational only; every
// countdown and expiry check recomputes from DateInitiated so the two can
// never drift.
const VotingWindow = 24 * time.Hour

// Tally counts vote records by choice.
type Tally struct {
	Yes   int
	No    int
	Total int
}

func TallyVotes(p *models.Proposal) Tally {
	var t Tally
	for _, v := range p.Votes {
		switch v.Choice {
		case models.VoteYes:
			t.Yes++
		case models.VoteNo:
			t.No++
		}
		t.Total++
	}
	return t
}

// RequiredVotes is the quorum for a group of the given size: a simple
// majority, never less than one. It is computed once at proposal creation
// and frozen on the proposal; later membership changes do not move an
// in-flight threshold.
func RequiredVotes(memberCount int) int {
	if memberCount <= 1 {
		return 1
	}
	return (memberCount + 1) / 2
}

// IsApproved is independent of elapsed time: a proposal that reached its
// threshold stays approved even past its deadline.
func IsApproved(p *models.Proposal) bool {
	return TallyVotes(p).Yes >= p.RequiredVotes
}

// IsRejected is true once the threshold is mathematically out of reach:
// even if every member who has not voted yet voted yes, it would not pass.
func IsRejected(p *models.Proposal, memberCount int) bool {
	t := TallyVotes(p)
	remaining := memberCount - t.Total
	return t.Yes+remaining < p.RequiredVotes
}

// ProgressPercent is yes-votes against the threshold, capped at 100.
func ProgressPercent(p *models.Proposal) float64 {
	if p.RequiredVotes <= 0 {
		return 0
	}
	percent := float64(TallyVotes(p).Yes) / float64(p.RequiredVotes) * 100
	if percent > 100 {
		return 100
	}
	return percent
}

func IsExpired(p *models.Proposal, now time.Time) bool {
	return !now.Before(p.DateInitiated.Add(VotingWindow))
}

// TimeRemaining reports the countdown to the voting window closing. At
// exactly 24h it reports expired.
func TimeRemaining(p *models.Proposal, now time.Time) models.Countdown {
	deadline := p.DateInitiated.Add(VotingWindow)
	if !now.Before(deadline) {
		return models.Countdown{Expired: true}
	}

	left := deadline.Sub(now)
	return models.Countdown{
		Hours:   int(left.Hours()),
		Minutes: int(left.Minutes()) % 60,
	}
}

func HasVoted(p *models.Proposal, wallet string) bool {
	_, ok := VoteOf(p, wallet)
	return ok
}

// VoteOf returns the wallet's recorded choice, if any.
func VoteOf(p *models.Proposal, wallet string) (models.VoteChoice, bool) {
	wallet = utils.NormalizeWallet(wallet)
	for _, v := range p.Votes {
		if v.Voter == wallet {
			return v.Choice, true
		}
	}
	return "", false
}

// CanVote: group member, not the initiator, has not voted, and the proposal
// is still open (not approved, not rejected, not expired).
func CanVote(p *models.Proposal, wallet string, group *models.Group, now time.Time) bool {
	wallet = utils.NormalizeWallet(wallet)
	if !group.HasMember(wallet) {
		return false
	}
	if wallet == p.InitiatedBy || HasVoted(p, wallet) {
		return false
	}
	if IsApproved(p) || IsRejected(p, len(group.Members)) || IsExpired(p, now) {
		return false
	}
	return true
}

// NewInviteProposal builds an invite proposal: quorum frozen from the
// current member count, 24h deadline, and the initiator's automatic yes
// vote seeded atomically so the initiator is always counted and can never
// vote twice.
func NewInviteProposal(group *models.Group, initiator, targetWallet, message string, now time.Time) *models.Proposal {
	initiator = utils.NormalizeWallet(initiator)
	targetWallet = utils.NormalizeWallet(targetWallet)

	return &models.Proposal{
		GroupID:       group.ID,
		Kind:          models.ProposalInvite,
		Title:         fmt.Sprintf("Invite %s", utils.ShortAddress(targetWallet)),
		Description:   fmt.Sprintf("Proposal to invite %s to %s", targetWallet, group.Name),
		InitiatedBy:   initiator,
		DateInitiated: now,
		Deadline:      now.Add(VotingWindow),
		RequiredVotes: RequiredVotes(len(group.Members)),
		TargetWallet:  targetWallet,
		Message:       message,
		Votes: []models.VoteRecord{
			{Voter: initiator, Choice: models.VoteYes, CreatedAt: now},
		},
	}
}

// NewFundRequestProposal builds a fund-withdrawal proposal; same shape as
// invites, with the amount/purpose/destination payload.
func NewFundRequestProposal(group *models.Group, initiator string, req models.FundProposalRequest, now time.Time) *models.Proposal {
	initiator = utils.NormalizeWallet(initiator)

	return &models.Proposal{
		GroupID:       group.ID,
		Kind:          models.ProposalFundRequest,
		Title:         fmt.Sprintf("Fund request: %.4f ETH", req.Amount),
		Description:   req.Description,
		InitiatedBy:   initiator,
		DateInitiated: now,
		Deadline:      now.Add(VotingWindow),
		RequiredVotes: RequiredVotes(len(group.Members)),
		Amount:        req.Amount,
		Purpose:       req.Purpose,
		Destination:   utils.NormalizeWallet(req.Destination),
		Notes:         req.Notes,
		Votes: []models.VoteRecord{
			{Voter: initiator, Choice: models.VoteYes, CreatedAt: now},
		},
	}
}
