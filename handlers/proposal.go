package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"cofondo-backend/database"
	"cofondo-backend/models"
	"cofondo-backend/services"
	"cofondo-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// POST /api/groups/:id/proposals/invite
func CreateInviteProposal(c *gin.Context) {
	wallet := utils.GetCurrentWallet(c)
	group, ok := loadMemberGroup(c, wallet)
	if !ok {
		return
	}

	var req models.InviteProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if !utils.IsWalletLike(req.TargetWallet) || !utils.ChecksumValid(req.TargetWallet) {
		utils.BadRequest(c, "Target must be a wallet address or ENS name")
		return
	}
	if group.HasMember(utils.NormalizeWallet(req.TargetWallet)) {
		utils.Conflict(c, "Wallet is already a member of this group")
		return
	}

	proposal := services.NewInviteProposal(group, wallet, req.TargetWallet, req.Message, time.Now())
	if err := database.DB.Create(proposal).Error; err != nil {
		utils.InternalError(c, "Failed to create proposal")
		return
	}

	logProposalActivity(group, proposal, wallet)
	go services.GetNotificationService().NotifyProposalCreated(*group, *proposal)

	utils.SuccessResponse(c, http.StatusCreated, "Proposal created", toProposalResponse(proposal, group, wallet, time.Now()))
}

// POST /api/groups/:id/proposals/fund
func CreateFundProposal(c *gin.Context) {
	wallet := utils.GetCurrentWallet(c)
	group, ok := loadMemberGroup(c, wallet)
	if !ok {
		return
	}

	var req models.FundProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if !utils.IsWalletLike(req.Destination) || !utils.ChecksumValid(req.Destination) {
		utils.BadRequest(c, "Destination must be a wallet address or ENS name")
		return
	}

	proposal := services.NewFundRequestProposal(group, wallet, req, time.Now())
	if err := database.DB.Create(proposal).Error; err != nil {
		utils.InternalError(c, "Failed to create proposal")
		return
	}

	logProposalActivity(group, proposal, wallet)
	go services.GetNotificationService().NotifyProposalCreated(*group, *proposal)

	utils.SuccessResponse(c, http.StatusCreated, "Proposal created", toProposalResponse(proposal, group, wallet, time.Now()))
}

// GET /api/groups/:id/proposals
func GetGroupProposals(c *gin.Context) {
	wallet := utils.GetCurrentWallet(c)
	group, ok := loadMemberGroup(c, wallet)
	if !ok {
		return
	}

	var proposals []models.Proposal
	database.DB.Preload("Votes").
		Where("group_id = ?", group.ID).
		Order("date_initiated DESC").
		Find(&proposals)

	now := time.Now()
	responses := make([]models.ProposalResponse, 0, len(proposals))
	for i := range proposals {
		responses = append(responses, toProposalResponse(&proposals[i], group, wallet, now))
	}

	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// POST /api/groups/:id/proposals/:pid/vote
func CastVote(c *gin.Context) {
	wallet := utils.GetCurrentWallet(c)
	group, ok := loadMemberGroup(c, wallet)
	if !ok {
		return
	}

	proposalID, err := strconv.ParseUint(c.Param("pid"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid proposal ID")
		return
	}

	var req models.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var proposal models.Proposal
	if err := database.DB.Preload("Votes").
		Where("id = ? AND group_id = ?", proposalID, group.ID).
		First(&proposal).Error; err != nil {
		utils.NotFound(c, "Proposal not found")
		return
	}

	now := time.Now()
	if wallet == proposal.InitiatedBy {
		utils.Conflict(c, "The initiator's vote is already counted")
		return
	}
	if services.IsApproved(&proposal) || services.IsRejected(&proposal, len(group.Members)) || services.IsExpired(&proposal, now) {
		utils.Conflict(c, "Voting is closed for this proposal")
		return
	}

	record := models.VoteRecord{
		ProposalID: proposal.ID,
		Voter:      wallet,
		Choice:     req.Choice,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		// unique index on (proposal_id, voter): the duplicate check above and
		// here can race between two clients, the constraint settles it
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Conflict(c, "You already voted on this proposal")
			return
		}
		utils.InternalError(c, "Failed to record vote")
		return
	}
	proposal.Votes = append(proposal.Votes, record)

	database.DB.Create(&models.Activity{
		GroupID:     group.ID,
		Wallet:      wallet,
		Type:        "vote_cast",
		ReferenceID: proposal.ID,
		Description: fmt.Sprintf("%s voted %s on \"%s\"", utils.ShortAddress(wallet), req.Choice, proposal.Title),
	})

	if services.IsApproved(&proposal) {
		database.DB.Create(&models.Activity{
			GroupID:     group.ID,
			Wallet:      wallet,
			Type:        "proposal_approved",
			ReferenceID: proposal.ID,
			Description: fmt.Sprintf("\"%s\" reached its vote threshold", proposal.Title),
		})
	}

	// apply any newly approved proposal's effect
	if err := services.ReconcileGroup(group.ID); err != nil {
		utils.InternalError(c, "Vote recorded but settlement failed")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vote recorded", toProposalResponse(&proposal, group, wallet, now))
}

// Helper: load the :id group with members and gate on membership
func loadMemberGroup(c *gin.Context, wallet string) (*models.Group, bool) {
	groupID, err := parseGroupID(c)
	if err != nil {
		utils.BadRequest(c, "Invalid group ID")
		return nil, false
	}

	var group models.Group
	if err := database.DB.Preload("Members").First(&group, groupID).Error; err != nil {
		utils.NotFound(c, "Group not found")
		return nil, false
	}

	if !group.HasMember(wallet) {
		utils.Unauthorized(c, "You are not a member of this group")
		return nil, false
	}
	return &group, true
}

func logProposalActivity(group *models.Group, p *models.Proposal, wallet string) {
	database.DB.Create(&models.Activity{
		GroupID:     group.ID,
		Wallet:      wallet,
		Type:        "proposal_created",
		ReferenceID: p.ID,
		Description: p.Title,
	})
}

// toProposalResponse attaches every derived value the views need: tally,
// progress, countdown and the caller's voting eligibility. Status is never
// stored, always recomputed here.
func toProposalResponse(p *models.Proposal, group *models.Group, wallet string, now time.Time) models.ProposalResponse {
	tally := services.TallyVotes(p)
	resp := models.ProposalResponse{
		Proposal:  *p,
		Yes:       tally.Yes,
		No:        tally.No,
		Progress:  services.ProgressPercent(p),
		Approved:  services.IsApproved(p),
		Rejected:  services.IsRejected(p, len(group.Members)),
		Remaining: services.TimeRemaining(p, now),
		CanVote:   services.CanVote(p, wallet, group, now),
	}
	if choice, ok := services.VoteOf(p, wallet); ok {
		resp.YourVote = choice
	}
	return resp
}
