package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"cofondo-backend/database"
	"cofondo-backend/models"
	"cofondo-backend/utils"

	"github.com/gin-gonic/gin"
)

// POST /api/groups
func CreateGroup(c *gin.Context) {
	wallet := utils.GetCurrentWallet(c)

	var req models.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	invited := utils.DedupeWallets(wallet, req.Members)
	for _, w := range invited {
		if !utils.IsWalletLike(w) {
			utils.BadRequest(c, fmt.Sprintf("Invalid member wallet: %s", w))
			return
		}
	}

	group := models.Group{
		Name:        req.Name,
		Description: req.Description,
		Goal:        req.Goal,
		Status:      models.GroupActive,
		CreatedBy:   wallet,
	}

	if err := database.DB.Create(&group).Error; err != nil {
		utils.InternalError(c, "Failed to create group")
		return
	}

	// Creator is always the first member, exactly once
	creatorName := utils.ShortAddress(wallet)
	creatorInitials := utils.InitialsFromAddress(wallet)
	var creator models.User
	if err := database.DB.Where("wallet = ?", wallet).First(&creator).Error; err == nil && creator.Name != "" {
		creatorName = creator.Name
		creatorInitials = utils.InitialsFromName(creator.Name)
	}

	members := []models.GroupMember{{
		GroupID:     group.ID,
		Wallet:      wallet,
		DisplayName: creatorName,
		Initials:    creatorInitials,
	}}
	for _, w := range invited {
		members = append(members, models.GroupMember{
			GroupID:     group.ID,
			Wallet:      w,
			DisplayName: utils.ShortAddress(w),
			Initials:    utils.InitialsFromAddress(w),
		})
	}
	if err := database.DB.Create(&members).Error; err != nil {
		utils.InternalError(c, "Failed to add members")
		return
	}

	database.DB.Create(&models.Activity{
		GroupID:     group.ID,
		Wallet:      wallet,
		Type:        "group_created",
		Description: fmt.Sprintf("%s created group \"%s\"", creatorName, group.Name),
	})

	response := buildGroupResponse(group.ID)
	utils.SuccessResponse(c, http.StatusCreated, "Group created", response)
}

// GET /api/groups
func GetGroups(c *gin.Context) {
	wallet := utils.GetCurrentWallet(c)

	var memberships []models.GroupMember
	database.DB.Where("wallet = ?", wallet).Find(&memberships)

	var groupIDs []uint
	for _, m := range memberships {
		groupIDs = append(groupIDs, m.GroupID)
	}

	var groups []models.Group
	if len(groupIDs) > 0 {
		database.DB.Where("id IN ?", groupIDs).
			Preload("Members").
			Order("created_at DESC").
			Find(&groups)
	}

	var responses []models.GroupResponse
	for _, g := range groups {
		responses = append(responses, g.ToResponse())
	}

	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// GET /api/groups/:id
func GetGroup(c *gin.Context) {
	wallet := utils.GetCurrentWallet(c)
	groupID, err := parseGroupID(c)
	if err != nil {
		utils.BadRequest(c, "Invalid group ID")
		return
	}

	if !isMember(groupID, wallet) {
		utils.Unauthorized(c, "You are not a member of this group")
		return
	}

	response := buildGroupResponse(groupID)
	utils.SuccessResponse(c, http.StatusOK, "", response)
}

// GET /api/groups/:id/transactions
func GetGroupTransactions(c *gin.Context) {
	wallet := utils.GetCurrentWallet(c)
	groupID, err := parseGroupID(c)
	if err != nil {
		utils.BadRequest(c, "Invalid group ID")
		return
	}

	if !isMember(groupID, wallet) {
		utils.Unauthorized(c, "You are not a member of this group")
		return
	}

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	var transactions []models.Transaction
	database.DB.Where("group_id = ?", groupID).
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&transactions)

	utils.SuccessResponse(c, http.StatusOK, "", transactions)
}

// Helper: parse the numeric group id path param
func parseGroupID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

// Helper: check group membership
func isMember(groupID uint, wallet string) bool {
	var count int64
	database.DB.Model(&models.GroupMember{}).Where("group_id = ? AND wallet = ?", groupID, wallet).Count(&count)
	return count > 0
}

// Helper: build full group response with members and recent transactions
func buildGroupResponse(groupID uint) models.GroupResponse {
	var group models.Group
	database.DB.Preload("Members").Preload("Transactions").First(&group, groupID)
	return group.ToResponse()
}
