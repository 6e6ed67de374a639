package handlers

import (
	"net/http"

	"cofondo-backend/database"
	"cofondo-backend/models"
	"cofondo-backend/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/activity — global activity feed for current wallet
func GetActivity(c *gin.Context) {
	wallet := utils.GetCurrentWallet(c)

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	// Get all groups the wallet is in
	var memberships []models.GroupMember
	database.DB.Where("wallet = ?", wallet).Find(&memberships)

	var groupIDs []uint
	for _, m := range memberships {
		groupIDs = append(groupIDs, m.GroupID)
	}

	var activities []models.Activity
	if len(groupIDs) > 0 {
		database.DB.Where("group_id IN ?", groupIDs).
			Order("created_at DESC").
			Offset(pagination.Offset()).
			Limit(pagination.Limit).
			Find(&activities)

		// Attach group names
		groupNames := make(map[uint]string)
		var groups []models.Group
		database.DB.Where("id IN ?", groupIDs).Find(&groups)
		for _, g := range groups {
			groupNames[g.ID] = g.Name
		}
		for i := range activities {
			activities[i].GroupName = groupNames[activities[i].GroupID]
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", activities)
}

// GET /api/groups/:id/activity — activity feed for a specific group
func GetGroupActivity(c *gin.Context) {
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

	var activities []models.Activity
	database.DB.Where("group_id = ?", groupID).
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&activities)

	utils.SuccessResponse(c, http.StatusOK, "", activities)
}
