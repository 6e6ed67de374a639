package handlers

import (
	"errors"
	"net/http"

	"cofondo-backend/config"
	"cofondo-backend/database"
	"cofondo-backend/models"
	"cofondo-backend/services"
	"cofondo-backend/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/balances — individual and communal funds for the current wallet,
// in ETH plus the deployment's display fiat.
func GetBalances(c *gin.Context) {
	wallet := utils.GetCurrentWallet(c)

	var individual float64
	var user models.User
	if err := database.DB.Where("wallet = ?", wallet).First(&user).Error; err == nil {
		individual = user.Balance
	}

	var memberships []models.GroupMember
	database.DB.Where("wallet = ?", wallet).Find(&memberships)

	var groupIDs []uint
	for _, m := range memberships {
		groupIDs = append(groupIDs, m.GroupID)
	}

	var communal float64
	if len(groupIDs) > 0 {
		database.DB.Model(&models.Group{}).
			Where("id IN ?", groupIDs).
			Select("COALESCE(SUM(balance), 0)").
			Scan(&communal)
	}

	fiat := config.AppConfig.FiatCurrency
	rate, err := services.EthFiatRate(c.Request.Context(), fiat)
	if err != nil {
		if errors.Is(err, services.ErrNoPriceSource) {
			utils.BadGateway(c, "No price source available")
			return
		}
		utils.InternalError(c, "Failed to resolve exchange rate")
		return
	}

	summary := models.BalanceSummary{
		Individual: models.FundAmount{ETH: individual, Fiat: utils.RoundToTwo(individual * rate)},
		Communal:   models.FundAmount{ETH: communal, Fiat: utils.RoundToTwo(communal * rate)},
		Currency:   fiat,
		Rate:       rate,
	}

	utils.SuccessResponse(c, http.StatusOK, "", summary)
}
