package handlers

import (
	"net/http"

	"cofondo-backend/database"
	"cofondo-backend/models"
	"cofondo-backend/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/wallets/validate?address=0x…
// Shape check (hex address with EIP-55 checksum when mixed-case, or an ENS
// name) plus whether the wallet is known to the system — registered profile
// or existing group member.
func ValidateWallet(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		utils.BadRequest(c, "address query parameter required")
		return
	}

	valid := utils.IsWalletLike(address) && utils.ChecksumValid(address)

	registered := false
	if valid {
		wallet := utils.NormalizeWallet(address)

		var count int64
		database.DB.Model(&models.User{}).Where("wallet = ?", wallet).Count(&count)
		if count == 0 {
			database.DB.Model(&models.GroupMember{}).Where("wallet = ?", wallet).Count(&count)
		}
		registered = count > 0
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"exists":     valid,
		"registered": registered,
	})
}
