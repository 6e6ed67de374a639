package handlers

import (
	"net/http"

	"cofondo-backend/database"
	"cofondo-backend/models"
	"cofondo-backend/services"
	"cofondo-backend/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/users/me
func GetProfile(c *gin.Context) {
	wallet := utils.GetCurrentWallet(c)

	var user models.User
	if err := database.DB.Where("wallet = ?", wallet).First(&user).Error; err != nil {
		utils.NotFound(c, "Profile not found")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", user.ToResponse())
}

// PUT /api/users/me
// The save half of the contact-completion gate: creates the profile on
// first save, merge-updates afterwards. Supplied fields are shape-checked
// before anything is written.
func SaveContact(c *gin.Context) {
	wallet := utils.GetCurrentWallet(c)

	var req models.SaveContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if req.Email != "" && !services.ValidEmail(req.Email) {
		utils.BadRequest(c, "Invalid email")
		return
	}
	if req.Phone != "" && !services.ValidPhone(req.Phone) {
		utils.BadRequest(c, "Invalid phone")
		return
	}

	gate := services.NewContactGate(services.GateConfigFromApp(), services.GormProfileStore{})
	gate.Connect(c.Request.Context(), wallet, services.ContactFields{})

	if err := gate.SaveContact(c.Request.Context(), services.ContactFields{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}); err != nil {
		utils.InternalError(c, "Failed to save contact info")
		return
	}

	var user models.User
	if err := database.DB.Where("wallet = ?", wallet).First(&user).Error; err != nil {
		utils.InternalError(c, "Failed to load profile")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile saved", gin.H{
		"phase": gate.Phase(),
		"user":  user.ToResponse(),
	})
}

// PUT /api/users/me/fcm-token
func UpdateFCMToken(c *gin.Context) {
	wallet := utils.GetCurrentWallet(c)

	var req models.UpdateFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	result := database.DB.Model(&models.User{}).Where("wallet = ?", wallet).Update("fcm_token", req.Token)
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Profile not found")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "FCM token updated", nil)
}
