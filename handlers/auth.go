package handlers

import (
	"net/http"
	"time"

	"cofondo-backend/database"
	"cofondo-backend/models"
	"cofondo-backend/services"
	"cofondo-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const nonceTTL = 5 * time.Minute

type NonceRequest struct {
	Wallet string `json:"wallet" binding:"required"`
}

type LoginRequest struct {
	Wallet string `json:"wallet" binding:"required"`
	Nonce  string `json:"nonce" binding:"required"`
	// profile fields cached by the wallet-abstraction provider (social login)
	Profile services.ContactFields `json:"profile"`
}

type ContactStatus struct {
	Phase  services.GatePhase     `json:"phase"`
	Fields services.ContactFields `json:"fields"`
	Exists bool                   `json:"exists"`
}

type AuthResponse struct {
	Token   string               `json:"token"`
	Contact ContactStatus        `json:"contact"`
	User    *models.UserResponse `json:"user,omitempty"`
}

// POST /auth/nonce
func RequestNonce(c *gin.Context) {
	var req NonceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if !utils.IsWalletLike(req.Wallet) || !utils.ChecksumValid(req.Wallet) {
		utils.BadRequest(c, "Invalid wallet address")
		return
	}

	nonce := models.LoginNonce{
		Wallet:    utils.NormalizeWallet(req.Wallet),
		ExpiresAt: time.Now().Add(nonceTTL),
	}
	if err := database.DB.Create(&nonce).Error; err != nil {
		utils.InternalError(c, "Failed to issue nonce")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", nonce)
}

// POST /auth/login
// Signature custody lives with the wallet-abstraction provider; the backend
// checks the address shape, the EIP-55 checksum and the single-use nonce,
// then runs the contact-completion gate and mints a session token.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if !utils.IsWalletLike(req.Wallet) || !utils.ChecksumValid(req.Wallet) {
		utils.BadRequest(c, "Invalid wallet address")
		return
	}
	wallet := utils.NormalizeWallet(req.Wallet)

	nonceID, err := uuid.Parse(req.Nonce)
	if err != nil {
		utils.BadRequest(c, "Invalid nonce")
		return
	}

	var nonce models.LoginNonce
	if err := database.DB.Where("id = ? AND wallet = ?", nonceID, wallet).First(&nonce).Error; err != nil {
		utils.Unauthorized(c, "Unknown nonce")
		return
	}
	if nonce.UsedAt != nil || time.Now().After(nonce.ExpiresAt) {
		utils.Unauthorized(c, "Nonce expired")
		return
	}
	database.DB.Model(&nonce).Update("used_at", time.Now())

	gate := services.NewContactGate(services.GateConfigFromApp(), services.GormProfileStore{})
	phase := gate.Connect(c.Request.Context(), wallet, req.Profile)

	token, err := utils.GenerateToken(wallet)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}

	resp := AuthResponse{
		Token: token,
		Contact: ContactStatus{
			Phase:  phase,
			Fields: gate.Fields(),
			Exists: gate.ProfileExists(),
		},
	}

	var user models.User
	if err := database.DB.Where("wallet = ?", wallet).First(&user).Error; err == nil {
		r := user.ToResponse()
		resp.User = &r
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", resp)
}
