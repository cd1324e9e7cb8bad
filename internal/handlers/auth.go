// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"shoplite-agent/internal/services"
	"shoplite-agent/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
	syncService *services.SyncService
}

func NewAuthHandler(authService *services.AuthService, syncService *services.SyncService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		syncService: syncService,
	}
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	authResponse, err := h.authService.Login(&req)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	// Login is a sync trigger: reconcile whatever accumulated while
	// logged out or offline.
	h.syncService.Trigger()

	utils.SuccessResponse(c, authResponse)
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authService.Logout()
	utils.SuccessResponse(c, gin.H{"message": "Logged out"})
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := utils.GetUserIDFromContext(c)
	username, _ := c.Get("username")
	utils.SuccessResponse(c, gin.H{
		"user_id":  userID,
		"username": username,
	})
}
