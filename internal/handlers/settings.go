// internal/handlers/settings.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"shoplite-agent/internal/store"
	"shoplite-agent/internal/utils"
)

type SettingsHandler struct {
	store *store.Store
}

func NewSettingsHandler(st *store.Store) *SettingsHandler {
	return &SettingsHandler{store: st}
}

// GET /settings
func (h *SettingsHandler) Get(c *gin.Context) {
	utils.SuccessResponse(c, h.store.Settings())
}

// PUT /settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var fields utils.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	settings, err := h.store.UpdateSettings(fields)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid settings payload", err.Error())
		return
	}
	utils.SuccessResponse(c, settings)
}
