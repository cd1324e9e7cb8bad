// internal/handlers/sync.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"shoplite-agent/internal/services"
	"shoplite-agent/internal/utils"
)

type SyncHandler struct {
	syncService *services.SyncService
}

func NewSyncHandler(syncService *services.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// POST /sync requests a full reconciliation pass. The pass runs in the
// background; triggers landing mid-pass are coalesced into one re-run.
func (h *SyncHandler) Trigger(c *gin.Context) {
	h.syncService.Trigger()
	utils.AcceptedResponse(c, gin.H{"triggered": true})
}

// GET /sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"last": h.syncService.LastResult()})
}
