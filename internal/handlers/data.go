// internal/handlers/data.go
package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"shoplite-agent/internal/store"
	"shoplite-agent/internal/utils"
)

type DataHandler struct {
	store *store.Store
}

func NewDataHandler(st *store.Store) *DataHandler {
	return &DataHandler{store: st}
}

// POST /data/import performs a bulk overlay of exported data into the local
// collections. This is a loading path, not a sync: nothing is pushed to
// the remote store unless a sync pass is triggered afterwards.
func (h *DataHandler) Import(c *gin.Context) {
	var payload map[string]json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := h.store.Import(payload); err != nil {
		utils.BadRequestResponse(c, "Import failed", err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"imported": true})
}

// GET /data/export
func (h *DataHandler) Export(c *gin.Context) {
	utils.SuccessResponse(c, h.store.Export())
}
