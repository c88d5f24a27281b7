package handlers

import (
	"errors"
	"fmt"

	"visatrack_backend/internal/services"
	"visatrack_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

// respondClientError maps service errors onto the body-level failure contract.
func respondClientError(c *gin.Context, err error, logContext string) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.RespondFailure(c, vErr.Message)
	case errors.Is(err, services.ErrClientNotFound):
		utils.RespondFailure(c, "Client not found")
	case errors.Is(err, services.ErrNoChanges):
		utils.RespondFailure(c, "No changes were made")
	case errors.Is(err, services.ErrNoClientsDeleted):
		utils.RespondFailure(c, "No clients were found to delete")
	default:
		utils.LogError(err, logContext)
		utils.RespondFailure(c, "Database error")
	}
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateClient: Failed to bind JSON")
		utils.RespondFailure(c, "Invalid JSON data")
		return
	}

	client, err := h.clientService.CreateClient(req)
	if err != nil {
		respondClientError(c, err, "CreateClient: Error from clientService.CreateClient")
		return
	}

	utils.RespondSuccess(c, gin.H{
		"message":    "Client added successfully",
		"clientId":   client.ID,
		"clientName": client.Name,
		"client":     client,
	})
}

// GetClients handles fetching the full client list, id descending.
func (h *ClientHandler) GetClients(c *gin.Context) {
	clients, err := h.clientService.GetClients()
	if err != nil {
		respondClientError(c, err, "GetClients: Error from clientService.GetClients")
		return
	}

	utils.RespondSuccess(c, gin.H{
		"clients":      clients,
		"totalClients": len(clients),
	})
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	clientID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondFailure(c, "Invalid client ID format: "+c.Param("id"))
		return
	}

	client, err := h.clientService.GetClientByID(clientID)
	if err != nil {
		respondClientError(c, err, "GetClientByID: Error from clientService.GetClientByID")
		return
	}
	utils.RespondSuccess(c, gin.H{"client": client})
}

// UpdateClient handles a full-record client update. The id travels in the
// body, as the panel sends it.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var req services.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateClient: Failed to bind JSON")
		utils.RespondFailure(c, "Invalid JSON data")
		return
	}

	client, err := h.clientService.UpdateClient(req)
	if err != nil {
		respondClientError(c, err, "UpdateClient: Error from clientService.UpdateClient")
		return
	}

	utils.RespondSuccess(c, gin.H{
		"message": "Client updated successfully",
		"client":  client,
	})
}

// DeleteClientsRequest is the bulk-delete payload. IDs stay untyped so a
// non-numeric entry is reported per-value instead of failing the bind.
type DeleteClientsRequest struct {
	ClientIDs []interface{} `json:"clientIds"`
}

// DeleteClients handles bulk deletion plus the follow-up id renumbering.
func (h *ClientHandler) DeleteClients(c *gin.Context) {
	var req DeleteClientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "DeleteClients: Failed to bind JSON")
		utils.RespondFailure(c, "Invalid JSON data")
		return
	}

	ids, err := services.ParseClientIDs(req.ClientIDs)
	if err != nil {
		respondClientError(c, err, "DeleteClients: Invalid id list")
		return
	}

	result, err := h.clientService.DeleteClients(ids)
	if err != nil {
		respondClientError(c, err, "DeleteClients: Error from clientService.DeleteClients")
		return
	}

	utils.RespondSuccess(c, gin.H{
		"message":        fmt.Sprintf("%d client(s) deleted successfully", result.DeletedCount),
		"deletedCount":   result.DeletedCount,
		"idsReordered":   result.IDsReordered,
		"reorderSkipped": result.ReorderSkipped,
	})
}
