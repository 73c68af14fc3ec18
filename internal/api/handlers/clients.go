package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orgdesk/orgdesk/internal/middleware"
	"github.com/orgdesk/orgdesk/internal/services"
)

// ClientHandlers serves the /clients routes
type ClientHandlers struct {
	service *services.ClientService
}

// NewClientHandlers creates a new ClientHandlers instance
func NewClientHandlers(service *services.ClientService) *ClientHandlers {
	return &ClientHandlers{service: service}
}

// @Summary      Create client
// @Description  Create a client under an org the caller owns.
// @Tags         Clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "name, orgId"
// @Success      200  {object}  models.Client
// @Failure      422  {object}  map[string]interface{}  "errors: [{message, field, rule}], or Unauthorized access without a session"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /clients [post]
// CreateHandler POST /clients
func (h *ClientHandlers) CreateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		client, err := h.service.Create(c.Request.Context(), middleware.GetIdentity(c), input(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

// @Summary      Get client
// @Description  Retrieve a client whose org the caller owns.
// @Tags         Clients
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "Client ID"
// @Success      200  {object}  models.Client
// @Failure      422  {object}  map[string]interface{}  "errors: [{message, field, rule}], or Unauthorized access without a session"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /clients/{id} [get]
// GetHandler GET /clients/:id
func (h *ClientHandlers) GetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		client, err := h.service.Read(c.Request.Context(), middleware.GetIdentity(c), input(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

// @Summary      Update client
// @Description  Rename a client or move it to another org. Absent fields are left unchanged.
// @Tags         Clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  int  true  "Client ID"
// @Param        body  body  object  false  "name, orgId"
// @Success      200  {object}  models.Client
// @Failure      422  {object}  map[string]interface{}  "errors: [{message, field, rule}], or Unauthorized access without a session"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /clients/{id} [put]
// UpdateHandler PUT /clients/:id
func (h *ClientHandlers) UpdateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		client, err := h.service.Update(c.Request.Context(), middleware.GetIdentity(c), input(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

// @Summary      Delete client
// @Description  Delete a client whose org the caller owns.
// @Tags         Clients
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "Client ID"
// @Success      200  {object}  map[string]interface{}  "success: true"
// @Failure      422  {object}  map[string]interface{}  "errors: [{message, field, rule}], or Unauthorized access without a session"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /clients/{id} [delete]
// DeleteHandler DELETE /clients/:id
func (h *ClientHandlers) DeleteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.Delete(c.Request.Context(), middleware.GetIdentity(c), input(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
