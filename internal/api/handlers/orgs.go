package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orgdesk/orgdesk/internal/middleware"
	"github.com/orgdesk/orgdesk/internal/services"
)

// OrgHandlers serves the /orgs routes
type OrgHandlers struct {
	service *services.OrgService
}

// NewOrgHandlers creates a new OrgHandlers instance
func NewOrgHandlers(service *services.OrgService) *OrgHandlers {
	return &OrgHandlers{service: service}
}

// @Summary      List orgs
// @Description  List the caller's orgs, ordered by id.
// @Tags         Orgs
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   models.Org
// @Failure      422  {object}  map[string]interface{}  "errors: [{message, field, rule}], or Unauthorized access without a session"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /orgs/all [get]
// ListHandler returns the caller's orgs
// GET /orgs/all
func (h *OrgHandlers) ListHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgs, err := h.service.List(c.Request.Context(), middleware.GetIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orgs)
	}
}

// @Summary      Create org
// @Description  Create an org owned by the caller. Names are globally unique.
// @Tags         Orgs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "name"
// @Success      200  {object}  models.Org
// @Failure      422  {object}  map[string]interface{}  "errors: [{message, field, rule}], or Unauthorized access without a session"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /orgs [post]
// CreateHandler POST /orgs
func (h *OrgHandlers) CreateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		org, err := h.service.Create(c.Request.Context(), middleware.GetIdentity(c), input(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, org)
	}
}

// @Summary      Get org
// @Description  Retrieve an org by id.
// @Tags         Orgs
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "Org ID"
// @Success      200  {object}  models.Org
// @Failure      422  {object}  map[string]interface{}  "errors: [{message, field, rule}], or Unauthorized access without a session"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /orgs/{id} [get]
// GetHandler GET /orgs/:id
func (h *OrgHandlers) GetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		org, err := h.service.Read(c.Request.Context(), middleware.GetIdentity(c), input(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, org)
	}
}

// @Summary      Update org
// @Description  Rename an org the caller owns.
// @Tags         Orgs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  int  true  "Org ID"
// @Param        body  body  object  true  "name"
// @Success      200  {object}  models.Org
// @Failure      422  {object}  map[string]interface{}  "errors: [{message, field, rule}], or Unauthorized access without a session"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /orgs/{id} [put]
// UpdateHandler PUT /orgs/:id
func (h *OrgHandlers) UpdateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		org, err := h.service.Update(c.Request.Context(), middleware.GetIdentity(c), input(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, org)
	}
}

// @Summary      Delete org
// @Description  Delete an org the caller owns, along with its clients.
// @Tags         Orgs
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "Org ID"
// @Success      200  {object}  map[string]interface{}  "success: true"
// @Failure      422  {object}  map[string]interface{}  "errors: [{message, field, rule}], or Unauthorized access without a session"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /orgs/{id} [delete]
// DeleteHandler DELETE /orgs/:id
func (h *OrgHandlers) DeleteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.Delete(c.Request.Context(), middleware.GetIdentity(c), input(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
