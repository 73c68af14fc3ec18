package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orgdesk/orgdesk/internal/config"
	"github.com/orgdesk/orgdesk/internal/middleware"
	"github.com/orgdesk/orgdesk/internal/services"
)

// SessionHandlers serves login, registration, whoami and logout
type SessionHandlers struct {
	cfg     *config.SessionConfig
	service *services.SessionService
}

// NewSessionHandlers creates a new SessionHandlers instance
func NewSessionHandlers(cfg *config.SessionConfig, service *services.SessionService) *SessionHandlers {
	return &SessionHandlers{cfg: cfg, service: service}
}

// setSessionCookie hands the token to the browser as an HttpOnly cookie
// living as long as the session itself
func (h *SessionHandlers) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, token, int(h.cfg.TTL.Seconds()), "/", "", h.cfg.SecureCookie, true)
}

func (h *SessionHandlers) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.SecureCookie, true)
}

// @Summary      Log in
// @Description  Authenticate with email and password. Sets the session cookie and returns the user.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "email, password"
// @Success      200  {object}  models.User
// @Failure      400  {object}  map[string]interface{}  "Invalid user credentials"
// @Failure      422  {object}  map[string]interface{}  "errors: [{message, field, rule}]"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /login [post]
// LoginHandler authenticates by email and password
// POST /login
func (h *SessionHandlers) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := h.service.Login(c.Request.Context(), input(c))
		if err != nil {
			respondError(c, err)
			return
		}
		h.setSessionCookie(c, result.Token)
		c.JSON(http.StatusOK, result.User)
	}
}

// @Summary      Register
// @Description  Create an account and log it in. Sets the session cookie and returns the user.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "username, email, password, confirm"
// @Success      200  {object}  models.User
// @Failure      422  {object}  map[string]interface{}  "errors: [{message, field, rule}]"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /register [post]
// RegisterHandler creates an account and logs it in
// POST /register
func (h *SessionHandlers) RegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := h.service.Register(c.Request.Context(), input(c))
		if err != nil {
			respondError(c, err)
			return
		}
		h.setSessionCookie(c, result.Token)
		c.JSON(http.StatusOK, result.User)
	}
}

// @Summary      Current user
// @Description  Return the user owning the current session.
// @Tags         Session
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      422  {object}  map[string]interface{}  "errors: [{message, field, rule}], or Unauthorized access without a session"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /me [get]
// MeHandler returns the logged-in user
// GET /me
func (h *SessionHandlers) MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.service.WhoAmI(middleware.GetIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// @Summary      Log out
// @Description  Revoke the current session and clear the cookie. Always 200.
// @Tags         Session
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "logout: bool"
// @Failure      422  {object}  map[string]interface{}  "errors: [{message, field, rule}], or Unauthorized access without a session"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /logout [delete]
// LogoutHandler ends the current session. It always answers 200; the body
// says whether revocation succeeded.
// DELETE /logout
func (h *SessionHandlers) LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok := h.service.Logout(c.Request.Context(), middleware.GetIdentity(c))
		h.clearSessionCookie(c)
		c.JSON(http.StatusOK, gin.H{"logout": ok})
	}
}
