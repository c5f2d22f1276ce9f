package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spartanfitness/api/internal/service"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account with the user role and emails a confirmation link.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body service.RegisterCommand true "Registration details"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} gin.H "Validation error"
// @Failure 409 {object} gin.H "Email already in use"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var cmd service.RegisterCommand
	if !bindJSON(c, &cmd) {
		return
	}
	res, err := h.authService.Register(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Login godoc
// @Summary Log in a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body service.LoginCommand true "Login credentials"
// @Success 200 {object} service.AuthResult
// @Failure 401 {object} gin.H "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var cmd service.LoginCommand
	if !bindJSON(c, &cmd) {
		return
	}
	res, err := h.authService.Login(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	var cmd service.ConfirmEmailCommand
	if !bindJSON(c, &cmd) {
		return
	}
	if err := h.authService.ConfirmEmail(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestPasswordReset always answers 204 for a well-formed email so the
// endpoint cannot be used to probe for accounts.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var cmd service.RequestPasswordResetCommand
	if !bindJSON(c, &cmd) {
		return
	}
	if err := h.authService.RequestPasswordReset(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var cmd service.ResetPasswordCommand
	if !bindJSON(c, &cmd) {
		return
	}
	if err := h.authService.ResetPassword(c.Request.Context(), cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the account behind the access token.
func (h *AuthHandler) Me(users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalFromContext(c)
		if !ok {
			abortWithError(c, http.StatusInternalServerError, "Failed to get principal from token")
			return
		}
		user, err := users.Get(c.Request.Context(), principal.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user":            user,
			"coachId":         principal.CoachID,
			"administratorId": principal.AdministratorID,
		})
	}
}
