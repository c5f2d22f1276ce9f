package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/service"
)

type CoachHandler struct {
	coachService       service.CoachService
	applicationService service.CoachApplicationService
}

func NewCoachHandler(coachService service.CoachService, applicationService service.CoachApplicationService) *CoachHandler {
	return &CoachHandler{coachService: coachService, applicationService: applicationService}
}

func (h *CoachHandler) Get(c *gin.Context) {
	id, ok := pathID[domain.CoachKind](c, "coachId")
	if !ok {
		return
	}
	profile, err := h.coachService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *CoachHandler) Update(c *gin.Context) {
	principal, _ := principalFromContext(c)
	id, ok := pathID[domain.CoachKind](c, "coachId")
	if !ok {
		return
	}
	var cmd service.UpdateCoachCommand
	if !bindJSON(c, &cmd) {
		return
	}
	profile, err := h.coachService.Update(c.Request.Context(), principal, id, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Apply godoc
// @Summary Apply to become a coach
// @Tags Coach applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param application body service.CoachApplicationCommand true "Note for the reviewer"
// @Success 201 {object} domain.CoachApplication
// @Failure 409 {object} gin.H "Already a coach or an application is pending"
// @Router /coach-applications [post]
func (h *CoachHandler) Apply(c *gin.Context) {
	principal, _ := principalFromContext(c)
	var cmd service.CoachApplicationCommand
	if !bindJSON(c, &cmd) {
		return
	}
	application, err := h.applicationService.Apply(c.Request.Context(), principal, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, application)
}

func (h *CoachHandler) ListPending(c *gin.Context) {
	principal, _ := principalFromContext(c)
	applications, err := h.applicationService.ListPending(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	if applications == nil {
		applications = []domain.CoachApplication{}
	}
	c.JSON(http.StatusOK, applications)
}

func (h *CoachHandler) Approve(c *gin.Context) {
	principal, _ := principalFromContext(c)
	id, ok := pathID[domain.CoachApplicationKind](c, "applicationId")
	if !ok {
		return
	}
	application, err := h.applicationService.Approve(c.Request.Context(), principal, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, application)
}

func (h *CoachHandler) Deny(c *gin.Context) {
	principal, _ := principalFromContext(c)
	id, ok := pathID[domain.CoachApplicationKind](c, "applicationId")
	if !ok {
		return
	}
	var cmd service.DenyCoachApplicationCommand
	if !bindJSON(c, &cmd) {
		return
	}
	application, err := h.applicationService.Deny(c.Request.Context(), principal, id, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, application)
}
