package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/service"
)

type MuscleHandler struct {
	groupService  service.MuscleGroupService
	muscleService service.MuscleService
}

func NewMuscleHandler(groupService service.MuscleGroupService, muscleService service.MuscleService) *MuscleHandler {
	return &MuscleHandler{groupService: groupService, muscleService: muscleService}
}

// --- Muscle groups ---

func (h *MuscleHandler) GetGroupPage(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	page, err := h.groupService.GetPage(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(page))
}

func (h *MuscleHandler) GetGroup(c *gin.Context) {
	id, ok := pathID[domain.MuscleGroupKind](c, "muscleGroupId")
	if !ok {
		return
	}
	group, err := h.groupService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *MuscleHandler) CreateGroup(c *gin.Context) {
	principal, _ := principalFromContext(c)
	var cmd service.MuscleGroupCommand
	if !bindJSON(c, &cmd) {
		return
	}
	group, err := h.groupService.Create(c.Request.Context(), principal, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (h *MuscleHandler) UpdateGroup(c *gin.Context) {
	principal, _ := principalFromContext(c)
	id, ok := pathID[domain.MuscleGroupKind](c, "muscleGroupId")
	if !ok {
		return
	}
	var cmd service.MuscleGroupCommand
	if !bindJSON(c, &cmd) {
		return
	}
	group, err := h.groupService.Update(c.Request.Context(), principal, id, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// DeleteGroup also deletes the group's muscles and drops them from exercises and saved lists.
func (h *MuscleHandler) DeleteGroup(c *gin.Context) {
	principal, _ := principalFromContext(c)
	id, ok := pathID[domain.MuscleGroupKind](c, "muscleGroupId")
	if !ok {
		return
	}
	if err := h.groupService.Delete(c.Request.Context(), principal, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Muscles ---

func (h *MuscleHandler) GetMusclePage(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	page, err := h.muscleService.GetPage(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(page))
}

func (h *MuscleHandler) GetMuscle(c *gin.Context) {
	id, ok := pathID[domain.MuscleKind](c, "muscleId")
	if !ok {
		return
	}
	muscle, err := h.muscleService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, muscle)
}

func (h *MuscleHandler) CreateMuscle(c *gin.Context) {
	principal, _ := principalFromContext(c)
	var cmd service.MuscleCommand
	if !bindJSON(c, &cmd) {
		return
	}
	muscle, err := h.muscleService.Create(c.Request.Context(), principal, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, muscle)
}

func (h *MuscleHandler) UpdateMuscle(c *gin.Context) {
	principal, _ := principalFromContext(c)
	id, ok := pathID[domain.MuscleKind](c, "muscleId")
	if !ok {
		return
	}
	var cmd service.MuscleCommand
	if !bindJSON(c, &cmd) {
		return
	}
	muscle, err := h.muscleService.Update(c.Request.Context(), principal, id, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, muscle)
}

func (h *MuscleHandler) DeleteMuscle(c *gin.Context) {
	principal, _ := principalFromContext(c)
	id, ok := pathID[domain.MuscleKind](c, "muscleId")
	if !ok {
		return
	}
	if err := h.muscleService.Delete(c.Request.Context(), principal, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
