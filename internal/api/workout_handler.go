package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/service"
)

// WorkoutHandler serves workouts nested under their coach.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// GetAllPage godoc
// @Summary Page through the workouts of every coach
// @Tags Workouts
// @Produce json
// @Success 200 {object} PageResponse[domain.Workout]
// @Router /coaches/all/workouts/page [get]
func (h *WorkoutHandler) GetAllPage(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	page, err := h.workoutService.GetPage(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(page))
}

func (h *WorkoutHandler) GetCoachPage(c *gin.Context) {
	coachID, ok := pathID[domain.CoachKind](c, "coachId")
	if !ok {
		return
	}
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	page, err := h.workoutService.GetCoachPage(c.Request.Context(), coachID, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(page))
}

func (h *WorkoutHandler) Get(c *gin.Context) {
	coachID, ok := pathID[domain.CoachKind](c, "coachId")
	if !ok {
		return
	}
	id, ok := pathID[domain.WorkoutKind](c, "workoutId")
	if !ok {
		return
	}
	workout, err := h.workoutService.Get(c.Request.Context(), coachID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// Create godoc
// @Summary Create a workout for the calling coach
// @Description Muscle groups are derived from the exercises; order numbers must run 1..n.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param coachId path string true "Coach id"
// @Param workout body service.WorkoutCommand true "Workout"
// @Success 201 {object} domain.Workout
// @Failure 400 {object} gin.H "Validation error"
// @Failure 403 {object} gin.H "Caller is not this coach"
// @Router /coaches/{coachId}/workouts [post]
func (h *WorkoutHandler) Create(c *gin.Context) {
	principal, _ := principalFromContext(c)
	coachID, ok := pathID[domain.CoachKind](c, "coachId")
	if !ok {
		return
	}
	var cmd service.WorkoutCommand
	if !bindJSON(c, &cmd) {
		return
	}
	workout, err := h.workoutService.Create(c.Request.Context(), principal, coachID, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

func (h *WorkoutHandler) Update(c *gin.Context) {
	principal, _ := principalFromContext(c)
	coachID, ok := pathID[domain.CoachKind](c, "coachId")
	if !ok {
		return
	}
	id, ok := pathID[domain.WorkoutKind](c, "workoutId")
	if !ok {
		return
	}
	var cmd service.WorkoutCommand
	if !bindJSON(c, &cmd) {
		return
	}
	workout, err := h.workoutService.Update(c.Request.Context(), principal, coachID, id, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *WorkoutHandler) Delete(c *gin.Context) {
	principal, _ := principalFromContext(c)
	coachID, ok := pathID[domain.CoachKind](c, "coachId")
	if !ok {
		return
	}
	id, ok := pathID[domain.WorkoutKind](c, "workoutId")
	if !ok {
		return
	}
	if err := h.workoutService.Delete(c.Request.Context(), principal, coachID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
