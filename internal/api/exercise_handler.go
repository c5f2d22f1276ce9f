package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/service"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// GetPage godoc
// @Summary Page through exercises
// @Tags Exercises
// @Produce json
// @Param p query int false "Page number"
// @Param ls query int false "Page size"
// @Param s query string false "Sort key: name, created or updated"
// @Param o query string false "Order: asc or desc"
// @Param q query string false "Search text"
// @Success 200 {object} PageResponse[domain.Exercise]
// @Failure 404 {object} gin.H "Page does not exist"
// @Router /exercises/page [get]
func (h *ExerciseHandler) GetPage(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	page, err := h.exerciseService.GetPage(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(page))
}

func (h *ExerciseHandler) Get(c *gin.Context) {
	id, ok := pathID[domain.ExerciseKind](c, "exerciseId")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// Create godoc
// @Summary Create a new exercise
// @Description Creates an exercise owned by the calling coach.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body service.ExerciseCommand true "Exercise details"
// @Success 201 {object} domain.Exercise
// @Failure 400 {object} gin.H "Validation error"
// @Failure 403 {object} gin.H "Not a coach"
// @Failure 409 {object} gin.H "Name already taken"
// @Router /exercises [post]
func (h *ExerciseHandler) Create(c *gin.Context) {
	principal, _ := principalFromContext(c)
	var cmd service.ExerciseCommand
	if !bindJSON(c, &cmd) {
		return
	}
	exercise, err := h.exerciseService.Create(c.Request.Context(), principal, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

func (h *ExerciseHandler) Update(c *gin.Context) {
	principal, _ := principalFromContext(c)
	id, ok := pathID[domain.ExerciseKind](c, "exerciseId")
	if !ok {
		return
	}
	var cmd service.ExerciseCommand
	if !bindJSON(c, &cmd) {
		return
	}
	exercise, err := h.exerciseService.Update(c.Request.Context(), principal, id, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// Delete godoc
// @Summary Delete an exercise
// @Description Removes the exercise from workouts and saved lists and notifies affected users.
// @Tags Exercises
// @Security BearerAuth
// @Param exerciseId path string true "Exercise id"
// @Success 204
// @Failure 403 {object} gin.H "Not the creator or an administrator"
// @Failure 404 {object} gin.H "Exercise does not exist"
// @Router /exercises/{exerciseId} [delete]
func (h *ExerciseHandler) Delete(c *gin.Context) {
	principal, _ := principalFromContext(c)
	id, ok := pathID[domain.ExerciseKind](c, "exerciseId")
	if !ok {
		return
	}
	if err := h.exerciseService.Delete(c.Request.Context(), principal, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
