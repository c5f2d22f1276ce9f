package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/paging"
	"spartanfitness/api/internal/service"
)

// UserHandler serves accounts and their saved exercises, muscles, muscle groups and workouts.
type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Get(c *gin.Context) {
	principal, _ := principalFromContext(c)
	id, ok := pathID[domain.UserKind](c, "userId")
	if !ok {
		return
	}
	if principal.UserID != id && !principal.IsAdministrator() {
		respondError(c, domain.ErrAccessDenied)
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// saveAction adapts one UserService save/unsave method to a handler.
func saveAction[C any](fn func(context.Context, service.Principal, domain.UserID, C) (*domain.User, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := principalFromContext(c)
		id, ok := pathID[domain.UserKind](c, "userId")
		if !ok {
			return
		}
		var cmd C
		if !bindJSON(c, &cmd) {
			return
		}
		user, err := fn(c.Request.Context(), principal, id, cmd)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// savedPage adapts one UserService saved-items page method to a handler.
func savedPage[T any](fn func(context.Context, service.Principal, domain.UserID, paging.Query) (paging.Page[T], error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, _ := principalFromContext(c)
		id, ok := pathID[domain.UserKind](c, "userId")
		if !ok {
			return
		}
		q, ok := pageQuery(c)
		if !ok {
			return
		}
		page, err := fn(c.Request.Context(), principal, id, q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, pageResponse(page))
	}
}

func (h *UserHandler) SaveExercise() gin.HandlerFunc   { return saveAction(h.userService.SaveExercise) }
func (h *UserHandler) UnsaveExercise() gin.HandlerFunc { return saveAction(h.userService.UnsaveExercise) }
func (h *UserHandler) SaveMuscle() gin.HandlerFunc     { return saveAction(h.userService.SaveMuscle) }
func (h *UserHandler) UnsaveMuscle() gin.HandlerFunc   { return saveAction(h.userService.UnsaveMuscle) }
func (h *UserHandler) SaveMuscleGroups() gin.HandlerFunc {
	return saveAction(h.userService.SaveMuscleGroups)
}
func (h *UserHandler) UnsaveMuscleGroup() gin.HandlerFunc {
	return saveAction(h.userService.UnsaveMuscleGroup)
}
func (h *UserHandler) SaveWorkout() gin.HandlerFunc   { return saveAction(h.userService.SaveWorkout) }
func (h *UserHandler) UnsaveWorkout() gin.HandlerFunc { return saveAction(h.userService.UnsaveWorkout) }

func (h *UserHandler) SavedExercises() gin.HandlerFunc { return savedPage(h.userService.SavedExercisePage) }
func (h *UserHandler) SavedMuscles() gin.HandlerFunc   { return savedPage(h.userService.SavedMusclePage) }
func (h *UserHandler) SavedMuscleGroups() gin.HandlerFunc {
	return savedPage(h.userService.SavedMuscleGroupPage)
}
func (h *UserHandler) SavedWorkouts() gin.HandlerFunc { return savedPage(h.userService.SavedWorkoutPage) }
