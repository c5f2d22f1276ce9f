package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/metrics"
	"spartanfitness/api/internal/service"
)

// Services bundles what the handlers call. Uploads may be nil when object
// storage is not configured; the upload routes are then not registered.
type Services struct {
	Auth         service.AuthService
	Exercises    service.ExerciseService
	MuscleGroups service.MuscleGroupService
	Muscles      service.MuscleService
	Workouts     service.WorkoutService
	Coaches      service.CoachService
	Applications service.CoachApplicationService
	Users        service.UserService
	Uploads      service.UploadService
}

// NewRouter returns a gin engine with recovery, request logging and metrics installed.
func NewRouter(log logrus.FieldLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), metrics.Middleware())
	return router
}

// SetupRoutes registers every endpoint. authLimiter may be nil to disable
// rate limiting of the auth endpoints.
func SetupRoutes(router *gin.Engine, tokens *service.TokenManager, authLimiter *RateLimiter, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	exerciseHandler := NewExerciseHandler(svc.Exercises)
	muscleHandler := NewMuscleHandler(svc.MuscleGroups, svc.Muscles)
	workoutHandler := NewWorkoutHandler(svc.Workouts)
	coachHandler := NewCoachHandler(svc.Coaches, svc.Applications)
	userHandler := NewUserHandler(svc.Users)

	authMiddleware := AuthMiddleware(tokens)
	coachOnly := RoleMiddleware(domain.RoleCoach)
	adminOnly := RoleMiddleware(domain.RoleAdministrator)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	apiV1 := router.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	if authLimiter != nil {
		authGroup.Use(authLimiter.Middleware())
	}
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/confirm-email", authHandler.ConfirmEmail)
		authGroup.POST("/password-reset/request", authHandler.RequestPasswordReset)
		authGroup.POST("/password-reset", authHandler.ResetPassword)
	}

	// Catalogue reads are public.
	apiV1.GET("/exercises/page", exerciseHandler.GetPage)
	apiV1.GET("/exercises/:exerciseId", exerciseHandler.Get)
	apiV1.GET("/muscle-groups/page", muscleHandler.GetGroupPage)
	apiV1.GET("/muscle-groups/:muscleGroupId", muscleHandler.GetGroup)
	apiV1.GET("/muscles/page", muscleHandler.GetMusclePage)
	apiV1.GET("/muscles/:muscleId", muscleHandler.GetMuscle)
	apiV1.GET("/coaches/all/workouts/page", workoutHandler.GetAllPage)
	apiV1.GET("/coaches/:coachId", coachHandler.Get)
	apiV1.GET("/coaches/:coachId/workouts/page", workoutHandler.GetCoachPage)
	apiV1.GET("/coaches/:coachId/workouts/:workoutId", workoutHandler.Get)

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me(svc.Users))

		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", coachOnly, exerciseHandler.Create)
			// Administrators may edit and delete too; ownership is checked by the service.
			exerciseGroup.PUT("/:exerciseId", exerciseHandler.Update)
			exerciseGroup.DELETE("/:exerciseId", exerciseHandler.Delete)
		}

		muscleGroupGroup := protected.Group("/muscle-groups")
		{
			muscleGroupGroup.POST("", coachOnly, muscleHandler.CreateGroup)
			muscleGroupGroup.PUT("/:muscleGroupId", muscleHandler.UpdateGroup)
			muscleGroupGroup.DELETE("/:muscleGroupId", muscleHandler.DeleteGroup)
		}

		muscleGroup := protected.Group("/muscles")
		{
			muscleGroup.POST("", coachOnly, muscleHandler.CreateMuscle)
			muscleGroup.PUT("/:muscleId", muscleHandler.UpdateMuscle)
			muscleGroup.DELETE("/:muscleId", muscleHandler.DeleteMuscle)
		}

		coachGroup := protected.Group("/coaches/:coachId")
		{
			coachGroup.PUT("", coachHandler.Update)
			coachGroup.POST("/workouts", coachOnly, workoutHandler.Create)
			coachGroup.PUT("/workouts/:workoutId", workoutHandler.Update)
			coachGroup.DELETE("/workouts/:workoutId", workoutHandler.Delete)
		}

		applicationGroup := protected.Group("/coach-applications")
		{
			applicationGroup.POST("", coachHandler.Apply)
			applicationGroup.GET("/pending", adminOnly, coachHandler.ListPending)
			applicationGroup.POST("/:applicationId/approve", adminOnly, coachHandler.Approve)
			applicationGroup.POST("/:applicationId/deny", adminOnly, coachHandler.Deny)
		}

		userGroup := protected.Group("/users/:userId")
		{
			userGroup.GET("", userHandler.Get)

			saved := userGroup.Group("/saved")
			saved.PATCH("/exercises/add", userHandler.SaveExercise())
			saved.PATCH("/exercises/remove", userHandler.UnsaveExercise())
			saved.GET("/exercises/page", userHandler.SavedExercises())
			saved.PATCH("/muscles/add", userHandler.SaveMuscle())
			saved.PATCH("/muscles/remove", userHandler.UnsaveMuscle())
			saved.GET("/muscles/page", userHandler.SavedMuscles())
			saved.PATCH("/muscle-groups/add", userHandler.SaveMuscleGroups())
			saved.PATCH("/muscle-groups/remove", userHandler.UnsaveMuscleGroup())
			saved.GET("/muscle-groups/page", userHandler.SavedMuscleGroups())
			saved.PATCH("/workouts/add", userHandler.SaveWorkout())
			saved.PATCH("/workouts/remove", userHandler.UnsaveWorkout())
			saved.GET("/workouts/page", userHandler.SavedWorkouts())
		}

		if svc.Uploads != nil {
			uploadHandler := NewUploadHandler(svc.Uploads)
			protected.POST("/uploads/images", uploadHandler.RequestImageUpload)
			protected.GET("/uploads", uploadHandler.ListMine)
			protected.GET("/uploads/:uploadId/download", uploadHandler.DownloadURL)
			protected.DELETE("/uploads/:uploadId", uploadHandler.Delete)
		}
	}
}
