package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"spartanfitness/api/internal/api"
	"spartanfitness/api/internal/config"
	"spartanfitness/api/internal/events"
	"spartanfitness/api/internal/jobs"
	"spartanfitness/api/internal/logger"
	"spartanfitness/api/internal/notify"
	"spartanfitness/api/internal/repository"
	"spartanfitness/api/internal/repository/cache"
	"spartanfitness/api/internal/repository/memory"
	"spartanfitness/api/internal/repository/mongo"
	"spartanfitness/api/internal/service"
	"spartanfitness/api/internal/storage"
	"spartanfitness/api/internal/telemetry"
)

// repositories is the full set of stores the services depend on.
type repositories struct {
	users             repository.UserRepository
	exercises         repository.ExerciseRepository
	muscleGroups      repository.MuscleGroupRepository
	muscles           repository.MuscleRepository
	workouts          repository.WorkoutRepository
	coaches           repository.CoachRepository
	administrators    repository.AdministratorRepository
	coachApplications repository.CoachApplicationRepository
	resetTokens       repository.PasswordResetTokenRepository
	uploads           repository.UploadRepository
}

func mongoRepositories(db *mongodriver.Database) repositories {
	return repositories{
		users:             mongo.NewMongoUserRepository(db),
		exercises:         mongo.NewMongoExerciseRepository(db),
		muscleGroups:      mongo.NewMongoMuscleGroupRepository(db),
		muscles:           mongo.NewMongoMuscleRepository(db),
		workouts:          mongo.NewMongoWorkoutRepository(db),
		coaches:           mongo.NewMongoCoachRepository(db),
		administrators:    mongo.NewMongoAdministratorRepository(db),
		coachApplications: mongo.NewMongoCoachApplicationRepository(db),
		resetTokens:       mongo.NewMongoPasswordResetTokenRepository(db),
		uploads:           mongo.NewMongoUploadRepository(db),
	}
}

func memoryRepositories(store *memory.Store) repositories {
	return repositories{
		users:             store.Users(),
		exercises:         store.Exercises(),
		muscleGroups:      store.MuscleGroups(),
		muscles:           store.Muscles(),
		workouts:          store.Workouts(),
		coaches:           store.Coaches(),
		administrators:    store.Administrators(),
		coachApplications: store.CoachApplications(),
		resetTokens:       store.PasswordResetTokens(),
		uploads:           store.Uploads(),
	}
}

// @title Spartan Fitness API
// @version 1.0
// @description Exercises, muscles, workouts and coaching.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info("starting Spartan Fitness API")
	gin.SetMode(cfg.Server.Mode)

	ctx := context.Background()

	// --- Tracing ---
	tp, err := telemetry.Initialize(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Environment:    cfg.Telemetry.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		OTLPHeaders:    cfg.Telemetry.OTLPHeaders,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("could not initialize tracing")
	}

	// --- Database ---
	var repos repositories
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Warn("using the in-memory store; data is lost on restart")
		repos = memoryRepositories(memory.NewStore())
	default:
		client, err := mongo.ConnectDB(ctx, cfg.Database.URI, cfg.Telemetry.Enabled)
		if err != nil {
			log.WithError(err).Fatal("could not connect to MongoDB")
		}
		defer func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.WithError(err).Error("failed to disconnect MongoDB")
			}
		}()
		db := client.Database(cfg.Database.Name)

		indexCtx, cancel := context.WithTimeout(ctx, time.Minute)
		if err := mongo.EnsureIndexes(indexCtx, db); err != nil {
			log.WithError(err).Fatal("could not create indexes")
		}
		cancel()
		log.WithField("database", cfg.Database.Name).Info("database connection established")
		repos = mongoRepositories(db)
	}

	// --- Cache ---
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("could not reach Redis")
		}
		defer rdb.Close()

		c := cache.New(rdb, cfg.Redis.TTL, log)
		repos.exercises = cache.NewExerciseRepository(repos.exercises, c)
		repos.workouts = cache.NewWorkoutRepository(repos.workouts, c)
		repos.muscleGroups = cache.NewMuscleGroupRepository(repos.muscleGroups, c)
		repos.muscles = cache.NewMuscleRepository(repos.muscles, c)
		log.WithField("addr", cfg.Redis.Addr).Info("redis cache enabled")
	}

	// --- Services ---
	email := notify.NewLogProvider(log, cfg.Email.From)
	tokens := service.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration, cfg.JWT.ConfirmationExpiration)

	dispatcher := events.NewDispatcher(log)
	service.RegisterHandlers(dispatcher,
		service.NewExerciseDeletedHandler(repos.users, repos.coaches, repos.exercises, repos.workouts, email, log),
		service.NewCoachApplicationHandler(repos.users, repos.coaches, email, log),
	)

	services := api.Services{
		Auth: service.NewAuthService(repos.users, repos.coaches, repos.administrators, repos.resetTokens, tokens, email,
			service.AuthConfig{FrontendBaseURL: cfg.Frontend.BaseURL, ResetTokenTTL: cfg.PasswordReset.TokenTTL}, log),
		Exercises:    service.NewExerciseService(repos.exercises, repos.muscles, repos.muscleGroups, dispatcher, log),
		MuscleGroups: service.NewMuscleGroupService(repos.muscleGroups, log),
		Muscles:      service.NewMuscleService(repos.muscles, repos.muscleGroups, log),
		Workouts:     service.NewWorkoutService(repos.workouts, repos.exercises, repos.coaches, log),
		Coaches:      service.NewCoachService(repos.coaches, repos.users),
		Applications: service.NewCoachApplicationService(repos.coachApplications, repos.coaches, dispatcher, log),
		Users:        service.NewUserService(repos.users, repos.exercises, repos.muscles, repos.muscleGroups, repos.workouts),
	}

	// --- Storage ---
	if cfg.S3.BucketName != "" {
		fileStorage, err := storage.NewS3Storage(ctx, cfg.S3, log)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize S3 storage")
		}
		services.Uploads = service.NewUploadService(repos.uploads, fileStorage, log)
	} else {
		log.Warn("s3.bucket_name is empty; image uploads are disabled")
	}

	// --- Jobs ---
	scheduler, err := jobs.NewScheduler(cfg.Jobs.CleanupSchedule, jobs.NewTokenCleanup(repos.resetTokens, log), log)
	if err != nil {
		log.WithError(err).Fatal("could not schedule jobs")
	}
	scheduler.Start()

	// --- HTTP ---
	var limiter *api.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = api.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
	}
	router := api.NewRouter(log)
	api.SetupRoutes(router, tokens, limiter, services)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.WithField("address", cfg.Server.Address).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("ListenAndServe failed")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	scheduler.Stop(shutdownCtx)
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("tracing shutdown failed")
	}

	log.Info("server exiting")
}
