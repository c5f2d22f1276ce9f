package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/events"
	"spartanfitness/api/internal/repository/memory"
)

type sentEmail struct {
	recipients []string
	subject    string
	body       string
}

type recordingProvider struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (p *recordingProvider) Send(_ context.Context, recipients []string, subject, body string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentEmail{recipients: append([]string(nil), recipients...), subject: subject, body: body})
	return nil
}

func (p *recordingProvider) all() []sentEmail {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sentEmail(nil), p.sent...)
}

// testEnv wires every service over one in-memory store.
type testEnv struct {
	store  *memory.Store
	email  *recordingProvider
	tokens *TokenManager

	auth         AuthService
	exercises    ExerciseService
	muscleGroups MuscleGroupService
	muscles      MuscleService
	workouts     WorkoutService
	coaches      CoachService
	applications CoachApplicationService
	users        UserService
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := discardLogger()

	store := memory.NewStore()
	email := &recordingProvider{}
	tokens := NewTokenManager("test-secret", "spartan-test", time.Hour, time.Hour)

	dispatcher := events.NewDispatcher(log)
	RegisterHandlers(dispatcher,
		NewExerciseDeletedHandler(store.Users(), store.Coaches(), store.Exercises(), store.Workouts(), email, log),
		NewCoachApplicationHandler(store.Users(), store.Coaches(), email, log),
	)

	auth := NewAuthService(store.Users(), store.Coaches(), store.Administrators(), store.PasswordResetTokens(),
		tokens, email, AuthConfig{FrontendBaseURL: "https://app.example.com/", ResetTokenTTL: time.Hour}, log)
	auth.(*authService).hashPasswd = func(p []byte, _ int) ([]byte, error) {
		return bcrypt.GenerateFromPassword(p, bcrypt.MinCost)
	}

	return &testEnv{
		store:        store,
		email:        email,
		tokens:       tokens,
		auth:         auth,
		exercises:    NewExerciseService(store.Exercises(), store.Muscles(), store.MuscleGroups(), dispatcher, log),
		muscleGroups: NewMuscleGroupService(store.MuscleGroups(), log),
		muscles:      NewMuscleService(store.Muscles(), store.MuscleGroups(), log),
		workouts:     NewWorkoutService(store.Workouts(), store.Exercises(), store.Coaches(), log),
		coaches:      NewCoachService(store.Coaches(), store.Users()),
		applications: NewCoachApplicationService(store.CoachApplications(), store.Coaches(), dispatcher, log),
		users:        NewUserService(store.Users(), store.Exercises(), store.Muscles(), store.MuscleGroups(), store.Workouts()),
	}
}

func (e *testEnv) user(t *testing.T, first, last, email string) (*domain.User, Principal) {
	t.Helper()
	u := domain.NewUser(first, last, "", email, "x")
	require.NoError(t, e.store.Users().Create(context.Background(), u))
	return u, Principal{UserID: u.ID, Roles: u.Roles}
}

func (e *testEnv) coach(t *testing.T, first, last, email string) (*domain.User, *domain.Coach, Principal) {
	t.Helper()
	ctx := context.Background()
	u := domain.NewUser(first, last, "", email, "x")
	u.GrantRole(domain.RoleCoach)
	require.NoError(t, e.store.Users().Create(ctx, u))
	c := domain.NewCoach(u.ID, "")
	require.NoError(t, e.store.Coaches().Create(ctx, c))
	return u, c, Principal{UserID: u.ID, Roles: u.Roles, CoachID: &c.ID}
}

func (e *testEnv) admin(t *testing.T) Principal {
	t.Helper()
	ctx := context.Background()
	u := domain.NewUser("Ada", "Admin", "", "admin@example.com", "x")
	u.GrantRole(domain.RoleAdministrator)
	require.NoError(t, e.store.Users().Create(ctx, u))
	a := domain.NewAdministrator(u.ID)
	require.NoError(t, e.store.Administrators().Create(ctx, a))
	return Principal{UserID: u.ID, Roles: u.Roles, AdministratorID: &a.ID}
}

func (e *testEnv) exercise(t *testing.T, p Principal, name string) *domain.Exercise {
	t.Helper()
	ex, err := e.exercises.Create(context.Background(), p, ExerciseCommand{
		Name:        name,
		Description: name + " description",
		Image:       "https://img.example.com/" + name,
		Video:       "https://video.example.com/" + name,
	})
	require.NoError(t, err)
	return ex
}

func lineItem(order uint, exerciseID domain.ExerciseID) WorkoutExerciseCommand {
	return WorkoutExerciseCommand{
		OrderNumber:  order,
		ExerciseID:   exerciseID.String(),
		Sets:         3,
		MinReps:      8,
		MaxReps:      12,
		ExerciseType: string(domain.ExerciseTypeDefault),
	}
}
