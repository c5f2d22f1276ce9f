package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/events"
	"spartanfitness/api/internal/paging"
	"spartanfitness/api/internal/repository"
)

func TestExerciseService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, coach := env.coach(t, "Carl", "Coach", "carl@example.com")
	_, plain := env.user(t, "Una", "User", "una@example.com")

	group, err := env.muscleGroups.Create(ctx, coach, MuscleGroupCommand{Name: "Back"})
	require.NoError(t, err)
	muscle, err := env.muscles.Create(ctx, coach, MuscleCommand{MuscleGroupID: group.ID.String(), Name: "Lats"})
	require.NoError(t, err)

	valid := ExerciseCommand{
		Name:           "Pull-up",
		Description:    "Hang and pull",
		Image:          "https://img.example.com/pullup.png",
		Video:          "https://video.example.com/pullup.mp4",
		MuscleIDs:      []string{muscle.ID.String()},
		MuscleGroupIDs: []string{group.ID.String()},
	}

	tests := []struct {
		name    string
		caller  Principal
		mutate  func(*ExerciseCommand)
		wantErr error
		kind    domain.ErrorKind
	}{
		{name: "plain user", caller: plain, wantErr: domain.ErrAccessDenied},
		{name: "missing name", caller: coach, mutate: func(c *ExerciseCommand) { c.Name = "" }, kind: domain.KindValidation},
		{name: "duplicate muscle ids", caller: coach, mutate: func(c *ExerciseCommand) {
			c.MuscleIDs = []string{muscle.ID.String(), muscle.ID.String()}
		}, kind: domain.KindValidation},
		{name: "unknown muscle", caller: coach, mutate: func(c *ExerciseCommand) {
			c.MuscleIDs = []string{domain.NewID[domain.MuscleKind]().String()}
		}, wantErr: domain.ErrMuscleNotFound},
		{name: "unknown muscle group", caller: coach, mutate: func(c *ExerciseCommand) {
			c.MuscleGroupIDs = []string{domain.NewID[domain.MuscleGroupKind]().String()}
		}, wantErr: domain.ErrMuscleGroupNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := valid
			if tt.mutate != nil {
				tt.mutate(&cmd)
			}
			_, err := env.exercises.Create(ctx, tt.caller, cmd)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.Equal(t, tt.kind, domain.KindOf(err))
			}
		})
	}

	ex, err := env.exercises.Create(ctx, coach, valid)
	require.NoError(t, err)
	assert.Equal(t, *coach.CoachID, ex.CreatorID)
	assert.Equal(t, []domain.MuscleID{muscle.ID}, ex.MuscleIDs)

	dup := valid
	dup.Name = "PULL-UP"
	_, err = env.exercises.Create(ctx, coach, dup)
	assert.ErrorIs(t, err, domain.ErrDuplicateExerciseName)
}

func TestExerciseService_UpdateAndDeletePermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, creator := env.coach(t, "Carl", "Creator", "carl@example.com")
	_, _, rival := env.coach(t, "Rita", "Rival", "rita@example.com")
	admin := env.admin(t)

	ex := env.exercise(t, creator, "Squat")
	cmd := ExerciseCommand{Name: "Back squat", Description: "d", Image: "i", Video: "v"}

	_, err := env.exercises.Update(ctx, rival, ex.ID, cmd)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	updated, err := env.exercises.Update(ctx, admin, ex.ID, cmd)
	require.NoError(t, err)
	assert.Equal(t, "Back squat", updated.Name)
	assert.Equal(t, ex.CreatorID, updated.CreatorID)

	// Renaming to its own name in another case is not a conflict.
	cmd.Name = "BACK SQUAT"
	_, err = env.exercises.Update(ctx, creator, ex.ID, cmd)
	require.NoError(t, err)

	assert.ErrorIs(t, env.exercises.Delete(ctx, rival, ex.ID), domain.ErrAccessDenied)
	require.NoError(t, env.exercises.Delete(ctx, creator, ex.ID))

	_, err = env.exercises.Get(ctx, ex.ID)
	assert.ErrorIs(t, err, domain.ErrExerciseNotFound)
	assert.ErrorIs(t, env.exercises.Delete(ctx, creator, ex.ID), domain.ErrExerciseNotFound)
}

func TestExerciseService_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, coach := env.coach(t, "Carl", "Coach", "carl@example.com")
	u, saver := env.user(t, "Sam", "Saver", "sam@example.com")

	squat := env.exercise(t, coach, "Squat")
	lunge := env.exercise(t, coach, "Lunge")
	w, err := env.workouts.Create(ctx, coach, *coach.CoachID, WorkoutCommand{
		Name:             "Legs",
		WorkoutExercises: []WorkoutExerciseCommand{lineItem(1, squat.ID), lineItem(2, lunge.ID)},
	})
	require.NoError(t, err)
	_, err = env.users.SaveExercise(ctx, saver, u.ID, SaveExerciseCommand{ExerciseID: squat.ID.String()})
	require.NoError(t, err)

	require.NoError(t, env.exercises.Delete(ctx, coach, squat.ID))

	got, err := env.workouts.Get(ctx, *coach.CoachID, w.ID)
	require.NoError(t, err)
	require.Len(t, got.WorkoutExercises, 1)
	assert.Equal(t, lunge.ID, got.WorkoutExercises[0].ExerciseID)

	user, err := env.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, user.SavedExerciseIDs)
}

type unavailableExercises struct {
	repository.ExerciseRepository
}

func (unavailableExercises) Delete(context.Context, domain.ExerciseID) error {
	return errors.New("server selection timeout")
}

func TestExerciseService_DeleteFailureAfterNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	log := discardLogger()
	_, _, coach := env.coach(t, "Carl", "Coach", "carl@example.com")
	u, saver := env.user(t, "Sam", "Saver", "sam@example.com")

	squat := env.exercise(t, coach, "Squat")
	_, err := env.users.SaveExercise(ctx, saver, u.ID, SaveExerciseCommand{ExerciseID: squat.ID.String()})
	require.NoError(t, err)

	dispatcher := events.NewDispatcher(log)
	dispatcher.Register(domain.EventExerciseDeleted,
		NewExerciseDeletedHandler(env.store.Users(), env.store.Coaches(), env.store.Exercises(), env.store.Workouts(), env.email, log))
	exercises := unavailableExercises{ExerciseRepository: env.store.Exercises()}
	svc := NewExerciseService(exercises, env.store.Muscles(), env.store.MuscleGroups(), dispatcher, log)

	err = svc.Delete(ctx, coach, squat.ID)
	assert.ErrorContains(t, err, "server selection timeout")

	sent := env.email.all()
	require.Len(t, sent, 1, "the notification is not rolled back")
	assert.Contains(t, sent[0].recipients, "sam@example.com")

	_, err = env.exercises.Get(ctx, squat.ID)
	assert.NoError(t, err, "the exercise still exists")
}

func TestExerciseService_GetPage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, coach := env.coach(t, "Carl", "Coach", "carl@example.com")
	for _, name := range []string{"Bench press", "Incline bench", "Squat"} {
		env.exercise(t, coach, name)
	}

	size := 1
	page, err := env.exercises.GetPage(ctx, paging.Query{PageSize: &size, Sort: paging.SortName, Order: paging.OrderAsc, Search: "bench"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.PageCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Bench press", page.Items[0].Name)

	number := 3
	_, err = env.exercises.GetPage(ctx, paging.Query{PageSize: &size, PageNumber: &number, Search: "bench"})
	assert.ErrorIs(t, err, domain.ErrPageNotFound)
}
