package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/repository"
)

type fakeExercises struct {
	repository.ExerciseRepository
	items map[domain.ExerciseID]*domain.Exercise
	reads int
}

func (f *fakeExercises) GetByID(_ context.Context, id domain.ExerciseID) (*domain.Exercise, error) {
	f.reads++
	e, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeExercises) Update(_ context.Context, e *domain.Exercise) error {
	f.items[e.ID] = e
	return nil
}

func (f *fakeExercises) Delete(_ context.Context, id domain.ExerciseID) error {
	delete(f.items, id)
	return nil
}

type fakeWorkouts struct {
	repository.WorkoutRepository
	items map[domain.WorkoutID]*domain.Workout
	reads int
}

func (f *fakeWorkouts) GetByID(_ context.Context, id domain.WorkoutID) (*domain.Workout, error) {
	f.reads++
	w, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

type fakeMuscleGroups struct {
	repository.MuscleGroupRepository
	items map[domain.MuscleGroupID]*domain.MuscleGroup
	reads int
}

func (f *fakeMuscleGroups) GetByID(_ context.Context, id domain.MuscleGroupID) (*domain.MuscleGroup, error) {
	f.reads++
	g, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeMuscleGroups) Update(_ context.Context, g *domain.MuscleGroup) error {
	f.items[g.ID] = g
	return nil
}

func (f *fakeMuscleGroups) Delete(_ context.Context, id domain.MuscleGroupID) error {
	delete(f.items, id)
	return nil
}

func setup(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	log, _ := logtest.NewNullLogger()
	return mr, New(client, time.Minute, log)
}

func TestCache_GetMiss(t *testing.T) {
	_, c := setup(t)
	var dest domain.Exercise
	assert.ErrorIs(t, c.Get(context.Background(), "missing", &dest), ErrCacheMiss)
}

func TestExerciseRepository_ReadThrough(t *testing.T) {
	mr, c := setup(t)
	ctx := context.Background()

	ex := domain.NewExercise(domain.NewID[domain.CoachKind](), "Squat", "legs", "", "",
		[]domain.MuscleID{domain.NewID[domain.MuscleKind]()}, nil)
	inner := &fakeExercises{items: map[domain.ExerciseID]*domain.Exercise{ex.ID: ex}}
	repo := NewExerciseRepository(inner, c)

	first, err := repo.GetByID(ctx, ex.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, ex.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.reads)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, ex.MuscleIDs, second.MuscleIDs)
	assert.True(t, mr.Exists(exerciseKeyPrefix+ex.ID.String()))

	mr.FastForward(2 * time.Minute)
	_, err = repo.GetByID(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.reads)
}

func TestExerciseRepository_NotFoundIsNotCached(t *testing.T) {
	mr, c := setup(t)
	repo := NewExerciseRepository(&fakeExercises{items: map[domain.ExerciseID]*domain.Exercise{}}, c)

	id := domain.NewID[domain.ExerciseKind]()
	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.False(t, mr.Exists(exerciseKeyPrefix+id.String()))
}

func TestExerciseRepository_WritesInvalidate(t *testing.T) {
	mr, c := setup(t)
	ctx := context.Background()

	ex := domain.NewExercise(domain.NewID[domain.CoachKind](), "Row", "", "", "", nil, nil)
	inner := &fakeExercises{items: map[domain.ExerciseID]*domain.Exercise{ex.ID: ex}}
	repo := NewExerciseRepository(inner, c)

	_, err := repo.GetByID(ctx, ex.ID)
	require.NoError(t, err)

	updated := *ex
	updated.SetName("Pendlay Row")
	require.NoError(t, repo.Update(ctx, &updated))
	assert.False(t, mr.Exists(exerciseKeyPrefix+ex.ID.String()))

	got, err := repo.GetByID(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pendlay Row", got.Name)

	require.NoError(t, mr.Set(workoutKeyPrefix+"a", "{}"))
	require.NoError(t, mr.Set(workoutKeyPrefix+"b", "{}"))
	require.NoError(t, repo.Delete(ctx, ex.ID))
	assert.False(t, mr.Exists(exerciseKeyPrefix+ex.ID.String()))
	assert.False(t, mr.Exists(workoutKeyPrefix+"a"))
	assert.False(t, mr.Exists(workoutKeyPrefix+"b"))
}

func TestWorkoutRepository_RedisDownFallsThrough(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	log, _ := logtest.NewNullLogger()
	c := New(client, time.Minute, log)
	ctx := context.Background()

	w := domain.NewWorkout(domain.NewID[domain.CoachKind](), "Legs", "", "", nil, []domain.WorkoutExercise{
		domain.NewWorkoutExercise(1, domain.NewID[domain.ExerciseKind](), 3, domain.RepRange{Min: 5, Max: 8}, domain.ExerciseTypeDropset),
	})
	inner := &fakeWorkouts{items: map[domain.WorkoutID]*domain.Workout{w.ID: w}}
	repo := NewWorkoutRepository(inner, c)

	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.WorkoutExercises, got.WorkoutExercises)
	assert.Equal(t, 1, inner.reads)
}

func TestMuscleGroupRepository_ReadThroughAndInvalidate(t *testing.T) {
	mr, c := setup(t)
	ctx := context.Background()

	g := domain.NewMuscleGroup(domain.NewID[domain.CoachKind](), "Legs", "", "")
	inner := &fakeMuscleGroups{items: map[domain.MuscleGroupID]*domain.MuscleGroup{g.ID: g}}
	repo := NewMuscleGroupRepository(inner, c)

	for i := 0; i < 3; i++ {
		got, err := repo.GetByID(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, "Legs", got.Name)
	}
	assert.Equal(t, 1, inner.reads)

	updated := *g
	updated.AddMuscle(domain.NewID[domain.MuscleKind]())
	require.NoError(t, repo.Update(ctx, &updated))
	assert.False(t, mr.Exists(muscleGroupKeyPrefix+g.ID.String()))

	got, err := repo.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, got.MuscleIDs, 1)

	require.NoError(t, mr.Set(muscleKeyPrefix+"a", "{}"))
	require.NoError(t, mr.Set(exerciseKeyPrefix+"b", "{}"))
	require.NoError(t, repo.Delete(ctx, g.ID))
	assert.False(t, mr.Exists(muscleGroupKeyPrefix+g.ID.String()))
	assert.False(t, mr.Exists(muscleKeyPrefix+"a"))
	assert.False(t, mr.Exists(exerciseKeyPrefix+"b"))
}

func TestExerciseRepository_InvalidationFailureIsLogged(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	log, hook := logtest.NewNullLogger()
	ctx := context.Background()

	ex := domain.NewExercise(domain.NewID[domain.CoachKind](), "Row", "", "", "", nil, nil)
	inner := &fakeExercises{items: map[domain.ExerciseID]*domain.Exercise{ex.ID: ex}}
	repo := NewExerciseRepository(inner, New(client, time.Minute, log))

	require.NoError(t, repo.Update(ctx, ex), "the store write still succeeds")
	require.NoError(t, repo.Delete(ctx, ex.ID))

	var warnings int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "cache invalidation failed" {
			warnings++
		}
	}
	assert.Equal(t, 3, warnings, "update key, delete key, workout prefix")
}
