package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/repository"
)

// mongoWorkoutRepository implements repository.WorkoutRepository.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
	users      *mongo.Collection
}

// NewMongoWorkoutRepository creates a new workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutsCollection),
		users:      db.Collection(usersCollection),
	}
}

// Create inserts a new workout document, line items included.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	_, err := r.collection.InsertOne(ctx, workout)
	return mapErr(err)
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id domain.WorkoutID) (*domain.Workout, error) {
	return findOne[domain.Workout](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoWorkoutRepository) GetByIDs(ctx context.Context, ids []domain.WorkoutID, query string) ([]domain.Workout, error) {
	if len(ids) == 0 {
		return []domain.Workout{}, nil
	}
	return findAll[domain.Workout](ctx, r.collection, withIDs(searchFilter(query), ids), byName())
}

func (r *mongoWorkoutRepository) GetBySearchQuery(ctx context.Context, query string) ([]domain.Workout, error) {
	return findAll[domain.Workout](ctx, r.collection, searchFilter(query), byName())
}

// GetByCoachID retrieves the coach's workouts, newest first.
func (r *mongoWorkoutRepository) GetByCoachID(ctx context.Context, coachID domain.CoachID) ([]domain.Workout, error) {
	return findAll[domain.Workout](ctx, r.collection, bson.M{"coachId": coachID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *mongoWorkoutRepository) GetByExerciseID(ctx context.Context, exerciseID domain.ExerciseID) ([]domain.Workout, error) {
	return findAll[domain.Workout](ctx, r.collection, bson.M{"workoutExercises.exerciseId": exerciseID})
}

func (r *mongoWorkoutRepository) GetSubscribers(ctx context.Context, ids []domain.WorkoutID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	return findAll[domain.User](ctx, r.users, bson.M{"savedWorkoutIds": bson.M{"$in": ids}})
}

// Update replaces the editable parts of a workout. The owning coach is never changed.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	update := bson.M{
		"$set": bson.M{
			"name":             workout.Name,
			"description":      workout.Description,
			"image":            workout.Image,
			"muscleGroupIds":   workout.MuscleGroupIDs,
			"workoutExercises": workout.WorkoutExercises,
			"updatedAt":        workout.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": workout.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutRepository) Delete(ctx context.Context, id domain.WorkoutID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return pullFrom(ctx, r.users, "savedWorkoutIds", id)
}

// EnsureWorkoutIndexes creates necessary indexes for the workouts collection.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "coachId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "workoutExercises.exerciseId", Value: 1}}},
		{Keys: bson.D{{Key: "muscleGroupIds", Value: 1}}},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
