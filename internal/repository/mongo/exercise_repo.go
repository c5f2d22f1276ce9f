package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/repository"
)

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
	users      *mongo.Collection
	workouts   *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exercisesCollection),
		users:      db.Collection(usersCollection),
		workouts:   db.Collection(workoutsCollection),
	}
}

func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	_, err := r.collection.InsertOne(ctx, exercise)
	return mapErr(err)
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id domain.ExerciseID) (*domain.Exercise, error) {
	return findOne[domain.Exercise](ctx, r.collection, bson.M{"_id": id})
}

// GetByName matches the name case-insensitively.
func (r *mongoExerciseRepository) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	return findOne[domain.Exercise](ctx, r.collection, bson.M{"name": name},
		options.FindOne().SetCollation(caseInsensitive))
}

func (r *mongoExerciseRepository) GetByIDs(ctx context.Context, ids []domain.ExerciseID, query string) ([]domain.Exercise, error) {
	if len(ids) == 0 {
		return []domain.Exercise{}, nil
	}
	return findAll[domain.Exercise](ctx, r.collection, withIDs(searchFilter(query), ids), byName())
}

func (r *mongoExerciseRepository) GetBySearchQuery(ctx context.Context, query string) ([]domain.Exercise, error) {
	return findAll[domain.Exercise](ctx, r.collection, searchFilter(query), byName())
}

func (r *mongoExerciseRepository) GetSubscribers(ctx context.Context, id domain.ExerciseID) ([]domain.User, error) {
	return findAll[domain.User](ctx, r.users, bson.M{"savedExerciseIds": id})
}

// Update modifies an existing exercise. The creator is never changed.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	update := bson.M{
		"$set": bson.M{
			"name":           exercise.Name,
			"description":    exercise.Description,
			"image":          exercise.Image,
			"video":          exercise.Video,
			"muscleIds":      exercise.MuscleIDs,
			"muscleGroupIds": exercise.MuscleGroupIDs,
			"updatedAt":      exercise.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": exercise.ID}, update)
	if err != nil {
		return mapErr(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the exercise, then cleans up saved sets and workout line items.
func (r *mongoExerciseRepository) Delete(ctx context.Context, id domain.ExerciseID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}

	if err := pullFrom(ctx, r.users, "savedExerciseIds", id); err != nil {
		return err
	}

	_, err = r.workouts.UpdateMany(ctx,
		bson.M{"workoutExercises.exerciseId": id},
		bson.M{
			"$pull": bson.M{"workoutExercises": bson.M{"exerciseId": id}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	return err
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(caseInsensitive),
		},
		{Keys: bson.D{{Key: "creatorId", Value: 1}}},
		{Keys: bson.D{{Key: "muscleGroupIds", Value: 1}}},
		{Keys: bson.D{{Key: "muscleIds", Value: 1}}},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
