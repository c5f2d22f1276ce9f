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

type mongoMuscleGroupRepository struct {
	collection *mongo.Collection
	muscles    *mongo.Collection
	exercises  *mongo.Collection
	workouts   *mongo.Collection
	users      *mongo.Collection
}

func NewMongoMuscleGroupRepository(db *mongo.Database) repository.MuscleGroupRepository {
	return &mongoMuscleGroupRepository{
		collection: db.Collection(muscleGroupsCollection),
		muscles:    db.Collection(musclesCollection),
		exercises:  db.Collection(exercisesCollection),
		workouts:   db.Collection(workoutsCollection),
		users:      db.Collection(usersCollection),
	}
}

func (r *mongoMuscleGroupRepository) Create(ctx context.Context, group *domain.MuscleGroup) error {
	_, err := r.collection.InsertOne(ctx, group)
	return mapErr(err)
}

func (r *mongoMuscleGroupRepository) GetByID(ctx context.Context, id domain.MuscleGroupID) (*domain.MuscleGroup, error) {
	return findOne[domain.MuscleGroup](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoMuscleGroupRepository) GetByName(ctx context.Context, name string) (*domain.MuscleGroup, error) {
	return findOne[domain.MuscleGroup](ctx, r.collection, bson.M{"name": name},
		options.FindOne().SetCollation(caseInsensitive))
}

func (r *mongoMuscleGroupRepository) GetByIDs(ctx context.Context, ids []domain.MuscleGroupID, query string) ([]domain.MuscleGroup, error) {
	if len(ids) == 0 {
		return []domain.MuscleGroup{}, nil
	}
	return findAll[domain.MuscleGroup](ctx, r.collection, withIDs(searchFilter(query), ids), byName())
}

func (r *mongoMuscleGroupRepository) GetBySearchQuery(ctx context.Context, query string) ([]domain.MuscleGroup, error) {
	return findAll[domain.MuscleGroup](ctx, r.collection, searchFilter(query), byName())
}

func (r *mongoMuscleGroupRepository) Update(ctx context.Context, group *domain.MuscleGroup) error {
	update := bson.M{
		"$set": bson.M{
			"name":        group.Name,
			"description": group.Description,
			"image":       group.Image,
			"muscleIds":   group.MuscleIDs,
			"updatedAt":   group.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": group.ID}, update)
	if err != nil {
		return mapErr(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the group and its muscles, then pulls every removed id from referencing documents.
func (r *mongoMuscleGroupRepository) Delete(ctx context.Context, id domain.MuscleGroupID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}

	muscles, err := findAll[domain.Muscle](ctx, r.muscles, bson.M{"muscleGroupId": id})
	if err != nil {
		return err
	}
	muscleIDs := make([]domain.MuscleID, len(muscles))
	for i, m := range muscles {
		muscleIDs[i] = m.ID
	}
	if len(muscleIDs) > 0 {
		if _, err := r.muscles.DeleteMany(ctx, bson.M{"muscleGroupId": id}); err != nil {
			return err
		}
		if err := pullFrom(ctx, r.exercises, "muscleIds", muscleIDs...); err != nil {
			return err
		}
		if err := pullFrom(ctx, r.users, "savedMuscleIds", muscleIDs...); err != nil {
			return err
		}
	}

	if err := pullFrom(ctx, r.exercises, "muscleGroupIds", id); err != nil {
		return err
	}
	if err := pullFrom(ctx, r.workouts, "muscleGroupIds", id); err != nil {
		return err
	}
	return pullFrom(ctx, r.users, "savedMuscleGroupIds", id)
}

type mongoMuscleRepository struct {
	collection *mongo.Collection
	groups     *mongo.Collection
	exercises  *mongo.Collection
	users      *mongo.Collection
}

func NewMongoMuscleRepository(db *mongo.Database) repository.MuscleRepository {
	return &mongoMuscleRepository{
		collection: db.Collection(musclesCollection),
		groups:     db.Collection(muscleGroupsCollection),
		exercises:  db.Collection(exercisesCollection),
		users:      db.Collection(usersCollection),
	}
}

func (r *mongoMuscleRepository) Create(ctx context.Context, muscle *domain.Muscle) error {
	_, err := r.collection.InsertOne(ctx, muscle)
	return mapErr(err)
}

func (r *mongoMuscleRepository) GetByID(ctx context.Context, id domain.MuscleID) (*domain.Muscle, error) {
	return findOne[domain.Muscle](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoMuscleRepository) GetByName(ctx context.Context, name string) (*domain.Muscle, error) {
	return findOne[domain.Muscle](ctx, r.collection, bson.M{"name": name},
		options.FindOne().SetCollation(caseInsensitive))
}

func (r *mongoMuscleRepository) GetByIDs(ctx context.Context, ids []domain.MuscleID, query string) ([]domain.Muscle, error) {
	if len(ids) == 0 {
		return []domain.Muscle{}, nil
	}
	return findAll[domain.Muscle](ctx, r.collection, withIDs(searchFilter(query), ids), byName())
}

func (r *mongoMuscleRepository) GetBySearchQuery(ctx context.Context, query string) ([]domain.Muscle, error) {
	return findAll[domain.Muscle](ctx, r.collection, searchFilter(query), byName())
}

func (r *mongoMuscleRepository) GetByMuscleGroupID(ctx context.Context, groupID domain.MuscleGroupID) ([]domain.Muscle, error) {
	return findAll[domain.Muscle](ctx, r.collection, bson.M{"muscleGroupId": groupID}, byName())
}

func (r *mongoMuscleRepository) Update(ctx context.Context, muscle *domain.Muscle) error {
	update := bson.M{
		"$set": bson.M{
			"muscleGroupId": muscle.MuscleGroupID,
			"name":          muscle.Name,
			"description":   muscle.Description,
			"image":         muscle.Image,
			"updatedAt":     muscle.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": muscle.ID}, update)
	if err != nil {
		return mapErr(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoMuscleRepository) Delete(ctx context.Context, id domain.MuscleID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}

	if err := pullFrom(ctx, r.groups, "muscleIds", id); err != nil {
		return err
	}
	if err := pullFrom(ctx, r.exercises, "muscleIds", id); err != nil {
		return err
	}
	return pullFrom(ctx, r.users, "savedMuscleIds", id)
}

// pullFrom removes ids from an array field of every document in coll that holds them.
func pullFrom[T any](ctx context.Context, coll *mongo.Collection, field string, ids ...T) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := coll.UpdateMany(ctx,
		bson.M{field: bson.M{"$in": ids}},
		bson.M{
			"$pull": bson.M{field: bson.M{"$in": ids}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	return err
}

func EnsureMuscleGroupIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetCollation(caseInsensitive),
	})
	return err
}

func EnsureMuscleIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(caseInsensitive),
		},
		{Keys: bson.D{{Key: "muscleGroupId", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
