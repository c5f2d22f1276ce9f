package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/repository"
)

type mongoCoachRepository struct {
	collection *mongo.Collection
}

func NewMongoCoachRepository(db *mongo.Database) repository.CoachRepository {
	return &mongoCoachRepository{collection: db.Collection(coachesCollection)}
}

// Create inserts a coach profile. A user can own at most one.
func (r *mongoCoachRepository) Create(ctx context.Context, coach *domain.Coach) error {
	_, err := r.collection.InsertOne(ctx, coach)
	return mapErr(err)
}

func (r *mongoCoachRepository) GetByID(ctx context.Context, id domain.CoachID) (*domain.Coach, error) {
	return findOne[domain.Coach](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoCoachRepository) GetByUserID(ctx context.Context, userID domain.UserID) (*domain.Coach, error) {
	return findOne[domain.Coach](ctx, r.collection, bson.M{"userId": userID})
}

func (r *mongoCoachRepository) Update(ctx context.Context, coach *domain.Coach) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": coach.ID},
		bson.M{"$set": bson.M{"biography": coach.Biography, "updatedAt": coach.UpdatedAt}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func EnsureCoachIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type mongoAdministratorRepository struct {
	collection *mongo.Collection
}

func NewMongoAdministratorRepository(db *mongo.Database) repository.AdministratorRepository {
	return &mongoAdministratorRepository{collection: db.Collection(administratorsCollection)}
}

func (r *mongoAdministratorRepository) Create(ctx context.Context, admin *domain.Administrator) error {
	_, err := r.collection.InsertOne(ctx, admin)
	return mapErr(err)
}

func (r *mongoAdministratorRepository) GetByUserID(ctx context.Context, userID domain.UserID) (*domain.Administrator, error) {
	return findOne[domain.Administrator](ctx, r.collection, bson.M{"userId": userID})
}

func EnsureAdministratorIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
