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

type mongoPasswordResetTokenRepository struct {
	collection *mongo.Collection
}

func NewMongoPasswordResetTokenRepository(db *mongo.Database) repository.PasswordResetTokenRepository {
	return &mongoPasswordResetTokenRepository{collection: db.Collection(passwordResetTokenCollection)}
}

func (r *mongoPasswordResetTokenRepository) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	_, err := r.collection.InsertOne(ctx, token)
	return mapErr(err)
}

func (r *mongoPasswordResetTokenRepository) GetByValue(ctx context.Context, value string) (*domain.PasswordResetToken, error) {
	return findOne[domain.PasswordResetToken](ctx, r.collection, bson.M{"value": value})
}

func (r *mongoPasswordResetTokenRepository) InvalidateForUser(ctx context.Context, userID domain.UserID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"userId": userID, "used": false, "invalidated": false},
		bson.M{"$set": bson.M{"invalidated": true}},
	)
	return err
}

func (r *mongoPasswordResetTokenRepository) Update(ctx context.Context, token *domain.PasswordResetToken) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": token.ID},
		bson.M{"$set": bson.M{"used": token.Used, "invalidated": token.Invalidated}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPasswordResetTokenRepository) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"used": true},
		bson.M{"invalidated": true},
		bson.M{"expiresAt": bson.M{"$lt": now}},
	}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func EnsurePasswordResetTokenIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "value", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
