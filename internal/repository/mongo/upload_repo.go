package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/repository"
)

// mongoUploadRepository implements repository.UploadRepository
type mongoUploadRepository struct {
	collection *mongo.Collection
}

// NewMongoUploadRepository creates a new Upload repository backed by MongoDB.
func NewMongoUploadRepository(db *mongo.Database) repository.UploadRepository {
	return &mongoUploadRepository{
		collection: db.Collection(uploadsCollection),
	}
}

// Create inserts new upload metadata into the database.
func (r *mongoUploadRepository) Create(ctx context.Context, upload *domain.Upload) error {
	_, err := r.collection.InsertOne(ctx, upload)
	return mapErr(err)
}

// GetByID retrieves upload metadata by its ID.
func (r *mongoUploadRepository) GetByID(ctx context.Context, id domain.UploadID) (*domain.Upload, error) {
	return findOne[domain.Upload](ctx, r.collection, bson.M{"_id": id})
}

// GetByOwnerID lists a user's uploads, latest first.
func (r *mongoUploadRepository) GetByOwnerID(ctx context.Context, ownerID domain.UserID) ([]domain.Upload, error) {
	return findAll[domain.Upload](ctx, r.collection, bson.M{"ownerId": ownerID},
		options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}}))
}

func (r *mongoUploadRepository) Delete(ctx context.Context, id domain.UploadID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureUploadIndexes creates necessary indexes for the uploads collection.
func EnsureUploadIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "uploadedAt", Value: -1}}},
		{
			// S3 keys are unique within the bucket.
			Keys:    bson.D{{Key: "objectKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
