package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/repository"
)

type mongoCoachApplicationRepository struct {
	collection *mongo.Collection
}

func NewMongoCoachApplicationRepository(db *mongo.Database) repository.CoachApplicationRepository {
	return &mongoCoachApplicationRepository{collection: db.Collection(coachApplicationsCollection)}
}

func (r *mongoCoachApplicationRepository) Create(ctx context.Context, application *domain.CoachApplication) error {
	_, err := r.collection.InsertOne(ctx, application)
	return mapErr(err)
}

func (r *mongoCoachApplicationRepository) GetByID(ctx context.Context, id domain.CoachApplicationID) (*domain.CoachApplication, error) {
	return findOne[domain.CoachApplication](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoCoachApplicationRepository) GetPendingByUserID(ctx context.Context, userID domain.UserID) (*domain.CoachApplication, error) {
	return findOne[domain.CoachApplication](ctx, r.collection, bson.M{
		"userId": userID,
		"status": domain.ApplicationPending,
	})
}

// GetByStatus lists applications oldest first so admins work the queue in order.
func (r *mongoCoachApplicationRepository) GetByStatus(ctx context.Context, status domain.CoachApplicationStatus) ([]domain.CoachApplication, error) {
	return findAll[domain.CoachApplication](ctx, r.collection, bson.M{"status": status},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (r *mongoCoachApplicationRepository) Update(ctx context.Context, application *domain.CoachApplication) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": application.ID},
		bson.M{"$set": bson.M{
			"status":    application.Status,
			"remarks":   application.Remarks,
			"closedBy":  application.ClosedBy,
			"updatedAt": application.UpdatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func EnsureCoachApplicationIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
		{
			// One open application per user.
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.ApplicationPending}),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
