package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/repository"
)

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
	coaches    *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(usersCollection),
		coaches:    db.Collection(coachesCollection),
	}
}

// Create inserts a new user. A taken email surfaces as repository.ErrDuplicateKey.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.collection.InsertOne(ctx, user)
	return mapErr(err)
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return findOne[domain.User](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoUserRepository) GetByIDs(ctx context.Context, ids []domain.UserID) ([]domain.User, error) {
	return findAll[domain.User](ctx, r.collection, withIDs(bson.M{}, ids))
}

// GetByEmail retrieves a user by their email address.
func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findOne[domain.User](ctx, r.collection, bson.M{"email": email})
}

// GetByCoachIDs resolves the coach profiles first, then loads their owners.
func (r *mongoUserRepository) GetByCoachIDs(ctx context.Context, coachIDs []domain.CoachID) ([]domain.User, error) {
	if len(coachIDs) == 0 {
		return []domain.User{}, nil
	}
	coaches, err := findAll[domain.Coach](ctx, r.coaches, withIDs(bson.M{}, coachIDs),
		options.Find().SetProjection(bson.M{"userId": 1}))
	if err != nil {
		return nil, err
	}
	userIDs := make([]domain.UserID, 0, len(coaches))
	for _, c := range coaches {
		userIDs = append(userIDs, c.UserID)
	}
	return r.GetByIDs(ctx, userIDs)
}

// Update overwrites the mutable fields of the user.
func (r *mongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	update := bson.M{
		"$set": bson.M{
			"firstName":           user.FirstName,
			"lastName":            user.LastName,
			"profileImage":        user.ProfileImage,
			"passwordHash":        user.PasswordHash,
			"roles":               user.Roles,
			"emailConfirmed":      user.EmailConfirmed,
			"savedExerciseIds":    user.SavedExerciseIDs,
			"savedMuscleIds":      user.SavedMuscleIDs,
			"savedMuscleGroupIds": user.SavedMuscleGroupIDs,
			"savedWorkoutIds":     user.SavedWorkoutIDs,
			"updatedAt":           user.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureUserIndexes creates necessary indexes for the users collection.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "savedExerciseIds", Value: 1}}},
		{Keys: bson.D{{Key: "savedWorkoutIds", Value: 1}}},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
