package mongo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"golang.org/x/sync/errgroup"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// Collection names.
const (
	usersCollection              = "users"
	exercisesCollection          = "exercises"
	muscleGroupsCollection       = "muscle_groups"
	musclesCollection            = "muscles"
	workoutsCollection           = "workouts"
	coachesCollection            = "coaches"
	administratorsCollection     = "administrators"
	coachApplicationsCollection  = "coach_applications"
	passwordResetTokenCollection = "password_reset_tokens"
	uploadsCollection            = "uploads"
)

// ConnectDB establishes a connection to MongoDB using the provided URI and
// verifies it with a ping. When tracing is true every command is traced.
func ConnectDB(ctx context.Context, uri string, tracing bool) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	if tracing {
		clientOptions.SetMonitor(otelmongo.NewMonitor())
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("ping: %w", err)
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection concurrently.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	g, ctx := errgroup.WithContext(ctx)
	ensure := func(name string, fn func(context.Context, *mongo.Collection) error) {
		g.Go(func() error {
			if err := fn(ctx, db.Collection(name)); err != nil {
				return fmt.Errorf("indexes for %s: %w", name, err)
			}
			return nil
		})
	}

	ensure(usersCollection, EnsureUserIndexes)
	ensure(exercisesCollection, EnsureExerciseIndexes)
	ensure(muscleGroupsCollection, EnsureMuscleGroupIndexes)
	ensure(musclesCollection, EnsureMuscleIndexes)
	ensure(workoutsCollection, EnsureWorkoutIndexes)
	ensure(coachesCollection, EnsureCoachIndexes)
	ensure(administratorsCollection, EnsureAdministratorIndexes)
	ensure(coachApplicationsCollection, EnsureCoachApplicationIndexes)
	ensure(passwordResetTokenCollection, EnsurePasswordResetTokenIndexes)
	ensure(uploadsCollection, EnsureUploadIndexes)

	return g.Wait()
}

// searchFilter matches query as a case-insensitive substring of name or description.
func searchFilter(query string) bson.M {
	query = strings.TrimSpace(query)
	if query == "" {
		return bson.M{}
	}
	pattern := regexp.QuoteMeta(query)
	return bson.M{"$or": bson.A{
		bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}},
		bson.M{"description": bson.M{"$regex": pattern, "$options": "i"}},
	}}
}

// withIDs scopes filter to the given _id values.
func withIDs[T any](filter bson.M, ids []T) bson.M {
	if ids == nil {
		ids = []T{}
	}
	filter["_id"] = bson.M{"$in": ids}
	return filter
}

// findAll runs a find and decodes every document into T.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// findOne decodes a single document, mapping no documents to repository.ErrNotFound.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOneOptions) (*T, error) {
	var item T
	if err := coll.FindOne(ctx, filter, opts...).Decode(&item); err != nil {
		return nil, mapErr(err)
	}
	return &item, nil
}

// byName sorts results alphabetically, ignoring case; paging re-sorts in memory as requested.
func byName() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetCollation(caseInsensitive)
}

// caseInsensitive is the collation used for unique-name lookups.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}
