package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection     = "users"
	requestsCollection  = "donationRequests"
	postsCollection     = "blogs"
	paymentsCollection  = "payments"
	districtsCollection = "districts"
	upazilasCollection  = "upazilas"
)

// NewMongo returns a Store backed by the given database.
func NewMongo(db *mongo.Database) *Store {
	return &Store{
		Users:     &mongoUsers{col: db.Collection(usersCollection)},
		Requests:  &mongoRequests{col: db.Collection(requestsCollection)},
		Posts:     &mongoPosts{col: db.Collection(postsCollection)},
		Payments:  &mongoPayments{col: db.Collection(paymentsCollection)},
		Locations: &mongoLocations{districts: db.Collection(districtsCollection), upazilas: db.Collection(upazilasCollection)},
	}
}

// EnsureIndexes creates the indexes the queries rely on. Safe to call on
// every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "bloodGroup", Value: 1}, {Key: "district", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	_, err = db.Collection(requestsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "requesterEmail", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("donation request indexes: %w", err)
	}
	return nil
}

type facetResult[T any] struct {
	Items []T `bson:"items"`
	Total []struct {
		N int64 `bson:"n"`
	} `bson:"total"`
}

// paginate runs the page fetch and the total count as one $facet
// aggregation so both reflect the same snapshot. Newest documents first.
func paginate[T any](ctx context.Context, col *mongo.Collection, filter bson.M, p Page) (*Paged[T], error) {
	if p.Size <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", p.Size)
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$facet", Value: bson.D{
			{Key: "items", Value: bson.A{
				bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
				bson.D{{Key: "$skip", Value: p.Skip()}},
				bson.D{{Key: "$limit", Value: p.Size}},
			}},
			{Key: "total", Value: bson.A{
				bson.D{{Key: "$count", Value: "n"}},
			}},
		}}},
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var out []facetResult[T]
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}

	res := &Paged[T]{Items: []T{}}
	if len(out) == 0 {
		return res, nil
	}
	if out[0].Items != nil {
		res.Items = out[0].Items
	}
	if len(out[0].Total) > 0 {
		res.Total = out[0].Total[0].N
	}
	return res, nil
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.M) (*T, error) {
	var doc T
	if err := col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
}
