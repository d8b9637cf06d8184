package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/lifeline/blood-donation-go/models"
)

type mongoPayments struct {
	col *mongo.Collection
}

func (s *mongoPayments) Insert(ctx context.Context, p *models.Payment) (*mongo.InsertOneResult, error) {
	return s.col.InsertOne(ctx, p)
}

func (s *mongoPayments) List(ctx context.Context, p Page) (*Paged[models.Payment], error) {
	return paginate[models.Payment](ctx, s.col, bson.M{}, p)
}

// Total sums the recorded amounts. An empty collection totals zero.
func (s *mongoPayments) Total(ctx context.Context) (float64, error) {
	cursor, err := s.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	})
	if err != nil {
		return 0, err
	}
	var out []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}
