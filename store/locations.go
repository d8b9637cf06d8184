package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "github.com/lifeline/blood-donation-go/models"
)

type mongoLocations struct {
	districts *mongo.Collection
	upazilas  *mongo.Collection
}

func byName() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
}

func (s *mongoLocations) Districts(ctx context.Context) ([]models.District, error) {
	return findAll[models.District](ctx, s.districts, bson.M{}, byName())
}

func (s *mongoLocations) Upazilas(ctx context.Context, districtID string) ([]models.Upazila, error) {
	filter := bson.M{}
	if districtID != "" {
		filter["district_id"] = districtID
	}
	return findAll[models.Upazila](ctx, s.upazilas, filter, byName())
}
