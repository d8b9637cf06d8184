package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/lifeline/blood-donation-go/models"
)

type mongoRequests struct {
	col *mongo.Collection
}

func (f RequestFilter) toFilter() bson.M {
	filter := bson.M{}
	if f.RequesterEmail != "" {
		filter["requesterEmail"] = f.RequesterEmail
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}

func (s *mongoRequests) Insert(ctx context.Context, r *models.DonationRequest) (*mongo.InsertOneResult, error) {
	return s.col.InsertOne(ctx, r)
}

func (s *mongoRequests) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DonationRequest, error) {
	return findOne[models.DonationRequest](ctx, s.col, bson.M{"_id": id})
}

func (s *mongoRequests) List(ctx context.Context, f RequestFilter, p Page) (*Paged[models.DonationRequest], error) {
	return paginate[models.DonationRequest](ctx, s.col, f.toFilter(), p)
}

func (s *mongoRequests) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*mongo.UpdateResult, error) {
	return s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

func (s *mongoRequests) UpdateStatus(ctx context.Context, id primitive.ObjectID, from models.DonationStatus, set bson.M) (*mongo.UpdateResult, error) {
	filter := bson.M{"_id": id, "status": from}
	if from == "" {
		// a null match also covers documents with no status field
		filter["status"] = bson.M{"$in": bson.A{"", nil}}
	}
	return s.col.UpdateOne(ctx, filter, bson.M{"$set": set})
}

func (s *mongoRequests) Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	return s.col.DeleteOne(ctx, bson.M{"_id": id})
}

func (s *mongoRequests) Count(ctx context.Context, f RequestFilter) (int64, error) {
	return s.col.CountDocuments(ctx, f.toFilter())
}
