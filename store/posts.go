package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/lifeline/blood-donation-go/models"
)

type mongoPosts struct {
	col *mongo.Collection
}

func (s *mongoPosts) Insert(ctx context.Context, p *models.BlogPost) (*mongo.InsertOneResult, error) {
	return s.col.InsertOne(ctx, p)
}

func (s *mongoPosts) FindByID(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, error) {
	return findOne[models.BlogPost](ctx, s.col, bson.M{"_id": id})
}

// List returns every post when status is empty.
func (s *mongoPosts) List(ctx context.Context, status models.PostStatus) ([]models.BlogPost, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return findAll[models.BlogPost](ctx, s.col, filter, newestFirst())
}

func (s *mongoPosts) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*mongo.UpdateResult, error) {
	return s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

func (s *mongoPosts) Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	return s.col.DeleteOne(ctx, bson.M{"_id": id})
}
