package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/lifeline/blood-donation-go/models"
)

type mongoUsers struct {
	col *mongo.Collection
}

func (s *mongoUsers) Insert(ctx context.Context, u *models.User) (*mongo.InsertOneResult, error) {
	return s.col.InsertOne(ctx, u)
}

func (s *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.col, bson.M{"email": email})
}

func (s *mongoUsers) List(ctx context.Context, f UserFilter, p Page) (*Paged[models.User], error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return paginate[models.User](ctx, s.col, filter, p)
}

func (s *mongoUsers) UpdateByEmail(ctx context.Context, email string, set bson.M) (*mongo.UpdateResult, error) {
	return s.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set})
}

func (s *mongoUsers) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*mongo.UpdateResult, error) {
	return s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

func (s *mongoUsers) SearchDonors(ctx context.Context, q DonorQuery) ([]models.User, error) {
	filter := bson.M{
		"role":   models.RoleDonor,
		"status": bson.M{"$ne": models.UserBlocked},
	}
	if q.BloodGroup != "" {
		filter["bloodGroup"] = q.BloodGroup
	}
	if q.District != "" {
		filter["district"] = q.District
	}
	if q.Upazila != "" {
		filter["upazila"] = q.Upazila
	}
	return findAll[models.User](ctx, s.col, filter)
}

func (s *mongoUsers) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}
