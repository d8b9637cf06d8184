// Package store defines the collection-scoped persistence contracts the
// handlers depend on, and their MongoDB implementation.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/lifeline/blood-donation-go/models"
)

var ErrNotFound = errors.New("document not found")

// Page is a zero-based page window.
type Page struct {
	Index int64
	Size  int64
}

func (p Page) Skip() int64 { return p.Index * p.Size }

// Paged holds one page of documents together with the number of documents
// matching the filter, both taken from the same aggregation.
type Paged[T any] struct {
	Items []T
	Total int64
}

type UserFilter struct {
	Status string
}

// DonorQuery is an equality search; empty fields are not filtered on.
type DonorQuery struct {
	BloodGroup string
	District   string
	Upazila    string
}

type RequestFilter struct {
	RequesterEmail string
	Status         models.DonationStatus
}

type UserStore interface {
	Insert(ctx context.Context, u *models.User) (*mongo.InsertOneResult, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, f UserFilter, p Page) (*Paged[models.User], error)
	UpdateByEmail(ctx context.Context, email string, set bson.M) (*mongo.UpdateResult, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*mongo.UpdateResult, error)
	SearchDonors(ctx context.Context, q DonorQuery) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

type DonationRequestStore interface {
	Insert(ctx context.Context, r *models.DonationRequest) (*mongo.InsertOneResult, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.DonationRequest, error)
	List(ctx context.Context, f RequestFilter, p Page) (*Paged[models.DonationRequest], error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*mongo.UpdateResult, error)
	// UpdateStatus applies set only while the stored status still equals
	// from, so two racing transitions cannot both succeed.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from models.DonationStatus, set bson.M) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)
	Count(ctx context.Context, f RequestFilter) (int64, error)
}

type PostStore interface {
	Insert(ctx context.Context, p *models.BlogPost) (*mongo.InsertOneResult, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, error)
	List(ctx context.Context, status models.PostStatus) ([]models.BlogPost, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)
}

type PaymentStore interface {
	Insert(ctx context.Context, p *models.Payment) (*mongo.InsertOneResult, error)
	List(ctx context.Context, p Page) (*Paged[models.Payment], error)
	Total(ctx context.Context) (float64, error)
}

type LocationStore interface {
	Districts(ctx context.Context) ([]models.District, error)
	Upazilas(ctx context.Context, districtID string) ([]models.Upazila, error)
}

// Store groups the per-collection stores.
type Store struct {
	Users     UserStore
	Requests  DonationRequestStore
	Posts     PostStore
	Payments  PaymentStore
	Locations LocationStore
}
